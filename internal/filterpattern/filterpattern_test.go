package filterpattern_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/gobwas/glob"

	"github.com/temirov/trusttree/internal/filterpattern"
	"github.com/temirov/trusttree/internal/tree"
	"github.com/temirov/trusttree/internal/types"
)

var efiDumpPaths = []string{
	"/boot/efi/EFI/fedora/a.efi",
	"/boot/efi/EFI/fedora/b.efi",
	"/boot/efi/EFI/fedora/c.CSV",
	"/boot/efi/EFI/BOOT/x.EFI",
	"/vmlinuz",
}

func shapedView(t *testing.T, paths []string, config types.ShapingConfig) *tree.Node {
	t.Helper()
	root, buildError := tree.Build(paths, config)
	if buildError != nil {
		t.Fatalf("build: %v", buildError)
	}
	return tree.Shape(root, config)
}

func TestCollectByMode(t *testing.T) {
	extensionSuggestions := []string{
		"/*",
		"/boot/efi/EFI/BOOT/*.EFI",
		"/boot/efi/EFI/fedora/*.CSV",
		"/boot/efi/EFI/fedora/*.efi",
	}
	directorySuggestions := []string{
		"/boot/**",
		"/boot/efi/**",
		"/boot/efi/EFI/**",
		"/boot/efi/EFI/BOOT/**",
		"/boot/efi/EFI/fedora/**",
	}
	allSuggestions := []string{
		"/*",
		"/boot/**",
		"/boot/efi/**",
		"/boot/efi/EFI/**",
		"/boot/efi/EFI/BOOT/**",
		"/boot/efi/EFI/BOOT/*.EFI",
		"/boot/efi/EFI/fedora/**",
		"/boot/efi/EFI/fedora/*.CSV",
		"/boot/efi/EFI/fedora/*.efi",
	}

	testCases := []struct {
		name     string
		mode     types.FilterMode
		expected []string
	}{
		{name: "ext", mode: types.FilterModeExtension, expected: extensionSuggestions},
		{name: "dir", mode: types.FilterModeDirectory, expected: directorySuggestions},
		{name: "all", mode: types.FilterModeAll, expected: allSuggestions},
	}

	view := shapedView(t, efiDumpPaths, types.DefaultShapingConfig())
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := filterpattern.Collect(view, testCase.mode)
			if !reflect.DeepEqual(actual, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
		})
	}
}

func TestCollectFollowsShapedView(t *testing.T) {
	config := types.DefaultShapingConfig()
	config.MinCount = 2
	view := shapedView(t, efiDumpPaths, config)

	actual := filterpattern.Collect(view, types.FilterModeExtension)
	expected := []string{"/boot/efi/EFI/fedora/*.efi"}
	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

func TestCollectIgnoresCompaction(t *testing.T) {
	paths := append([]string{"/usr/lib64/python3.12/site-packages/six.py"}, efiDumpPaths...)
	expandedView := shapedView(t, paths, types.DefaultShapingConfig())
	config := types.DefaultShapingConfig()
	config.Compact = true
	compactedView := shapedView(t, paths, config)

	for _, mode := range []types.FilterMode{types.FilterModeExtension, types.FilterModeDirectory, types.FilterModeAll} {
		t.Run(string(mode), func(t *testing.T) {
			expanded := filterpattern.Collect(expandedView, mode)
			compacted := filterpattern.Collect(compactedView, mode)
			if !reflect.DeepEqual(compacted, expanded) {
				t.Fatalf("expected %v, got %v", expanded, compacted)
			}
		})
	}
}

// TestSuggestionsCoverSourcePaths compiles every suggestion as a glob and checks each
// input path is matched by at least one of them.
func TestSuggestionsCoverSourcePaths(t *testing.T) {
	paths := append([]string{
		"/usr/lib64/libc.so.6",
		"/usr/lib64/python3.12/os.py",
		"/usr/bin/bash",
	}, efiDumpPaths...)
	view := shapedView(t, paths, types.DefaultShapingConfig())

	for _, mode := range []types.FilterMode{types.FilterModeExtension, types.FilterModeDirectory} {
		var matchers []glob.Glob
		for _, suggestion := range filterpattern.Collect(view, mode) {
			compiled, compileError := glob.Compile(suggestion, '/')
			if compileError != nil {
				t.Fatalf("compile %q: %v", suggestion, compileError)
			}
			matchers = append(matchers, compiled)
		}
		for _, path := range paths {
			if mode == types.FilterModeDirectory && path == "/vmlinuz" {
				continue
			}
			covered := false
			for _, matcher := range matchers {
				if matcher.Match(path) {
					covered = true
					break
				}
			}
			if !covered {
				t.Errorf("mode %s: no suggestion matches %s", mode, path)
			}
		}
	}
}

func TestParseMode(t *testing.T) {
	mode, parseError := filterpattern.ParseMode("DIR")
	if parseError != nil || mode != types.FilterModeDirectory {
		t.Fatalf("expected dir mode, got %q (%v)", mode, parseError)
	}
	if _, parseError = filterpattern.ParseMode("glob"); !errors.Is(parseError, filterpattern.ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", parseError)
	}
}

func TestWrite(t *testing.T) {
	var buffer bytes.Buffer
	if writeError := filterpattern.Write(&buffer, []string{"/a/*.so", "/b/**"}); writeError != nil {
		t.Fatalf("write: %v", writeError)
	}
	if buffer.String() != "/a/*.so\n/b/**\n" {
		t.Fatalf("unexpected output %q", buffer.String())
	}
}
