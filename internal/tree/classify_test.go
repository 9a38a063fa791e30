package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/trusttree/internal/tree"
	"github.com/temirov/trusttree/internal/types"
)

func TestLeafLabelByExtensionMode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		basename string
		mode     types.ExtensionMode
		expected string
	}{
		{name: "last_multi_dot", basename: "archive.tar.gz", mode: types.ExtensionModeLast, expected: "*.gz"},
		{name: "full_multi_dot", basename: "archive.tar.gz", mode: types.ExtensionModeFull, expected: "*.tar.gz"},
		{name: "star_multi_dot", basename: "archive.tar.gz", mode: types.ExtensionModeStar, expected: "*"},
		{name: "last_no_dot", basename: "README", mode: types.ExtensionModeLast, expected: "*"},
		{name: "full_no_dot", basename: "README", mode: types.ExtensionModeFull, expected: "*"},
		{name: "star_no_dot", basename: "README", mode: types.ExtensionModeStar, expected: "*"},
		{name: "dotfile", basename: ".bashrc", mode: types.ExtensionModeLast, expected: "*"},
		{name: "trailing_dot", basename: "notes.", mode: types.ExtensionModeLast, expected: "*"},
		{name: "case_preserved", basename: "x.EFI", mode: types.ExtensionModeLast, expected: "*.EFI"},
		{name: "empty", basename: "", mode: types.ExtensionModeFull, expected: "*"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, tree.LeafLabel(testCase.basename, testCase.mode))
		})
	}
}

func TestClassifySplitsDirectoriesAndLeaf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name             string
		path             string
		expectedSegments []string
		expectedLeaf     string
	}{
		{name: "nested_file", path: "/boot/efi/EFI/fedora/shimx64.efi", expectedSegments: []string{"boot", "efi", "EFI", "fedora"}, expectedLeaf: "*.efi"},
		{name: "file_at_root", path: "/vmlinuz", expectedSegments: []string{}, expectedLeaf: "*"},
		{name: "bare_root", path: "/", expectedSegments: nil, expectedLeaf: "*"},
		{name: "trailing_separator", path: "/usr/lib64/", expectedSegments: []string{"usr", "lib64"}, expectedLeaf: "*"},
		{name: "duplicate_separators", path: "//usr///bin//ls", expectedSegments: []string{"usr", "bin"}, expectedLeaf: "*"},
		{name: "relative_path_anchored", path: "usr/lib/libc.so.6", expectedSegments: []string{"usr", "lib"}, expectedLeaf: "*.6"},
		{name: "parent_references_resolved", path: "/usr/lib/../bin/python3.12", expectedSegments: []string{"usr", "bin"}, expectedLeaf: "*.12"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			classification := tree.Classify(testCase.path, types.ExtensionModeLast)
			assert.Equal(t, testCase.expectedLeaf, classification.Leaf)
			if len(testCase.expectedSegments) == 0 {
				assert.Empty(t, classification.Segments)
				return
			}
			assert.Equal(t, testCase.expectedSegments, classification.Segments)
		})
	}
}

func TestParseExtensionMode(t *testing.T) {
	t.Parallel()

	mode, parseError := tree.ParseExtensionMode(" FULL ")
	require.NoError(t, parseError)
	assert.Equal(t, types.ExtensionModeFull, mode)

	mode, parseError = tree.ParseExtensionMode("")
	require.NoError(t, parseError)
	assert.Equal(t, types.ExtensionModeLast, mode)

	_, parseError = tree.ParseExtensionMode("first")
	require.ErrorIs(t, parseError, tree.ErrInvalidExtensionMode)
}
