// Package filterpattern derives fapolicyd filter suggestions from a shaped summary tree.
//
// Suggestions are informational: they describe what the view shows and never
// filter anything themselves. In extension mode every visible leaf bucket
// becomes "<directory>/<wildcard>", in directory mode every visible directory
// below the root becomes "<directory>/**", and all mode emits both. Compaction
// changes labels only, so a compacted view yields the same suggestions.
package filterpattern

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/temirov/trusttree/internal/tree"
	"github.com/temirov/trusttree/internal/types"
	"github.com/temirov/trusttree/internal/utils"
)

const (
	recursiveGlob = "**"

	errorInvalidModeFormat = "%w %q (expected ext, dir, or all)"
	errorWriteFormat       = "write filter suggestion: %w"
)

// ErrInvalidMode reports a filter mode outside ext, dir, and all.
var ErrInvalidMode = errors.New("invalid filter mode")

// ParseMode normalizes a user supplied filter mode.
func ParseMode(value string) (types.FilterMode, error) {
	normalized := types.FilterMode(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case types.FilterModeExtension, types.FilterModeDirectory, types.FilterModeAll:
		return normalized, nil
	case "":
		return types.DefaultFilterMode, nil
	default:
		return "", fmt.Errorf(errorInvalidModeFormat, ErrInvalidMode, value)
	}
}

// Collect returns the sorted, deduplicated suggestions for view.
func Collect(view *tree.Node, mode types.FilterMode) []string {
	if view == nil {
		return nil
	}
	includeExtensions := mode == types.FilterModeExtension || mode == types.FilterModeAll
	includeDirectories := mode == types.FilterModeDirectory || mode == types.FilterModeAll

	var suggestions []string
	var walk func(node *tree.Node, directoryPath string)
	walk = func(node *tree.Node, directoryPath string) {
		for _, child := range node.Children {
			childPath := joinPath(directoryPath, child.Name)
			if includeDirectories {
				suggestions = append(suggestions, directoryGlobs(directoryPath, child)...)
			}
			if child.Leaf {
				if includeExtensions {
					suggestions = append(suggestions, childPath)
				}
				continue
			}
			walk(child, childPath)
		}
	}
	walk(view, types.RootName)

	suggestions = utils.DeduplicatePatterns(suggestions)
	sort.Strings(suggestions)
	return suggestions
}

// Write prints one suggestion per line.
func Write(writer io.Writer, suggestions []string) error {
	for _, suggestion := range suggestions {
		if _, writeError := fmt.Fprintln(writer, suggestion); writeError != nil {
			return fmt.Errorf(errorWriteFormat, writeError)
		}
	}
	return nil
}

// directoryGlobs returns one recursive glob per directory named by child's label.
// A compacted label such as "BOOT/*.EFI" still names the BOOT directory.
func directoryGlobs(directoryPath string, child *tree.Node) []string {
	segments := strings.Split(child.Name, types.PathSeparator)
	if child.Leaf {
		segments = segments[:len(segments)-1]
	}
	globs := make([]string, 0, len(segments))
	prefixPath := directoryPath
	for _, segment := range segments {
		prefixPath = joinPath(prefixPath, segment)
		globs = append(globs, joinPath(prefixPath, recursiveGlob))
	}
	return globs
}

func joinPath(directoryPath, label string) string {
	if directoryPath == types.RootName {
		return types.RootName + label
	}
	return directoryPath + types.PathSeparator + label
}
