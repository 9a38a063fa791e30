package tree

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/temirov/trusttree/internal/types"
)

const (
	extensionSeparator = "."
	leafWildcardPrefix = types.LeafWildcard + extensionSeparator

	errorInvalidExtensionModeFormat = "%w %q (expected last, full, or star)"
)

// ErrInvalidExtensionMode reports an extension mode outside last, full, and star.
var ErrInvalidExtensionMode = errors.New("invalid extension mode")

// Classification is a path reduced to its directory segments and leaf bucket.
type Classification struct {
	Segments []string
	Leaf     string
}

// ParseExtensionMode normalizes a user supplied extension mode.
func ParseExtensionMode(value string) (types.ExtensionMode, error) {
	normalized := types.ExtensionMode(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case types.ExtensionModeLast, types.ExtensionModeFull, types.ExtensionModeStar:
		return normalized, nil
	case "":
		return types.DefaultExtensionMode, nil
	default:
		return "", fmt.Errorf(errorInvalidExtensionModeFormat, ErrInvalidExtensionMode, value)
	}
}

// Classify splits a path into directory segments and the leaf wildcard of its basename.
// Relative paths are anchored at the root and the path is cleaned lexically.
// A path ending in a separator has no basename and lands in the * bucket.
func Classify(rawPath string, mode types.ExtensionMode) Classification {
	trimmedPath := strings.TrimSpace(rawPath)
	hasTrailingSeparator := strings.HasSuffix(trimmedPath, types.PathSeparator)
	cleanedPath := path.Clean(types.PathSeparator + trimmedPath)
	if cleanedPath == types.RootName {
		return Classification{Leaf: types.LeafWildcard}
	}

	segments := splitSegments(cleanedPath)
	if hasTrailingSeparator {
		return Classification{Segments: segments, Leaf: types.LeafWildcard}
	}
	lastIndex := len(segments) - 1
	return Classification{
		Segments: segments[:lastIndex],
		Leaf:     LeafLabel(segments[lastIndex], mode),
	}
}

// LeafLabel returns the wildcard bucket for a basename under the given mode.
// Dotfiles and names without a usable suffix always map to *.
func LeafLabel(basename string, mode types.ExtensionMode) string {
	if mode == types.ExtensionModeStar || basename == "" || strings.HasPrefix(basename, extensionSeparator) {
		return types.LeafWildcard
	}

	var dotIndex int
	if mode == types.ExtensionModeFull {
		dotIndex = strings.Index(basename, extensionSeparator)
	} else {
		dotIndex = strings.LastIndex(basename, extensionSeparator)
	}
	if dotIndex < 0 {
		return types.LeafWildcard
	}
	extension := basename[dotIndex+1:]
	if extension == "" {
		return types.LeafWildcard
	}
	return leafWildcardPrefix + extension
}

func splitSegments(cleanedPath string) []string {
	rawSegments := strings.Split(cleanedPath, types.PathSeparator)
	segments := make([]string, 0, len(rawSegments))
	for _, segment := range rawSegments {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
