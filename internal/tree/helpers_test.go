package tree_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/trusttree/internal/tree"
	"github.com/temirov/trusttree/internal/types"
)

// efiPaths is the dump excerpt used across the tree tests.
var efiPaths = []string{
	"/boot/efi/EFI/fedora/a.efi",
	"/boot/efi/EFI/fedora/b.efi",
	"/boot/efi/EFI/fedora/c.CSV",
	"/boot/efi/EFI/BOOT/x.EFI",
}

func buildTree(t *testing.T, paths []string, mutate func(config *types.ShapingConfig)) *tree.Node {
	t.Helper()
	config := types.DefaultShapingConfig()
	if mutate != nil {
		mutate(&config)
	}
	root, buildError := tree.Build(paths, config)
	require.NoError(t, buildError)
	return root
}

// descend follows labels from node and fails the test when a label is missing.
func descend(t *testing.T, node *tree.Node, labels ...string) *tree.Node {
	t.Helper()
	current := node
	for _, label := range labels {
		var next *tree.Node
		for _, child := range current.Children {
			if child.Name == label {
				next = child
				break
			}
		}
		require.NotNilf(t, next, "missing child %q under %q", label, current.Name)
		current = next
	}
	return current
}

func childNames(node *tree.Node) []string {
	names := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		names = append(names, child.Name)
	}
	return names
}

// leafCounts maps each leaf's label path to its count.
func leafCounts(node *tree.Node) map[string]int {
	counts := map[string]int{}
	var walk func(current *tree.Node, prefix string)
	walk = func(current *tree.Node, prefix string) {
		for _, child := range current.Children {
			label := prefix + "/" + child.Name
			if child.Leaf {
				counts[label] = child.Count
				continue
			}
			walk(child, label)
		}
	}
	walk(node, "")
	return counts
}
