package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/trusttree/internal/types"
)

const errorCountMismatchFormat = "%w at %s: count %d, children sum %d"

// ErrCountMismatch reports a directory whose count differs from the sum of its children.
var ErrCountMismatch = errors.New("count mismatch")

// Propagate recomputes every directory count bottom-up as the sum of its children
// and returns the resulting count of node. Leaves and childless directories keep
// their own count. Running it twice yields the same tree.
func Propagate(node *Node) int {
	if node == nil {
		return 0
	}
	if node.Leaf || len(node.Children) == 0 {
		return node.Count
	}
	total := 0
	for _, child := range node.Children {
		total += Propagate(child)
	}
	node.Count = total
	return total
}

// Verify returns ErrCountMismatch for the first directory, in pre-order, whose
// count disagrees with its children.
func Verify(node *Node) error {
	return verify(node, nil)
}

func verify(node *Node, ancestors []string) error {
	if node == nil || node.Leaf || len(node.Children) == 0 {
		return nil
	}
	location := append(ancestors, node.Name)
	childSum := 0
	for _, child := range node.Children {
		childSum += child.Count
	}
	if childSum != node.Count {
		return fmt.Errorf(errorCountMismatchFormat, ErrCountMismatch, joinLocation(location), node.Count, childSum)
	}
	for _, child := range node.Children {
		if childError := verify(child, location); childError != nil {
			return childError
		}
	}
	return nil
}

func joinLocation(location []string) string {
	if len(location) <= 1 {
		return types.RootName
	}
	return types.RootName + strings.Join(location[1:], types.PathSeparator)
}
