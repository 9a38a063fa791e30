package tree

import (
	"sort"

	"github.com/temirov/trusttree/internal/types"
)

// Shape derives the display view of a count tree. The source tree is left untouched.
// Stages run in a fixed order: min-count pruning, top-N selection, depth truncation,
// and, when enabled, chain compaction.
func Shape(source *Node, config types.ShapingConfig) *Node {
	view := source.Clone()
	if view == nil {
		view = NewRoot()
	}
	Prune(view, config.MinCount)
	SelectTop(view, config.Top)
	Truncate(view, config.MaxDepth)
	if config.Compact {
		Compact(view)
	}
	return view
}

// Prune removes, at every level below node, children whose count is below minCount.
// node itself always survives and no ancestor count is reduced.
func Prune(node *Node, minCount int) {
	if node == nil || minCount <= 1 {
		return
	}
	kept := make([]*Node, 0, len(node.Children))
	for _, child := range node.Children {
		if child.Count < minCount {
			continue
		}
		Prune(child, minCount)
		kept = append(kept, child)
	}
	node.setChildren(kept)
}

// SelectTop orders the children of every node by count, highest first, with ties
// kept in insertion order, then keeps the first top of them. Zero keeps all.
func SelectTop(node *Node, top int) {
	if node == nil || len(node.Children) == 0 {
		return
	}
	ordered := make([]*Node, len(node.Children))
	copy(ordered, node.Children)
	sort.SliceStable(ordered, func(leftIndex, rightIndex int) bool {
		return ordered[leftIndex].Count > ordered[rightIndex].Count
	})
	if top > 0 && len(ordered) > top {
		ordered = ordered[:top]
	}
	node.setChildren(ordered)
	for _, child := range ordered {
		SelectTop(child, top)
	}
}

// Truncate drops every node deeper than maxDepth, with node at depth zero.
// Kept nodes retain the counts of their hidden descendants. Zero means unlimited.
func Truncate(node *Node, maxDepth int) {
	if node == nil || maxDepth <= 0 {
		return
	}
	node.Walk(func(current *Node, depth int) bool {
		if depth >= maxDepth {
			current.setChildren(nil)
			return false
		}
		return true
	})
}

// Compact merges every chain of single-child directories below node into one
// label joined by "/". The merged node takes the last link's count, children and
// leaf status. node itself is never merged into its child.
func Compact(node *Node) {
	if node == nil {
		return
	}
	for _, child := range node.Children {
		collapseChain(child)
		Compact(child)
	}
	node.setChildren(node.Children)
}

func collapseChain(node *Node) {
	for !node.Leaf && len(node.Children) == 1 {
		onlyChild := node.Children[0]
		node.Name = node.Name + types.PathSeparator + onlyChild.Name
		node.Count = onlyChild.Count
		node.Leaf = onlyChild.Leaf
		node.setChildren(onlyChild.Children)
	}
}
