// Package tree builds and shapes the directory/extension summary tree.
//
// A summary starts as a count tree produced by a Builder, where every
// directory's count equals the sum of its children's counts. Shape then
// derives a view from that tree for display: pruning, top-N selection,
// depth truncation and chain compaction all act on the view and never
// change the counts recorded at build time.
package tree

import "github.com/temirov/trusttree/internal/types"

// childKey separates leaf buckets from directories that happen to share a label.
type childKey struct {
	name string
	leaf bool
}

// Node is one directory or leaf bucket of a summary tree.
type Node struct {
	Name     string
	Count    int
	Leaf     bool
	Children []*Node

	index map[childKey]*Node
}

// NewRoot returns an empty root node labeled "/".
func NewRoot() *Node {
	return newNode(types.RootName, false)
}

func newNode(name string, leaf bool) *Node {
	return &Node{Name: name, Leaf: leaf}
}

// Child returns the child with the given label and kind, or nil.
func (node *Node) Child(name string, leaf bool) *Node {
	if node.index == nil {
		return nil
	}
	return node.index[childKey{name: name, leaf: leaf}]
}

// ensureChild returns the existing child or appends a new one, keeping insertion order.
func (node *Node) ensureChild(name string, leaf bool) *Node {
	if existing := node.Child(name, leaf); existing != nil {
		return existing
	}
	if node.index == nil {
		node.index = make(map[childKey]*Node)
	}
	created := newNode(name, leaf)
	node.index[childKey{name: name, leaf: leaf}] = created
	node.Children = append(node.Children, created)
	return created
}

// setChildren replaces the child list and rebuilds the lookup index.
func (node *Node) setChildren(children []*Node) {
	node.Children = children
	node.index = make(map[childKey]*Node, len(children))
	for _, child := range children {
		node.index[childKey{name: child.Name, leaf: child.Leaf}] = child
	}
}

// Clone returns a deep copy of the subtree rooted at node.
func (node *Node) Clone() *Node {
	if node == nil {
		return nil
	}
	cloned := &Node{Name: node.Name, Count: node.Count, Leaf: node.Leaf}
	if len(node.Children) == 0 {
		return cloned
	}
	clonedChildren := make([]*Node, 0, len(node.Children))
	for _, child := range node.Children {
		clonedChildren = append(clonedChildren, child.Clone())
	}
	cloned.setChildren(clonedChildren)
	return cloned
}

// Walk visits node and its descendants in pre-order with their depth, root at zero.
// Returning false from visit skips the node's children.
func (node *Node) Walk(visit func(current *Node, depth int) bool) {
	node.walk(0, visit)
}

func (node *Node) walk(depth int, visit func(current *Node, depth int) bool) {
	if node == nil || !visit(node, depth) {
		return
	}
	for _, child := range node.Children {
		child.walk(depth+1, visit)
	}
}
