// Package layout computes circle-packing geometry for a weighted hierarchy.
//
// The chart only ever builds a two-level hierarchy (a synthetic root whose
// children are the data points) but the packer works on any depth.
package layout

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Circle is a placed circle in canvas coordinates.
type Circle struct {
	Center r2.Vec
	R      float64
}

// Node is one element of the hierarchy. Leaves carry the index of the value
// they were built from; the root and inner nodes carry -1.
type Node struct {
	Index    int
	Value    float64
	X, Y, R  float64
	Depth    int
	Parent   *Node
	Children []*Node
}

// NewHierarchy wraps values as the children of a single synthetic root.
// Values are not summed until Sum is called.
func NewHierarchy(values []float64) *Node {
	root := &Node{Index: -1}
	root.Children = make([]*Node, len(values))
	for i, v := range values {
		root.Children[i] = &Node{Index: i, Value: v, Depth: 1, Parent: root}
	}
	return root
}

// Sum sets every inner node's value to the sum of its children, bottom-up.
func (n *Node) Sum() *Node {
	n.EachAfter(func(node *Node) {
		if len(node.Children) == 0 {
			return
		}
		vals := make([]float64, len(node.Children))
		for i, c := range node.Children {
			vals[i] = c.Value
		}
		node.Value = floats.Sum(vals)
	})
	return n
}

// Leaves returns the leaf nodes in input order. A root without children is
// not a leaf: it wraps an empty dataset.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.EachBefore(func(node *Node) {
		if len(node.Children) == 0 && node.Index >= 0 {
			out = append(out, node)
		}
	})
	return out
}

// EachBefore visits n and its descendants in pre-order.
func (n *Node) EachBefore(fn func(*Node)) {
	stack := []*Node{n}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(node)
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
}

// EachAfter visits the descendants of n before n itself (post-order).
func (n *Node) EachAfter(fn func(*Node)) {
	for _, c := range n.Children {
		c.EachAfter(fn)
	}
	fn(n)
}

// Circle returns the node's placed circle.
func (n *Node) Circle() Circle {
	return Circle{Center: r2.Vec{X: n.X, Y: n.Y}, R: n.R}
}
