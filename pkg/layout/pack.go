package layout

import (
	"math"

	"github.com/vanderheijden86/bubbles/pkg/debug"
	"github.com/vanderheijden86/bubbles/pkg/metrics"
)

// PackLayout turns weights into non-overlapping circles. Implementations must
// return one circle per value, in input order, with radius monotonic in value.
type PackLayout interface {
	Pack(values []float64) []Circle
}

// Pack is the front-chain circle packer. Leaves get a radius proportional to
// the square root of their value; siblings are separated by Padding and the
// whole packing is scaled to fit a Width x Height box.
type Pack struct {
	Width   float64
	Height  float64
	Padding float64
}

// NewPack returns a packer for a box of the given size.
func NewPack(width, height, padding float64) Pack {
	return Pack{Width: width, Height: height, Padding: padding}
}

// Pack lays out a flat list of values under a synthetic root.
func (p Pack) Pack(values []float64) []Circle {
	defer metrics.Timer(metrics.PackLayout)()

	root := NewHierarchy(values).Sum()
	p.Layout(root)

	circles := make([]Circle, len(values))
	for _, leaf := range root.Leaves() {
		circles[leaf.Index] = leaf.Circle()
	}
	debug.Log("pack: %d circles in %.0fx%.0f (root r=%.2f)", len(circles), p.Width, p.Height, root.R)
	return circles
}

// Layout assigns X, Y and R to every node of an already summed hierarchy.
func (p Pack) Layout(root *Node) *Node {
	root.X, root.Y = p.Width/2, p.Height/2
	side := math.Min(p.Width, p.Height)

	root.EachBefore(func(n *Node) {
		if len(n.Children) == 0 {
			n.R = math.Sqrt(math.Max(0, n.Value))
		}
	})
	root.EachAfter(packChildren(0))
	if root.R > 0 && side > 0 {
		root.EachAfter(packChildren(p.Padding * root.R / side))
	}

	if root.R <= 0 || side <= 0 {
		// Nothing has area: collapse everything onto the centre.
		root.EachBefore(func(n *Node) {
			n.X, n.Y, n.R = root.X, root.Y, 0
		})
		return root
	}

	k := side / (2 * root.R)
	root.EachBefore(func(n *Node) {
		n.R *= k
		if n.Parent != nil {
			n.X = n.Parent.X + k*n.X
			n.Y = n.Parent.Y + k*n.Y
		}
	})
	return root
}

// packChildren packs each inner node's children, temporarily growing them by
// pad so the gap survives the final rescale.
func packChildren(pad float64) func(*Node) {
	return func(n *Node) {
		if len(n.Children) == 0 {
			return
		}
		if pad != 0 {
			for _, c := range n.Children {
				c.R += pad
			}
		}
		e := packSiblings(n.Children)
		if pad != 0 {
			for _, c := range n.Children {
				c.R -= pad
			}
		}
		n.R = e + pad
	}
}
