// Package geom defines the solid-geometry trees every part is built from:
// cylinders and boxes combined with boolean operators. Trees are immutable
// once built and are handed to exporters or a geometry kernel for
// evaluation.
package geom

import "fmt"

// Kind enumerates the types of nodes in a geometry tree.
type Kind int

const (
	KindCylinder     Kind = iota // faceted cylinder primitive
	KindBox                      // axis-aligned box primitive
	KindUnion                    // boolean union of all children
	KindDifference               // first child minus the rest
	KindIntersection             // boolean intersection of all children
	KindRotate                   // rotation of a single child about a vertical axis
)

func (k Kind) String() string {
	switch k {
	case KindCylinder:
		return "cylinder"
	case KindBox:
		return "box"
	case KindUnion:
		return "union"
	case KindDifference:
		return "difference"
	case KindIntersection:
		return "intersection"
	case KindRotate:
		return "rotate"
	default:
		return "unknown"
	}
}

// IsPrimitive reports whether nodes of this kind are leaves.
func (k Kind) IsPrimitive() bool {
	return k == KindCylinder || k == KindBox
}

// Vec3 is a point or size in millimetres.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Node is one element of a geometry tree.
type Node struct {
	Kind     Kind     `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Data     NodeData `json:"data,omitempty"`
	Children []*Node  `json:"children,omitempty"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// CylinderData is a cylinder standing on the XY plane. Center is the centre
// of the bottom cap.
type CylinderData struct {
	Radius   float64 `json:"radius"`
	Height   float64 `json:"height"`
	Segments int     `json:"segments"`
	Center   Vec3    `json:"center"`
}

func (CylinderData) nodeData() {}

// Diameter returns twice the radius.
func (c CylinderData) Diameter() float64 { return 2 * c.Radius }

// BoxData is an axis-aligned box. Corner is the minimum corner.
type BoxData struct {
	Size   Vec3 `json:"size"` // width (X) x depth (Y) x height (Z)
	Corner Vec3 `json:"corner"`
}

func (BoxData) nodeData() {}

// Max returns the maximum corner.
func (b BoxData) Max() Vec3 { return b.Corner.Add(b.Size) }

// RotateData turns its child by Degrees about the vertical axis through Pivot.
type RotateData struct {
	Degrees float64 `json:"degrees"`
	Pivot   Vec3    `json:"pivot"`
}

func (RotateData) nodeData() {}

// Named returns a shallow copy of n carrying the given name.
func (n *Node) Named(name string) *Node {
	c := *n
	c.Name = name
	return &c
}

// Walk visits n and every descendant depth first, parents before
// children. Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Count returns the number of nodes in the tree.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Cylinders returns the data of every cylinder in the tree in visiting
// order, with any enclosing rotations ignored.
func (n *Node) Cylinders() []CylinderData {
	var out []CylinderData
	n.Walk(func(c *Node) bool {
		if cd, ok := c.Data.(CylinderData); ok {
			out = append(out, cd)
		}
		return true
	})
	return out
}

// Boxes returns the data of every box in the tree in visiting order.
func (n *Node) Boxes() []BoxData {
	var out []BoxData
	n.Walk(func(c *Node) bool {
		if bd, ok := c.Data.(BoxData); ok {
			out = append(out, bd)
		}
		return true
	})
	return out
}
