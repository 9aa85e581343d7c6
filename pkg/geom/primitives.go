package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned for primitives that cannot be built.
var ErrInvalidGeometry = errors.New("invalid geometry")

// DefaultSegments is the cylinder facet count used when none is configured.
// It keeps previews fast; raise it for final export.
const DefaultSegments = 32

// MinSegments is the smallest facet count that still encloses a volume.
const MinSegments = 3

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// Cylinder returns a cylinder of the given radius and height whose bottom
// cap is centred on center.
func Cylinder(radius, height float64, segments int, center Vec3) (*Node, error) {
	if segments < MinSegments {
		return nil, fmt.Errorf("%w: cylinder needs at least %d segments, got %d", ErrInvalidGeometry, MinSegments, segments)
	}
	if !finitePositive(radius) {
		return nil, fmt.Errorf("%w: cylinder radius is %v, must be positive", ErrInvalidGeometry, radius)
	}
	if !finitePositive(height) {
		return nil, fmt.Errorf("%w: cylinder height is %v, must be positive", ErrInvalidGeometry, height)
	}
	return &Node{
		Kind: KindCylinder,
		Data: CylinderData{Radius: radius, Height: height, Segments: segments, Center: center},
	}, nil
}

// Box returns an axis-aligned box with its minimum corner at corner.
func Box(width, depth, height float64, corner Vec3) (*Node, error) {
	if !finitePositive(width) || !finitePositive(depth) || !finitePositive(height) {
		return nil, fmt.Errorf("%w: box size %gx%gx%g, every side must be positive", ErrInvalidGeometry, width, depth, height)
	}
	return &Node{
		Kind: KindBox,
		Data: BoxData{Size: Vec3{X: width, Y: depth, Z: height}, Corner: corner},
	}, nil
}

// Union returns the union of the given nodes.
func Union(nodes ...*Node) (*Node, error) {
	if err := checkOperands("union", nodes); err != nil {
		return nil, err
	}
	return &Node{Kind: KindUnion, Children: nodes}, nil
}

// Difference returns base with every subtractor removed. With no
// subtractors the result is base itself.
func Difference(base *Node, subtractors ...*Node) (*Node, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: difference has no base", ErrInvalidGeometry)
	}
	if err := checkOperands("difference", append([]*Node{base}, subtractors...)); err != nil {
		return nil, err
	}
	children := make([]*Node, 0, len(subtractors)+1)
	children = append(children, base)
	children = append(children, subtractors...)
	return &Node{Kind: KindDifference, Children: children}, nil
}

// Intersection returns the volume common to every node.
func Intersection(nodes ...*Node) (*Node, error) {
	if err := checkOperands("intersection", nodes); err != nil {
		return nil, err
	}
	return &Node{Kind: KindIntersection, Children: nodes}, nil
}

// Rotate turns child by degrees about the vertical axis through pivot.
func Rotate(child *Node, degrees float64, pivot Vec3) (*Node, error) {
	if child == nil {
		return nil, fmt.Errorf("%w: rotate has no child", ErrInvalidGeometry)
	}
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return nil, fmt.Errorf("%w: rotation is %v degrees", ErrInvalidGeometry, degrees)
	}
	return &Node{
		Kind:     KindRotate,
		Data:     RotateData{Degrees: degrees, Pivot: pivot},
		Children: []*Node{child},
	}, nil
}

func checkOperands(op string, nodes []*Node) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: %s of nothing", ErrInvalidGeometry, op)
	}
	for i, n := range nodes {
		if n == nil {
			return fmt.Errorf("%w: %s operand %d is nil", ErrInvalidGeometry, op, i)
		}
	}
	return nil
}
