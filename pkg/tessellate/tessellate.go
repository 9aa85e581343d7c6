// Package tessellate evaluates a geometry tree on a geometry kernel,
// producing a kernel solid or a triangle mesh. The tree is never mutated.
package tessellate

import (
	"fmt"

	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/kernel"
)

// Solid evaluates n on k.
func Solid(n *geom.Node, k kernel.Kernel) (kernel.Solid, error) {
	if n == nil {
		return nil, fmt.Errorf("tessellate: nil geometry")
	}
	return walkNode(n, k)
}

// Mesh evaluates n on k and meshes the result. The mesh is named after the
// root node.
func Mesh(n *geom.Node, k kernel.Kernel) (*kernel.Mesh, error) {
	s, err := Solid(n, k)
	if err != nil {
		return nil, err
	}
	m, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", label(n), err)
	}
	m.PartName = n.Name
	return m, nil
}

func label(n *geom.Node) string {
	if n.Name != "" {
		return fmt.Sprintf("%s %q", n.Kind, n.Name)
	}
	return n.Kind.String()
}

// walkNode recursively turns a node and its children into a solid.
func walkNode(n *geom.Node, k kernel.Kernel) (kernel.Solid, error) {
	switch n.Kind {
	case geom.KindCylinder, geom.KindBox:
		return handlePrimitive(n, k)

	case geom.KindRotate:
		return handleRotate(n, k)

	case geom.KindUnion, geom.KindDifference, geom.KindIntersection:
		return handleBoolean(n, k)

	default:
		return nil, fmt.Errorf("tessellate: unknown node kind: %v", n.Kind)
	}
}

// handlePrimitive builds the kernel primitive and moves it into place.
func handlePrimitive(n *geom.Node, k kernel.Kernel) (kernel.Solid, error) {
	switch d := n.Data.(type) {
	case geom.CylinderData:
		s, err := k.Cylinder(d.Height, d.Radius, d.Segments)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %s: %w", label(n), err)
		}
		return translate(k, s, d.Center), nil
	case geom.BoxData:
		s, err := k.Box(d.Size.X, d.Size.Y, d.Size.Z)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %s: %w", label(n), err)
		}
		return translate(k, s, d.Corner), nil
	default:
		return nil, fmt.Errorf("tessellate: primitive %s has unsupported data type %T", label(n), n.Data)
	}
}

func translate(k kernel.Kernel, s kernel.Solid, v geom.Vec3) kernel.Solid {
	if v.X == 0 && v.Y == 0 && v.Z == 0 {
		return s
	}
	return k.Translate(s, v.X, v.Y, v.Z)
}

// handleRotate turns the child about the vertical axis through the pivot.
func handleRotate(n *geom.Node, k kernel.Kernel) (kernel.Solid, error) {
	rd, ok := n.Data.(geom.RotateData)
	if !ok {
		return nil, fmt.Errorf("tessellate: rotate node has unexpected data type %T", n.Data)
	}
	if len(n.Children) != 1 {
		return nil, fmt.Errorf("tessellate: rotate node has %d children, want 1", len(n.Children))
	}
	child, err := walkNode(n.Children[0], k)
	if err != nil {
		return nil, err
	}
	p := rd.Pivot
	s := k.Translate(child, -p.X, -p.Y, -p.Z)
	s = k.RotateZ(s, rd.Degrees)
	return k.Translate(s, p.X, p.Y, p.Z), nil
}

// handleBoolean folds the children with the node's operator.
func handleBoolean(n *geom.Node, k kernel.Kernel) (kernel.Solid, error) {
	if len(n.Children) == 0 {
		return nil, fmt.Errorf("tessellate: %s has no children", label(n))
	}
	solids := make([]kernel.Solid, 0, len(n.Children))
	for _, c := range n.Children {
		s, err := walkNode(c, k)
		if err != nil {
			return nil, err
		}
		solids = append(solids, s)
	}

	switch n.Kind {
	case geom.KindUnion:
		return k.Union(solids...), nil
	case geom.KindDifference:
		if len(solids) == 1 {
			return solids[0], nil
		}
		return k.Difference(solids[0], k.Union(solids[1:]...)), nil
	default:
		acc := solids[0]
		for _, s := range solids[1:] {
			acc = k.Intersection(acc, s)
		}
		return acc, nil
	}
}
