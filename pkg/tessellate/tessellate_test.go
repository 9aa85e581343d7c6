package tessellate_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/kernel"
	"github.com/chazu/platestamper/pkg/kernel/sdfx"
	"github.com/chazu/platestamper/pkg/parts"
	"github.com/chazu/platestamper/pkg/plate"
	"github.com/chazu/platestamper/pkg/tessellate"
)

// newKernel returns a coarse sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.NewWithCells(40)
}

// traceSolid records the operations that produced it.
type traceSolid struct {
	op string
}

func (s *traceSolid) BoundingBox() (min, max [3]float64) { return }

// traceKernel builds solids whose op strings spell out the kernel calls.
type traceKernel struct{}

func op(s kernel.Solid) string { return s.(*traceSolid).op }

func (traceKernel) Box(x, y, z float64) (kernel.Solid, error) {
	return &traceSolid{fmt.Sprintf("box(%g,%g,%g)", x, y, z)}, nil
}

func (traceKernel) Cylinder(h, r float64, n int) (kernel.Solid, error) {
	return &traceSolid{fmt.Sprintf("cyl(%g,%g,%d)", h, r, n)}, nil
}

func (traceKernel) Union(s ...kernel.Solid) kernel.Solid {
	ops := make([]string, len(s))
	for i := range s {
		ops[i] = op(s[i])
	}
	return &traceSolid{"union(" + strings.Join(ops, ",") + ")"}
}

func (traceKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return &traceSolid{"diff(" + op(a) + "," + op(b) + ")"}
}

func (traceKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return &traceSolid{"inter(" + op(a) + "," + op(b) + ")"}
}

func (traceKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return &traceSolid{fmt.Sprintf("move(%s,%g,%g,%g)", op(s), x, y, z)}
}

func (traceKernel) RotateZ(s kernel.Solid, deg float64) kernel.Solid {
	return &traceSolid{fmt.Sprintf("rot(%s,%g)", op(s), deg)}
}

func (traceKernel) ToMesh(kernel.Solid) (*kernel.Mesh, error) {
	return &kernel.Mesh{}, nil
}

func mustNode(t *testing.T) func(*geom.Node, error) *geom.Node {
	return func(n *geom.Node, err error) *geom.Node {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		return n
	}
}

func TestSolidOperationOrder(t *testing.T) {
	base := mustNode(t)(geom.Box(10, 10, 2, geom.Vec3{}))
	hole := mustNode(t)(geom.Cylinder(1, 3, 8, geom.Vec3{X: 5, Y: 5}))
	turned := mustNode(t)(geom.Rotate(hole, 45, geom.Vec3{X: 5, Y: 5}))
	root := mustNode(t)(geom.Difference(base, turned))

	s, err := tessellate.Solid(root, traceKernel{})
	if err != nil {
		t.Fatalf("Solid() error = %v", err)
	}
	want := "diff(box(10,10,2),union(move(rot(move(move(cyl(3,1,8),5,5,0),-5,-5,-0),45),5,5,0)))"
	if got := op(s); got != want {
		t.Errorf("ops =\n%s\nwant\n%s", got, want)
	}
}

func TestIntersectionFolds(t *testing.T) {
	a := mustNode(t)(geom.Box(1, 1, 1, geom.Vec3{}))
	b := mustNode(t)(geom.Box(2, 2, 2, geom.Vec3{}))
	c := mustNode(t)(geom.Box(3, 3, 3, geom.Vec3{}))
	root := mustNode(t)(geom.Intersection(a, b, c))

	s, err := tessellate.Solid(root, traceKernel{})
	if err != nil {
		t.Fatal(err)
	}
	want := "inter(inter(box(1,1,1),box(2,2,2)),box(3,3,3))"
	if got := op(s); got != want {
		t.Errorf("ops = %s, want %s", got, want)
	}
}

func TestNilAndMalformed(t *testing.T) {
	if _, err := tessellate.Solid(nil, traceKernel{}); err == nil {
		t.Error("Solid(nil) succeeded")
	}
	bad := &geom.Node{Kind: geom.KindRotate, Data: geom.RotateData{Degrees: 10}}
	if _, err := tessellate.Solid(bad, traceKernel{}); err == nil {
		t.Error("rotate without child succeeded")
	}
	empty := &geom.Node{Kind: geom.KindUnion}
	if _, err := tessellate.Solid(empty, traceKernel{}); err == nil {
		t.Error("empty union succeeded")
	}
}

func TestMeshIsNamedAfterRoot(t *testing.T) {
	k := newKernel()
	box := mustNode(t)(geom.Box(100, 50, 10, geom.Vec3{X: 200, Y: 100, Z: 50}))

	m, err := tessellate.Mesh(box.Named("shelf"), k)
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh should not be empty")
	}
	if m.PartName != "shelf" {
		t.Errorf("PartName = %q, want %q", m.PartName, "shelf")
	}

	// 100x50x10 placed at (200,100,50) spans (200,100,50)-(300,150,60).
	min, max := m.Bounds()
	const tol = 5.0
	for i, want := range [3]float64{200, 100, 50} {
		if abs(float64(min[i])-want) > tol {
			t.Errorf("min[%d] = %.1f, want near %v", i, min[i], want)
		}
	}
	for i, want := range [3]float64{300, 150, 60} {
		if abs(float64(max[i])-want) > tol {
			t.Errorf("max[%d] = %.1f, want near %v", i, max[i], want)
		}
	}
}

func TestStampMeshes(t *testing.T) {
	s := plate.SBS96(plate.WithSegments(8))
	g, err := plate.Compute(s)
	if err != nil {
		t.Fatal(err)
	}
	root, err := parts.Stamp(s, g)
	if err != nil {
		t.Fatal(err)
	}
	m, err := tessellate.Mesh(root, newKernel())
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	if m.TriangleCount() == 0 {
		t.Fatal("stamp mesh has no triangles")
	}
	if m.PartName != parts.StampName {
		t.Errorf("PartName = %q", m.PartName)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
