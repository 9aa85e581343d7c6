package kernel

import (
	"math"
	"testing"
)

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	if !(&Mesh{}).IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	if (&Mesh{Vertices: []float32{1, 2, 3}}).IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh, want false")
	}
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{
		1, 2, 3,
		-4, 5, 0,
		2, -1, 9,
	}}
	min, max := m.Bounds()
	if min != [3]float32{-4, -1, 0} {
		t.Errorf("min = %v", min)
	}
	if max != [3]float32{2, 5, 9} {
		t.Errorf("max = %v", max)
	}

	lo, hi := (&Mesh{}).Bounds()
	if lo != ([3]float32{}) || hi != ([3]float32{}) {
		t.Errorf("empty Bounds() = %v, %v", lo, hi)
	}
}

func TestVertexNormals(t *testing.T) {
	// Two triangles of a unit square in the XY plane, wound counter-clockwise,
	// plus one vertex no triangle uses.
	vertices := []float32{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
		5, 5, 5,
	}
	indices := []uint32{0, 1, 2, 2, 3, 0}
	n := VertexNormals(vertices, indices)
	if len(n) != len(vertices) {
		t.Fatalf("len = %d, want %d", len(n), len(vertices))
	}
	for v := 0; v < 4; v++ {
		if n[v*3] != 0 || n[v*3+1] != 0 || math.Abs(float64(n[v*3+2])-1) > 1e-6 {
			t.Errorf("normal %d = %v, want +Z", v, n[v*3:v*3+3])
		}
	}
	if n[12] != 0 || n[13] != 0 || n[14] != 0 {
		t.Errorf("unused vertex normal = %v, want zero", n[12:15])
	}
}

func TestVertexNormalsAveragesAtEdge(t *testing.T) {
	// A +Z face and a +X face meeting along the Y axis.
	vertices := []float32{
		0, 0, 0,
		0, 1, 0,
		-1, 0, 0,
		0, 0, -1,
	}
	indices := []uint32{0, 1, 2, 0, 3, 1}
	n := VertexNormals(vertices, indices)
	want := float32(1 / math.Sqrt2)
	if d := n[0] - want; d > 1e-6 || d < -1e-6 {
		t.Errorf("shared vertex normal = %v, want (%v, 0, %v)", n[0:3], want, want)
	}
	if d := n[2] - want; d > 1e-6 || d < -1e-6 {
		t.Errorf("shared vertex normal = %v, want (%v, 0, %v)", n[0:3], want, want)
	}
}

// Compile-time interface check with a stub kernel.

type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel proves the interface is satisfiable. All methods return
// trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) (Solid, error) {
	return &stubSolid{maxBB: [3]float64{x, y, z}}, nil
}

func (k *stubKernel) Cylinder(height, radius float64, _ int) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, 0},
		maxBB: [3]float64{radius, radius, height},
	}, nil
}

func (k *stubKernel) Union(s ...Solid) Solid                   { return s[0] }
func (k *stubKernel) Difference(a, _ Solid) Solid              { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid            { return a }
func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) RotateZ(s Solid, _ float64) Solid         { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelCylinderBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Cylinder(30, 5, 16)
	if err != nil {
		t.Fatal(err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{-5, -5, 0} || max != [3]float64{5, 5, 30} {
		t.Errorf("Cylinder bounds = %v..%v", min, max)
	}
}
