package kernel

import "math"

// Mesh is a triangle mesh. All arrays are flat: vertices has 3 floats per
// vertex (x,y,z), normals has 3 floats per vertex, indices has 3 uint32s
// per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the axis-aligned extent of the vertices. Both corners are
// zero for an empty mesh.
func (m *Mesh) Bounds() (min, max [3]float32) {
	if m.IsEmpty() {
		return min, max
	}
	copy(min[:], m.Vertices[:3])
	copy(max[:], m.Vertices[:3])
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			v := m.Vertices[i+a]
			if v < min[a] {
				min[a] = v
			}
			if v > max[a] {
				max[a] = v
			}
		}
	}
	return min, max
}

// VertexNormals returns unit per-vertex normals for a flat vertex and
// index layout, averaging the area-weighted normals of the triangles that
// share each vertex. Vertices used by no triangle get a zero normal.
func VertexNormals(vertices []float32, indices []uint32) []float32 {
	normals := make([]float32, len(vertices)/3*3)
	at := func(i uint32) (x, y, z float64) {
		return float64(vertices[i*3]), float64(vertices[i*3+1]), float64(vertices[i*3+2])
	}
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		ax, ay, az := at(i0)
		bx, by, bz := at(i1)
		cx, cy, cz := at(i2)
		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az
		n := [3]float32{
			float32(e1y*e2z - e1z*e2y),
			float32(e1z*e2x - e1x*e2z),
			float32(e1x*e2y - e1y*e2x),
		}
		for _, idx := range [3]uint32{i0, i1, i2} {
			for a := 0; a < 3; a++ {
				normals[idx*3+uint32(a)] += n[a]
			}
		}
	}
	for i := 0; i+2 < len(normals); i += 3 {
		x, y, z := float64(normals[i]), float64(normals[i+1]), float64(normals[i+2])
		if l := math.Sqrt(x*x + y*y + z*z); l > 1e-12 {
			normals[i] = float32(x / l)
			normals[i+1] = float32(y / l)
			normals[i+2] = float32(z / l)
		}
	}
	return normals
}
