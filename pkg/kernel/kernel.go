// Package kernel defines the abstract geometry kernel a geometry tree is
// evaluated on. Implementations turn primitives and booleans into solids
// and solids into triangle meshes.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
//
// Box places its minimum corner at the origin. Cylinder stands on the XY
// plane with its axis on Z, approximated by a regular prism of the given
// number of segments.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64, segments int) (Solid, error)

	// Boolean operations
	Union(solids ...Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	RotateZ(s Solid, degrees float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

// STLWriter is implemented by kernels that can write a solid straight to
// an STL file.
type STLWriter interface {
	WriteSTL(s Solid, path string) error
}
