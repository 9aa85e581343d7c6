// Package manifold binds the Manifold mesh boolean library
// (https://github.com/elalish/manifold) as a geometry kernel. Unlike the
// SDF kernel it produces exact polyhedral meshes, so cylinder facets in
// the STL match the segment count of the geometry tree.
//
// The binding needs the Manifold C library (manifoldc). Build with
// -tags=manifold; without the tag New reports that the kernel is missing.
package manifold

import "github.com/chazu/platestamper/pkg/kernel"

// Kernel is a geometry kernel that also writes STL files directly.
type Kernel interface {
	kernel.Kernel
	kernel.STLWriter
}

// unavailable is the error text New reports without the manifold tag.
const unavailable = "manifold kernel not available: build with -tags=manifold"
