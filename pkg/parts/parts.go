// Package parts builds the geometry of each printed accessory from a plate
// spec and its well grid. Every builder places well features on the same
// grid, so parts built from one grid mate with each other and the plate.
package parts

import (
	"fmt"

	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/plate"
)

// Part names.
const (
	StampName  = "stamp"
	FrameName  = "frame"
	MouldName  = "mould"
	CutterName = "cutter"
	PlateName  = "plate"
)

// Builder produces the geometry of one part. Errors from plate or geom are
// returned unchanged.
type Builder func(s plate.Spec, g plate.Grid) (*geom.Node, error)

// Part pairs a part name with its builder.
type Part struct {
	Name  string
	Build Builder
}

// All returns every part in build order.
func All() []Part {
	return []Part{
		{Name: StampName, Build: Stamp},
		{Name: FrameName, Build: Frame},
		{Name: MouldName, Build: Mould},
		{Name: CutterName, Build: Cutter},
		{Name: PlateName, Build: Plate},
	}
}

// Lookup returns the builder for name.
func Lookup(name string) (Builder, bool) {
	for _, p := range All() {
		if p.Name == name {
			return p.Build, true
		}
	}
	return nil, false
}

// StampPinDiameter is the stamp pin diameter: the well diameter shrunk by
// the stamp well modifier.
func StampPinDiameter(s plate.Spec) float64 {
	return s.EffectiveWellDiameter() * (1 - s.StampWellModifier)
}

// MouldCavityDiameter is the mould cavity diameter. It always equals the
// well diameter so cast pads match the wells.
func MouldCavityDiameter(s plate.Spec) float64 {
	return s.EffectiveWellDiameter()
}

// CutterDiameters returns the outer and inner diameter of a cutter tube.
func CutterDiameters(s plate.Spec) (outer, inner float64) {
	outer = s.EffectiveWellDiameter()
	return outer, outer - 2*s.CutterEdgeThickness
}

// wellCylinder builds a well-shaped cylinder standing at z over w. The
// configured segment count is checked even when cuboid wells override it.
func wellCylinder(s plate.Spec, w plate.Well, diameter, height, z float64) (*geom.Node, error) {
	if s.Segments < geom.MinSegments {
		return nil, fmt.Errorf("%w: segments is %d, must be at least %d",
			geom.ErrInvalidGeometry, s.Segments, geom.MinSegments)
	}
	center := geom.Vec3{X: w.X, Y: w.Y, Z: z}
	c, err := geom.Cylinder(diameter/2, height, s.WellSegments(), center)
	if err != nil {
		return nil, err
	}
	if rot := s.WellRotation(); rot != 0 {
		return geom.Rotate(c, rot, center)
	}
	return c, nil
}

// perWell builds one feature per well in grid order.
func perWell(g plate.Grid, build func(plate.Well) (*geom.Node, error)) ([]*geom.Node, error) {
	if g.Len() == 0 {
		return nil, fmt.Errorf("%w: empty well grid", plate.ErrInvalidSpec)
	}
	out := make([]*geom.Node, 0, g.Len())
	for _, w := range g.All() {
		n, err := build(w)
		if err != nil {
			return nil, err
		}
		out = append(out, n.Named(w.Label()))
	}
	return out, nil
}
