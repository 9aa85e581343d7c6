package parts

import (
	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/plate"
)

// Mould builds the agarose mould: a block over the plate footprint with one
// cavity per well. Cavities are exactly the well diameter and the well
// depth deep, unlike the narrower stamp pins.
func Mould(s plate.Spec, g plate.Grid) (*geom.Node, error) {
	block, err := geom.Box(s.PlateLength, s.PlateWidth, s.MouldThickness, geom.Vec3{})
	if err != nil {
		return nil, err
	}

	diameter := MouldCavityDiameter(s)
	cavities, err := perWell(g, func(w plate.Well) (*geom.Node, error) {
		return wellCylinder(s, w, diameter, s.WellDepth, 0)
	})
	if err != nil {
		return nil, err
	}

	root, err := geom.Difference(block.Named("block"), cavities...)
	if err != nil {
		return nil, err
	}
	return root.Named(MouldName), nil
}
