package parts

import (
	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/plate"
)

// Plate builds a model of the physical plate, used to check the other parts
// against. Wells are cut WellDepth deep from WellZOffset upwards.
func Plate(s plate.Spec, g plate.Grid) (*geom.Node, error) {
	body, err := geom.Box(s.PlateLength, s.PlateWidth, s.PlateHeight, geom.Vec3{})
	if err != nil {
		return nil, err
	}

	wells, err := perWell(g, func(w plate.Well) (*geom.Node, error) {
		return wellCylinder(s, w, s.EffectiveWellDiameter(), s.WellDepth, s.WellZOffset)
	})
	if err != nil {
		return nil, err
	}

	root, err := geom.Difference(body.Named("body"), wells...)
	if err != nil {
		return nil, err
	}
	return root.Named(PlateName), nil
}
