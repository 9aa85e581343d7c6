package parts

import (
	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/plate"
)

// Stamp builds the stamp: a base plate, extended by the brim on every side,
// carrying one pin per well. Pins are StampPinDiameter across and stand
// WellDepth + StampDepthExtension above the base, so pressing the stamp into
// cast agarose only displaces agarose inside each well footprint. With
// FrameSlot set, the base carries a step around its edge for the frame.
func Stamp(s plate.Spec, g plate.Grid) (*geom.Node, error) {
	brim := s.BrimExtension
	base, err := geom.Box(
		s.PlateLength+2*brim,
		s.PlateWidth+2*brim,
		s.StampBaseHeight,
		geom.Vec3{X: -brim, Y: -brim},
	)
	if err != nil {
		return nil, err
	}
	base = base.Named("base")
	if s.FrameSlot {
		slot, err := frameSlot(s)
		if err != nil {
			return nil, err
		}
		if base, err = geom.Difference(base, slot); err != nil {
			return nil, err
		}
		base = base.Named("slotted-base")
	}

	diameter := StampPinDiameter(s)
	height := s.WellDepth + s.StampDepthExtension
	pins, err := perWell(g, func(w plate.Well) (*geom.Node, error) {
		return wellCylinder(s, w, diameter, height, s.StampBaseHeight)
	})
	if err != nil {
		return nil, err
	}

	root, err := geom.Union(append([]*geom.Node{base}, pins...)...)
	if err != nil {
		return nil, err
	}
	return root.Named(StampName), nil
}

// frameSlot is the ring cut from the stamp base for the frame walls: the
// whole base footprint minus an inner region inset by FrameSlotWidth from
// the plate edge.
func frameSlot(s plate.Spec) (*geom.Node, error) {
	brim, width := s.BrimExtension, s.FrameSlotWidth()
	z := s.StampBaseHeight / 2
	if s.NoBrim {
		z = 0
	}
	h := s.StampBaseHeight - z
	outer, err := geom.Box(s.PlateLength+2*brim, s.PlateWidth+2*brim, h, geom.Vec3{X: -brim, Y: -brim, Z: z})
	if err != nil {
		return nil, err
	}
	inner, err := geom.Box(s.PlateLength-2*width, s.PlateWidth-2*width, h, geom.Vec3{X: width, Y: width, Z: z})
	if err != nil {
		return nil, err
	}
	ring, err := geom.Difference(outer, inner)
	if err != nil {
		return nil, err
	}
	return ring.Named("frame-slot"), nil
}
