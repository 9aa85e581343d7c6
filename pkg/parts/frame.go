package parts

import (
	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/plate"
)

// Frame builds the centring frame: the plate footprint with the well-bearing
// region cut out, leaving walls FrameWallThickness wide. It has no well
// level features.
func Frame(s plate.Spec, _ plate.Grid) (*geom.Node, error) {
	wall := s.FrameWallThickness
	outer, err := geom.Box(s.PlateLength, s.PlateWidth, s.FrameHeight, geom.Vec3{})
	if err != nil {
		return nil, err
	}
	inner, err := geom.Box(
		s.PlateLength-2*wall,
		s.PlateWidth-2*wall,
		s.FrameHeight,
		geom.Vec3{X: wall, Y: wall},
	)
	if err != nil {
		return nil, err
	}
	root, err := geom.Difference(outer.Named("outline"), inner.Named("cutout"))
	if err != nil {
		return nil, err
	}
	return root.Named(FrameName), nil
}
