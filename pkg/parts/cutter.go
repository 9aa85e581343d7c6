package parts

import (
	"fmt"

	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/plate"
)

// Cutter builds the punch used to trim cast agarose flush with each well: a
// base plate carrying one hollow tube per well. The tube outside matches the
// well, its wall is CutterEdgeThickness and it stands WellDepth +
// CutterEdgeExtension above the base. With CutterGuides set, a guide post
// stands in each corner.
func Cutter(s plate.Spec, g plate.Grid) (*geom.Node, error) {
	base, err := geom.Box(s.PlateLength, s.PlateWidth, s.CutterBaseThickness, geom.Vec3{})
	if err != nil {
		return nil, err
	}

	outer, inner := CutterDiameters(s)
	height := s.WellDepth + s.CutterEdgeExtension
	z := s.CutterBaseThickness
	tubes, err := perWell(g, func(w plate.Well) (*geom.Node, error) {
		o, err := wellCylinder(s, w, outer, height, z)
		if err != nil {
			return nil, err
		}
		i, err := wellCylinder(s, w, inner, height, z)
		if err != nil {
			return nil, err
		}
		return geom.Difference(o, i)
	})
	if err != nil {
		return nil, err
	}

	children := append([]*geom.Node{base.Named("base")}, tubes...)
	if s.CutterGuides {
		guides, err := cutterGuides(s)
		if err != nil {
			return nil, err
		}
		children = append(children, guides...)
	}
	root, err := geom.Union(children...)
	if err != nil {
		return nil, err
	}
	return root.Named(CutterName), nil
}

// CutterGuidePosts returns the side of each cutter guide post and the
// corners the posts stand on, in the order A1 side first, then along X,
// then along Y, then diagonally opposite.
func CutterGuidePosts(s plate.Spec) (side float64, corners [4]geom.Vec3) {
	side = s.CutterGuideSides * (1 - s.CutterGuideModifier)
	near := s.CutterGuideOffset + s.FrameWallThickness + (s.CutterGuideSides-side)/2
	farX := s.PlateLength - near - side
	farY := s.PlateWidth - near - side
	z := s.CutterBaseThickness
	corners = [4]geom.Vec3{
		{X: near, Y: near, Z: z},
		{X: farX, Y: near, Z: z},
		{X: near, Y: farY, Z: z},
		{X: farX, Y: farY, Z: z},
	}
	return side, corners
}

func cutterGuides(s plate.Spec) ([]*geom.Node, error) {
	side, corners := CutterGuidePosts(s)
	guides := make([]*geom.Node, 0, len(corners))
	for i, c := range corners {
		post, err := geom.Box(side, side, s.CutterGuideLength, c)
		if err != nil {
			return nil, err
		}
		guides = append(guides, post.Named(fmt.Sprintf("guide-%d", i+1)))
	}
	return guides, nil
}
