// Package schematic draws a dimensioned top view of a plate as SVG: the
// outline with its chamfered A1 corner, every well, and the length and
// width dimensions. The drawing is in millimetres with well A1 top left.
package schematic

import (
	"bufio"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/chazu/platestamper/pkg/plate"
)

// scale is the number of drawing units per millimetre.
const scale = 10

func px(mm float64) int { return int(math.Round(mm * scale)) }

const (
	outlineStyle = "fill:none;stroke:black;stroke-width:3"
	wellStyle    = "fill:none;stroke:black;stroke-width:2"
	firstStyle   = "fill:lightgray;stroke:black;stroke-width:2"
	arrowStyle   = "stroke:black;stroke-width:2"
)

// Write draws s to w.
func Write(w io.Writer, s plate.Spec) error {
	if err := s.Validate(); err != nil {
		return err
	}
	g, err := plate.Compute(s)
	if err != nil {
		return err
	}

	// u is the drawing's spacing unit; margins and text scale with the plate.
	u := s.PlateWidth / 10
	ox, oy := 7*u, 3*u
	width := ox + s.PlateLength + 2*u
	height := oy + s.PlateWidth + 2*u
	font := fmt.Sprintf("font-family:sans-serif;font-weight:bold;text-anchor:middle;font-size:%d", px(0.75*u))

	bw := bufio.NewWriter(w)
	c := svg.New(bw)
	c.StartviewUnit(int(math.Ceil(width)), int(math.Ceil(height)), "mm", 0, 0, px(width), px(height))
	c.Title(fmt.Sprintf("%d-well plate, %g x %g mm", g.Len(), s.PlateLength, s.PlateWidth))

	// Outline, with the A1 corner cut off for orientation.
	chamfer := math.Min(s.WellToWellDistance, math.Min(s.PlateLength, s.PlateWidth)/4)
	c.Gid("outline")
	c.Polygon(
		[]int{px(ox), px(ox), px(ox + s.PlateLength), px(ox + s.PlateLength), px(ox + chamfer)},
		[]int{px(oy + chamfer), px(oy + s.PlateWidth), px(oy + s.PlateWidth), px(oy), px(oy)},
		outlineStyle)
	c.Gend()

	c.Gid("wells")
	r := px(s.EffectiveWellDiameter() / 2)
	for i, well := range g.All() {
		style := wellStyle
		if i == 0 {
			style = firstStyle
		}
		c.Circle(px(ox+well.X), px(oy+well.Y), r, style, fmt.Sprintf(`id="%s"`, well.Label()))
	}
	c.Gend()

	c.Gid("dimensions")
	arrow(c, ox, oy-u, ox+s.PlateLength, oy-u, u/1.75)
	c.Text(px(ox+s.PlateLength/2), px(oy-1.5*u), fmt.Sprintf("Length %g mm", s.PlateLength), font)

	wx := ox - 5*u
	arrow(c, wx, oy, wx, oy+s.PlateWidth, u/1.75)
	tx, ty := px(wx-0.5*u), px(oy+s.PlateWidth/2)
	c.Text(tx, ty, fmt.Sprintf("Width %g mm", s.PlateWidth), font,
		fmt.Sprintf(`transform="rotate(-90 %d %d)"`, tx, ty))
	c.Gend()

	c.End()
	return bw.Flush()
}

// arrow draws a dimension line from (x1,y1) to (x2,y2) with a bar of the
// given width across each end. Lines must be horizontal or vertical.
func arrow(c *svg.SVG, x1, y1, x2, y2, width float64) {
	c.Line(px(x1), px(y1), px(x2), px(y2), arrowStyle)
	half := width / 2
	if y1 == y2 {
		c.Line(px(x1), px(y1-half), px(x1), px(y1+half), arrowStyle)
		c.Line(px(x2), px(y2-half), px(x2), px(y2+half), arrowStyle)
		return
	}
	c.Line(px(x1-half), px(y1), px(x1+half), px(y1), arrowStyle)
	c.Line(px(x2-half), px(y2), px(x2+half), px(y2), arrowStyle)
}
