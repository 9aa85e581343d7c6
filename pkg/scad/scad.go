// Package scad writes geometry trees as OpenSCAD source, the description
// format the external renderer consumes.
package scad

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/platestamper/pkg/geom"
)

// Header is written at the top of every file.
const Header = "// Generated by platestamper. Units are millimetres.\n"

// Write serialises n to w.
func Write(w io.Writer, n *geom.Node) error {
	if n == nil {
		return fmt.Errorf("scad: nil geometry")
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(Header); err != nil {
		return err
	}
	if err := writeNode(bw, n, 0); err != nil {
		return err
	}
	return bw.Flush()
}

// Render returns n as OpenSCAD source.
func Render(n *geom.Node) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func num(v float64) string {
	if v == 0 {
		return "0" // also folds -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func vec(v geom.Vec3) string {
	return "[" + num(v.X) + ", " + num(v.Y) + ", " + num(v.Z) + "]"
}

func writeNode(w *bufio.Writer, n *geom.Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	if n.Name != "" {
		fmt.Fprintf(w, "%s// %s\n", indent, n.Name)
	}

	switch d := n.Data.(type) {
	case geom.CylinderData:
		_, err := fmt.Fprintf(w, "%stranslate(%s) cylinder(h = %s, r = %s, $fn = %d);\n",
			indent, vec(d.Center), num(d.Height), num(d.Radius), d.Segments)
		return err
	case geom.BoxData:
		_, err := fmt.Fprintf(w, "%stranslate(%s) cube(%s);\n", indent, vec(d.Corner), vec(d.Size))
		return err
	case geom.RotateData:
		back := geom.Vec3{X: -d.Pivot.X, Y: -d.Pivot.Y, Z: -d.Pivot.Z}
		fmt.Fprintf(w, "%stranslate(%s) rotate([0, 0, %s]) translate(%s) {\n",
			indent, vec(d.Pivot), num(d.Degrees), vec(back))
		return writeBlockTail(w, n, depth)
	}

	var op string
	switch n.Kind {
	case geom.KindUnion:
		op = "union"
	case geom.KindDifference:
		op = "difference"
	case geom.KindIntersection:
		op = "intersection"
	default:
		return fmt.Errorf("scad: node kind %s has unsupported data %T", n.Kind, n.Data)
	}
	fmt.Fprintf(w, "%s%s() {\n", indent, op)
	return writeBlockTail(w, n, depth)
}

func writeBlockTail(w *bufio.Writer, n *geom.Node, depth int) error {
	for _, c := range n.Children {
		if err := writeNode(w, c, depth+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s}\n", strings.Repeat("  ", depth))
	return err
}
