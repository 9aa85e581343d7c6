package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/kernel"
	"github.com/chazu/platestamper/pkg/kernel/sdfx"
	"github.com/chazu/platestamper/pkg/scad"
	"github.com/chazu/platestamper/pkg/tessellate"
)

// MeshKernel is a kernel that can write STL files.
type MeshKernel interface {
	kernel.Kernel
	kernel.STLWriter
}

// Mesh renders STL files in process. Descriptions are written the same way
// OpenSCAD writes them.
type Mesh struct {
	// Kernel evaluates the geometry. Nil means an sdfx kernel at its default
	// resolution.
	Kernel MeshKernel
	Logger *zap.Logger
}

var _ Exporter = (*Mesh)(nil)

// NewMesh returns a mesh exporter meshing at the given marching cubes
// resolution.
func NewMesh(cells int, log *zap.Logger) *Mesh {
	return &Mesh{Kernel: sdfx.NewWithCells(cells), Logger: log}
}

func (m *Mesh) logger() *zap.Logger { return orNop(m.Logger) }

func (m *Mesh) kernel() MeshKernel {
	if m.Kernel == nil {
		return sdfx.New()
	}
	return m.Kernel
}

// Export writes root to path.
func (m *Mesh) Export(ctx context.Context, root *geom.Node, path string, format Format) error {
	if root == nil {
		return fmt.Errorf("%w: nothing to export to %s", ErrExport, path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	switch format {
	case FormatSCAD:
		return writeAtomic(path, func(w io.Writer) error { return scad.Write(w, root) })
	case FormatSTL:
	default:
		return fmt.Errorf("%w: unsupported format %v", ErrExport, format)
	}

	k := m.kernel()
	start := time.Now()
	solid, err := tessellate.Solid(root, k)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	tmp, err := tempSibling(path, format.Ext())
	if err != nil {
		return err
	}
	if err := k.WriteSTL(solid, tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	m.logger().Info("meshed",
		zap.String("part", root.Name),
		zap.String("output", path),
		zap.Duration("took", time.Since(start)))
	return nil
}

// SummaryPreview meshes a part and writes its statistics instead of
// opening a viewer.
type SummaryPreview struct {
	W      io.Writer
	Kernel kernel.Kernel
}

var _ Previewer = (*SummaryPreview)(nil)

// Preview writes the part name, node counts, triangle count and bounding
// box of root.
func (p *SummaryPreview) Preview(ctx context.Context, root *geom.Node) error {
	if root == nil {
		return fmt.Errorf("%w: nothing to preview", ErrExport)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	k := p.Kernel
	if k == nil {
		k = sdfx.New()
	}
	mesh, err := tessellate.Mesh(root, k)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	min, max := mesh.Bounds()

	var b strings.Builder
	name := root.Name
	if name == "" {
		name = root.Kind.String()
	}
	fmt.Fprintf(&b, "part:      %s\n", name)
	fmt.Fprintf(&b, "nodes:     %d\n", root.Count())
	fmt.Fprintf(&b, "cylinders: %d\n", len(root.Cylinders()))
	fmt.Fprintf(&b, "boxes:     %d\n", len(root.Boxes()))
	fmt.Fprintf(&b, "triangles: %d\n", mesh.TriangleCount())
	fmt.Fprintf(&b, "bounds:    [%.2f %.2f %.2f] .. [%.2f %.2f %.2f]\n",
		min[0], min[1], min[2], max[0], max[1], max[2])
	_, err = io.WriteString(p.W, b.String())
	return err
}
