package export

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/scad"
)

// OpenSCADPreview opens a part in the OpenSCAD GUI and waits for the
// window to close.
type OpenSCADPreview struct {
	Path   string
	Logger *zap.Logger
}

var _ Previewer = (*OpenSCADPreview)(nil)

// Preview writes root to a temporary description and opens it.
func (p *OpenSCADPreview) Preview(ctx context.Context, root *geom.Node) error {
	if root == nil {
		return fmt.Errorf("%w: nothing to preview", ErrExport)
	}
	o := &OpenSCAD{Path: p.Path, Logger: p.Logger}
	bin, err := o.executable()
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "platestamper-*"+FormatSCAD.Ext())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	src := f.Name()
	defer os.Remove(src)
	if err := scad.Write(f, root); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	o.logger().Debug("opening preview", zap.String("part", root.Name), zap.String("source", src))
	cmd := exec.CommandContext(ctx, bin, src)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrExport, bin, err, out)
	}
	return nil
}
