package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/platestamper/pkg/geom"
	"github.com/chazu/platestamper/pkg/scad"
)

// DefaultOpenSCAD is the renderer executable looked up on PATH when no
// path is configured.
const DefaultOpenSCAD = "openscad"

// OpenSCAD exports descriptions directly and renders meshes by running
// the OpenSCAD executable.
type OpenSCAD struct {
	// Path is the renderer executable. Empty means DefaultOpenSCAD.
	Path string
	// Logger receives render progress. Nil disables logging.
	Logger *zap.Logger
}

var _ Exporter = (*OpenSCAD)(nil)

func (o *OpenSCAD) logger() *zap.Logger { return orNop(o.Logger) }

// orNop returns l, or a no-op logger when l is nil.
func orNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// executable resolves the configured renderer.
func (o *OpenSCAD) executable() (string, error) {
	name := o.Path
	if name == "" {
		name = DefaultOpenSCAD
	}
	bin, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: renderer %q not found: %v", ErrExport, name, err)
	}
	return bin, nil
}

// Export writes root to path.
func (o *OpenSCAD) Export(ctx context.Context, root *geom.Node, path string, format Format) error {
	if root == nil {
		return fmt.Errorf("%w: nothing to export to %s", ErrExport, path)
	}
	switch format {
	case FormatSCAD:
		return writeAtomic(path, func(w io.Writer) error { return scad.Write(w, root) })
	case FormatSTL:
		return o.render(ctx, root, path, format)
	default:
		return fmt.Errorf("%w: unsupported format %v", ErrExport, format)
	}
}

// render writes a temporary description next to path, runs the renderer on
// it, and moves the result into place.
func (o *OpenSCAD) render(ctx context.Context, root *geom.Node, path string, format Format) error {
	bin, err := o.executable()
	if err != nil {
		return err
	}

	src, err := tempSibling(path, FormatSCAD.Ext())
	if err != nil {
		return err
	}
	defer os.Remove(src)
	if err := writeFile(src, root); err != nil {
		return err
	}

	out := strings.TrimSuffix(src, FormatSCAD.Ext()) + format.Ext()
	log := o.logger().With(zap.String("part", root.Name), zap.String("output", path))
	log.Debug("rendering", zap.String("renderer", bin), zap.String("source", src))

	start := time.Now()
	cmd := exec.CommandContext(ctx, bin, "-o", out, src)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(out)
		log.Warn("renderer failed", zap.Error(err), zap.String("stderr", stderr.String()))
		return fmt.Errorf("%w: %s: %v: %s", ErrExport, bin, err, strings.TrimSpace(stderr.String()))
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		os.Remove(out)
		return fmt.Errorf("%w: %s produced no output for %s", ErrExport, bin, path)
	}
	if err := os.Rename(out, path); err != nil {
		os.Remove(out)
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	log.Info("rendered", zap.Duration("took", time.Since(start)))
	return nil
}

func writeFile(path string, root *geom.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := scad.Write(f, root); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", ErrExport, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrExport, path, err)
	}
	return nil
}
