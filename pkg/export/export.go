// Package export writes part geometry to files: OpenSCAD descriptions,
// STL meshes rendered by OpenSCAD, or STL meshes rendered in process by the
// sdfx kernel. It also offers previews of a part.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/platestamper/pkg/assembly"
	"github.com/chazu/platestamper/pkg/geom"
)

// ErrExport is returned when a part cannot be written: the renderer is
// missing or failed, or the output path is not writable.
var ErrExport = errors.New("export failed")

// Format selects the output file format.
type Format int

const (
	// FormatSCAD is the OpenSCAD description language.
	FormatSCAD Format = iota
	// FormatSTL is a triangle mesh.
	FormatSTL
)

func (f Format) String() string {
	switch f {
	case FormatSCAD:
		return "scad"
	case FormatSTL:
		return "stl"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + f.String() }

// ParseFormat parses a format name such as "stl".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "scad":
		return FormatSCAD, nil
	case "stl":
		return FormatSTL, nil
	}
	return 0, fmt.Errorf("%w: unknown format %q (want scad or stl)", ErrExport, s)
}

// FormatFromPath infers the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, fmt.Errorf("%w: %s has no extension", ErrExport, path)
	}
	return ParseFormat(ext)
}

// Exporter writes a geometry tree to path in the given format. A failed
// export leaves nothing at path.
type Exporter interface {
	Export(ctx context.Context, root *geom.Node, path string, format Format) error
}

// Previewer shows a geometry tree to the user.
type Previewer interface {
	Preview(ctx context.Context, root *geom.Node) error
}

// ExportAll exports every part of asm into dir as <dir>/<part><ext> and
// returns the written paths in part order. It stops at the first failure.
func ExportAll(ctx context.Context, e Exporter, asm *assembly.Assembly, dir string, format Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	var written []string
	for _, name := range asm.Names() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		root, err := asm.Part(name)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, name+format.Ext())
		if err := e.Export(ctx, root, path, format); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// writeAtomic writes through a temporary file next to path and renames it
// into place once write succeeds.
func writeAtomic(path string, write func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".platestamper-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %v", ErrExport, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: write %s: %v", ErrExport, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

// tempSibling returns a fresh temporary file name next to path with the
// given extension. The file exists and is empty.
func tempSibling(path, ext string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".platestamper-*"+ext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}
	name := f.Name()
	f.Close()
	return name, nil
}
