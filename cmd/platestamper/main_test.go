package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/platestamper/pkg/export"
	"github.com/chazu/platestamper/pkg/plate"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWellsDefaultPlate(t *testing.T) {
	out, err := run(t, "wells")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 97)
	assert.Equal(t, []string{"A1", "14.40", "11.20"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"H12", "113.40", "74.20"}, strings.Fields(lines[96]))
}

func TestYAMLConfig(t *testing.T) {
	cfg := writeFile(t, "plate.yaml", `
plate_length: 80
plate_width: 40
well_diameter: 5
well_to_well_distance: 9
well_depth: 10
well_x_offset: 10
well_y_offset: 10
rows: 2
columns: 3
segments: 12
`)
	out, err := run(t, "--config", cfg, "wells")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 7)
}

func TestYAMLKeepsDefaults(t *testing.T) {
	cfg := writeFile(t, "plate.yml", `
plate_length: 127.8
plate_width: 85.5
well_diameter: 6.2
well_to_well_distance: 9
well_depth: 13.4
well_x_offset: 14.4
well_y_offset: 11.2
rows: 8
columns: 12
`)
	s, err := loadYAML(cfg)
	require.NoError(t, err)
	assert.Equal(t, plate.SBS96(), s)
}

func TestYAMLRejectsUnknownKeys(t *testing.T) {
	cfg := writeFile(t, "plate.yaml", "plate_lenght: 80\n")
	_, err := run(t, "--config", cfg, "wells")
	assert.Error(t, err)
}

func TestInvalidConfigValues(t *testing.T) {
	cfg := writeFile(t, "plate.yaml", `
plate_length: 80
plate_width: 40
well_diameter: 5
well_to_well_distance: 9
well_depth: 10
well_x_offset: 10
well_y_offset: 10
rows: 0
columns: 3
`)
	_, err := run(t, "--config", cfg, "wells")
	assert.ErrorIs(t, err, plate.ErrInvalidSpec)
}

func TestLispConfigPicksPlate(t *testing.T) {
	cfg := writeFile(t, "plates.lisp", `
(defplate "full" (sbs96))
(defplate "strip" (sbs96 :rows 1))
`)
	out, err := run(t, "--config", cfg, "--plate", "strip", "wells")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 13)

	_, err = run(t, "--config", cfg, "--plate", "lid", "wells")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full, strip")
}

func TestLispConfigErrors(t *testing.T) {
	cfg := writeFile(t, "bad.lisp", `(sbs96 :rows 0)`)
	_, err := run(t, "--config", cfg, "wells")
	assert.Error(t, err)

	cfg = writeFile(t, "empty.lisp", `(+ 1 2)`)
	_, err = run(t, "--config", cfg, "wells")
	assert.ErrorContains(t, err, "defines no plate")
}

func TestUnknownConfigType(t *testing.T) {
	cfg := writeFile(t, "plate.toml", "")
	_, err := run(t, "--config", cfg, "wells")
	assert.ErrorContains(t, err, "unknown config type")
}

func TestExportSinglePartSCAD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stamp.scad")
	out, err := run(t, "--segments", "16", "export", "stamp", "-o", path)
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 96, strings.Count(string(data), "$fn = 16"))
}

func TestExportAllSCAD(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "parts")
	out, err := run(t, "export", "all", "-o", dir, "--format", "scad")
	require.NoError(t, err)

	for _, name := range []string{"stamp", "frame", "mould", "cutter", "plate"} {
		assert.FileExists(t, filepath.Join(dir, name+".scad"))
		assert.Contains(t, out, name+".scad")
	}
}

func TestExportMissingRenderer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stamp.stl")
	_, err := run(t, "--openscad", filepath.Join(dir, "no-openscad"), "export", "stamp", "-o", path)
	assert.ErrorIs(t, err, export.ErrExport)
	assert.NoFileExists(t, path)
}

func TestExportErrors(t *testing.T) {
	_, err := run(t, "export", "lid", "-o", filepath.Join(t.TempDir(), "lid.scad"))
	assert.ErrorContains(t, err, "stamp, frame, mould, cutter, plate")

	_, err = run(t, "export", "stamp", "--format", "obj")
	assert.ErrorIs(t, err, export.ErrExport)

	_, err = run(t, "export", "stamp", "--kernel", "cgal", "-o", filepath.Join(t.TempDir(), "s.stl"))
	assert.ErrorContains(t, err, "unknown kernel")
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "8 x 12 wells (A1..H12)")
	assert.Contains(t, out, "stamp pins 5.890 mm")
	assert.Regexp(t, `(?m)^frame\s+3\s+0\s+2$`, out)
	assert.Regexp(t, `(?m)^stamp\s+\d+\s+96\s+1$`, out)
}

func TestSchematic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "plate.svg")
	_, err := run(t, "schematic", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 96, strings.Count(string(data), "<circle"))

	out, err := run(t, "schematic", "-o", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
}

func TestWatchNeedsConfig(t *testing.T) {
	_, err := run(t, "watch")
	assert.ErrorContains(t, err, "--config")
}

func TestExampleConfigs(t *testing.T) {
	for _, tc := range []struct {
		args  []string
		wells int
	}{
		{[]string{"--config", "../../examples/plate.yaml"}, 24},
		{[]string{"--config", "../../examples/plates.lisp"}, 96},
		{[]string{"--config", "../../examples/plates.lisp", "--plate", "sbs96-brim"}, 96},
		{[]string{"--config", "../../examples/plates.lisp", "--plate", "half-square"}, 48},
	} {
		out, err := run(t, append(tc.args, "wells")...)
		require.NoError(t, err, tc.args)
		assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), tc.wells+1, tc.args)
	}
}
