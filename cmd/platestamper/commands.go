package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/platestamper/pkg/assembly"
	"github.com/chazu/platestamper/pkg/export"
	"github.com/chazu/platestamper/pkg/kernel/manifold"
	"github.com/chazu/platestamper/pkg/kernel/sdfx"
	"github.com/chazu/platestamper/pkg/parts"
	"github.com/chazu/platestamper/pkg/plate"
	"github.com/chazu/platestamper/pkg/schematic"
)

const allParts = "all"

func partNames() string {
	var names []string
	for _, p := range parts.All() {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

func newWellsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wells",
		Short: "Print the well centre coordinates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSpec(cmd)
			if err != nil {
				return err
			}
			g, err := plate.Compute(s)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WELL\tX\tY")
			for _, w := range g.All() {
				fmt.Fprintf(tw, "%s\t%.2f\t%.2f\n", w.Label(), w.X, w.Y)
			}
			return tw.Flush()
		},
	}
}

// exportFlags are shared by export and watch.
type exportFlags struct {
	output string
	format string
	kernel string
	cells  int
}

func (f *exportFlags) register(cmd *cobra.Command, outputHelp string) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", outputHelp)
	cmd.Flags().StringVarP(&f.format, "format", "f", "stl", "output format: scad or stl")
	cmd.Flags().StringVar(&f.kernel, "kernel", "openscad", "STL renderer: openscad, sdfx or manifold")
	cmd.Flags().IntVar(&f.cells, "cells", sdfx.DefaultMeshCells, "marching cubes resolution for --kernel sdfx")
}

func (f *exportFlags) exporter(s plate.Spec, log *zap.Logger) (export.Exporter, error) {
	switch f.kernel {
	case "openscad":
		return &export.OpenSCAD{Path: s.OpenSCADPath, Logger: log}, nil
	case "sdfx":
		return export.NewMesh(f.cells, log), nil
	case "manifold":
		k, err := manifold.New()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", export.ErrExport, err)
		}
		return &export.Mesh{Kernel: k, Logger: log}, nil
	default:
		return nil, fmt.Errorf("unknown kernel %q (want openscad, sdfx or manifold)", f.kernel)
	}
}

func newExportCmd(a *app) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export [part|all]",
		Short: "Write one part, or every part, to a file",
		Long: `Write a part to a file. Parts: ` + partNames() + `.

With "all" (the default) --output is a directory and every part is
written into it as <part>.<format>. For a single part --output is the
file, and its extension picks the format unless --format is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := allParts
			if len(args) == 1 {
				name = args[0]
			}
			s, err := a.loadSpec(cmd)
			if err != nil {
				return err
			}
			asm, err := assembly.New(s)
			if err != nil {
				return err
			}
			format, err := export.ParseFormat(f.format)
			if err != nil {
				return err
			}
			e, err := f.exporter(s, a.log)
			if err != nil {
				return err
			}

			if name == allParts {
				dir := f.output
				if dir == "" {
					dir = "."
				}
				written, err := export.ExportAll(cmd.Context(), e, asm, dir, format)
				for _, p := range written {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				return err
			}

			root, err := asm.Part(name)
			if err != nil {
				return fmt.Errorf("%w (parts: %s)", err, partNames())
			}
			path := f.output
			switch {
			case path == "":
				path = name + format.Ext()
			case !cmd.Flags().Changed("format"):
				if format, err = export.FormatFromPath(path); err != nil {
					return err
				}
			}
			if err := e.Export(cmd.Context(), root, path, format); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	f.register(cmd, "output file, or directory for all parts")
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "preview <part>",
		Short: "Open a part in OpenSCAD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSpec(cmd)
			if err != nil {
				return err
			}
			asm, err := assembly.New(s)
			if err != nil {
				return err
			}
			root, err := asm.Part(args[0])
			if err != nil {
				return fmt.Errorf("%w (parts: %s)", err, partNames())
			}
			var p export.Previewer = &export.OpenSCADPreview{Path: s.OpenSCADPath, Logger: a.log}
			if summary {
				p = &export.SummaryPreview{W: cmd.OutOrStdout()}
			}
			return p.Preview(cmd.Context(), root)
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "mesh in process and print statistics instead of opening a viewer")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Summarise the plate and the geometry of every part",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSpec(cmd)
			if err != nil {
				return err
			}
			asm, err := assembly.New(s)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			g := asm.Grid()
			first, last := g.Bounds()
			fmt.Fprintf(out, "plate:   %g x %g mm, %d x %d wells (%s..%s), pitch %g mm\n",
				s.PlateLength, s.PlateWidth, g.Rows(), g.Columns(), first.Label(), last.Label(), s.WellToWellDistance)
			outer, inner := parts.CutterDiameters(s)
			fmt.Fprintf(out, "wells:   %g mm, stamp pins %.3f mm, mould cavities %g mm, cutter %g/%g mm\n",
				s.EffectiveWellDiameter(), parts.StampPinDiameter(s), parts.MouldCavityDiameter(s), outer, inner)
			fmt.Fprintf(out, "facets:  %d\n\n", s.WellSegments())

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PART\tNODES\tCYLINDERS\tBOXES")
			for _, name := range asm.Names() {
				root, _ := asm.Part(name)
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", name, root.Count(), len(root.Cylinders()), len(root.Boxes()))
			}
			return tw.Flush()
		},
	}
}

func newSchematicCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "schematic",
		Short: "Draw a dimensioned SVG of the plate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSpec(cmd)
			if err != nil {
				return err
			}
			if output == "-" {
				return schematic.Write(cmd.OutOrStdout(), s)
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			fh, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := schematic.Write(fh, s); err != nil {
				fh.Close()
				return err
			}
			if err := fh.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "plate.svg", `output file, "-" for stdout`)
	return cmd
}
