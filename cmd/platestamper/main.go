// Command platestamper builds printable agarose stamps, frames, moulds and
// cutters for multi-well microscopy plates.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app holds the persistent flags and the logger shared by every command.
type app struct {
	configPath string
	plateName  string
	segments   int
	openscad   string
	verbose    bool

	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "platestamper",
		Short: "Generate agarose plate accessories for 3D printing",
		Long: `platestamper turns the dimensions of a multi-well plate into printable
parts: a stamp that presses wells into agarose, a frame that centres the
stamp, a mould for single pads, and a cutter that punches pads out.

Plates come from a YAML file, a Lisp design file, or the built-in
96-well SBS preset when no config is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.log = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "plate config file (.yaml, .yml, .lisp or .zy)")
	pf.StringVar(&a.plateName, "plate", "", "plate to use from a Lisp design (default: first defined)")
	pf.IntVar(&a.segments, "segments", 0, "override the cylinder facet count")
	pf.StringVar(&a.openscad, "openscad", "", "override the OpenSCAD executable")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newWellsCmd(a),
		newExportCmd(a),
		newPreviewCmd(a),
		newInspectCmd(a),
		newSchematicCmd(a),
		newWatchCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
