package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/platestamper/pkg/assembly"
	"github.com/chazu/platestamper/pkg/export"
	"github.com/chazu/platestamper/pkg/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-export every part whenever the config file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.configPath == "" {
				return errors.New("watch needs --config")
			}
			format, err := export.ParseFormat(f.format)
			if err != nil {
				return err
			}
			dir := f.output
			if dir == "" {
				dir = "."
			}

			rebuild := func(ctx context.Context) error {
				s, err := a.loadSpec(cmd)
				if err != nil {
					return err
				}
				asm, err := assembly.New(s)
				if err != nil {
					return err
				}
				e, err := f.exporter(s, a.log)
				if err != nil {
					return err
				}
				written, err := export.ExportAll(ctx, e, asm, dir, format)
				a.log.Info("exported", zap.Strings("files", written))
				return err
			}

			// A broken first config is fatal; later ones are only reported.
			if err := rebuild(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watching %s, writing to %s\n", a.configPath, dir)

			w, err := watch.New(a.configPath, 0, func(ctx context.Context, path string) {
				if err := rebuild(ctx); err != nil {
					a.log.Error("rebuild failed", zap.String("config", path), zap.Error(err))
					fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				}
			}, a.log)
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}
	f.register(cmd, "output directory")
	return cmd
}
