package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/chazu/platestamper/pkg/engine"
	"github.com/chazu/platestamper/pkg/plate"
)

// loadSpec reads the plate from the config file, or the 96-well preset
// when there is none, and applies the flag overrides.
func (a *app) loadSpec(cmd *cobra.Command) (plate.Spec, error) {
	var (
		s   plate.Spec
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(a.configPath)); {
	case a.configPath == "":
		s = plate.SBS96()
	case ext == ".yaml" || ext == ".yml":
		s, err = loadYAML(a.configPath)
	case ext == ".lisp" || ext == ".zy":
		s, err = loadLisp(cmd.Context(), a.configPath, a.plateName)
	default:
		err = fmt.Errorf("%s: unknown config type %q (want .yaml, .yml, .lisp or .zy)", a.configPath, ext)
	}
	if err != nil {
		return plate.Spec{}, err
	}

	if cmd.Flags().Changed("segments") {
		s.Segments = a.segments
	}
	if cmd.Flags().Changed("openscad") {
		s.OpenSCADPath = a.openscad
	}
	if err := s.Validate(); err != nil {
		return plate.Spec{}, fmt.Errorf("%s: %w", a.configName(), err)
	}
	a.log.Debug("plate loaded",
		zap.String("config", a.configName()),
		zap.Int("rows", s.Rows),
		zap.Int("columns", s.Columns),
		zap.Int("segments", s.Segments))
	return s, nil
}

func (a *app) configName() string {
	if a.configPath == "" {
		return "sbs96"
	}
	return a.configPath
}

// loadYAML decodes a plate from YAML. Keys left out take their defaults
// and unknown keys are rejected.
func loadYAML(path string) (plate.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return plate.Spec{}, err
	}
	s := plate.Spec{Options: plate.DefaultOptions()}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return plate.Spec{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// loadLisp evaluates a design file and picks the named plate.
func loadLisp(ctx context.Context, path, name string) (plate.Spec, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return plate.Spec{}, err
	}
	d, evalErrs, err := engine.NewEngine().Evaluate(ctx, string(src))
	if err != nil {
		return plate.Spec{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return plate.Spec{}, fmt.Errorf("%s: %w", path, errors.Join(errs...))
	}
	if d.Len() == 0 {
		return plate.Spec{}, fmt.Errorf("%s: defines no plate", path)
	}
	s, ok := d.Lookup(name)
	if !ok {
		return plate.Spec{}, fmt.Errorf("%s: no plate %q (have %s)", path, name, strings.Join(d.Names, ", "))
	}
	return s, nil
}
