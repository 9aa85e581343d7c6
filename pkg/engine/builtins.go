package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/platestamper/pkg/plate"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms plate Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: well-count -> well_count
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treated as a flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integer from a Sexp. Floats are accepted when they
// hold a whole number.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %v", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Plate values
// ---------------------------------------------------------------------------

// sexpSpec wraps a plate.Spec so it can be passed between builtins.
type sexpSpec struct {
	spec plate.Spec
}

func (p *sexpSpec) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(plate %gx%g %dx%d)", p.spec.PlateLength, p.spec.PlateWidth, p.spec.Rows, p.spec.Columns)
}
func (p *sexpSpec) Type() *zygo.RegisteredType { return nil }

// toSpec extracts a plate.Spec from a sexpSpec.
func toSpec(s zygo.Sexp) (plate.Spec, error) {
	if p, ok := s.(*sexpSpec); ok {
		return p.spec, nil
	}
	return plate.Spec{}, fmt.Errorf("expected plate, got %T (%s)", s, s.SexpString(nil))
}

// setter assigns one keyword argument to a spec.
type setter func(s *plate.Spec, v zygo.Sexp) error

func floatParam(field func(*plate.Spec) *float64) setter {
	return func(s *plate.Spec, v zygo.Sexp) error {
		f, err := toFloat64(v)
		if err != nil {
			return err
		}
		*field(s) = f
		return nil
	}
}

func intParam(field func(*plate.Spec) *int) setter {
	return func(s *plate.Spec, v zygo.Sexp) error {
		n, err := toInt(v)
		if err != nil {
			return err
		}
		*field(s) = n
		return nil
	}
}

func boolParam(field func(*plate.Spec) *bool) setter {
	return func(s *plate.Spec, v zygo.Sexp) error {
		b, ok := v.(*zygo.SexpBool)
		if !ok {
			return fmt.Errorf("expected boolean, got %s", v.SexpString(nil))
		}
		*field(s) = b.Val
		return nil
	}
}

// params maps keyword names to spec fields. Names follow the config file
// keys with hyphens; :pitch is short for :well-to-well-distance.
var params = map[string]setter{
	"plate-length":          floatParam(func(s *plate.Spec) *float64 { return &s.PlateLength }),
	"plate-width":           floatParam(func(s *plate.Spec) *float64 { return &s.PlateWidth }),
	"well-diameter":         floatParam(func(s *plate.Spec) *float64 { return &s.WellDiameter }),
	"well-to-well-distance": floatParam(func(s *plate.Spec) *float64 { return &s.WellToWellDistance }),
	"pitch":                 floatParam(func(s *plate.Spec) *float64 { return &s.WellToWellDistance }),
	"well-depth":            floatParam(func(s *plate.Spec) *float64 { return &s.WellDepth }),
	"well-x-offset":         floatParam(func(s *plate.Spec) *float64 { return &s.WellXOffset }),
	"well-y-offset":         floatParam(func(s *plate.Spec) *float64 { return &s.WellYOffset }),
	"rows":                  intParam(func(s *plate.Spec) *int { return &s.Rows }),
	"columns":               intParam(func(s *plate.Spec) *int { return &s.Columns }),

	"segments":               intParam(func(s *plate.Spec) *int { return &s.Segments }),
	"plate-height":           floatParam(func(s *plate.Spec) *float64 { return &s.PlateHeight }),
	"well-z-offset":          floatParam(func(s *plate.Spec) *float64 { return &s.WellZOffset }),
	"brim-extension":         floatParam(func(s *plate.Spec) *float64 { return &s.BrimExtension }),
	"stamp-base-height":      floatParam(func(s *plate.Spec) *float64 { return &s.StampBaseHeight }),
	"stamp-well-modifier":    floatParam(func(s *plate.Spec) *float64 { return &s.StampWellModifier }),
	"stamp-depth-extension":  floatParam(func(s *plate.Spec) *float64 { return &s.StampDepthExtension }),
	"mould-thickness":        floatParam(func(s *plate.Spec) *float64 { return &s.MouldThickness }),
	"frame-wall-thickness":   floatParam(func(s *plate.Spec) *float64 { return &s.FrameWallThickness }),
	"frame-height":           floatParam(func(s *plate.Spec) *float64 { return &s.FrameHeight }),
	"cutter-base-thickness":  floatParam(func(s *plate.Spec) *float64 { return &s.CutterBaseThickness }),
	"cutter-edge-thickness":  floatParam(func(s *plate.Spec) *float64 { return &s.CutterEdgeThickness }),
	"cutter-edge-extension":  floatParam(func(s *plate.Spec) *float64 { return &s.CutterEdgeExtension }),
	"cuboid-well-size":       floatParam(func(s *plate.Spec) *float64 { return &s.CuboidWellSize }),
	"frame-slot":             boolParam(func(s *plate.Spec) *bool { return &s.FrameSlot }),
	"frame-slot-modifier":    floatParam(func(s *plate.Spec) *float64 { return &s.FrameSlotModifier }),
	"no-brim":                boolParam(func(s *plate.Spec) *bool { return &s.NoBrim }),
	"cutter-guides":          boolParam(func(s *plate.Spec) *bool { return &s.CutterGuides }),
	"cutter-guide-sides":     floatParam(func(s *plate.Spec) *float64 { return &s.CutterGuideSides }),
	"cutter-guide-length":    floatParam(func(s *plate.Spec) *float64 { return &s.CutterGuideLength }),
	"cutter-guide-offset":    floatParam(func(s *plate.Spec) *float64 { return &s.CutterGuideOffset }),
	"cutter-guide-modifier":  floatParam(func(s *plate.Spec) *float64 { return &s.CutterGuideModifier }),
	"cutter-guide-clearance": floatParam(func(s *plate.Spec) *float64 { return &s.CutterGuideClearance }),

	"openscad": func(s *plate.Spec, v zygo.Sexp) error {
		str, err := toString(v)
		if err != nil {
			return err
		}
		s.OpenSCADPath = str
		return nil
	},
}

// applyParams sets every keyword in pa on s and validates the result.
// :from is handled by the caller.
func applyParams(fn string, s plate.Spec, pa kwArgs) (plate.Spec, error) {
	if len(pa.positional) > 0 {
		return plate.Spec{}, fmt.Errorf("%s: unexpected positional argument %s", fn, pa.positional[0].SexpString(nil))
	}
	for name, v := range pa.kw {
		if name == "from" {
			continue
		}
		set, ok := params[name]
		if !ok {
			return plate.Spec{}, fmt.Errorf("%s: unknown parameter :%s", fn, name)
		}
		if err := set(&s, v); err != nil {
			return plate.Spec{}, fmt.Errorf("%s: %s: %w", fn, name, err)
		}
	}
	if err := s.Validate(); err != nil {
		return plate.Spec{}, fmt.Errorf("%s: %w", fn, err)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the plate DSL builtins into a zygomys
// environment. defplate records plates in d.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, d *Design) {

	// -----------------------------------------------------------------------
	// (plate :plate-length 127.8 :plate-width 85.5 ... :rows 8 :columns 12)
	// (plate :from (sbs96) :rows 4)
	// -----------------------------------------------------------------------
	env.AddFunction("plate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		s := plate.Spec{Options: plate.DefaultOptions()}
		if v, ok := pa.kw["from"]; ok {
			base, err := toSpec(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("plate: from: %w", err)
			}
			s = base
		}
		s, err := applyParams("plate", s, pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSpec{spec: s}, nil
	})

	// -----------------------------------------------------------------------
	// (sbs96 :segments 64)
	// -----------------------------------------------------------------------
	env.AddFunction("sbs96", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if _, ok := pa.kw["from"]; ok {
			return zygo.SexpNull, fmt.Errorf("sbs96: unknown parameter :from")
		}
		s, err := applyParams("sbs96", plate.SBS96(), pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSpec{spec: s}, nil
	})

	// -----------------------------------------------------------------------
	// (defplate "name" (plate ...))
	// -----------------------------------------------------------------------
	env.AddFunction("defplate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defplate requires a name and a plate expression")
		}
		plateName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defplate: name: %w", err)
		}
		if plateName == "" {
			return zygo.SexpNull, fmt.Errorf("defplate: empty name")
		}
		s, err := toSpec(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defplate: %w", err)
		}
		if err := d.add(plateName, s); err != nil {
			return zygo.SexpNull, fmt.Errorf("defplate: %w", err)
		}
		return args[1], nil
	})

	// -----------------------------------------------------------------------
	// (well-count (sbs96)) => 96
	// -----------------------------------------------------------------------
	env.AddFunction("well_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("well-count requires a plate argument")
		}
		s, err := toSpec(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("well-count: %w", err)
		}
		return &zygo.SexpInt{Val: int64(s.Rows * s.Columns)}, nil
	})
}
