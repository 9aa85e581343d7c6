// Package plate describes a multi-well microscopy plate and derives the
// well-centre coordinates every printed part is aligned to.
//
// All lengths are millimetres in plate-local coordinates: the origin is the
// plate corner next to well A1, X runs along the plate length and Y along
// its width.
package plate

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpec is returned for plate parameters that cannot describe a plate.
var ErrInvalidSpec = errors.New("invalid plate spec")

// Default values for the optional plate parameters.
const (
	DefaultSegments            = 32
	DefaultPlateHeight         = 13.4
	DefaultWellZOffset         = 0.29
	DefaultStampBaseHeight     = 5.0
	DefaultStampWellModifier   = 0.05
	DefaultStampDepthExtension = 1.0
	DefaultMouldThickness      = 2.0
	DefaultFrameWallThickness  = 5.0
	DefaultFrameHeight         = 5.0
	DefaultCutterBaseThickness = 5.0
	DefaultCutterEdgeThickness = 0.5
	DefaultCutterEdgeExtension = 2.0

	DefaultFrameSlotModifier    = 0.05
	DefaultCutterGuideSides     = 4.0
	DefaultCutterGuideLength    = 8.0
	DefaultCutterGuideOffset    = 0.5
	DefaultCutterGuideModifier  = 0.025
	DefaultCutterGuideClearance = 1.0
)

// Options holds the tuning parameters of a plate. Every field has a
// documented default, see DefaultOptions.
type Options struct {
	// Segments is the facet count of every cylinder in every part. Higher
	// values give smoother wells at the cost of much slower rendering.
	Segments int `yaml:"segments"`
	// OpenSCADPath is the renderer executable. Only mesh export and
	// preview need it.
	OpenSCADPath string `yaml:"openscad_path"`

	PlateHeight float64 `yaml:"plate_height"`  // reference plate body height
	WellZOffset float64 `yaml:"well_z_offset"` // reference plate well floor

	BrimExtension       float64 `yaml:"brim_extension"`        // stamp base overhang per side
	StampBaseHeight     float64 `yaml:"stamp_base_height"`     // stamp base thickness
	StampWellModifier   float64 `yaml:"stamp_well_modifier"`   // fractional pin shrink, [0,1)
	StampDepthExtension float64 `yaml:"stamp_depth_extension"` // pin height beyond well depth

	MouldThickness float64 `yaml:"mould_thickness"` // agarose pad thickness

	// FrameWallThickness is checked against the A1-side margins only. On
	// plates whose far wells sit closer to the edge than the first ones,
	// keeping the wall clear of them is the caller's responsibility.
	FrameWallThickness float64 `yaml:"frame_wall_thickness"`
	FrameHeight        float64 `yaml:"frame_height"`

	// FrameSlot cuts a step around the top of the stamp base for the frame
	// walls to sit in. The step is FrameWallThickness × (1 +
	// FrameSlotModifier) wide, measured from the plate edge, plus the brim.
	// It is half the base height deep unless NoBrim is set, in which case
	// it runs through the whole base and leaves no ledge.
	FrameSlot         bool    `yaml:"frame_slot"`
	FrameSlotModifier float64 `yaml:"frame_slot_modifier"`
	NoBrim            bool    `yaml:"no_brim"`

	CutterBaseThickness float64 `yaml:"cutter_base_thickness"`
	CutterEdgeThickness float64 `yaml:"cutter_edge_thickness"` // tube wall
	CutterEdgeExtension float64 `yaml:"cutter_edge_extension"` // tube height beyond well depth

	// CutterGuides adds a square post in each corner of the cutter, just
	// inside the frame walls, so the cutter drops into the frame square to
	// the wells.
	CutterGuides         bool    `yaml:"cutter_guides"`
	CutterGuideSides     float64 `yaml:"cutter_guide_sides"`     // nominal post side
	CutterGuideLength    float64 `yaml:"cutter_guide_length"`    // post height above the base
	CutterGuideOffset    float64 `yaml:"cutter_guide_offset"`    // gap between frame wall and post
	CutterGuideModifier  float64 `yaml:"cutter_guide_modifier"`  // fractional post shrink, [0,1)
	CutterGuideClearance float64 `yaml:"cutter_guide_clearance"` // minimum gap between posts and wells

	// CuboidWellSize switches to square wells of this diameter when > 0.
	CuboidWellSize float64 `yaml:"cuboid_well_size"`
}

// DefaultOptions returns the option set used when a parameter is not given.
func DefaultOptions() Options {
	return Options{
		Segments:            DefaultSegments,
		PlateHeight:         DefaultPlateHeight,
		WellZOffset:         DefaultWellZOffset,
		StampBaseHeight:     DefaultStampBaseHeight,
		StampWellModifier:   DefaultStampWellModifier,
		StampDepthExtension: DefaultStampDepthExtension,
		MouldThickness:      DefaultMouldThickness,
		FrameWallThickness:  DefaultFrameWallThickness,
		FrameHeight:         DefaultFrameHeight,
		CutterBaseThickness: DefaultCutterBaseThickness,
		CutterEdgeThickness: DefaultCutterEdgeThickness,
		CutterEdgeExtension: DefaultCutterEdgeExtension,

		FrameSlotModifier:    DefaultFrameSlotModifier,
		CutterGuideSides:     DefaultCutterGuideSides,
		CutterGuideLength:    DefaultCutterGuideLength,
		CutterGuideOffset:    DefaultCutterGuideOffset,
		CutterGuideModifier:  DefaultCutterGuideModifier,
		CutterGuideClearance: DefaultCutterGuideClearance,
	}
}

// Spec is the full parameter set of a plate. Treat it as an immutable value.
//
// Wells that overhang the plate (Rows × pitch + 2 × offset > length) are not
// rejected; keeping the grid on the plate is the caller's responsibility.
type Spec struct {
	PlateLength        float64 `yaml:"plate_length"`
	PlateWidth         float64 `yaml:"plate_width"`
	WellDiameter       float64 `yaml:"well_diameter"`
	WellToWellDistance float64 `yaml:"well_to_well_distance"`
	WellDepth          float64 `yaml:"well_depth"`
	WellXOffset        float64 `yaml:"well_x_offset"`
	WellYOffset        float64 `yaml:"well_y_offset"`
	Rows               int     `yaml:"rows"`
	Columns            int     `yaml:"columns"`

	Options `yaml:",inline"`
}

// NewSpec builds a validated Spec from the required plate dimensions and
// any number of options applied over DefaultOptions.
func NewSpec(length, width, wellDiameter, pitch, wellDepth, xOffset, yOffset float64, rows, columns int, opts ...Option) (Spec, error) {
	s := Spec{
		PlateLength:        length,
		PlateWidth:         width,
		WellDiameter:       wellDiameter,
		WellToWellDistance: pitch,
		WellDepth:          wellDepth,
		WellXOffset:        xOffset,
		WellYOffset:        yOffset,
		Rows:               rows,
		Columns:            columns,
		Options:            DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&s.Options)
	}
	if err := s.Validate(); err != nil {
		return Spec{}, err
	}
	return s, nil
}

// NewSBS96 returns a standard 96-well plate with opts applied.
func NewSBS96(opts ...Option) (Spec, error) {
	return NewSpec(127.8, 85.5, 6.2, 9, 13.4, 14.4, 11.2, 8, 12, opts...)
}

// SBS96 is like NewSBS96 but panics if opts make the plate invalid. It is
// meant for fixed, known-good options; use NewSBS96 for anything from
// user input.
func SBS96(opts ...Option) Spec {
	s, err := NewSBS96(opts...)
	if err != nil {
		panic(fmt.Sprintf("plate: SBS96: %v", err))
	}
	return s
}

// EffectiveWellDiameter is the well diameter parts are cut to, taking
// cuboid wells into account.
func (s Spec) EffectiveWellDiameter() float64 {
	if s.CuboidWellSize > 0 {
		return s.CuboidWellSize
	}
	return s.WellDiameter
}

// WellSegments is the facet count used for well-shaped features. Cuboid
// wells are four-sided.
func (s Spec) WellSegments() int {
	if s.CuboidWellSize > 0 {
		return 4
	}
	return s.Segments
}

// WellRotation is the rotation in degrees applied to well-shaped features
// so that four-sided wells come out axis aligned.
func (s Spec) WellRotation() float64 {
	if s.CuboidWellSize > 0 {
		return 45
	}
	return 0
}

// Validate checks the plate parameters. The segment count is left to the
// geometry layer, which rejects it when a cylinder is built.
func (s Spec) Validate() error {
	required := []struct {
		name string
		v    float64
	}{
		{"plate length", s.PlateLength},
		{"plate width", s.PlateWidth},
		{"well diameter", s.WellDiameter},
		{"well-to-well distance", s.WellToWellDistance},
		{"well depth", s.WellDepth},
		{"well X offset", s.WellXOffset},
		{"well Y offset", s.WellYOffset},
	}
	for _, f := range required {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is %v, must be positive", ErrInvalidSpec, f.name, f.v)
		}
	}
	if s.Rows <= 0 {
		return fmt.Errorf("%w: rows is %d, must be positive", ErrInvalidSpec, s.Rows)
	}
	if s.Columns <= 0 {
		return fmt.Errorf("%w: columns is %d, must be positive", ErrInvalidSpec, s.Columns)
	}

	positive := []struct {
		name string
		v    float64
	}{
		{"plate height", s.PlateHeight},
		{"stamp base height", s.StampBaseHeight},
		{"mould thickness", s.MouldThickness},
		{"frame wall thickness", s.FrameWallThickness},
		{"frame height", s.FrameHeight},
		{"cutter base thickness", s.CutterBaseThickness},
		{"cutter edge thickness", s.CutterEdgeThickness},
	}
	for _, f := range positive {
		if !(f.v > 0) {
			return fmt.Errorf("%w: %s is %v, must be positive", ErrInvalidSpec, f.name, f.v)
		}
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"well Z offset", s.WellZOffset},
		{"brim extension", s.BrimExtension},
		{"stamp depth extension", s.StampDepthExtension},
		{"cutter edge extension", s.CutterEdgeExtension},
		{"cuboid well size", s.CuboidWellSize},
	}
	for _, f := range nonNegative {
		if f.v < 0 {
			return fmt.Errorf("%w: %s is %v, must not be negative", ErrInvalidSpec, f.name, f.v)
		}
	}

	if s.StampWellModifier < 0 || s.StampWellModifier >= 1 {
		return fmt.Errorf("%w: stamp well modifier is %v, must be in [0, 1)", ErrInvalidSpec, s.StampWellModifier)
	}

	radius := s.EffectiveWellDiameter() / 2
	if s.CutterEdgeThickness >= radius {
		return fmt.Errorf("%w: cutter edge thickness %v must be less than the well radius %v",
			ErrInvalidSpec, s.CutterEdgeThickness, radius)
	}

	maxWall := math.Min(s.WellXOffset, s.WellYOffset) - radius
	if s.FrameWallThickness >= maxWall {
		return fmt.Errorf("%w: frame wall thickness %v must be less than %v (the distance between the wells and the plate edge)",
			ErrInvalidSpec, s.FrameWallThickness, maxWall)
	}

	if s.FrameSlot {
		if err := s.validateFrameSlot(maxWall); err != nil {
			return err
		}
	}
	if s.CutterGuides {
		if err := s.validateCutterGuides(); err != nil {
			return err
		}
	}
	return nil
}

// FrameSlotWidth is the width of the frame slot measured from the plate edge.
func (s Spec) FrameSlotWidth() float64 {
	return s.FrameWallThickness * (1 + s.FrameSlotModifier)
}

func (s Spec) validateFrameSlot(maxWall float64) error {
	if s.FrameSlotModifier < 0 || s.FrameSlotModifier >= 1 {
		return fmt.Errorf("%w: frame slot modifier is %v, must be in [0, 1)", ErrInvalidSpec, s.FrameSlotModifier)
	}
	if w := s.FrameSlotWidth(); w >= maxWall {
		return fmt.Errorf("%w: frame slot width %v must be less than %v (the distance between the wells and the plate edge)",
			ErrInvalidSpec, w, maxWall)
	}
	return nil
}

// MaxCutterGuideOffset is the largest guide offset that keeps the guide
// posts CutterGuideClearance away from the outermost wells.
func (s Spec) MaxCutterGuideOffset() float64 {
	return math.Max(s.WellXOffset, s.WellYOffset) - s.EffectiveWellDiameter()/2 -
		s.CutterGuideClearance - s.CutterGuideSides - s.FrameWallThickness
}

func (s Spec) validateCutterGuides() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"cutter guide sides", s.CutterGuideSides},
		{"cutter guide length", s.CutterGuideLength},
		{"cutter guide offset", s.CutterGuideOffset},
	}
	for _, f := range positive {
		if !(f.v > 0) {
			return fmt.Errorf("%w: %s is %v, must be positive", ErrInvalidSpec, f.name, f.v)
		}
	}
	if s.CutterGuideClearance < 0 {
		return fmt.Errorf("%w: cutter guide clearance is %v, must not be negative", ErrInvalidSpec, s.CutterGuideClearance)
	}
	if s.CutterGuideModifier < 0 || s.CutterGuideModifier >= 1 {
		return fmt.Errorf("%w: cutter guide modifier is %v, must be in [0, 1)", ErrInvalidSpec, s.CutterGuideModifier)
	}
	if limit := s.MaxCutterGuideOffset(); s.CutterGuideOffset >= limit {
		return fmt.Errorf("%w: cutter guide offset %v must be less than %v, or the guide clearance %v smaller, so the guides miss the wells",
			ErrInvalidSpec, s.CutterGuideOffset, limit, s.CutterGuideClearance)
	}
	return nil
}
