package plate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpecDefaults(t *testing.T) {
	s, err := NewSpec(127.8, 85.5, 6.2, 9, 13.4, 14.4, 11.2, 8, 12)
	require.NoError(t, err)

	assert.Equal(t, DefaultOptions(), s.Options)
	assert.Equal(t, DefaultSegments, s.Segments)
	assert.Equal(t, 6.2, s.EffectiveWellDiameter())
	assert.Equal(t, DefaultSegments, s.WellSegments())
	assert.Zero(t, s.WellRotation())
}

func TestNewSpecOptions(t *testing.T) {
	s, err := NewSpec(127.8, 85.5, 6.2, 9, 13.4, 14.4, 11.2, 8, 12,
		WithSegments(96),
		WithOpenSCADPath("/usr/bin/openscad"),
		WithStampWellModifier(0.1),
		WithBrimExtension(2),
		WithMouldThickness(3),
	)
	require.NoError(t, err)

	assert.Equal(t, 96, s.Segments)
	assert.Equal(t, "/usr/bin/openscad", s.OpenSCADPath)
	assert.Equal(t, 0.1, s.StampWellModifier)
	assert.Equal(t, 2.0, s.BrimExtension)
	assert.Equal(t, 3.0, s.MouldThickness)
	// untouched options keep their defaults
	assert.Equal(t, DefaultFrameWallThickness, s.FrameWallThickness)
}

func TestCuboidWells(t *testing.T) {
	s := SBS96(WithCuboidWells(6.5))
	assert.Equal(t, 6.5, s.EffectiveWellDiameter())
	assert.Equal(t, 4, s.WellSegments())
	assert.Equal(t, 45.0, s.WellRotation())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"zero length", func(s *Spec) { s.PlateLength = 0 }},
		{"negative width", func(s *Spec) { s.PlateWidth = -1 }},
		{"zero well diameter", func(s *Spec) { s.WellDiameter = 0 }},
		{"zero pitch", func(s *Spec) { s.WellToWellDistance = 0 }},
		{"zero depth", func(s *Spec) { s.WellDepth = 0 }},
		{"zero x offset", func(s *Spec) { s.WellXOffset = 0 }},
		{"zero y offset", func(s *Spec) { s.WellYOffset = 0 }},
		{"zero rows", func(s *Spec) { s.Rows = 0 }},
		{"zero columns", func(s *Spec) { s.Columns = 0 }},
		{"zero mould thickness", func(s *Spec) { s.MouldThickness = 0 }},
		{"negative brim", func(s *Spec) { s.BrimExtension = -0.5 }},
		{"stamp modifier of one", func(s *Spec) { s.StampWellModifier = 1 }},
		{"negative stamp modifier", func(s *Spec) { s.StampWellModifier = -0.1 }},
		{"cutter wall as thick as the well radius", func(s *Spec) { s.CutterEdgeThickness = 3.1 }},
		{"frame wall into the wells", func(s *Spec) { s.FrameWallThickness = 9 }},
		{"frame slot into the wells", func(s *Spec) { s.FrameSlot, s.FrameSlotModifier = true, 0.7 }},
		{"negative frame slot modifier", func(s *Spec) { s.FrameSlot, s.FrameSlotModifier = true, -0.1 }},
		{"zero cutter guide sides", func(s *Spec) { s.CutterGuides, s.CutterGuideSides = true, 0 }},
		{"zero cutter guide length", func(s *Spec) { s.CutterGuides, s.CutterGuideLength = true, 0 }},
		{"cutter guide modifier of one", func(s *Spec) { s.CutterGuides, s.CutterGuideModifier = true, 1 }},
		{"negative cutter guide clearance", func(s *Spec) { s.CutterGuides, s.CutterGuideClearance = true, -1 }},
		{"cutter guide offset past the limit", func(s *Spec) { s.CutterGuides, s.CutterGuideOffset = true, 1.31 }},
		{"cutter guide clearance pushes guides into wells", func(s *Spec) { s.CutterGuides, s.CutterGuideClearance = true, 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SBS96()
			tt.mutate(&s)
			err := s.Validate()
			if !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("Validate() error = %v, want ErrInvalidSpec", err)
			}
		})
	}
}

func TestMatingFeatureDefaults(t *testing.T) {
	s := SBS96()
	assert.False(t, s.FrameSlot)
	assert.False(t, s.NoBrim)
	assert.False(t, s.CutterGuides)
	assert.InDelta(t, 5.25, s.FrameSlotWidth(), 1e-9)
	// 14.4 - 3.1 - 1 - 4 - 5
	assert.InDelta(t, 1.3, s.MaxCutterGuideOffset(), 1e-9)

	s, err := NewSBS96(WithFrameSlot(0.1, true), WithCutterGuides(), WithCutterGuideOffset(1))
	require.NoError(t, err)
	assert.True(t, s.FrameSlot)
	assert.True(t, s.NoBrim)
	assert.InDelta(t, 5.5, s.FrameSlotWidth(), 1e-9)
	assert.True(t, s.CutterGuides)
	assert.Equal(t, 1.0, s.CutterGuideOffset)
}

func TestMatingFeaturesCheckedOnlyWhenEnabled(t *testing.T) {
	s := SBS96()
	s.FrameSlotModifier = 0.9
	s.CutterGuideOffset = 50
	s.CutterGuideSides = 0
	assert.NoError(t, s.Validate())
}

func TestValidateAllowsOverhang(t *testing.T) {
	// 20 columns at 9mm run off a 127.8mm plate; that is the caller's call.
	s := SBS96()
	s.Columns = 20
	assert.NoError(t, s.Validate())
}

func TestValidateLeavesSegmentsToGeometry(t *testing.T) {
	s := SBS96(WithSegments(2))
	assert.NoError(t, s.Validate())
}

func TestNewSBS96(t *testing.T) {
	s, err := NewSBS96(WithBrimExtension(2))
	require.NoError(t, err)
	assert.Equal(t, SBS96(WithBrimExtension(2)), s)

	_, err = NewSBS96(WithFrameWallThickness(10))
	assert.ErrorIs(t, err, ErrInvalidSpec)
	assert.Panics(t, func() { SBS96(WithFrameWallThickness(10)) })
}

func TestNewSpecRejectsZeroRows(t *testing.T) {
	_, err := NewSpec(127.8, 85.5, 6.2, 9, 13.4, 14.4, 11.2, 0, 12)
	assert.ErrorIs(t, err, ErrInvalidSpec)
}
