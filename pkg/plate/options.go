package plate

// Option adjusts one optional plate parameter.
type Option func(*Options)

// WithOptions replaces the whole option set.
func WithOptions(o Options) Option {
	return func(dst *Options) { *dst = o }
}

// WithSegments sets the cylinder facet count.
func WithSegments(n int) Option {
	return func(o *Options) { o.Segments = n }
}

// WithOpenSCADPath sets the renderer executable.
func WithOpenSCADPath(path string) Option {
	return func(o *Options) { o.OpenSCADPath = path }
}

// WithPlateHeight sets the reference plate body height.
func WithPlateHeight(h float64) Option {
	return func(o *Options) { o.PlateHeight = h }
}

// WithWellZOffset sets the reference plate well floor height.
func WithWellZOffset(z float64) Option {
	return func(o *Options) { o.WellZOffset = z }
}

// WithBrimExtension sets the stamp base overhang on each side.
func WithBrimExtension(mm float64) Option {
	return func(o *Options) { o.BrimExtension = mm }
}

// WithStampBaseHeight sets the stamp base thickness.
func WithStampBaseHeight(h float64) Option {
	return func(o *Options) { o.StampBaseHeight = h }
}

// WithStampWellModifier sets the fractional pin clearance. A pin is
// WellDiameter × (1 − m) across. The right value depends on the agarose and
// the printer; it is never derived.
func WithStampWellModifier(m float64) Option {
	return func(o *Options) { o.StampWellModifier = m }
}

// WithStampDepthExtension sets how far pins stand beyond the well depth.
func WithStampDepthExtension(mm float64) Option {
	return func(o *Options) { o.StampDepthExtension = mm }
}

// WithMouldThickness sets the mould block height.
func WithMouldThickness(mm float64) Option {
	return func(o *Options) { o.MouldThickness = mm }
}

// WithFrameWallThickness sets the frame wall.
func WithFrameWallThickness(mm float64) Option {
	return func(o *Options) { o.FrameWallThickness = mm }
}

// WithFrameHeight sets the frame height.
func WithFrameHeight(mm float64) Option {
	return func(o *Options) { o.FrameHeight = mm }
}

// WithCutterBaseThickness sets the cutter base thickness.
func WithCutterBaseThickness(mm float64) Option {
	return func(o *Options) { o.CutterBaseThickness = mm }
}

// WithCutterEdgeThickness sets the cutter tube wall.
func WithCutterEdgeThickness(mm float64) Option {
	return func(o *Options) { o.CutterEdgeThickness = mm }
}

// WithCutterEdgeExtension sets how far cutter tubes stand beyond the well depth.
func WithCutterEdgeExtension(mm float64) Option {
	return func(o *Options) { o.CutterEdgeExtension = mm }
}

// WithCuboidWells switches to square wells of the given diameter.
func WithCuboidWells(size float64) Option {
	return func(o *Options) { o.CuboidWellSize = size }
}

// WithFrameSlot cuts a slot for the frame walls into the stamp base,
// widened by modifier. noBrim cuts it through the full base height.
func WithFrameSlot(modifier float64, noBrim bool) Option {
	return func(o *Options) {
		o.FrameSlot = true
		o.FrameSlotModifier = modifier
		o.NoBrim = noBrim
	}
}

// WithCutterGuides adds corner guide posts to the cutter, keeping the
// other guide parameters.
func WithCutterGuides() Option {
	return func(o *Options) { o.CutterGuides = true }
}

// WithCutterGuideSize sets the nominal post side and its height above the
// cutter base.
func WithCutterGuideSize(sides, length float64) Option {
	return func(o *Options) {
		o.CutterGuideSides = sides
		o.CutterGuideLength = length
	}
}

// WithCutterGuideOffset sets the gap between the frame wall and each post.
func WithCutterGuideOffset(mm float64) Option {
	return func(o *Options) { o.CutterGuideOffset = mm }
}

// WithCutterGuideModifier sets the fractional post shrink.
func WithCutterGuideModifier(m float64) Option {
	return func(o *Options) { o.CutterGuideModifier = m }
}

// WithCutterGuideClearance sets the minimum gap between posts and wells.
func WithCutterGuideClearance(mm float64) Option {
	return func(o *Options) { o.CutterGuideClearance = mm }
}
