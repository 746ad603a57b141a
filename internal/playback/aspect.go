package playback

// AspectClass is the display sizing class derived from the detection frame
// geometry. It is pure derived state: recomputed on every config change and
// never cached beyond the current config.
type AspectClass int

const (
	// AspectNormal is the standard 16:9-ish video aspect.
	AspectNormal AspectClass = iota
	// AspectWide is a very wide frame rendered with unconstrained height.
	AspectWide
	// AspectTall is a portrait-ish frame narrower than 16:9.
	AspectTall
)

// String returns the wire/log label for the class.
func (a AspectClass) String() string {
	switch a {
	case AspectWide:
		return "wide"
	case AspectTall:
		return "tall"
	default:
		return "normal"
	}
}

// AspectClassFor selects the sizing class for a detection frame:
// ratio > 2 is wide, ratio < 16/9 is tall, anything else is normal.
// Degenerate geometry (height <= 0) falls back to normal.
func AspectClassFor(width, height int) AspectClass {
	if height <= 0 || width <= 0 {
		return AspectNormal
	}
	ratio := float64(width) / float64(height)
	switch {
	case ratio > 2:
		return AspectWide
	case ratio < 16.0/9.0:
		return AspectTall
	default:
		return AspectNormal
	}
}
