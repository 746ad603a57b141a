package playback

// CameraID uniquely identifies a camera.
type CameraID string

// TimeRange is the requested timeline segment in epoch seconds.
// A TimeRange is immutable for the lifetime of the Session it produced;
// callers replace it wholesale to request a different segment.
type TimeRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Valid reports whether the range is well formed (Start <= End).
func (r TimeRange) Valid() bool {
	return r.Start <= r.End
}

// PlaybackMode selects which of the two players is driven by seeks.
type PlaybackMode int

const (
	// ModePlayback drives the full-fidelity streamed player.
	ModePlayback PlaybackMode = iota
	// ModeScrubbing drives the frame-preview player.
	ModeScrubbing
)

// String returns the wire/log label for the mode.
func (m PlaybackMode) String() string {
	if m == ModeScrubbing {
		return "scrubbing"
	}
	return "playback"
}

// Recording is an opaque metadata record supplied by the recording provider.
// The core aggregates recordings per session and forwards them; StartTime and
// EndTime are read only to pick the focused timeline item while scrubbing.
type Recording struct {
	ID        string  `json:"id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// CameraConfig is the per-camera configuration fetched from the config provider.
type CameraConfig struct {
	// DetectWidth and DetectHeight describe the detection frame geometry.
	DetectWidth  int `json:"detect_width"`
	DetectHeight int `json:"detect_height"`
	// AnnotationOffsetMillis corrects reported playback time into
	// timeline-absolute time. The core divides by 1000 to get seconds.
	AnnotationOffsetMillis int `json:"annotation_offset"`
}

// AnnotationOffsetSeconds returns the annotation offset in seconds.
func (c CameraConfig) AnnotationOffsetSeconds() float64 {
	return float64(c.AnnotationOffsetMillis) / 1000.0
}

// Session is the resolved playback state for one TimeRange: a source locator
// plus the recordings covering that range. Sessions are never mutated in
// place; a new TimeRange or recording-list result produces a new Session with
// a strictly greater Sequence, superseding the old one. Lifecycle events
// carry the Sequence they were issued under so stale events can be dropped.
type Session struct {
	Sequence   uint64      `json:"sequence"`
	Source     string      `json:"source"`
	Recordings []Recording `json:"recordings"`
}

// Equivalent reports whether two sessions resolve to the same visible state:
// same source locator and the same recordings. Sequence is deliberately
// ignored; equivalence is what makes re-resolution idempotent.
func (s *Session) Equivalent(o *Session) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Source != o.Source || len(s.Recordings) != len(o.Recordings) {
		return false
	}
	for i := range s.Recordings {
		if s.Recordings[i] != o.Recordings[i] {
			return false
		}
	}
	return true
}
