package playback

// ModeFunc reports the live playback mode. The controller calls it on every
// seek rather than caching the value, since the mode can flip between calls.
type ModeFunc func() PlaybackMode

// Controller is the single authoritative object mediating playback between
// the full player and the preview player for one camera. It is constructed
// only once the media player, the preview seeker, and the camera config are
// all available; both player references are assumed stable for its lifetime.
// If either reference changes identity the controller is discarded and
// rebuilt, never patched in place.
type Controller struct {
	player           MediaPlayer
	preview          PreviewSeeker
	annotationOffset float64
	mode             ModeFunc

	session *Session
	focused *Recording
}

// NewController builds a controller. All arguments must be non-nil; the
// orchestrator guards construction so a half-ready controller never exists.
func NewController(player MediaPlayer, preview PreviewSeeker, annotationOffsetSeconds float64, mode ModeFunc) *Controller {
	return &Controller{
		player:           player,
		preview:          preview,
		annotationOffset: annotationOffsetSeconds,
		mode:             mode,
	}
}

// SeekToTimestamp routes a seek to whichever player the live mode selects.
// In playback mode the full player is seeked to the offset-adjusted timestamp
// and its autoplay intent is set; in scrubbing mode the seek is delegated to
// the preview player and the focused timeline item is updated. Out-of-range
// timestamps are clamped by the underlying player.
func (c *Controller) SeekToTimestamp(ts float64, autoplay bool) {
	if c.mode() == ModeScrubbing {
		c.preview.SeekToTimestamp(ts)
		c.focused = c.recordingAt(ts)
		return
	}
	c.player.SetAutoplay(autoplay)
	c.player.Seek(ts + c.annotationOffset)
}

// Progress translates a raw player time into a timeline-absolute timestamp.
// Pure: Progress(t) == t + annotationOffset.
func (c *Controller) Progress(raw float64) float64 {
	return raw + c.annotationOffset
}

// NewPlayback installs a freshly resolved session so subsequent lifecycle
// events are interpreted against it rather than stale state. Calling it again
// with an equivalent session is a no-op, so re-resolution never re-flickers.
func (c *Controller) NewPlayback(s *Session) {
	if c.session.Equivalent(s) {
		return
	}
	c.session = s
	c.focused = nil
}

// CurrentSequence returns the sequence of the installed session, or 0 if no
// session has been installed yet. Lifecycle events compare their captured
// sequence against this value to detect staleness.
func (c *Controller) CurrentSequence() uint64 {
	if c.session == nil {
		return 0
	}
	return c.session.Sequence
}

// FocusedItem returns the recording the preview cursor is over, or nil.
// Consumed by the timeline overlay.
func (c *Controller) FocusedItem() *Recording {
	return c.focused
}

// recordingAt finds the session recording containing ts, or nil.
func (c *Controller) recordingAt(ts float64) *Recording {
	if c.session == nil {
		return nil
	}
	for i := range c.session.Recordings {
		rec := &c.session.Recordings[i]
		if ts >= rec.StartTime && ts <= rec.EndTime {
			return rec
		}
	}
	return nil
}
