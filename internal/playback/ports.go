package playback

import "context"

// MediaPlayer is the capability surface of the full-fidelity streamed player.
// Implementations own buffering, HLS negotiation, and out-of-range seek
// clamping; the core never inspects those concerns.
type MediaPlayer interface {
	// SetSource points the player at a new media resource locator.
	SetSource(src string)
	// SetAutoplay sets the player's intent to start playing once loaded.
	SetAutoplay(on bool)
	// Seek moves playback to the given player-relative time in seconds.
	// Out-of-range values are clamped by the player, never an error.
	Seek(seconds float64)
	// CurrentTime returns the player's current raw time in seconds.
	CurrentTime() float64
}

// PreviewSeeker is the capability the scrub-preview subsystem exposes to the
// controller. Nothing else crosses that boundary.
type PreviewSeeker interface {
	SeekToTimestamp(ts float64)
}

// ConfigProvider resolves per-camera configuration. A fetch that has not
// resolved yet is represented by the caller simply not having called
// SetConfig; providers report hard failures as errors and the orchestrator
// treats them as not-yet-available.
type ConfigProvider interface {
	CameraConfig(ctx context.Context, camera CameraID) (CameraConfig, error)
}

// RecordingProvider resolves the recordings overlapping a window, ordered by
// time ascending. An empty result is valid; the core never interprets absence
// as an error.
type RecordingProvider interface {
	Recordings(ctx context.Context, camera CameraID, before, after int64) ([]Recording, error)
}
