package playback

import (
	"fmt"
	"strings"
)

// DefaultPlaylistFormat is the playlist extension used when none is configured.
const DefaultPlaylistFormat = "m3u8"

// SourceResolver builds the locator for the full-fidelity media resource of a
// camera and time range. Resolution is a pure function of its inputs: the same
// camera and range always produce the same locator, so callers may memoize.
type SourceResolver struct {
	base   string
	format string
}

// NewSourceResolver returns a resolver rooted at base (trailing slash added if
// missing). An empty format selects DefaultPlaylistFormat.
func NewSourceResolver(base, format string) *SourceResolver {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if format == "" {
		format = DefaultPlaylistFormat
	}
	return &SourceResolver{base: base, format: format}
}

// Resolve returns the VOD locator for camera over rng:
// {base}vod/{camera}/start/{start}/end/{end}/master.{format}.
func (r *SourceResolver) Resolve(camera CameraID, rng TimeRange) string {
	return fmt.Sprintf("%svod/%s/start/%d/end/%d/master.%s",
		r.base, camera, rng.Start, rng.End, r.format)
}
