package playback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"playback-orchestrator/internal/platform/metrics"
)

// ErrInvalidRange is returned when a requested time range has start after end.
var ErrInvalidRange = errors.New("invalid time range: start after end")

// ErrControllerNotReady is returned for operations that need a constructed
// controller before config, player, and preview have all arrived.
var ErrControllerNotReady = errors.New("controller not ready")

// Callbacks is the interface published to the orchestrator's caller.
// Callbacks are invoked synchronously while the orchestrator lock is held;
// they must record and return, never call back into the Orchestrator.
type Callbacks struct {
	// OnControllerReady fires exactly once per controller instance.
	OnControllerReady func(*Controller)
	// OnTimestampUpdate fires on every non-spurious time update with the
	// offset-corrected timeline timestamp.
	OnTimestampUpdate func(ts float64)
	// OnClipEnded is forwarded verbatim from the full player.
	OnClipEnded func()
}

// Options configures a new Orchestrator.
type Options struct {
	Camera     CameraID
	Resolver   *SourceResolver
	Configs    ConfigProvider    // optional, enables RefreshConfig
	Recordings RecordingProvider // optional, enables RefreshRecordings

	// StartTimestamp, if set, is the deep-link timestamp seeked to (with
	// autoplay intent) exactly once, on the first loaded event of the
	// session that is current when the event arrives.
	StartTimestamp *float64
	// Scrubbing sets the initial playback mode.
	Scrubbing bool

	Log       *slog.Logger
	Metrics   *metrics.Metrics // may be nil to disable metric recording
	Callbacks Callbacks
}

// Orchestrator owns the reactive wiring between external data arrival, the
// two concrete players, and the Controller. All triggers are serialized by a
// single mutex, which realizes the one-logical-thread callback model: no
// trigger ever observes another trigger half-applied.
//
// Inputs resolve independently and in any order. The controller is built at
// the join point where camera config, the media player, and the preview
// seeker are all present, and exactly once per player-pair identity.
type Orchestrator struct {
	mu sync.Mutex

	camera     CameraID
	resolver   *SourceResolver
	configs    ConfigProvider
	recProv    RecordingProvider
	log        *slog.Logger
	metrics    *metrics.Metrics
	cb         Callbacks
	modeAtomic atomic.Int32

	config  *CameraConfig
	player  MediaPlayer
	preview PreviewSeeker

	loading      bool
	rng          *TimeRange
	recordings   []Recording // nil until the recording fetch resolves
	pendingStart *float64
	seq          uint64
	session      *Session

	controller *Controller
	readyFired bool
}

// NewOrchestrator builds an orchestrator for one camera. The controller is
// not constructed here; it appears once SetConfig, AttachPlayer, and
// AttachPreview have all been called.
func NewOrchestrator(opts Options) *Orchestrator {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	o := &Orchestrator{
		camera:       opts.Camera,
		resolver:     opts.Resolver,
		configs:      opts.Configs,
		recProv:      opts.Recordings,
		log:          log,
		metrics:      opts.Metrics,
		cb:           opts.Callbacks,
		pendingStart: opts.StartTimestamp,
	}
	if opts.Scrubbing {
		o.modeAtomic.Store(int32(ModeScrubbing))
	}
	return o
}

// Mode returns the live playback mode.
func (o *Orchestrator) Mode() PlaybackMode {
	return PlaybackMode(o.modeAtomic.Load())
}

// SetConfig installs the camera configuration. The aspect class is derived
// from it on demand, never cached. A config change does not rebuild an
// existing controller; only a player or preview identity change does.
func (o *Orchestrator) SetConfig(cfg CameraConfig) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.config = &cfg
	o.maybeBuildControllerLocked()
}

// AttachPlayer installs the live full-player handle. Re-attaching the same
// handle is a no-op; attaching a different one discards the current
// controller and rebuilds it, since the controller is never patched in place.
func (o *Orchestrator) AttachPlayer(p MediaPlayer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.player == p {
		return
	}
	o.player = p
	o.discardControllerLocked()
	o.maybeBuildControllerLocked()
}

// AttachPreview installs the ready preview seeker. Same identity rules as
// AttachPlayer.
func (o *Orchestrator) AttachPreview(p PreviewSeeker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.preview == p {
		return
	}
	o.preview = p
	o.discardControllerLocked()
	o.maybeBuildControllerLocked()
}

// SetTimeRange requests a new timeline segment. A new range supersedes any
// in-flight session; lifecycle events from the old session are dropped by
// sequence comparison.
func (o *Orchestrator) SetTimeRange(rng TimeRange) error {
	if !rng.Valid() {
		return ErrInvalidRange
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rng = &rng
	o.resolveSessionLocked()
	return nil
}

// SetRecordings installs the result of the recording-list fetch for the
// current range. A nil list is treated as empty, never as an error.
func (o *Orchestrator) SetRecordings(recs []Recording) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if recs == nil {
		recs = []Recording{}
	}
	o.recordings = recs
	o.resolveSessionLocked()
}

// SetScrubbing toggles between scrubbing and playback mode. The transition
// into scrubbing marks the state as loading so the full player is hidden
// until it reports playing again; repeating the current mode changes nothing.
func (o *Orchestrator) SetScrubbing(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if on {
		if o.Mode() != ModeScrubbing {
			o.modeAtomic.Store(int32(ModeScrubbing))
			o.loading = true
		}
	} else {
		o.modeAtomic.Store(int32(ModePlayback))
	}
}

// SetStartTimestamp arms the one-shot deep-link seek consumed by the next
// loaded event.
func (o *Orchestrator) SetStartTimestamp(ts float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pendingStart = &ts
}

// Seek routes a caller-driven seek through the controller.
func (o *Orchestrator) Seek(ts float64, autoplay bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.controller == nil {
		return ErrControllerNotReady
	}
	o.controller.SeekToTimestamp(ts, autoplay)
	if o.metrics != nil {
		o.metrics.IncSeeks()
	}
	return nil
}

// HandleLoaded relays the full player's loaded event for the session tagged
// seq. If a start timestamp is armed it is consumed here, exactly once,
// strictly after the player reported loaded.
func (o *Orchestrator) HandleLoaded(seq uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dropStaleLocked(seq, "loaded") {
		return
	}
	if o.pendingStart == nil {
		return
	}
	ts := *o.pendingStart
	o.pendingStart = nil
	o.controller.SeekToTimestamp(ts, true)
	if o.metrics != nil {
		o.metrics.IncSeeks()
	}
	o.log.Debug("deep-link seek issued",
		slog.String("camera", string(o.camera)),
		slog.Float64("timestamp", ts))
}

// HandleTimeUpdate relays a time-update event. Raw time 0 is a spurious
// pre-seek report and is suppressed; anything else is offset-corrected and
// forwarded to the caller.
func (o *Orchestrator) HandleTimeUpdate(seq uint64, raw float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dropStaleLocked(seq, "time-update") {
		return
	}
	if raw == 0 {
		return
	}
	if o.cb.OnTimestampUpdate != nil {
		o.cb.OnTimestampUpdate(o.controller.Progress(raw))
	}
	if o.metrics != nil {
		o.metrics.IncTimestampUpdates()
	}
}

// HandlePlaying relays the full player's playing event, which clears the
// loading flag and makes the full player visible outside scrubbing mode.
func (o *Orchestrator) HandlePlaying(seq uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dropStaleLocked(seq, "playing") {
		return
	}
	o.loading = false
}

// HandleClipEnded relays end-of-clip verbatim to the caller.
func (o *Orchestrator) HandleClipEnded(seq uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.dropStaleLocked(seq, "clip-ended") {
		return
	}
	if o.cb.OnClipEnded != nil {
		o.cb.OnClipEnded()
	}
}

// RefreshConfig fetches the camera config from the provider and installs it.
// A fetch failure leaves the orchestrator in its not-yet-available state.
func (o *Orchestrator) RefreshConfig(ctx context.Context) error {
	if o.configs == nil {
		return nil
	}
	cfg, err := o.configs.CameraConfig(ctx, o.camera)
	if err != nil {
		o.log.Warn("config fetch failed",
			slog.String("camera", string(o.camera)),
			slog.String("error", err.Error()))
		return err
	}
	o.SetConfig(cfg)
	return nil
}

// RefreshRecordings fetches the recordings for the current range and installs
// them. Without a range this is a no-op. The fetch runs outside the lock, so
// the result is installed only if the range it was issued for is still
// current; a fetch superseded by a newer range is dropped like any other
// stale signal.
func (o *Orchestrator) RefreshRecordings(ctx context.Context) error {
	if o.recProv == nil {
		return nil
	}
	o.mu.Lock()
	rng := o.rng
	o.mu.Unlock()
	if rng == nil {
		return nil
	}
	recs, err := o.recProv.Recordings(ctx, o.camera, rng.End, rng.Start)
	if err != nil {
		o.log.Warn("recording fetch failed",
			slog.String("camera", string(o.camera)),
			slog.String("error", err.Error()))
		return err
	}
	if recs == nil {
		recs = []Recording{}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rng == nil || *o.rng != *rng {
		o.log.Debug("stale recording fetch dropped",
			slog.String("camera", string(o.camera)),
			slog.Int64("fetch_start", rng.Start),
			slog.Int64("fetch_end", rng.End))
		return nil
	}
	o.recordings = recs
	o.resolveSessionLocked()
	return nil
}

// Controller returns the constructed controller, or nil before readiness.
func (o *Orchestrator) Controller() *Controller {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.controller
}

// PlayerState is a snapshot of the orchestrator's externally visible state.
type PlayerState struct {
	Camera          CameraID    `json:"camera"`
	Mode            string      `json:"mode"`
	Loading         bool        `json:"loading"`
	FullVisible     bool        `json:"full_visible"`
	PreviewVisible  bool        `json:"preview_visible"`
	AspectClass     string      `json:"aspect_class"`
	Source          string      `json:"source,omitempty"`
	Sequence        uint64      `json:"sequence"`
	ControllerReady bool        `json:"controller_ready"`
	FocusedItem     *Recording  `json:"focused_item,omitempty"`
	Recordings      []Recording `json:"recordings,omitempty"`
}

// State snapshots the current state. Visibility is derived, not stored: the
// full player is visible iff not scrubbing and not loading; the preview is
// visible otherwise, covering the transient loading window as a placeholder.
func (o *Orchestrator) State() PlayerState {
	o.mu.Lock()
	defer o.mu.Unlock()

	mode := o.Mode()
	scrubbing := mode == ModeScrubbing
	st := PlayerState{
		Camera:          o.camera,
		Mode:            mode.String(),
		Loading:         o.loading,
		FullVisible:     !scrubbing && !o.loading,
		PreviewVisible:  scrubbing || o.loading,
		AspectClass:     o.aspectClassLocked().String(),
		ControllerReady: o.controller != nil,
	}
	if o.session != nil {
		st.Source = o.session.Source
		st.Sequence = o.session.Sequence
		st.Recordings = o.session.Recordings
	}
	if o.controller != nil {
		st.FocusedItem = o.controller.FocusedItem()
	}
	return st
}

// aspectClassLocked derives the sizing class from the current config.
func (o *Orchestrator) aspectClassLocked() AspectClass {
	if o.config == nil {
		return AspectNormal
	}
	return AspectClassFor(o.config.DetectWidth, o.config.DetectHeight)
}

// maybeBuildControllerLocked is the join over the three independently
// resolving inputs. Redundant calls while a controller exists are no-ops, so
// re-resolution of equal inputs can never create a second instance.
func (o *Orchestrator) maybeBuildControllerLocked() {
	if o.controller != nil {
		return
	}
	if o.config == nil || o.player == nil || o.preview == nil {
		return
	}
	o.controller = NewController(o.player, o.preview, o.config.AnnotationOffsetSeconds(), o.Mode)
	if !o.readyFired {
		o.readyFired = true
		if o.cb.OnControllerReady != nil {
			o.cb.OnControllerReady(o.controller)
		}
	}
	o.log.Info("controller ready",
		slog.String("camera", string(o.camera)),
		slog.Float64("annotation_offset_s", o.config.AnnotationOffsetSeconds()))
	// A range requested before readiness resolves now.
	o.resolveSessionLocked()
}

// discardControllerLocked drops the controller and its session so the next
// join rebuilds both; the pending range then resolves a fresh session.
func (o *Orchestrator) discardControllerLocked() {
	if o.controller == nil {
		return
	}
	o.controller = nil
	o.readyFired = false
	o.session = nil
}

// resolveSessionLocked recomputes the playback session for the current range
// and recordings. Superseding is the cancellation mechanism: the sequence is
// bumped and stale lifecycle events are dropped on arrival. Resolving to an
// equivalent session is a no-op so redundant triggers never re-flicker.
func (o *Orchestrator) resolveSessionLocked() {
	if o.controller == nil || o.rng == nil {
		return
	}
	recs := o.recordings
	if recs == nil {
		recs = []Recording{}
	}
	candidate := &Session{
		Source:     o.resolver.Resolve(o.camera, *o.rng),
		Recordings: recs,
	}
	if o.session.Equivalent(candidate) {
		return
	}
	o.seq++
	candidate.Sequence = o.seq
	o.session = candidate
	o.loading = true
	o.player.SetAutoplay(o.Mode() != ModeScrubbing)
	o.player.SetSource(candidate.Source)
	o.controller.NewPlayback(candidate)
	if o.metrics != nil {
		o.metrics.IncSessionsResolved()
	}
	o.log.Debug("session resolved",
		slog.String("camera", string(o.camera)),
		slog.Uint64("sequence", candidate.Sequence),
		slog.String("source", candidate.Source),
		slog.Int("recordings", len(recs)))
}

// dropStaleLocked reports whether a lifecycle event tagged seq belongs to a
// superseded session and should be ignored.
func (o *Orchestrator) dropStaleLocked(seq uint64, event string) bool {
	if o.controller == nil || o.session == nil || seq != o.session.Sequence {
		if o.metrics != nil {
			o.metrics.IncStaleEventsDropped()
		}
		o.log.Debug("stale lifecycle event dropped",
			slog.String("camera", string(o.camera)),
			slog.String("event", event),
			slog.Uint64("event_sequence", seq))
		return true
	}
	return false
}
