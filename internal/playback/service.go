package playback

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"playback-orchestrator/internal/platform/metrics"
)

var (
	// ErrPlayerNotFound is returned when no session exists for the given ID.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrCameraRequired is returned when a create request names no camera.
	ErrCameraRequired = errors.New("camera is required")

	// ErrUnknownEvent is returned for lifecycle events of an unknown type.
	ErrUnknownEvent = errors.New("unknown event type")
)

// Service applies the playback business logic on top of the Registry: it
// creates fully wired player sessions and routes client traffic to them.
type Service struct {
	reg        Registry
	resolver   *SourceResolver
	configs    ConfigProvider
	recordings RecordingProvider
	queueSize  int
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// NewService returns a Service. configs and recordings may be nil, in which
// case sessions start without camera config or recordings until they are fed
// through the API. metrics may be nil to disable metric recording.
func NewService(reg Registry, resolver *SourceResolver, configs ConfigProvider, recordings RecordingProvider, queueSize int, log *slog.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		reg:        reg,
		resolver:   resolver,
		configs:    configs,
		recordings: recordings,
		queueSize:  queueSize,
		log:        log,
		metrics:    m,
	}
}

// CreatePlayerRequest is the input JSON payload for creating a session.
type CreatePlayerRequest struct {
	Camera         string   `json:"camera"`
	Start          int64    `json:"start"`
	End            int64    `json:"end"`
	StartTimestamp *float64 `json:"start_timestamp,omitempty"`
	Scrubbing      bool     `json:"scrubbing"`
}

// CreatePlayer wires a new player session: command-queue players, an
// orchestrator with update-buffer callbacks, best-effort provider fetches,
// and the initial time range. Provider failures are logged and left as
// not-yet-available; they never fail the create.
func (s *Service) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*Player, error) {
	if req.Camera == "" {
		return nil, ErrCameraRequired
	}
	rng := TimeRange{Start: req.Start, End: req.End}
	if !rng.Valid() {
		return nil, ErrInvalidRange
	}

	p := &Player{
		ID:         PlayerID(uuid.NewString()),
		Camera:     CameraID(req.Camera),
		FullPlayer: NewCommandPlayer(s.queueSize),
		Preview:    NewCommandPreview(s.queueSize),
		updates:    newUpdateQueue(s.queueSize),
	}
	p.Orchestrator = NewOrchestrator(Options{
		Camera:         p.Camera,
		Resolver:       s.resolver,
		Configs:        s.configs,
		Recordings:     s.recordings,
		StartTimestamp: req.StartTimestamp,
		Scrubbing:      req.Scrubbing,
		Log:            s.log.With(slog.String("player_id", string(p.ID))),
		Metrics:        s.metrics,
		Callbacks: Callbacks{
			OnControllerReady: func(*Controller) {
				p.updates.push(Update{Type: UpdateControllerReady})
			},
			OnTimestampUpdate: func(ts float64) {
				p.updates.push(Update{Type: UpdateTimestamp, Timestamp: ts})
			},
			OnClipEnded: func() {
				p.updates.push(Update{Type: UpdateClipEnded})
			},
		},
	})

	p.Orchestrator.AttachPlayer(p.FullPlayer)
	p.Orchestrator.AttachPreview(p.Preview)
	_ = p.Orchestrator.RefreshConfig(ctx)

	if err := p.Orchestrator.SetTimeRange(rng); err != nil {
		return nil, err
	}
	_ = p.Orchestrator.RefreshRecordings(ctx)

	s.reg.Add(p)
	if s.metrics != nil {
		s.metrics.IncPlayersCreated()
	}
	s.log.Info("player created",
		slog.String("player_id", string(p.ID)),
		slog.String("camera", req.Camera),
		slog.Int64("start", req.Start),
		slog.Int64("end", req.End))
	return p, nil
}

// GetPlayer returns the session for id.
func (s *Service) GetPlayer(id PlayerID) (*Player, error) {
	p, ok := s.reg.Get(id)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// DeletePlayer removes the session for id.
func (s *Service) DeletePlayer(id PlayerID) error {
	if !s.reg.Remove(id) {
		return ErrPlayerNotFound
	}
	return nil
}

// ActivePlayerCount reports the number of live sessions, for metrics.
func (s *Service) ActivePlayerCount() int {
	return s.reg.ActivePlayerCount()
}

// SetTimeRange requests a new timeline segment for the session and refreshes
// its recordings for the new window.
func (s *Service) SetTimeRange(ctx context.Context, id PlayerID, rng TimeRange) error {
	p, err := s.GetPlayer(id)
	if err != nil {
		return err
	}
	if err := p.Orchestrator.SetTimeRange(rng); err != nil {
		return err
	}
	_ = p.Orchestrator.RefreshRecordings(ctx)
	return nil
}

// EventRequest is one player lifecycle event reported by the remote client,
// tagged with the session sequence the client was driving at the time.
type EventRequest struct {
	Type     string  `json:"type"` // loaded, time-update, playing, clip-ended
	Sequence uint64  `json:"sequence"`
	Time     float64 `json:"time,omitempty"`
}

// HandleEvent relays a client-reported lifecycle event into the session's
// orchestrator. Stale events are not an error; they are dropped inside.
func (s *Service) HandleEvent(id PlayerID, ev EventRequest) error {
	p, err := s.GetPlayer(id)
	if err != nil {
		return err
	}
	switch ev.Type {
	case "loaded":
		p.Orchestrator.HandleLoaded(ev.Sequence)
	case "time-update":
		p.FullPlayer.ObserveTime(ev.Time)
		p.Orchestrator.HandleTimeUpdate(ev.Sequence, ev.Time)
	case "playing":
		p.Orchestrator.HandlePlaying(ev.Sequence)
	case "clip-ended":
		p.Orchestrator.HandleClipEnded(ev.Sequence)
	default:
		return ErrUnknownEvent
	}
	return nil
}
