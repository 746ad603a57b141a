package playback

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"playback-orchestrator/internal/platform/metrics"
)

// Handler exposes the playback session API over HTTP using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and
// optional Metrics. Metrics may be nil to disable metric recording (e.g. in
// tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// Routes mounts the player session endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/players", h.CreatePlayer)
	r.Route("/players/{player_id}", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Post("/range", h.SetRange)
		r.Post("/scrub", h.SetScrub)
		r.Post("/seek", h.Seek)
		r.Post("/events", h.PostEvent)
		r.Get("/commands", h.GetCommands)
		r.Get("/updates", h.GetUpdates)
		r.Delete("/", h.DeletePlayer)
	})
}

// CreatePlayer handles POST /players.
// Body: { "camera": "front", "start": 1000, "end": 2000,
// "start_timestamp": 1500, "scrubbing": false }.
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid create player body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	p, err := h.svc.CreatePlayer(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCameraRequired), errors.Is(err, ErrInvalidRange):
			h.log.Debug("create player rejected", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusBadRequest)
		default:
			h.log.Error("create player failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": string(p.ID)})
}

// GetState handles GET /players/{player_id}/state.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.Orchestrator.State())
}

// SetRange handles POST /players/{player_id}/range.
// Body: { "start": 1000, "end": 2000 }.
func (h *Handler) SetRange(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var rng TimeRange
	if err := json.NewDecoder(r.Body).Decode(&rng); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.svc.SetTimeRange(r.Context(), p.ID, rng); err != nil {
		if errors.Is(err, ErrInvalidRange) {
			h.log.Debug("range rejected",
				slog.String("player_id", string(p.ID)),
				slog.Int64("start", rng.Start),
				slog.Int64("end", rng.End))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.log.Error("set range failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// SetScrub handles POST /players/{player_id}/scrub.
// Body: { "scrubbing": true }.
func (h *Handler) SetScrub(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var body struct {
		Scrubbing bool `json:"scrubbing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	p.Orchestrator.SetScrubbing(body.Scrubbing)
	w.WriteHeader(http.StatusOK)
}

// Seek handles POST /players/{player_id}/seek.
// Body: { "timestamp": 1500, "autoplay": true }.
func (h *Handler) Seek(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var body struct {
		Timestamp float64 `json:"timestamp"`
		Autoplay  bool    `json:"autoplay"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := p.Orchestrator.Seek(body.Timestamp, body.Autoplay); err != nil {
		if errors.Is(err, ErrControllerNotReady) {
			w.WriteHeader(http.StatusConflict)
			return
		}
		h.log.Error("seek failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PostEvent handles POST /players/{player_id}/events.
// Body: { "type": "time-update", "sequence": 3, "time": 42.5 }.
// Stale events are accepted and dropped inside; only unknown types are 400.
func (h *Handler) PostEvent(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var ev EventRequest
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.svc.HandleEvent(p.ID, ev); err != nil {
		if errors.Is(err, ErrUnknownEvent) {
			h.log.Debug("unknown event type",
				slog.String("player_id", string(p.ID)),
				slog.String("type", ev.Type))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.log.Error("event relay failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// commandBatch is the GET /commands response: the pending instructions for
// both players plus the session sequence the client must echo on events.
type commandBatch struct {
	Sequence uint64          `json:"sequence"`
	Player   []PlayerCommand `json:"player"`
	Preview  []PlayerCommand `json:"preview"`
}

// GetCommands handles GET /players/{player_id}/commands.
func (h *Handler) GetCommands(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	// Drain first, then read the sequence, so the sequence is at least as
	// new as any command in the batch. A session resolved between the two
	// reads ships its commands on the next poll, never tagged with a
	// superseded sequence.
	batch := commandBatch{
		Player:  p.FullPlayer.Drain(),
		Preview: p.Preview.Drain(),
	}
	batch.Sequence = p.Orchestrator.State().Sequence
	writeJSON(w, http.StatusOK, batch)
}

// GetUpdates handles GET /players/{player_id}/updates.
func (h *Handler) GetUpdates(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p.DrainUpdates())
}

// DeletePlayer handles DELETE /players/{player_id}.
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id := PlayerID(chi.URLParam(r, "player_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := h.svc.DeletePlayer(id); err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h.log.Info("player deleted", slog.String("player_id", string(id)))
	w.WriteHeader(http.StatusNoContent)
}

// lookup resolves the player_id URL param, writing 400/404 on failure.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*Player, bool) {
	id := PlayerID(chi.URLParam(r, "player_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}
	p, err := h.svc.GetPlayer(id)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
