package playback

import (
	"context"
	"errors"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	configs := &StaticConfigProvider{Configs: map[CameraID]CameraConfig{
		"front": {DetectWidth: 1920, DetectHeight: 1080, AnnotationOffsetMillis: 5000},
	}}
	recordings := &StaticRecordingProvider{Records: map[CameraID][]Recording{
		"front": {
			{ID: "r1", StartTime: 1100, EndTime: 1400},
			{ID: "r2", StartTime: 1500, EndTime: 1900},
		},
	}}
	resolver := NewSourceResolver("http://nvr:5000/", "")
	return NewService(NewInMemoryRegistry(), resolver, configs, recordings, 0, nil, nil)
}

func TestService_CreatePlayer(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.CreatePlayer(context.Background(), CreatePlayerRequest{
		Camera: "front", Start: 1000, End: 2000,
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if p.ID == "" {
		t.Error("player should get an ID")
	}

	st := p.Orchestrator.State()
	if !st.ControllerReady {
		t.Error("controller should be ready: config and both players were wired")
	}
	if st.Source != "http://nvr:5000/vod/front/start/1000/end/2000/master.m3u8" {
		t.Errorf("unexpected source %q", st.Source)
	}
	if len(st.Recordings) != 2 {
		t.Errorf("expected 2 recordings from provider, got %v", st.Recordings)
	}

	updates := p.DrainUpdates()
	ready := 0
	for _, u := range updates {
		if u.Type == UpdateControllerReady {
			ready++
		}
	}
	if ready != 1 {
		t.Errorf("expected exactly one controller_ready update, got %d in %v", ready, updates)
	}
}

func TestService_CreatePlayer_validation(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.CreatePlayer(context.Background(), CreatePlayerRequest{Start: 1, End: 2}); !errors.Is(err, ErrCameraRequired) {
		t.Errorf("expected ErrCameraRequired, got %v", err)
	}
	if _, err := svc.CreatePlayer(context.Background(), CreatePlayerRequest{Camera: "front", Start: 2, End: 1}); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestService_CreatePlayer_unknown_camera_defers(t *testing.T) {
	svc := newTestService(t)

	// No config for this camera: the create still succeeds, the controller
	// just is not constructed yet.
	p, err := svc.CreatePlayer(context.Background(), CreatePlayerRequest{
		Camera: "garage", Start: 1, End: 2,
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if st := p.Orchestrator.State(); st.ControllerReady {
		t.Error("controller should not be ready without config")
	}
}

func TestService_HandleEvent(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.CreatePlayer(context.Background(), CreatePlayerRequest{
		Camera: "front", Start: 1000, End: 2000,
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	seq := p.Orchestrator.State().Sequence

	if err := svc.HandleEvent(p.ID, EventRequest{Type: "time-update", Sequence: seq, Time: 42.5}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if got := p.FullPlayer.CurrentTime(); got != 42.5 {
		t.Errorf("CurrentTime = %v, want 42.5", got)
	}

	updates := p.DrainUpdates()
	found := false
	for _, u := range updates {
		if u.Type == UpdateTimestamp && u.Timestamp == 47.5 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected offset-corrected timestamp update 47.5, got %v", updates)
	}

	if err := svc.HandleEvent(p.ID, EventRequest{Type: "playing", Sequence: seq}); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if st := p.Orchestrator.State(); st.Loading {
		t.Error("playing event should clear loading")
	}

	if err := svc.HandleEvent(p.ID, EventRequest{Type: "warp", Sequence: seq}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("expected ErrUnknownEvent, got %v", err)
	}
	if err := svc.HandleEvent("missing", EventRequest{Type: "playing"}); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestService_SetTimeRange_refreshes_recordings(t *testing.T) {
	svc := newTestService(t)
	p, err := svc.CreatePlayer(context.Background(), CreatePlayerRequest{
		Camera: "front", Start: 1000, End: 1450,
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if got := len(p.Orchestrator.State().Recordings); got != 1 {
		t.Fatalf("expected 1 recording in 1000..1450, got %d", got)
	}

	if err := svc.SetTimeRange(context.Background(), p.ID, TimeRange{Start: 1000, End: 2000}); err != nil {
		t.Fatalf("SetTimeRange: %v", err)
	}
	if got := len(p.Orchestrator.State().Recordings); got != 2 {
		t.Errorf("expected 2 recordings after widening the range, got %d", got)
	}
}

func TestService_DeletePlayer(t *testing.T) {
	svc := newTestService(t)
	p, _ := svc.CreatePlayer(context.Background(), CreatePlayerRequest{Camera: "front", Start: 1, End: 2})

	if err := svc.DeletePlayer(p.ID); err != nil {
		t.Fatalf("DeletePlayer: %v", err)
	}
	if err := svc.DeletePlayer(p.ID); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
	if svc.ActivePlayerCount() != 0 {
		t.Errorf("count = %d, want 0", svc.ActivePlayerCount())
	}
}
