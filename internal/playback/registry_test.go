package playback

import "testing"

func newTestPlayer(id PlayerID) *Player {
	return &Player{
		ID:         id,
		Camera:     "front",
		FullPlayer: NewCommandPlayer(0),
		Preview:    NewCommandPreview(0),
		updates:    newUpdateQueue(0),
	}
}

func TestInMemoryRegistry_add_get_remove(t *testing.T) {
	reg := NewInMemoryRegistry()

	p := newTestPlayer("p1")
	reg.Add(p)

	got, ok := reg.Get("p1")
	if !ok || got != p {
		t.Fatalf("Get(p1) = %v, %v", got, ok)
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("Get(missing) should be false")
	}

	if !reg.Remove("p1") {
		t.Error("Remove(p1) should report true")
	}
	if reg.Remove("p1") {
		t.Error("second Remove(p1) should report false")
	}
	if _, ok := reg.Get("p1"); ok {
		t.Error("player should be gone after Remove")
	}
}

func TestInMemoryRegistry_active_count(t *testing.T) {
	reg := NewInMemoryRegistry()
	if reg.ActivePlayerCount() != 0 {
		t.Errorf("empty registry count = %d", reg.ActivePlayerCount())
	}

	reg.Add(newTestPlayer("p1"))
	reg.Add(newTestPlayer("p2"))
	if reg.ActivePlayerCount() != 2 {
		t.Errorf("count = %d, want 2", reg.ActivePlayerCount())
	}

	reg.Remove("p1")
	if reg.ActivePlayerCount() != 1 {
		t.Errorf("count = %d, want 1", reg.ActivePlayerCount())
	}
}

func TestInMemoryPlayerStore(t *testing.T) {
	store := NewInMemoryPlayerStore()

	p := newTestPlayer("p1")
	store.SetPlayer(p)

	if got, ok := store.GetPlayer("p1"); !ok || got != p {
		t.Fatalf("GetPlayer = %v, %v", got, ok)
	}
	if ids := store.ListPlayerIDs(); len(ids) != 1 || ids[0] != "p1" {
		t.Errorf("ListPlayerIDs = %v", ids)
	}

	store.DeletePlayer("p1")
	if _, ok := store.GetPlayer("p1"); ok {
		t.Error("player should be deleted")
	}
}

func TestPlayer_drain_updates(t *testing.T) {
	p := newTestPlayer("p1")
	p.updates.push(Update{Type: UpdateControllerReady})
	p.updates.push(Update{Type: UpdateTimestamp, Timestamp: 47.5})

	got := p.DrainUpdates()
	if len(got) != 2 || got[0].Type != UpdateControllerReady || got[1].Timestamp != 47.5 {
		t.Errorf("unexpected updates %v", got)
	}
	if got := p.DrainUpdates(); len(got) != 0 {
		t.Errorf("second drain should be empty, got %v", got)
	}
}
