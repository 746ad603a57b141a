package playback

import "sync"

// PlayerID uniquely identifies a managed player session.
type PlayerID string

// Update is one caller-facing notification produced by the orchestrator
// callbacks, buffered until the client drains it.
type Update struct {
	Type      string  `json:"type"` // controller_ready, timestamp, clip_ended
	Timestamp float64 `json:"timestamp,omitempty"`
}

const (
	UpdateControllerReady = "controller_ready"
	UpdateTimestamp       = "timestamp"
	UpdateClipEnded       = "clip_ended"
)

// updateQueue is a bounded FIFO of updates, oldest dropped on overflow.
type updateQueue struct {
	mu    sync.Mutex
	max   int
	queue []Update
}

func newUpdateQueue(max int) *updateQueue {
	if max <= 0 {
		max = DefaultCommandQueueSize
	}
	return &updateQueue{max: max}
}

func (q *updateQueue) push(u Update) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) >= q.max {
		q.queue = q.queue[1:]
	}
	q.queue = append(q.queue, u)
}

func (q *updateQueue) drain() []Update {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.queue
	q.queue = nil
	if out == nil {
		out = []Update{}
	}
	return out
}

// Player bundles everything the service manages for one player session: the
// orchestrator, the two command-queue players the remote client drains, and
// the buffered caller notifications.
type Player struct {
	ID           PlayerID
	Camera       CameraID
	Orchestrator *Orchestrator
	FullPlayer   *CommandPlayer
	Preview      *CommandPreview

	updates *updateQueue
}

// DrainUpdates returns and clears the buffered caller notifications.
func (p *Player) DrainUpdates() []Update {
	return p.updates.drain()
}

// Registry defines the concurrency-safe contract for tracking live player
// sessions.
type Registry interface {
	// Add registers a player session. An existing session with the same ID
	// is replaced.
	Add(p *Player)

	// Get returns the player session with the given ID. The ok return is
	// false if no such session exists.
	Get(id PlayerID) (*Player, bool)

	// Remove deletes a player session, reporting whether it existed.
	Remove(id PlayerID) bool

	// ActivePlayerCount returns the number of live sessions. Used for metrics.
	ActivePlayerCount() int
}

// InMemoryRegistry is a concurrency-safe in-memory implementation of
// Registry. It uses a PlayerStore for persistence; by default that is an
// InMemoryPlayerStore.
type InMemoryRegistry struct {
	mu    sync.RWMutex
	store PlayerStore
}

// NewInMemoryRegistry constructs a registry with a default in-memory store.
func NewInMemoryRegistry() *InMemoryRegistry {
	return NewInMemoryRegistryWithStore(NewInMemoryPlayerStore())
}

// NewInMemoryRegistryWithStore constructs a registry that uses the given
// PlayerStore. Useful for testing or for plugging in a different backend.
func NewInMemoryRegistryWithStore(store PlayerStore) *InMemoryRegistry {
	return &InMemoryRegistry{store: store}
}

// Add implements Registry.Add.
func (r *InMemoryRegistry) Add(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.SetPlayer(p)
}

// Get implements Registry.Get.
func (r *InMemoryRegistry) Get(id PlayerID) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.GetPlayer(id)
}

// Remove implements Registry.Remove.
func (r *InMemoryRegistry) Remove(id PlayerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.store.GetPlayer(id); !ok {
		return false
	}
	r.store.DeletePlayer(id)
	return true
}

// ActivePlayerCount implements Registry.ActivePlayerCount.
func (r *InMemoryRegistry) ActivePlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.store.ListPlayerIDs())
}

// PlayerStore is the persistence abstraction for player sessions.
// Implementations can be in-memory or remote; the Registry uses PlayerStore
// for all reads and writes.
type PlayerStore interface {
	GetPlayer(id PlayerID) (*Player, bool)
	SetPlayer(p *Player)
	DeletePlayer(id PlayerID)
	ListPlayerIDs() []PlayerID
}

// InMemoryPlayerStore is an in-memory implementation of PlayerStore.
type InMemoryPlayerStore struct {
	players map[PlayerID]*Player
}

// NewInMemoryPlayerStore returns a new empty in-memory store.
func NewInMemoryPlayerStore() *InMemoryPlayerStore {
	return &InMemoryPlayerStore{players: make(map[PlayerID]*Player)}
}

// GetPlayer implements PlayerStore.GetPlayer.
func (s *InMemoryPlayerStore) GetPlayer(id PlayerID) (*Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// SetPlayer implements PlayerStore.SetPlayer.
func (s *InMemoryPlayerStore) SetPlayer(p *Player) {
	s.players[p.ID] = p
}

// DeletePlayer implements PlayerStore.DeletePlayer.
func (s *InMemoryPlayerStore) DeletePlayer(id PlayerID) {
	delete(s.players, id)
}

// ListPlayerIDs implements PlayerStore.ListPlayerIDs.
func (s *InMemoryPlayerStore) ListPlayerIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	return ids
}
