package playback

import "sync"

// CommandType identifies a queued player command.
type CommandType string

const (
	CmdSetSource   CommandType = "set_source"
	CmdSetAutoplay CommandType = "set_autoplay"
	CmdSeek        CommandType = "seek"
	CmdPreviewSeek CommandType = "preview_seek"
)

// PlayerCommand is one instruction for the remote player client, applied in
// queue order. The drain response carries the current session sequence; the
// client echoes it on the lifecycle events it reports back, which is what
// lets the orchestrator drop events from superseded sessions.
type PlayerCommand struct {
	Type   CommandType `json:"type"`
	Source string      `json:"source,omitempty"`
	Value  float64     `json:"value,omitempty"`
	On     bool        `json:"on,omitempty"`
}

// DefaultCommandQueueSize bounds the per-player command backlog.
const DefaultCommandQueueSize = 64

// commandQueue is a bounded FIFO of player commands. When full, the oldest
// command is dropped so a client that never polls cannot grow the backlog
// without bound; the client resynchronizes from the state endpoint anyway.
type commandQueue struct {
	mu    sync.Mutex
	max   int
	queue []PlayerCommand
}

func newCommandQueue(max int) *commandQueue {
	if max <= 0 {
		max = DefaultCommandQueueSize
	}
	return &commandQueue{max: max}
}

func (q *commandQueue) push(cmd PlayerCommand) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) >= q.max {
		q.queue = q.queue[1:]
	}
	q.queue = append(q.queue, cmd)
}

// drain returns all pending commands in order and clears the queue.
func (q *commandQueue) drain() []PlayerCommand {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.queue
	q.queue = nil
	if out == nil {
		out = []PlayerCommand{}
	}
	return out
}

// CommandPlayer implements MediaPlayer by queueing commands for a remote
// player client to drain and apply.
type CommandPlayer struct {
	q *commandQueue

	mu          sync.Mutex
	currentTime float64
}

// NewCommandPlayer returns a command-queue player with the given backlog
// bound (0 selects DefaultCommandQueueSize).
func NewCommandPlayer(queueSize int) *CommandPlayer {
	return &CommandPlayer{q: newCommandQueue(queueSize)}
}

// SetSource implements MediaPlayer.
func (p *CommandPlayer) SetSource(src string) {
	p.q.push(PlayerCommand{Type: CmdSetSource, Source: src})
}

// SetAutoplay implements MediaPlayer.
func (p *CommandPlayer) SetAutoplay(on bool) {
	p.q.push(PlayerCommand{Type: CmdSetAutoplay, On: on})
}

// Seek implements MediaPlayer.
func (p *CommandPlayer) Seek(seconds float64) {
	p.q.push(PlayerCommand{Type: CmdSeek, Value: seconds})
}

// CurrentTime implements MediaPlayer, returning the last raw time the client
// reported.
func (p *CommandPlayer) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentTime
}

// ObserveTime records the raw time carried by a client time-update event.
func (p *CommandPlayer) ObserveTime(raw float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentTime = raw
}

// Drain returns and clears the pending commands.
func (p *CommandPlayer) Drain() []PlayerCommand {
	return p.q.drain()
}

// CommandPreview implements PreviewSeeker over the same command-queue
// transport as CommandPlayer.
type CommandPreview struct {
	q *commandQueue
}

// NewCommandPreview returns a command-queue preview seeker.
func NewCommandPreview(queueSize int) *CommandPreview {
	return &CommandPreview{q: newCommandQueue(queueSize)}
}

// SeekToTimestamp implements PreviewSeeker.
func (p *CommandPreview) SeekToTimestamp(ts float64) {
	p.q.push(PlayerCommand{Type: CmdPreviewSeek, Value: ts})
}

// Drain returns and clears the pending preview commands.
func (p *CommandPreview) Drain() []PlayerCommand {
	return p.q.drain()
}
