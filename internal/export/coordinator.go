package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jask/storyworld/internal/clipboard"
	"github.com/jask/storyworld/internal/world"
)

// CopiedFor is how long the copied indicator stays on after a copy.
const CopiedFor = 2000 * time.Millisecond

// ErrClipboardUnavailable wraps any failure to place the world on the clipboard.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// State is the copy indicator. ExpiresAt is zero unless Copied.
type State struct {
	Pending   bool
	Copied    bool
	ExpiresAt time.Time
}

// Timer is the part of *time.Timer the coordinator needs.
type Timer interface {
	Stop() bool
}

type Option func(*Coordinator)

// WithClock replaces time.Now and time.AfterFunc, for tests.
func WithClock(now func() time.Time, afterFunc func(time.Duration, func()) Timer) Option {
	return func(c *Coordinator) {
		c.now = now
		c.afterFunc = afterFunc
	}
}

// Coordinator copies worlds to the clipboard and tracks the transient
// copied indicator. It never modifies the world it is given.
type Coordinator struct {
	clip      clipboard.Writer
	now       func() time.Time
	afterFunc func(time.Duration, func()) Timer

	mu      sync.Mutex
	state   State
	timer   Timer
	gen     uint64
	changes chan State
}

func NewCoordinator(clip clipboard.Writer, opts ...Option) *Coordinator {
	c := &Coordinator{
		clip: clip,
		now:  time.Now,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		changes: make(chan State, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Copy serializes the world and writes it to the clipboard. On success the
// indicator turns on for CopiedFor, restarting the countdown if it was
// already on.
func (c *Coordinator) Copy(ctx context.Context, w world.World) error {
	data, err := Serialize(w)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Pending = true
	c.publishLocked()
	c.mu.Unlock()

	werr := c.clip.Write(ctx, string(data))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Pending = false
	if werr != nil {
		log.Printf("export: clipboard write failed: %v", werr)
		c.publishLocked()
		return fmt.Errorf("%w: %w", ErrClipboardUnavailable, werr)
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.state.Copied = true
	c.state.ExpiresAt = c.now().Add(CopiedFor)
	c.timer = c.afterFunc(CopiedFor, func() { c.expire(gen) })
	c.publishLocked()
	return nil
}

func (c *Coordinator) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// a newer copy owns the indicator
	if gen != c.gen {
		return
	}
	c.timer = nil
	c.state.Copied = false
	c.state.ExpiresAt = time.Time{}
	c.publishLocked()
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Changes delivers the latest state after each change.
func (c *Coordinator) Changes() <-chan State { return c.changes }

// Close stops a pending expiry timer.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Coordinator) publishLocked() {
	st := c.state
	select {
	case <-c.changes:
	default:
	}
	select {
	case c.changes <- st:
	default:
	}
}
