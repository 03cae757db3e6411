package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/jask/storyworld/internal/generation"
	"github.com/jask/storyworld/internal/validate"
	"github.com/jask/storyworld/internal/view"
	"github.com/jask/storyworld/internal/world"
)

// ErrBusy rejects a submit while a request is already in flight.
var ErrBusy = errors.New("session: a generation request is already in flight")

// Controller owns one generation session: its inputs, lifecycle status,
// loaded world and error. All mutation goes through its commands.
type Controller struct {
	gen   generation.Generator
	views *view.State

	mu      sync.Mutex
	status  Status
	input   Input
	request *world.Request
	world   *world.World
	// world kept aside while a re-submission is pending or has failed
	retained *world.World
	errMsg   string
	err      error
	attempt  uint64
	defaults Input
	subs     map[int]chan State
	nextSub  int
}

type Option func(*Controller)

// WithDefaults sets the genre and complexity a fresh or reset form starts with.
func WithDefaults(genre world.Genre, complexity world.Complexity) Option {
	return func(c *Controller) {
		c.defaults = Input{Genre: genre, Complexity: complexity}.withDefaults()
	}
}

// New creates an idle session. A nil views gets a private view state.
func New(gen generation.Generator, views *view.State, opts ...Option) *Controller {
	if views == nil {
		views = view.New()
	}
	c := &Controller{
		gen:      gen,
		views:    views,
		status:   StatusIdle,
		defaults: DefaultInput(),
		subs:     map[int]chan State{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.input = c.defaults
	return c
}

func (c *Controller) Views() *view.State { return c.views }

// Submit validates the input and, when accepted, moves to InFlight and
// returns the attempt to execute. Validation failures move to Failed without
// creating a request. While InFlight it returns ErrBusy and changes nothing.
func (c *Controller) Submit(in Input) (*Attempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusInFlight {
		return nil, ErrBusy
	}
	in = in.fill(c.defaults)
	c.input = in
	prev := c.visibleWorldLocked()
	c.status = StatusValidating

	req, err := buildRequest(in)
	if err != nil {
		c.failLocked(err, err.Error(), prev)
		c.publishLocked()
		return nil, err
	}

	c.attempt++
	c.status = StatusInFlight
	c.request = &req
	c.world = nil
	c.retained = prev
	c.errMsg, c.err = "", nil
	c.publishLocked()
	return &Attempt{ID: c.attempt, Request: req}, nil
}

func buildRequest(in Input) (world.Request, error) {
	theme, err := validate.Theme(in.Theme)
	if err != nil {
		return world.Request{}, err
	}
	genre, err := validate.Genre(string(in.Genre))
	if err != nil {
		return world.Request{}, err
	}
	complexity, err := validate.Complexity(string(in.Complexity))
	if err != nil {
		return world.Request{}, err
	}
	return world.Request{Theme: theme, Genre: genre, Complexity: complexity}, nil
}

// Execute performs the network call for an attempt. It does not touch
// session state and may run on any goroutine.
func (c *Controller) Execute(ctx context.Context, a *Attempt) Outcome {
	w, err := c.gen.Generate(ctx, a.Request)
	return Outcome{Attempt: a.ID, Request: a.Request, World: w, Err: err}
}

// Apply commits an outcome. Outcomes from an attempt that is no longer
// current (the session was reset or moved on) are discarded and Apply
// reports false.
func (c *Controller) Apply(o Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.Attempt != c.attempt || c.status != StatusInFlight {
		log.Printf("session: discarded stale outcome attempt=%d current=%d status=%s", o.Attempt, c.attempt, c.status)
		return false
	}
	c.request = nil
	if o.Err != nil {
		c.failLocked(o.Err, generation.UserMessage(o.Err), c.retained)
		c.publishLocked()
		return true
	}

	w := o.World
	w.FillFrom(o.Request)
	c.status = StatusLoaded
	c.world = &w
	c.retained = nil
	c.errMsg, c.err = "", nil
	c.views.Reset()
	c.publishLocked()
	return true
}

// Generate runs a full submit, execute and apply cycle synchronously.
func (c *Controller) Generate(ctx context.Context, in Input) error {
	a, err := c.Submit(in)
	if err != nil {
		return err
	}
	o := c.Execute(ctx, a)
	c.Apply(o)
	return o.Err
}

// Dismiss clears a failure. Inputs are kept; a world retained through a
// failed re-submission becomes visible again, otherwise the session is idle.
func (c *Controller) Dismiss() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusFailed {
		return false
	}
	c.errMsg, c.err = "", nil
	if c.retained != nil {
		c.status = StatusLoaded
		c.world, c.retained = c.retained, nil
	} else {
		c.status = StatusIdle
	}
	c.publishLocked()
	return true
}

// Reset discards the world, inputs and error and returns to Idle. Any
// request still in flight becomes stale.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attempt++
	c.status = StatusIdle
	c.input = c.defaults
	c.request = nil
	c.world, c.retained = nil, nil
	c.errMsg, c.err = "", nil
	c.views.Reset()
	c.publishLocked()
}

// SetInput edits the form values outside of a request.
func (c *Controller) SetInput(in Input) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusInFlight {
		return ErrBusy
	}
	c.input = in.fill(c.defaults)
	c.publishLocked()
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe delivers a snapshot after every transition. Slow readers only
// see the latest state. The returned func stops delivery.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan State, 1)
	c.subs[id] = ch
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(ch)
		}
	}
}

func (c *Controller) visibleWorldLocked() *world.World {
	switch c.status {
	case StatusLoaded:
		return c.world
	case StatusFailed:
		return c.retained
	default:
		return nil
	}
}

func (c *Controller) failLocked(err error, msg string, retained *world.World) {
	c.status = StatusFailed
	c.errMsg, c.err = msg, err
	c.world = nil
	c.retained = retained
}

func (c *Controller) snapshotLocked() State {
	st := State{
		Status:  c.status,
		Input:   c.input,
		Error:   c.errMsg,
		Err:     c.err,
		Attempt: c.attempt,
	}
	if c.request != nil {
		r := *c.request
		st.Request = &r
	}
	if c.world != nil {
		w := *c.world
		st.World = &w
	}
	return st
}

func (c *Controller) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	st := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}
