package session

import "github.com/jask/storyworld/internal/world"

// Status is the request lifecycle stage of a session.
type Status int

const (
	StatusIdle Status = iota
	StatusValidating
	StatusInFlight
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusValidating:
		return "validating"
	case StatusInFlight:
		return "in_flight"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Input is what the user typed and picked in the form.
type Input struct {
	Theme      string
	Genre      world.Genre
	Complexity world.Complexity
}

// DefaultInput is an empty form with the default selections.
func DefaultInput() Input {
	return Input{Genre: world.GenreFantasy, Complexity: world.ComplexityMedium}
}

func (in Input) withDefaults() Input { return in.fill(DefaultInput()) }

// fill takes unset selections from def.
func (in Input) fill(def Input) Input {
	if in.Genre == "" {
		in.Genre = def.Genre
	}
	if in.Complexity == "" {
		in.Complexity = def.Complexity
	}
	return in
}

// State is a point-in-time copy of a session. World is set only when Loaded
// and Error only when Failed.
type State struct {
	Status  Status
	Input   Input
	Request *world.Request
	World   *world.World
	Error   string
	Err     error
	Attempt uint64
}

// Attempt is an accepted submission waiting to be executed.
type Attempt struct {
	ID      uint64
	Request world.Request
}

// Outcome is the result of executing an Attempt.
type Outcome struct {
	Attempt uint64
	Request world.Request
	World   world.World
	Err     error
}
