package usecases

import (
	"fmt"
	"sync"
)

// State is a step of a planning cycle.
type State string

const (
	StateIdle                 State = "idle"
	StateAwaitingStartGeocode State = "awaiting_start_geocode"
	StateAwaitingEndGeocode   State = "awaiting_end_geocode"
	StateAwaitingRoute        State = "awaiting_route"
	StateDone                 State = "done"
	StateFailed               State = "failed"
)

// transitions lists the legal successors of every state. Failed is
// reachable from every non-idle, non-terminal state.
var transitions = map[State][]State{
	StateIdle:                 {StateAwaitingStartGeocode},
	StateAwaitingStartGeocode: {StateAwaitingEndGeocode, StateFailed},
	StateAwaitingEndGeocode:   {StateAwaitingRoute, StateFailed},
	StateAwaitingRoute:        {StateDone, StateFailed},
}

// CanTransition reports whether from → to is allowed.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Cycle tracks the state of one submission.
type Cycle struct {
	ID  string
	Seq uint64

	mu      sync.Mutex
	state   State
	history []State
}

func newCycle(id string, seq uint64) *Cycle {
	return &Cycle{ID: id, Seq: seq, state: StateIdle, history: []State{StateIdle}}
}

// State returns the current state.
func (c *Cycle) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns every state the cycle has been in, in order.
func (c *Cycle) History() []State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]State, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Cycle) advance(to State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !CanTransition(c.state, to) {
		return fmt.Errorf("cycle %s: illegal transition %s -> %s", c.ID, c.state, to)
	}
	c.state = to
	c.history = append(c.history, to)
	return nil
}
