package checkout

import (
	"fmt"
	"sync"
)

// stateMachine serializes one purchase attempt at a time.
type stateMachine struct {
	mu      sync.Mutex
	state   State
	settled State
}

func newStateMachine() stateMachine {
	return stateMachine{state: StateIdle}
}

func (m *stateMachine) current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *stateMachine) lastOutcome() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settled
}

// begin claims the machine for a new attempt. Only an idle machine can start.
func (m *stateMachine) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return ErrCheckoutInProgress
	}
	m.state = StateOrderRequested
	return nil
}

func (m *stateMachine) transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !CanTransitionTo(m.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, m.state, to)
	}
	m.state = to
	if to.IsSettled() {
		m.settled = to
	}
	return nil
}
