package checkout

type State string

const (
	StateIdle           State = "IDLE"
	StateOrderRequested State = "ORDER_REQUESTED"
	StateWidgetOpen     State = "WIDGET_OPEN"
	StateSettledSuccess State = "SETTLED_SUCCESS"
	StateSettledFailure State = "SETTLED_FAILURE"
)

func (s State) IsSettled() bool {
	return s == StateSettledSuccess || s == StateSettledFailure
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}

// CanTransitionTo encodes the legal moves of one purchase attempt. Each
// attempt is an independent run; both settled states lead back to idle.
func CanTransitionTo(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateOrderRequested
	case StateOrderRequested:
		return to == StateWidgetOpen || to == StateSettledFailure
	case StateWidgetOpen:
		return to == StateSettledSuccess || to == StateSettledFailure
	case StateSettledSuccess, StateSettledFailure:
		return to == StateIdle
	}
	return false
}
