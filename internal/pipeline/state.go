package pipeline

// State is one step of a source's state machine.
type State string

const (
	StateIdle       State = "idle"
	StateComparing  State = "comparing"
	StateFetching   State = "fetching"
	StateDecoding   State = "decoding"
	StateRendering  State = "rendering"
	StatePersisting State = "persisting"
	StateDone       State = "done"
	StateSkipped    State = "skipped"
	StateFailed     State = "failed"
)

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateSkipped || s == StateFailed
}

var transitions = map[State][]State{
	StateIdle:       {StateComparing, StateFetching},
	StateComparing:  {StateSkipped, StateFetching, StatePersisting, StateFailed},
	StateFetching:   {StateDecoding, StateFailed},
	StateDecoding:   {StateRendering, StateFailed},
	StateRendering:  {StateComparing, StateFailed},
	StatePersisting: {StateDone, StateFailed},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
