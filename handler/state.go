package handler

// State is a sink's lifecycle stage. Transitions only move forward:
// Running → Draining → Stopped. A stopped sink is never reused.
type State int32

const (
	// StateCreated is the zero state before the worker starts
	StateCreated State = iota
	// StateRunning accepts lines and writes them
	StateRunning
	// StateDraining rejects lines while the worker exits
	StateDraining
	// StateStopped means the worker has exited
	StateStopped
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateRunning:
		return "Running"
	case StateDraining:
		return "Draining"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}
