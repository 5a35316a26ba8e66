package chat

// State of a chat connection. Transitions only move forward:
// Idle -> Active -> Terminated, or Idle -> Terminated.
type State int32

const (
	Idle State = iota
	Active
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
