package game

// SessionState is the lifecycle state of a simulation session.
type SessionState int

const (
	SessionRunning SessionState = iota
	SessionPaused
	SessionStopped
)

func (s SessionState) String() string {
	switch s {
	case SessionRunning:
		return "running"
	case SessionPaused:
		return "paused"
	case SessionStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
