package run

import "fmt"

// Status is the lifecycle state of a run.
type Status string

const (
	// StatusPending means the run is created but execution has not begun.
	StatusPending Status = "pending"
	// StatusActive means the server acknowledged that execution started.
	StatusActive Status = "active"
	// StatusComplete means the run finished normally. Terminal.
	StatusComplete Status = "complete"
	// StatusStopped means the run was cancelled. Terminal.
	StatusStopped Status = "stopped"
	// StatusError means the server reported a failure. Terminal.
	StatusError Status = "error"
)

var terminalStatuses = map[Status]bool{
	StatusComplete: true,
	StatusStopped:  true,
	StatusError:    true,
}

// Run status transitions: pending → active → terminal, with cancellation and
// failure possible before execution starts. Terminal states accept nothing.
var validTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusActive:  true,
		StatusStopped: true,
		StatusError:   true,
	},
	StatusActive: {
		StatusComplete: true,
		StatusStopped:  true,
		StatusError:    true,
	},
}

// IsTerminal reports whether s is a closed state.
func (s Status) IsTerminal() bool { return terminalStatuses[s] }

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	return validTransitions[s][next]
}

// ParseStatus validates a status string off the wire.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusActive, StatusComplete, StatusStopped, StatusError:
		return Status(s), nil
	default:
		return "", fmt.Errorf("run: unknown status %q", s)
	}
}
