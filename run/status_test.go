package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		ok   bool
	}{
		{"pending to active", StatusPending, StatusActive, true},
		{"pending to stopped", StatusPending, StatusStopped, true},
		{"pending to error", StatusPending, StatusError, true},
		{"pending to complete skips active", StatusPending, StatusComplete, false},
		{"active to complete", StatusActive, StatusComplete, true},
		{"active to stopped", StatusActive, StatusStopped, true},
		{"active to error", StatusActive, StatusError, true},
		{"active back to pending", StatusActive, StatusPending, false},
		{"complete to active", StatusComplete, StatusActive, false},
		{"complete to stopped", StatusComplete, StatusStopped, false},
		{"stopped to complete", StatusStopped, StatusComplete, false},
		{"error to active", StatusError, StatusActive, false},
		{"self transition", StatusActive, StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatus_ActiveOnlyReachableFromPending(t *testing.T) {
	for _, from := range []Status{StatusActive, StatusComplete, StatusStopped, StatusError} {
		assert.False(t, from.CanTransition(StatusActive), "active must only be reachable from pending, not %s", from)
	}
	assert.True(t, StatusPending.CanTransition(StatusActive))
}

func TestStatus_TerminalStates(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
	assert.True(t, StatusComplete.IsTerminal())
	assert.True(t, StatusStopped.IsTerminal())
	assert.True(t, StatusError.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("active")
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, s)

	_, err = ParseStatus("running")
	assert.Error(t, err)
}
