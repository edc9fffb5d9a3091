package run

import (
	"time"

	"github.com/malik-aiplanet/agentflow/component"
)

// Run is one execution attempt of a team against a task. TeamConfig is a
// frozen deep copy taken at creation; later edits to the live team descriptor
// never affect it.
type Run struct {
	ID           string              `json:"id"`
	Task         string              `json:"task"`
	TeamConfig   component.Component `json:"team_config"`
	Status       Status              `json:"status"`
	SessionID    string              `json:"session_id"`
	TeamResult   map[string]any      `json:"team_result,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Clone returns a copy safe for independent use.
func (r Run) Clone() Run {
	clone := r
	clone.TeamConfig = r.TeamConfig.Clone()
	if r.TeamResult != nil {
		clone.TeamResult = make(map[string]any, len(r.TeamResult))
		for k, v := range r.TeamResult {
			clone.TeamResult[k] = v
		}
	}
	return clone
}
