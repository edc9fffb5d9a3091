package gateway

import (
	"time"

	"github.com/malik-aiplanet/agentflow/component"
)

// Page is the paginated listing envelope returned by every getAll.
type Page[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// Agent is a stored participant agent resource.
type Agent struct {
	ID        string              `json:"id"`
	Component component.Component `json:"component"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Input is a stored task input resource.
type Input struct {
	ID        string              `json:"id"`
	Component component.Component `json:"component"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Output is a stored task output resource.
type Output struct {
	ID        string              `json:"id"`
	Component component.Component `json:"component"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Termination is a stored termination condition resource.
type Termination struct {
	ID        string              `json:"id"`
	Component component.Component `json:"component"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// RunResource is the server-side record of one run.
type RunResource struct {
	ID           string              `json:"id"`
	Task         string              `json:"task"`
	TeamConfig   component.Component `json:"team_config"`
	Status       string              `json:"status"`
	SessionID    string              `json:"session_id"`
	TeamResult   map[string]any      `json:"team_result,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// CreateRunRequest is the payload for creating a run. TeamConfig is the
// frozen descriptor snapshot taken at submission time.
type CreateRunRequest struct {
	Task       string              `json:"task"`
	TeamConfig component.Component `json:"team_config"`
}
