package component

// Label discriminates the shape of a Component's nested config.
type Label string

const (
	// LabelModel marks a model client component.
	LabelModel Label = "model"
	// LabelAgent marks a participant agent component.
	LabelAgent Label = "agent"
	// LabelTextInput marks a free text input component.
	LabelTextInput Label = "text-input"
	// LabelURLInput marks a URL input component.
	LabelURLInput Label = "url-input"
	// LabelFileInput marks a file upload input component.
	LabelFileInput Label = "file-input"
	// LabelTool marks a tool component.
	LabelTool Label = "tool"
	// LabelTermination marks a termination condition component.
	LabelTermination Label = "termination-condition"
	// LabelTeam marks a team component.
	LabelTeam Label = "team"
)

// Component is the common envelope wrapping every configurable unit. The
// Label field determines the concrete type held in Config. Treat decoded
// components as immutable; use Clone before mutating shared descriptors.
type Component struct {
	Provider         string `json:"provider"`
	ComponentType    string `json:"component_type"`
	Version          int    `json:"version"`
	ComponentVersion int    `json:"component_version"`
	Description      string `json:"description"`
	Label            Label  `json:"label"`
	Config           Config `json:"config"`
}

// Config is the closed set of envelope payloads. Concrete config types
// implement the unexported isConfig marker.
type Config interface{ isConfig() }

// ModelConfig configures a model client reference.
type ModelConfig struct {
	Model       string   `json:"model"`
	BaseURL     string   `json:"base_url,omitempty"`
	APIKeyEnv   string   `json:"api_key_env,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

func (ModelConfig) isConfig() {}

// AgentConfig configures a participant agent.
type AgentConfig struct {
	Name              string      `json:"name"`
	SystemMessage     string      `json:"system_message,omitempty"`
	ModelClient       *Component  `json:"model_client,omitempty"`
	Tools             []Component `json:"tools,omitempty"`
	ReflectOnToolUse  bool        `json:"reflect_on_tool_use,omitempty"`
	ModelClientStream bool        `json:"model_client_stream,omitempty"`
}

func (AgentConfig) isConfig() {}

// TextInputConfig configures a free text task input.
type TextInputConfig struct {
	Name         string `json:"name"`
	DefaultValue string `json:"default_value,omitempty"`
}

func (TextInputConfig) isConfig() {}

// URLInputConfig configures a URL task input.
type URLInputConfig struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (URLInputConfig) isConfig() {}

// FileInputConfig configures a file upload task input.
type FileInputConfig struct {
	Name      string   `json:"name"`
	FileTypes []string `json:"file_types,omitempty"`
	MaxBytes  int64    `json:"max_bytes,omitempty"`
}

func (FileInputConfig) isConfig() {}

// ToolConfig configures a tool available to agents.
type ToolConfig struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	SourceCode    string   `json:"source_code,omitempty"`
	GlobalImports []string `json:"global_imports,omitempty"`
}

func (ToolConfig) isConfig() {}

// TerminationConfig configures the rule that ends a team's multi-turn
// execution. Zero values mean the clause is inactive.
type TerminationConfig struct {
	MaxMessages int    `json:"max_messages,omitempty"`
	MentionText string `json:"mention_text,omitempty"`
}

func (TerminationConfig) isConfig() {}

// TeamConfig configures a team of participant agents and its execution
// policy. Participants order is speaker order for round-robin strategies.
type TeamConfig struct {
	Participants         []Component `json:"participants"`
	ModelClient          *Component  `json:"model_client,omitempty"`
	TerminationCondition *Component  `json:"termination_condition,omitempty"`
	SelectorPrompt       string      `json:"selector_prompt,omitempty"`
	MaxTurns             int         `json:"max_turns,omitempty"`
	MaxSelectorAttempts  int         `json:"max_selector_attempts,omitempty"`
	AllowRepeatedSpeaker bool        `json:"allow_repeated_speaker,omitempty"`
	ModelClientStreaming bool        `json:"model_client_streaming,omitempty"`
	EmitTeamEvents       bool        `json:"emit_team_events,omitempty"`
}

func (TeamConfig) isConfig() {}

// Clone returns a deep copy of the component, including nested components
// reachable through agent and team configs. Frozen run snapshots rely on this
// to stay unaffected by later edits to the live descriptor.
func (c Component) Clone() Component {
	clone := c
	clone.Config = cloneConfig(c.Config)
	return clone
}

func cloneConfig(cfg Config) Config {
	switch v := cfg.(type) {
	case nil:
		return nil
	case ModelConfig:
		if v.Temperature != nil {
			t := *v.Temperature
			v.Temperature = &t
		}
		return v
	case AgentConfig:
		if v.ModelClient != nil {
			mc := v.ModelClient.Clone()
			v.ModelClient = &mc
		}
		v.Tools = cloneComponents(v.Tools)
		return v
	case TeamConfig:
		v.Participants = cloneComponents(v.Participants)
		if v.ModelClient != nil {
			mc := v.ModelClient.Clone()
			v.ModelClient = &mc
		}
		if v.TerminationCondition != nil {
			tc := v.TerminationCondition.Clone()
			v.TerminationCondition = &tc
		}
		return v
	case FileInputConfig:
		v.FileTypes = append([]string(nil), v.FileTypes...)
		return v
	case ToolConfig:
		v.GlobalImports = append([]string(nil), v.GlobalImports...)
		return v
	default:
		// Remaining variants are flat value types.
		return v
	}
}

func cloneComponents(cs []Component) []Component {
	if cs == nil {
		return nil
	}
	out := make([]Component, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}

// Team returns the TeamConfig payload, failing with a typed error when the
// component is not labeled as a team.
func (c Component) Team() (TeamConfig, error) {
	tc, ok := c.Config.(TeamConfig)
	if !ok {
		return TeamConfig{}, &LabelMismatchError{Want: LabelTeam, Got: c.Label}
	}
	return tc, nil
}

// Agent returns the AgentConfig payload, failing with a typed error when the
// component is not labeled as an agent.
func (c Component) Agent() (AgentConfig, error) {
	ac, ok := c.Config.(AgentConfig)
	if !ok {
		return AgentConfig{}, &LabelMismatchError{Want: LabelAgent, Got: c.Label}
	}
	return ac, nil
}
