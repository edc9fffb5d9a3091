package component

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// envelope mirrors Component with the config payload left raw so the label
// can be validated before any payload decoding happens.
type envelope struct {
	Provider         string          `json:"provider"`
	ComponentType    string          `json:"component_type"`
	Version          int             `json:"version"`
	ComponentVersion int             `json:"component_version"`
	Description      string          `json:"description"`
	Label            Label           `json:"label"`
	Config           json.RawMessage `json:"config"`
}

// UnmarshalJSON decodes an envelope, selecting the config variant by the
// label discriminant. Unknown or missing labels fail with *UnknownLabelError
// before the payload is inspected.
func (c *Component) UnmarshalJSON(data []byte) error {
	label := gjson.GetBytes(data, "label")
	if !label.Exists() || label.String() == "" {
		// A zero component round-trips: no label and no payload decodes to
		// the zero value. A payload without a label is still an error.
		cfgRaw := gjson.GetBytes(data, "config")
		if !cfgRaw.Exists() || cfgRaw.Type == gjson.Null {
			var env envelope
			if err := json.Unmarshal(data, &env); err != nil {
				return fmt.Errorf("component: decode envelope: %w", err)
			}
			*c = Component{
				Provider:         env.Provider,
				ComponentType:    env.ComponentType,
				Version:          env.Version,
				ComponentVersion: env.ComponentVersion,
				Description:      env.Description,
			}
			return nil
		}
		return &UnknownLabelError{}
	}

	cfg, err := emptyConfig(Label(label.String()))
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("component: decode envelope: %w", err)
	}

	if len(env.Config) > 0 {
		if err := json.Unmarshal(env.Config, cfg); err != nil {
			return fmt.Errorf("component: decode %q config: %w", env.Label, err)
		}
	}

	c.Provider = env.Provider
	c.ComponentType = env.ComponentType
	c.Version = env.Version
	c.ComponentVersion = env.ComponentVersion
	c.Description = env.Description
	c.Label = env.Label
	c.Config = deref(cfg)
	return nil
}

// MarshalJSON encodes the envelope, refusing to emit a component whose label
// disagrees with its config variant.
func (c Component) MarshalJSON() ([]byte, error) {
	if c.Config != nil {
		want := labelFor(c.Config)
		if c.Label == "" {
			c.Label = want
		} else if c.Label != want {
			return nil, &LabelMismatchError{Want: want, Got: c.Label}
		}
	}

	raw, err := json.Marshal(c.Config)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{
		Provider:         c.Provider,
		ComponentType:    c.ComponentType,
		Version:          c.Version,
		ComponentVersion: c.ComponentVersion,
		Description:      c.Description,
		Label:            c.Label,
		Config:           raw,
	})
}

// emptyConfig returns a pointer to the zero config variant for a label so
// json.Unmarshal can populate it.
func emptyConfig(l Label) (Config, error) {
	switch l {
	case LabelModel:
		return &ModelConfig{}, nil
	case LabelAgent:
		return &AgentConfig{}, nil
	case LabelTextInput:
		return &TextInputConfig{}, nil
	case LabelURLInput:
		return &URLInputConfig{}, nil
	case LabelFileInput:
		return &FileInputConfig{}, nil
	case LabelTool:
		return &ToolConfig{}, nil
	case LabelTermination:
		return &TerminationConfig{}, nil
	case LabelTeam:
		return &TeamConfig{}, nil
	default:
		return nil, &UnknownLabelError{Label: string(l)}
	}
}

// deref unwraps the pointer handed to json.Unmarshal back into the value
// variant stored on the Component.
func deref(cfg Config) Config {
	switch v := cfg.(type) {
	case *ModelConfig:
		return *v
	case *AgentConfig:
		return *v
	case *TextInputConfig:
		return *v
	case *URLInputConfig:
		return *v
	case *FileInputConfig:
		return *v
	case *ToolConfig:
		return *v
	case *TerminationConfig:
		return *v
	case *TeamConfig:
		return *v
	default:
		return cfg
	}
}

// labelFor maps a config variant to its canonical label.
func labelFor(cfg Config) Label {
	switch cfg.(type) {
	case ModelConfig, *ModelConfig:
		return LabelModel
	case AgentConfig, *AgentConfig:
		return LabelAgent
	case TextInputConfig, *TextInputConfig:
		return LabelTextInput
	case URLInputConfig, *URLInputConfig:
		return LabelURLInput
	case FileInputConfig, *FileInputConfig:
		return LabelFileInput
	case ToolConfig, *ToolConfig:
		return LabelTool
	case TerminationConfig, *TerminationConfig:
		return LabelTermination
	case TeamConfig, *TeamConfig:
		return LabelTeam
	default:
		return ""
	}
}
