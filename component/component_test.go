package component

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent_UnmarshalAgent(t *testing.T) {
	raw := `{
		"provider": "autogen_agentchat.agents.AssistantAgent",
		"component_type": "agent",
		"version": 1,
		"component_version": 1,
		"description": "A summarizer",
		"label": "agent",
		"config": {
			"name": "summarizer",
			"system_message": "Summarize the input.",
			"model_client_stream": true
		}
	}`

	var c Component
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, LabelAgent, c.Label)
	assert.Equal(t, "agent", c.ComponentType)

	ac, err := c.Agent()
	require.NoError(t, err)
	assert.Equal(t, "summarizer", ac.Name)
	assert.True(t, ac.ModelClientStream)
}

func TestComponent_UnmarshalTeamNested(t *testing.T) {
	raw := `{
		"provider": "autogen_agentchat.teams.RoundRobinGroupChat",
		"component_type": "team",
		"version": 1,
		"component_version": 1,
		"label": "team",
		"config": {
			"participants": [
				{"label": "agent", "component_type": "agent", "config": {"name": "a1"}},
				{"label": "agent", "component_type": "agent", "config": {"name": "a2"}}
			],
			"termination_condition": {
				"label": "termination-condition",
				"component_type": "termination",
				"config": {"max_messages": 10}
			},
			"max_turns": 5,
			"allow_repeated_speaker": true
		}
	}`

	var c Component
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	tc, err := c.Team()
	require.NoError(t, err)
	require.Len(t, tc.Participants, 2)
	assert.Equal(t, 5, tc.MaxTurns)
	assert.True(t, tc.AllowRepeatedSpeaker)

	// Participant order must survive decoding.
	first, err := tc.Participants[0].Agent()
	require.NoError(t, err)
	assert.Equal(t, "a1", first.Name)

	require.NotNil(t, tc.TerminationCondition)
	term, ok := tc.TerminationCondition.Config.(TerminationConfig)
	require.True(t, ok)
	assert.Equal(t, 10, term.MaxMessages)
}

func TestComponent_UnmarshalUnknownLabel(t *testing.T) {
	var c Component

	err := json.Unmarshal([]byte(`{"label": "flux-capacitor", "config": {}}`), &c)
	var ule *UnknownLabelError
	require.ErrorAs(t, err, &ule)
	assert.Equal(t, "flux-capacitor", ule.Label)

	err = json.Unmarshal([]byte(`{"component_type": "agent", "config": {}}`), &c)
	require.ErrorAs(t, err, &ule)
}

func TestComponent_ZeroValueRoundTrip(t *testing.T) {
	data, err := json.Marshal(Component{})
	require.NoError(t, err)

	var decoded Component
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Component{}, decoded)
}

func TestComponent_MarshalRoundTrip(t *testing.T) {
	orig := Component{
		Provider:      "autogen_agentchat.agents.AssistantAgent",
		ComponentType: "agent",
		Version:       1,
		Label:         LabelAgent,
		Config: AgentConfig{
			Name: "writer",
			Tools: []Component{
				{Label: LabelTool, ComponentType: "tool", Config: ToolConfig{Name: "search"}},
			},
		},
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded Component
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, orig, decoded)
}

func TestComponent_MarshalLabelMismatch(t *testing.T) {
	c := Component{Label: LabelModel, Config: AgentConfig{Name: "x"}}

	_, err := json.Marshal(c)
	var lme *LabelMismatchError
	require.True(t, errors.As(err, &lme))
	assert.Equal(t, LabelAgent, lme.Want)
}

func TestComponent_CloneIsolation(t *testing.T) {
	team := Component{
		Label:         LabelTeam,
		ComponentType: "team",
		Config: TeamConfig{
			Participants: []Component{
				{Label: LabelAgent, Config: AgentConfig{Name: "a1"}},
			},
		},
	}

	clone := team.Clone()

	// Mutating the original must not leak into the clone.
	tc := team.Config.(TeamConfig)
	tc.Participants[0].Config = AgentConfig{Name: "changed"}

	cc, err := clone.Team()
	require.NoError(t, err)
	ac, err := cc.Participants[0].Agent()
	require.NoError(t, err)
	assert.Equal(t, "a1", ac.Name)
}

func TestComponent_TypedAccessors(t *testing.T) {
	c := Component{Label: LabelTool, Config: ToolConfig{Name: "calc"}}

	_, err := c.Team()
	var lme *LabelMismatchError
	require.ErrorAs(t, err, &lme)
	assert.Equal(t, LabelTeam, lme.Want)

	_, err = c.Agent()
	require.ErrorAs(t, err, &lme)
}
