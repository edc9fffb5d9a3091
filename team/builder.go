package team

import (
	"fmt"

	"github.com/malik-aiplanet/agentflow/component"
)

// selector strategy providers understood by the backend.
const (
	ProviderRoundRobin = "autogen_agentchat.teams.RoundRobinGroupChat"
	ProviderSelector   = "autogen_agentchat.teams.SelectorGroupChat"
)

// Builder assembles a team component descriptor from resolved parts.
// Zero value is usable; all With* methods return the builder for chaining.
type Builder struct {
	provider     string
	description  string
	participants []component.Component
	cfg          component.TeamConfig
}

// NewBuilder constructs a Builder defaulting to the round-robin strategy.
func NewBuilder() *Builder {
	return &Builder{provider: ProviderRoundRobin}
}

// WithProvider sets the team strategy provider.
func (b *Builder) WithProvider(p string) *Builder {
	b.provider = p
	return b
}

// WithDescription sets the descriptor description.
func (b *Builder) WithDescription(d string) *Builder {
	b.description = d
	return b
}

// WithParticipants sets the ordered participants sequence. Order is speaker
// order for round-robin strategies.
func (b *Builder) WithParticipants(ps []component.Component) *Builder {
	b.participants = ps
	return b
}

// WithModelClient sets the team-level model client used by selector
// strategies.
func (b *Builder) WithModelClient(mc component.Component) *Builder {
	b.cfg.ModelClient = &mc
	return b
}

// WithTermination sets the termination condition component.
func (b *Builder) WithTermination(tc component.Component) *Builder {
	b.cfg.TerminationCondition = &tc
	return b
}

// WithSelectorPrompt sets the speaker selection prompt.
func (b *Builder) WithSelectorPrompt(p string) *Builder {
	b.cfg.SelectorPrompt = p
	return b
}

// WithMaxTurns bounds the number of conversation turns.
func (b *Builder) WithMaxTurns(n int) *Builder {
	b.cfg.MaxTurns = n
	return b
}

// WithMaxSelectorAttempts bounds retries of the speaker selector.
func (b *Builder) WithMaxSelectorAttempts(n int) *Builder {
	b.cfg.MaxSelectorAttempts = n
	return b
}

// WithAllowRepeatedSpeaker permits the same agent to speak twice in a row.
func (b *Builder) WithAllowRepeatedSpeaker(v bool) *Builder {
	b.cfg.AllowRepeatedSpeaker = v
	return b
}

// WithModelClientStreaming enables token streaming from the model client.
func (b *Builder) WithModelClientStreaming(v bool) *Builder {
	b.cfg.ModelClientStreaming = v
	return b
}

// WithEmitTeamEvents forwards team orchestration events to the run stream.
func (b *Builder) WithEmitTeamEvents(v bool) *Builder {
	b.cfg.EmitTeamEvents = v
	return b
}

// Build produces the team component. Every participant must be labeled as an
// agent; anything else fails before a malformed descriptor can reach a run.
func (b *Builder) Build() (component.Component, error) {
	for i, p := range b.participants {
		if _, err := p.Agent(); err != nil {
			return component.Component{}, fmt.Errorf("team: participant %d: %w", i, err)
		}
	}

	cfg := b.cfg
	cfg.Participants = make([]component.Component, len(b.participants))
	for i, p := range b.participants {
		cfg.Participants[i] = p.Clone()
	}

	return component.Component{
		Provider:         b.provider,
		ComponentType:    "team",
		Version:          1,
		ComponentVersion: 1,
		Description:      b.description,
		Label:            component.LabelTeam,
		Config:           cfg,
	}, nil
}
