// Package agentflow provides a high-level façade over the orchestration
// building blocks (state store, team composer, run controller, collaborator
// gateways & logging) enabling rapid construction of multi-agent client
// frontends. Most applications interact with this package by:
//  1. Creating an AgentFlow via New() (optionally overriding defaults)
//  2. Composing a team from selected agent ids (ComposeTeam)
//  3. Starting a run against the composed team (StartRun) and rendering
//     the store's snapshots as events arrive
//
// The façade delegates lifecycle handling to run.Controller while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development; production deployments supply their own configuration and a
// structured logger.
package agentflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/malik-aiplanet/agentflow/component"
	"github.com/malik-aiplanet/agentflow/config"
	"github.com/malik-aiplanet/agentflow/conversation"
	"github.com/malik-aiplanet/agentflow/gateway"
	"github.com/malik-aiplanet/agentflow/logging"
	"github.com/malik-aiplanet/agentflow/run"
	"github.com/malik-aiplanet/agentflow/state"
	"github.com/malik-aiplanet/agentflow/stream"
	"github.com/malik-aiplanet/agentflow/team"
)

// ErrCompositionUnavailable reports that team composition degraded to an
// empty participant list because one or more agent lookups failed. It is
// distinct from an empty selection.
var ErrCompositionUnavailable = errors.New("agentflow: team composition unavailable")

// ErrNoTeam reports a run submission without a composed team in the store.
var ErrNoTeam = errors.New("agentflow: no team composed")

// Options configures the AgentFlow instance.
type Options struct {
	// Config supplies endpoints and timeouts. Defaults to config.Default().
	Config config.Config

	// Gateway overrides the collaborator gateway client. Defaults to a
	// client rooted at Config.APIBaseURL.
	Gateway *gateway.Client

	// Source overrides the run event stream. Defaults to a WebSocket
	// source rooted at Config.WSBaseURL.
	Source stream.Source

	// ComposerPolicy selects the composition aggregation policy.
	// Defaults to team.PolicyFailClosed.
	ComposerPolicy team.Policy

	// OnStalled is invoked when a run sits pending past
	// Config.PendingTimeout.
	OnStalled func(runID string)

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// AgentFlow is the high-level façade aggregating the orchestration layer.
type AgentFlow struct {
	opts       Options
	store      *state.Store
	log        *conversation.Log
	gateway    *gateway.Client
	composer   *team.Composer
	controller *run.Controller
	logger     logging.Logger
}

// New creates a new AgentFlow instance with optional overrides. Any unset
// collaborator is initialized from the configuration defaults.
func New(optFns ...func(o *Options)) *AgentFlow {
	opts := Options{
		Config:         config.Default(),
		ComposerPolicy: team.PolicyFailClosed,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Gateway == nil {
		opts.Gateway = gateway.NewClient(opts.Config.APIBaseURL,
			gateway.WithTimeout(opts.Config.RequestTimeout),
			gateway.WithLogger(opts.Logger),
		)
	}
	if opts.Source == nil {
		opts.Source = stream.NewWebSocketSource(opts.Config.WSBaseURL,
			stream.WithLogger(opts.Logger),
			stream.WithBufferSize(opts.Config.EventBufferSize),
		)
	}

	store := state.NewStore()
	log := conversation.NewLog()

	composer := team.NewComposer(opts.Gateway.Agents, func(o *team.ComposerOptions) {
		o.Policy = opts.ComposerPolicy
		o.Logger = opts.Logger
	})

	controller := run.NewController(opts.Gateway.Runs, opts.Source, store, log, func(o *run.ControllerOptions) {
		o.PendingTimeout = opts.Config.PendingTimeout
		o.OnStalled = opts.OnStalled
		o.Logger = opts.Logger
	})

	return &AgentFlow{
		opts:       opts,
		store:      store,
		log:        log,
		gateway:    opts.Gateway,
		composer:   composer,
		controller: controller,
		logger:     opts.Logger,
	}
}

// Store returns the application state store for rendering and selection.
func (a *AgentFlow) Store() *state.Store { return a.store }

// Conversation returns the session's conversation log.
func (a *AgentFlow) Conversation() *conversation.Log { return a.log }

// Gateways returns the collaborator gateway client for direct CRUD access.
func (a *AgentFlow) Gateways() *gateway.Client { return a.gateway }

// ComposeTeam resolves the selected agent ids, assembles the team descriptor
// and installs it in the store as the live team. An empty id selection
// yields a team with no participants; a selection that cannot be fully
// resolved fails with ErrCompositionUnavailable.
func (a *AgentFlow) ComposeTeam(ctx context.Context, agentIDs []string, buildFns ...func(b *team.Builder)) (component.Component, error) {
	participants := a.composer.Participants(ctx, agentIDs)
	if len(agentIDs) > 0 && len(participants) == 0 {
		return component.Component{}, ErrCompositionUnavailable
	}

	b := team.NewBuilder().WithParticipants(participants)
	for _, fn := range buildFns {
		fn(b)
	}

	teamComp, err := b.Build()
	if err != nil {
		return component.Component{}, fmt.Errorf("agentflow: build team: %w", err)
	}

	a.store.SetTeam(&teamComp)
	return teamComp, nil
}

// StartRun submits task against the store's live team and begins consuming
// the run's event stream.
func (a *AgentFlow) StartRun(ctx context.Context, task string) (run.Run, error) {
	snap := a.store.Snapshot()
	if snap.Team == nil {
		return run.Run{}, ErrNoTeam
	}
	return a.controller.Start(ctx, task, *snap.Team)
}

// CancelRun requests cancellation of an in-flight run.
func (a *AgentFlow) CancelRun(ctx context.Context, runID string) error {
	return a.controller.Cancel(ctx, runID)
}

// Run returns a snapshot of a tracked run.
func (a *AgentFlow) Run(runID string) (run.Run, bool) {
	return a.controller.Run(runID)
}

// WaitRun blocks until the run's event loop has finished.
func (a *AgentFlow) WaitRun(runID string) { a.controller.Wait(runID) }

// SelectApp selects the app with the given id if it is present in the store.
func (a *AgentFlow) SelectApp(id string) { a.store.Get(id) }
