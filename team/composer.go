package team

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/malik-aiplanet/agentflow/component"
	"github.com/malik-aiplanet/agentflow/gateway"
	"github.com/malik-aiplanet/agentflow/logging"
)

// AgentResolver resolves an agent id to its stored resource. Satisfied by
// gateway.Client.Agents.
type AgentResolver interface {
	GetByID(ctx context.Context, id string) (gateway.Agent, error)
}

// Policy names how the composer aggregates concurrent lookup results.
type Policy string

const (
	// PolicyFailClosed voids the whole batch when any lookup fails. This is
	// the default.
	PolicyFailClosed Policy = "fail_closed"
	// PolicyBestEffort keeps the successful lookups, preserving input order.
	PolicyBestEffort Policy = "best_effort"
)

// ComposerOptions configures a Composer.
type ComposerOptions struct {
	// Policy selects the aggregation behavior. Defaults to PolicyFailClosed.
	Policy Policy
	// Logger receives composition diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Composer resolves agent selections into an ordered participants sequence.
type Composer struct {
	resolver AgentResolver
	policy   Policy
	logger   logging.Logger
}

// NewComposer constructs a Composer over the given resolver.
func NewComposer(resolver AgentResolver, optFns ...func(o *ComposerOptions)) *Composer {
	opts := ComposerOptions{
		Policy: PolicyFailClosed,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Composer{resolver: resolver, policy: opts.Policy, logger: opts.Logger}
}

// Participants resolves ids to their agent component descriptors, in input
// order. All lookups are issued concurrently; completion order never affects
// result order. Lookup failures do not escape: under the fail-closed policy
// any failure yields an empty sequence, under best-effort the failed entries
// are dropped. Callers must treat an empty result as composition being
// unavailable, not as an empty selection.
func (c *Composer) Participants(ctx context.Context, ids []string) []component.Component {
	if len(ids) == 0 {
		return nil
	}

	start := time.Now()
	results, errCount := c.resolveAll(ctx, ids)

	if errCount > 0 && c.policy == PolicyFailClosed {
		c.logger.Error("team composition failed, degrading to empty participants",
			"requested", len(ids), "failed", errCount)
		return nil
	}

	participants := make([]component.Component, 0, len(ids))
	for i, r := range results {
		if r == nil {
			c.logger.Warn("dropping unresolved participant", "agent_id", ids[i])
			continue
		}
		participants = append(participants, r.Clone())
	}

	c.logger.Info("team composition completed",
		"requested", len(ids), "resolved", len(participants), "duration", time.Since(start))
	return participants
}

// resolveAll launches one lookup per id and collects per-position results.
// Under fail-closed the first failure cancels the remaining lookups.
func (c *Composer) resolveAll(ctx context.Context, ids []string) ([]*component.Component, int) {
	results := make([]*component.Component, len(ids))

	if c.policy == PolicyFailClosed {
		g, gctx := errgroup.WithContext(ctx)
		for i, id := range ids {
			i, id := i, id
			g.Go(func() error {
				ag, err := c.resolver.GetByID(gctx, id)
				if err != nil {
					c.logger.Warn("agent lookup failed", "agent_id", id, "error", err)
					return err
				}
				comp := ag.Component
				results[i] = &comp
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return results, 1
		}
		return results, 0
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	errCount := 0
	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			ag, err := c.resolver.GetByID(ctx, id)
			if err != nil {
				c.logger.Warn("agent lookup failed", "agent_id", id, "error", err)
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}
			comp := ag.Component
			results[i] = &comp
		}()
	}
	wg.Wait()
	return results, errCount
}
