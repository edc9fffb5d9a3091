package run

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/malik-aiplanet/agentflow/component"
	"github.com/malik-aiplanet/agentflow/conversation"
	"github.com/malik-aiplanet/agentflow/gateway"
	"github.com/malik-aiplanet/agentflow/logging"
	"github.com/malik-aiplanet/agentflow/state"
	"github.com/malik-aiplanet/agentflow/stream"
)

// DefaultPendingTimeout bounds how long a run may sit pending without any
// event before it is surfaced as stalled.
const DefaultPendingTimeout = 30 * time.Second

// RunGateway is the slice of the collaborator runs surface the controller
// needs. Satisfied by gateway.Client.Runs.
type RunGateway interface {
	Create(ctx context.Context, data any) (gateway.RunResource, error)
	GetByID(ctx context.Context, id string) (gateway.RunResource, error)
	Cancel(ctx context.Context, id string) error
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// PendingTimeout is the stall threshold for runs that never leave
	// pending. Defaults to DefaultPendingTimeout.
	PendingTimeout time.Duration
	// OnStalled is invoked at most once per run when the stall threshold
	// elapses. The run itself is not transitioned. Defaults to a log line.
	OnStalled func(runID string)
	// Logger receives lifecycle diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// tracked is the controller's record of one run plus its stream plumbing.
type tracked struct {
	run    Run
	cancel context.CancelFunc
	done   chan struct{}
}

// Controller submits runs, consumes their event streams and drives the
// status state machine. All mutation of tracked runs happens under one
// mutex; the event loop for each run is a single goroutine, so events of one
// session apply strictly in arrival order.
type Controller struct {
	runs   RunGateway
	source stream.Source
	store  *state.Store
	log    *conversation.Log
	logger logging.Logger

	pendingTimeout time.Duration
	onStalled      func(runID string)

	mu      sync.Mutex
	tracked map[string]*tracked
}

// NewController constructs a Controller over the given collaborators.
func NewController(runs RunGateway, source stream.Source, store *state.Store, log *conversation.Log, optFns ...func(o *ControllerOptions)) *Controller {
	opts := ControllerOptions{
		PendingTimeout: DefaultPendingTimeout,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	c := &Controller{
		runs:           runs,
		source:         source,
		store:          store,
		log:            log,
		logger:         opts.Logger,
		pendingTimeout: opts.PendingTimeout,
		onStalled:      opts.OnStalled,
		tracked:        make(map[string]*tracked),
	}
	if c.onStalled == nil {
		c.onStalled = func(runID string) {
			c.logger.Warn("run stalled in pending", "run_id", runID, "threshold", c.pendingTimeout)
		}
	}
	return c
}

// Start snapshots the team descriptor, creates the run, resets the session
// conversation atomically and subscribes to the run's event stream. The
// returned Run reflects the state at submission. Gateway failures propagate
// to the caller for retry.
func (c *Controller) Start(ctx context.Context, task string, team component.Component) (Run, error) {
	frozen := team.Clone()

	res, err := c.runs.Create(ctx, gateway.CreateRunRequest{Task: task, TeamConfig: frozen})
	if err != nil {
		return Run{}, fmt.Errorf("run: create: %w", err)
	}

	now := time.Now().UTC()
	r := Run{
		ID:         res.ID,
		Task:       task,
		TeamConfig: frozen,
		Status:     StatusPending,
		SessionID:  res.SessionID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// New run: the previous run's log must vanish in the same atomic step
	// that installs the new run id, so no observer sees them mixed.
	c.log.Reset()
	userMsgID := c.log.AppendOptimistic(conversation.Message{Role: conversation.RoleUser, Content: task})
	c.store.Apply(func(st *state.State) {
		st.Task = task
		st.RunID = r.ID
		st.Messages = c.log.Messages()
	})
	c.logger.Debug("optimistic task message appended", "run_id", r.ID, "message_id", userMsgID)

	runCtx, cancel := context.WithCancel(context.Background())
	events, errs, err := c.source.Subscribe(runCtx, r.SessionID)
	if err != nil {
		cancel()
		return Run{}, fmt.Errorf("run: subscribe session %s: %w", r.SessionID, err)
	}

	tr := &tracked{run: r, cancel: cancel, done: make(chan struct{})}
	c.mu.Lock()
	c.tracked[r.ID] = tr
	c.mu.Unlock()

	go c.loop(runCtx, tr, events, errs)

	c.logger.Info("run created", "run_id", r.ID, "session_id", r.SessionID)
	return r.Clone(), nil
}

// Cancel requests server-side cancellation and optimistically stops the run
// locally: the stream is unsubscribed, pending requests tied to the run are
// aborted and the stopped transition is applied exactly once. If the server
// later reports a different terminal status it is ignored, since the first
// terminal transition is final. The gateway error, if any, is returned after
// the local stop has been applied.
func (c *Controller) Cancel(ctx context.Context, runID string) error {
	c.mu.Lock()
	tr, ok := c.tracked[runID]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("run: unknown run %q", runID)
	}
	c.applyLocked(tr, StatusStopped, "")
	cancel := tr.cancel
	c.mu.Unlock()

	cancel()

	if err := c.runs.Cancel(ctx, runID); err != nil {
		c.logger.Error("cancel request failed", "run_id", runID, "error", err)
		return err
	}
	return nil
}

// Run returns a snapshot of a tracked run.
func (c *Controller) Run(runID string) (Run, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tr, ok := c.tracked[runID]
	if !ok {
		return Run{}, false
	}
	return tr.run.Clone(), true
}

// Wait blocks until the run's event loop has finished, for callers that need
// a quiescent point (tests, shutdown).
func (c *Controller) Wait(runID string) {
	c.mu.Lock()
	tr, ok := c.tracked[runID]
	c.mu.Unlock()
	if ok {
		<-tr.done
	}
}

// loop is the single consumer of one run's event stream.
func (c *Controller) loop(ctx context.Context, tr *tracked, events <-chan stream.Event, errs <-chan error) {
	defer close(tr.done)
	defer tr.cancel()

	watchdog := time.NewTimer(c.pendingTimeout)
	defer watchdog.Stop()
	stalled := false

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				c.logger.Debug("event stream closed", "run_id", tr.run.ID)
				return
			}
			if done := c.handleEvent(tr, ev); done {
				return
			}
			// The stall threshold is "pending with no event": any event
			// while still pending re-arms the watchdog.
			c.mu.Lock()
			pending := tr.run.Status == StatusPending
			c.mu.Unlock()
			if pending {
				if !watchdog.Stop() {
					select {
					case <-watchdog.C:
					default:
					}
				}
				watchdog.Reset(c.pendingTimeout)
				stalled = false
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				c.applyTransition(tr, StatusError, err.Error())
				return
			}

		case <-watchdog.C:
			c.mu.Lock()
			pending := tr.run.Status == StatusPending
			c.mu.Unlock()
			if pending && !stalled {
				stalled = true
				c.onStalled(tr.run.ID)
			}

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent applies one stream event, reporting whether the run reached a
// terminal state.
func (c *Controller) handleEvent(tr *tracked, ev stream.Event) bool {
	switch e := ev.(type) {
	case stream.StatusEvent:
		next, err := ParseStatus(e.Status)
		if err != nil {
			c.logger.Warn("dropping event with unknown status", "run_id", tr.run.ID, "status", e.Status)
			return false
		}
		return c.applyTransition(tr, next, e.ErrorMessage)

	case stream.MessageEvent:
		c.mu.Lock()
		closed := tr.run.Status.IsTerminal()
		c.mu.Unlock()
		if closed {
			// Terminal states represent a closed run; late messages are
			// not applied.
			c.logger.Warn("dropping message for closed run", "run_id", tr.run.ID, "message_id", e.Message.ID)
			return false
		}
		c.log.Reconcile(e.Message)
		c.store.Apply(func(st *state.State) {
			st.Messages = c.log.Messages()
		})
		return false

	default:
		c.logger.Warn("dropping unknown event", "run_id", tr.run.ID)
		return false
	}
}

// applyTransition runs a status change through the transition table and
// reports whether the run is now terminal.
func (c *Controller) applyTransition(tr *tracked, next Status, errMsg string) bool {
	c.mu.Lock()
	applied := c.applyLocked(tr, next, errMsg)
	terminal := tr.run.Status.IsTerminal()
	c.mu.Unlock()

	if applied && next == StatusComplete {
		c.fetchResult(tr)
	}
	return applied && terminal
}

func (c *Controller) applyLocked(tr *tracked, next Status, errMsg string) bool {
	from := tr.run.Status
	if !from.CanTransition(next) {
		c.logger.Warn("dropping illegal status transition", "run_id", tr.run.ID, "from", string(from), "to", string(next))
		return false
	}
	tr.run.Status = next
	tr.run.UpdatedAt = time.Now().UTC()
	if next == StatusError {
		tr.run.ErrorMessage = errMsg
	}
	c.logger.Info("run status transition", "run_id", tr.run.ID, "from", string(from), "to", string(next))
	return true
}

// fetchResult pulls the final run record to capture the team result. Best
// effort: the terminal status stands even if the fetch fails.
func (c *Controller) fetchResult(tr *tracked) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := c.runs.GetByID(ctx, tr.run.ID)
	if err != nil {
		c.logger.Warn("could not fetch final run result", "run_id", tr.run.ID, "error", err)
		return
	}
	c.mu.Lock()
	tr.run.TeamResult = res.TeamResult
	c.mu.Unlock()
}
