package agentflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malik-aiplanet/agentflow/component"
	"github.com/malik-aiplanet/agentflow/conversation"
	"github.com/malik-aiplanet/agentflow/gateway"
	"github.com/malik-aiplanet/agentflow/run"
	"github.com/malik-aiplanet/agentflow/stream"
	"github.com/malik-aiplanet/agentflow/team"
)

// newBackend fakes the collaborator API: two stored agents and a runs
// endpoint that assigns ids.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	agents := map[string]gateway.Agent{
		"a1": {ID: "a1", Component: component.Component{
			Label: component.LabelAgent, ComponentType: "agent",
			Config: component.AgentConfig{Name: "agentA"},
		}},
		"a2": {ID: "a2", Component: component.Component{
			Label: component.LabelAgent, ComponentType: "agent",
			Config: component.AgentConfig{Name: "agentB"},
		}},
	}

	r := mux.NewRouter()
	r.HandleFunc("/agents/{id}", func(w http.ResponseWriter, req *http.Request) {
		a, ok := agents[mux.Vars(req)["id"]]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_ = json.NewEncoder(w).Encode(a)
	}).Methods(http.MethodGet)

	r.HandleFunc("/runs", func(w http.ResponseWriter, req *http.Request) {
		var cr gateway.CreateRunRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&cr))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(gateway.RunResource{
			ID: "run-1", Task: cr.Task, TeamConfig: cr.TeamConfig,
			Status: "pending", SessionID: "sess-1",
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(gateway.RunResource{
			ID: mux.Vars(req)["id"], Status: "complete",
			TeamResult: map[string]any{"stop_reason": "max messages"},
		})
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestAgentFlow_EndToEnd(t *testing.T) {
	backend := newBackend(t)
	source := stream.NewMemorySource()

	flow := New(func(o *Options) {
		o.Gateway = gateway.NewClient(backend.URL)
		o.Source = source
	})

	teamComp, err := flow.ComposeTeam(context.Background(), []string{"a1", "a2"},
		func(b *team.Builder) { b.WithMaxTurns(4) })
	require.NoError(t, err)

	cfg, err := teamComp.Team()
	require.NoError(t, err)
	require.Len(t, cfg.Participants, 2)
	first, err := cfg.Participants[0].Agent()
	require.NoError(t, err)
	assert.Equal(t, "agentA", first.Name)

	started, err := flow.StartRun(context.Background(), "summarize doc")
	require.NoError(t, err)
	assert.Equal(t, run.StatusPending, started.Status)

	// Editing the live team after submission must not reach the frozen
	// snapshot.
	edited := teamComp.Clone()
	editedCfg := edited.Config.(component.TeamConfig)
	editedCfg.Participants[0].Config = component.AgentConfig{Name: "edited"}
	edited.Config = editedCfg
	flow.Store().SetTeam(&edited)

	source.Publish("sess-1", stream.StatusEvent{Status: "active"})
	source.Publish("sess-1", stream.MessageEvent{Message: conversation.Message{
		ID: "m1", Role: conversation.RoleAssistant, Content: "done",
	}})
	source.Publish("sess-1", stream.StatusEvent{Status: "complete"})
	flow.WaitRun(started.ID)

	final, ok := flow.Run(started.ID)
	require.True(t, ok)
	assert.Equal(t, run.StatusComplete, final.Status)
	assert.Equal(t, map[string]any{"stop_reason": "max messages"}, final.TeamResult)

	frozen, err := final.TeamConfig.Team()
	require.NoError(t, err)
	frozenFirst, err := frozen.Participants[0].Agent()
	require.NoError(t, err)
	assert.Equal(t, "agentA", frozenFirst.Name)

	snap := flow.Store().Snapshot()
	assert.Equal(t, "run-1", snap.RunID)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "summarize doc", snap.Messages[0].Content)
	assert.Equal(t, "done", snap.Messages[1].Content)
}

func TestAgentFlow_ComposeUnavailableOnFailedLookup(t *testing.T) {
	backend := newBackend(t)

	flow := New(func(o *Options) {
		o.Gateway = gateway.NewClient(backend.URL)
		o.Source = stream.NewMemorySource()
	})

	_, err := flow.ComposeTeam(context.Background(), []string{"a1", "missing"})
	assert.ErrorIs(t, err, ErrCompositionUnavailable)
}

func TestAgentFlow_EmptySelectionBuildsEmptyTeam(t *testing.T) {
	flow := New(func(o *Options) {
		o.Gateway = gateway.NewClient("http://127.0.0.1:0")
		o.Source = stream.NewMemorySource()
	})

	teamComp, err := flow.ComposeTeam(context.Background(), nil)
	require.NoError(t, err)

	cfg, err := teamComp.Team()
	require.NoError(t, err)
	assert.Empty(t, cfg.Participants)
}

func TestAgentFlow_StartRunWithoutTeam(t *testing.T) {
	flow := New(func(o *Options) {
		o.Gateway = gateway.NewClient("http://127.0.0.1:0")
		o.Source = stream.NewMemorySource()
	})

	_, err := flow.StartRun(context.Background(), "task")
	assert.ErrorIs(t, err, ErrNoTeam)
}

func TestAgentFlow_StalledSurfacesThroughOptions(t *testing.T) {
	backend := newBackend(t)
	stalledCh := make(chan string, 1)

	flow := New(func(o *Options) {
		o.Gateway = gateway.NewClient(backend.URL)
		o.Source = stream.NewMemorySource()
		o.Config.PendingTimeout = 20 * time.Millisecond
		o.OnStalled = func(runID string) { stalledCh <- runID }
	})

	_, err := flow.ComposeTeam(context.Background(), []string{"a1"})
	require.NoError(t, err)
	started, err := flow.StartRun(context.Background(), "task")
	require.NoError(t, err)

	select {
	case id := <-stalledCh:
		assert.Equal(t, started.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("stall was never surfaced")
	}
}
