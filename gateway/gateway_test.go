package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malik-aiplanet/agentflow/component"
)

// newFakeServer routes a minimal collaborator API backed by a fixed agent set.
func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	agents := map[string]Agent{
		"a1": {ID: "a1", Component: component.Component{
			Label: component.LabelAgent, ComponentType: "agent",
			Config: component.AgentConfig{Name: "planner"},
		}},
		"a2": {ID: "a2", Component: component.Component{
			Label: component.LabelAgent, ComponentType: "agent",
			Config: component.AgentConfig{Name: "writer"},
		}},
	}

	r := mux.NewRouter()
	r.HandleFunc("/agents", func(w http.ResponseWriter, req *http.Request) {
		items := []Agent{agents["a1"], agents["a2"]}
		_ = json.NewEncoder(w).Encode(Page[Agent]{Items: items, Page: 1, Pages: 1, Size: 50, Total: len(items)})
	}).Methods(http.MethodGet)

	r.HandleFunc("/agents/{id}", func(w http.ResponseWriter, req *http.Request) {
		a, ok := agents[mux.Vars(req)["id"]]
		if !ok {
			http.NotFound(w, req)
			return
		}
		_ = json.NewEncoder(w).Encode(a)
	}).Methods(http.MethodGet)

	r.HandleFunc("/agents/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.NotEmpty(t, req.URL.Query().Get("permanent"))
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)

	r.HandleFunc("/runs", func(w http.ResponseWriter, req *http.Request) {
		var cr CreateRunRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&cr))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(RunResource{
			ID: "run-1", Task: cr.Task, TeamConfig: cr.TeamConfig,
			Status: "pending", SessionID: "sess-1",
		})
	}).Methods(http.MethodPost)

	r.HandleFunc("/runs/{id}/cancel", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}).Methods(http.MethodPost)

	r.HandleFunc("/terminations", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestResource_GetAll(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(srv.URL)

	page, err := c.Agents.GetAll(context.Background(), map[string]string{"page": "1"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 2)

	ac, err := page.Items[0].Component.Agent()
	require.NoError(t, err)
	assert.Equal(t, "planner", ac.Name)
}

func TestResource_GetByIDNotFound(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(srv.URL)

	_, err := c.Agents.GetByID(context.Background(), "missing")
	assert.True(t, IsNotFound(err))

	got, err := c.Agents.GetByID(context.Background(), "a2")
	require.NoError(t, err)
	assert.Equal(t, "a2", got.ID)
}

func TestResource_DeletePermanentFlag(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(srv.URL)

	require.NoError(t, c.Agents.Delete(context.Background(), "a1", true))
	require.NoError(t, c.Agents.Delete(context.Background(), "a1", false))
}

func TestRunsGateway_CreateAndCancel(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(srv.URL)

	created, err := c.Runs.Create(context.Background(), CreateRunRequest{
		Task: "summarize doc",
		TeamConfig: component.Component{
			Label: component.LabelTeam, ComponentType: "team",
			Config: component.TeamConfig{},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "run-1", created.ID)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "sess-1", created.SessionID)

	require.NoError(t, c.Runs.Cancel(context.Background(), created.ID))
}

func TestClient_APIErrorCarriesStatus(t *testing.T) {
	srv := newFakeServer(t)
	c := NewClient(srv.URL)

	_, err := c.Terminations.GetAll(context.Background(), nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestClient_TransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL)

	_, err := c.Agents.GetAll(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, IsNotFound(err), "transport failures must stay distinguishable from missing resources")
}
