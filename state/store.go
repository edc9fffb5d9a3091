package state

import (
	"sync"

	"github.com/malik-aiplanet/agentflow/component"
	"github.com/malik-aiplanet/agentflow/conversation"
)

// App is a selectable application entry offered to the user.
type App struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Team        *component.Component `json:"team,omitempty"`
}

// State is the value held by the Store. RunID empty means no active run.
type State struct {
	Task        string
	RunID       string
	SelectedApp *App
	Apps        map[string]App
	Team        *component.Component
	Messages    []conversation.Message
}

// Store is the process wide session state holder. It is safe for concurrent
// access; mutation happens only through its setter surface and readers obtain
// consistent deep-copied views via Snapshot.
type Store struct {
	mu       sync.RWMutex
	state    State
	watchers []chan struct{}
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{state: State{Apps: map[string]App{}}}
}

// SetTask replaces the current task text.
func (s *Store) SetTask(task string) {
	s.mu.Lock()
	s.state.Task = task
	s.mu.Unlock()
	s.notify()
}

// SetRunID replaces the active run identifier. Empty clears it.
func (s *Store) SetRunID(id string) {
	s.mu.Lock()
	s.state.RunID = id
	s.mu.Unlock()
	s.notify()
}

// SetSelectedApp replaces the selected app. Nil clears the selection.
func (s *Store) SetSelectedApp(app *App) {
	s.mu.Lock()
	s.state.SelectedApp = cloneApp(app)
	s.mu.Unlock()
	s.notify()
}

// SetApps replaces the full set of available apps.
func (s *Store) SetApps(apps map[string]App) {
	s.mu.Lock()
	s.state.Apps = cloneApps(apps)
	s.mu.Unlock()
	s.notify()
}

// SetTeam replaces the live team descriptor. Nil clears it.
func (s *Store) SetTeam(team *component.Component) {
	s.mu.Lock()
	if team == nil {
		s.state.Team = nil
	} else {
		t := team.Clone()
		s.state.Team = &t
	}
	s.mu.Unlock()
	s.notify()
}

// AddMessage appends a message to the tail of the conversation log. This is
// the only mutator of the log: entries are never edited or removed here.
func (s *Store) AddMessage(msg conversation.Message) {
	s.mu.Lock()
	s.state.Messages = append(s.state.Messages, msg.Clone())
	s.mu.Unlock()
	s.notify()
}

// Get looks up id among the available apps and selects the match. A miss
// leaves the state untouched.
func (s *Store) Get(id string) {
	s.mu.Lock()
	app, ok := s.state.Apps[id]
	if ok {
		selected := cloneApp(&app)
		s.state.SelectedApp = selected
	}
	s.mu.Unlock()
	if ok {
		s.notify()
	}
}

// Apply runs fn against the internal state under a single lock acquisition.
// Compound transitions (reset log + set run id) go through here so observers
// never see a partially applied intermediate.
func (s *Store) Apply(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify()
}

// BeginRun atomically clears the conversation log and records the new active
// run identifier.
func (s *Store) BeginRun(runID string) {
	s.Apply(func(st *State) {
		st.RunID = runID
		st.Messages = nil
	})
}

// Snapshot returns a deep copy of the current state safe for rendering while
// mutations continue.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := State{
		Task:        s.state.Task,
		RunID:       s.state.RunID,
		SelectedApp: cloneApp(s.state.SelectedApp),
		Apps:        cloneApps(s.state.Apps),
		Messages:    make([]conversation.Message, len(s.state.Messages)),
	}
	if s.state.Team != nil {
		t := s.state.Team.Clone()
		snap.Team = &t
	}
	for i, m := range s.state.Messages {
		snap.Messages[i] = m.Clone()
	}
	return snap
}

// Watch returns a channel that receives a coalesced signal after each
// mutation. Slow observers miss intermediate signals, never final state.
func (s *Store) Watch() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func cloneApp(app *App) *App {
	if app == nil {
		return nil
	}
	clone := *app
	if app.Team != nil {
		t := app.Team.Clone()
		clone.Team = &t
	}
	return &clone
}

func cloneApps(apps map[string]App) map[string]App {
	out := make(map[string]App, len(apps))
	for k, v := range apps {
		out[k] = *cloneApp(&v)
	}
	return out
}
