package stream

import (
	"context"
	"sync"
)

// MemorySource is an in-process Source. Publish delivers events to all
// subscribers of a session in call order; Complete ends a session's streams.
// It is safe for concurrent access and intended for tests, examples and
// local development.
type MemorySource struct {
	mu   sync.Mutex
	subs map[string][]*memorySub
}

type memorySub struct {
	events chan Event
	errs   chan error
	closed bool
}

// NewMemorySource constructs an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{subs: make(map[string][]*memorySub)}
}

// Subscribe registers a subscriber for sessionID. Cancelling ctx detaches it
// and closes its channels.
func (s *MemorySource) Subscribe(ctx context.Context, sessionID string) (<-chan Event, <-chan error, error) {
	sub := &memorySub{
		events: make(chan Event, eventBufferSize),
		errs:   make(chan error, 1),
	}

	s.mu.Lock()
	s.subs[sessionID] = append(s.subs[sessionID], sub)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		s.detachLocked(sessionID, sub)
		s.closeLocked(sub)
		s.mu.Unlock()
	}()

	return sub.events, sub.errs, nil
}

// Publish delivers ev to every subscriber of sessionID. A subscriber whose
// buffer is full is skipped, matching the lossy-push behavior of a broadcast
// hub.
func (s *MemorySource) Publish(sessionID string, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs[sessionID] {
		if sub.closed {
			continue
		}
		select {
		case sub.events <- ev:
		default:
		}
	}
}

// Fail reports a terminal stream error to every subscriber of sessionID and
// ends their streams.
func (s *MemorySource) Fail(sessionID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs[sessionID] {
		if sub.closed {
			continue
		}
		select {
		case sub.errs <- err:
		default:
		}
		s.closeLocked(sub)
	}
	delete(s.subs, sessionID)
}

// Complete ends the streams of every subscriber of sessionID.
func (s *MemorySource) Complete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs[sessionID] {
		s.closeLocked(sub)
	}
	delete(s.subs, sessionID)
}

func (s *MemorySource) closeLocked(sub *memorySub) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.events)
	close(sub.errs)
}

func (s *MemorySource) detachLocked(sessionID string, target *memorySub) {
	subs := s.subs[sessionID]
	for i, sub := range subs {
		if sub == target {
			s.subs[sessionID] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}
