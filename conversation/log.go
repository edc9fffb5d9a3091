package conversation

import (
	"sync"

	"github.com/google/uuid"
)

// Phase tracks whether an entry has been acknowledged by the server.
type Phase string

const (
	// PhasePending marks a locally created entry awaiting confirmation.
	PhasePending Phase = "pending"
	// PhaseConfirmed marks a server-acknowledged entry.
	PhaseConfirmed Phase = "confirmed"
)

// Entry pairs a message with its confirmation phase.
type Entry struct {
	Message Message
	Phase   Phase
}

// Log is an append-only, order-preserving, deduplicating message sequence.
// It is safe for concurrent access.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int // message id -> position in entries
}

// NewLog constructs an empty conversation log.
func NewLog() *Log {
	return &Log{index: make(map[string]int)}
}

// AppendOptimistic appends a locally authored message before any server
// confirmation, generating an id when the caller supplied none. The id used
// is returned so callers can correlate the later echo.
func (l *Log) AppendOptimistic(msg Message) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if pos, ok := l.index[msg.ID]; ok {
		// Same logical message appended twice: keep its first position.
		l.entries[pos] = Entry{Message: msg.Clone(), Phase: l.entries[pos].Phase}
		return msg.ID
	}
	l.index[msg.ID] = len(l.entries)
	l.entries = append(l.entries, Entry{Message: msg.Clone(), Phase: PhasePending})
	return msg.ID
}

// Reconcile applies a server-confirmed message. A matching optimistic entry
// is replaced in place at its original position; an unknown id is appended
// at the tail. Duplicate confirmed deliveries are idempotent.
func (l *Log) Reconcile(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if pos, ok := l.index[msg.ID]; ok {
		l.entries[pos] = Entry{Message: msg.Clone(), Phase: PhaseConfirmed}
		return
	}
	l.index[msg.ID] = len(l.entries)
	l.entries = append(l.entries, Entry{Message: msg.Clone(), Phase: PhaseConfirmed})
}

// Messages returns a defensive copy of the messages in first-appearance order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Message.Clone()
	}
	return out
}

// Entries returns a defensive copy of the entries including phases.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = Entry{Message: e.Message.Clone(), Phase: e.Phase}
	}
	return out
}

// Len reports the number of logical messages in the log.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Reset discards all entries, for reuse across runs.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.index = make(map[string]int)
}
