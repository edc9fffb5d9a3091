package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/malik-aiplanet/agentflow/conversation"
)

// Event is one item pushed over a run's event channel. The concrete types
// form a closed set via the unexported isEvent marker.
type Event interface{ isEvent() }

// StatusEvent reports a run status change. ErrorMessage is populated only
// when Status is the error state.
type StatusEvent struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (StatusEvent) isEvent() {}

// MessageEvent carries one conversation message emitted by the run.
type MessageEvent struct {
	Message conversation.Message
}

func (MessageEvent) isEvent() {}

// Source produces the per-session event stream. The events channel is closed
// when the stream ends (server close, completion or context cancellation);
// the error channel is buffered size 1 and carries at most one terminal
// error. Cancelling ctx unsubscribes and stops all further delivery.
type Source interface {
	Subscribe(ctx context.Context, sessionID string) (<-chan Event, <-chan error, error)
}

// wire kinds for the {type, data} envelope.
const (
	wireStatus  = "status"
	wireMessage = "message"
)

// wireEvent is the JSON envelope used on the wire.
type wireEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ParseEvent decodes one wire envelope into an Event.
func ParseEvent(data []byte) (Event, error) {
	var env wireEvent
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("stream: decode envelope: %w", err)
	}
	switch env.Type {
	case wireStatus:
		var ev StatusEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return nil, fmt.Errorf("stream: decode status event: %w", err)
		}
		return ev, nil
	case wireMessage:
		var msg conversation.Message
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return nil, fmt.Errorf("stream: decode message event: %w", err)
		}
		return MessageEvent{Message: msg}, nil
	default:
		return nil, fmt.Errorf("stream: unknown event type %q", env.Type)
	}
}

// EncodeEvent produces the wire envelope for an Event. Used by the in-memory
// source's tests and by fakes standing in for the server.
func EncodeEvent(ev Event) ([]byte, error) {
	var env wireEvent
	switch v := ev.(type) {
	case StatusEvent:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		env = wireEvent{Type: wireStatus, Data: data}
	case MessageEvent:
		data, err := json.Marshal(v.Message)
		if err != nil {
			return nil, err
		}
		env = wireEvent{Type: wireMessage, Data: data}
	default:
		return nil, fmt.Errorf("stream: unknown event %T", ev)
	}
	return json.Marshal(env)
}
