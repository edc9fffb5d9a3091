package stream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/malik-aiplanet/agentflow/logging"
)

// eventBufferSize is the channel buffer for decoded events, allowing burst
// delivery without blocking the read pump.
const eventBufferSize = 256

// WebSocketSource subscribes to run event streams over a WebSocket endpoint.
// One connection is dialed per session.
type WebSocketSource struct {
	baseURL    string
	dialer     *websocket.Dialer
	logger     logging.Logger
	bufferSize int
}

// WebSocketOption configures a WebSocketSource.
type WebSocketOption func(*WebSocketSource)

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) WebSocketOption {
	return func(s *WebSocketSource) { s.dialer = d }
}

// WithLogger sets the logger for connection diagnostics.
func WithLogger(l logging.Logger) WebSocketOption {
	return func(s *WebSocketSource) { s.logger = l }
}

// WithBufferSize overrides the per-subscription event channel buffer.
func WithBufferSize(n int) WebSocketOption {
	return func(s *WebSocketSource) {
		if n > 0 {
			s.bufferSize = n
		}
	}
}

// NewWebSocketSource constructs a source dialing baseURL (ws:// or wss://).
func NewWebSocketSource(baseURL string, optFns ...WebSocketOption) *WebSocketSource {
	s := &WebSocketSource{
		baseURL:    baseURL,
		dialer:     websocket.DefaultDialer,
		logger:     logging.NoOpLogger{},
		bufferSize: eventBufferSize,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// Subscribe dials the session's stream endpoint and starts a read pump. The
// returned events channel closes when the server closes the stream or ctx is
// cancelled; a read failure other than cancellation is reported once on the
// error channel.
func (s *WebSocketSource) Subscribe(ctx context.Context, sessionID string) (<-chan Event, <-chan error, error) {
	u := fmt.Sprintf("%s/ws/runs/%s", s.baseURL, url.PathEscape(sessionID))
	conn, _, err := s.dialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("stream: dial %s: %w", u, err)
	}

	events := make(chan Event, s.bufferSize)
	errs := make(chan error, 1)

	// Close the connection when the subscriber goes away so the read pump
	// unblocks and exits.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	go s.readPump(ctx, sessionID, conn, events, errs)

	return events, errs, nil
}

func (s *WebSocketSource) readPump(ctx context.Context, sessionID string, conn *websocket.Conn, events chan<- Event, errs chan<- error) {
	defer close(events)
	defer close(errs)
	defer func() { _ = conn.Close() }()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			errs <- fmt.Errorf("stream: session %s: %w", sessionID, err)
			return
		}

		ev, err := ParseEvent(data)
		if err != nil {
			// A malformed frame is logged and skipped rather than killing
			// the stream.
			s.logger.Warn("dropping malformed stream event", "session_id", sessionID, "error", err)
			continue
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
