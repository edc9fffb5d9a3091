// Package stream delivers run execution events to the client. A Source is
// subscribed per session and yields an ordered event channel plus a terminal
// error channel, mirroring the delivery contract of the server: in-order per
// session, no ordering across sessions, duplicates possible.
//
// WebSocketSource is the production implementation; MemorySource is an
// in-process hub for tests and examples.
package stream
