// Package run drives a run from creation to a terminal state. The Controller
// snapshots the team descriptor, creates the run through the collaborator
// gateway, subscribes to the run's event stream and applies incoming events:
// status events go through an explicit transition table (illegal transitions
// are dropped and logged, never applied), message events are reconciled into
// the conversation log and mirrored into the application state store.
//
// Terminal states are final. The first terminal transition wins; any later
// event for a closed run is a no-op. A run that stays pending past a
// configurable threshold is surfaced as stalled, which is a UI condition
// distinct from the error state and does not transition the run.
package run
