// Package conversation maintains the ordered, deduplicated message sequence
// of an active run. User messages enter optimistically with a locally
// generated id so the UI reflects them without waiting for the server; when
// the server echoes a message the entry is confirmed in place, keyed by id.
// A message's position is fixed by its first appearance and entries are never
// deleted or reordered.
package conversation
