// Package state holds the single source of truth for a client session: the
// current task, the active run, the selected app, the live team descriptor
// and the ordered conversation log. The store is explicitly constructed and
// passed to controllers and UI adapters; there is no package level global, so
// tests can run any number of independent instances.
//
// Every mutator takes the store's lock for its full duration and readers only
// ever observe the state through Snapshot, so a compound transition applied
// via Apply is seen by all observers as a single atomic replacement.
package state
