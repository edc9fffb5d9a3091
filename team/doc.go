// Package team turns a user's selections into a single nested team
// descriptor. The Composer resolves the selected agent ids concurrently and
// assembles the participants sequence in selection order, regardless of
// lookup completion order. The default aggregation policy is fail-closed: one
// failed lookup voids the whole batch and the composer degrades to an empty
// participant list instead of surfacing an error; PolicyBestEffort keeps the
// successful lookups instead.
//
// The Builder assembles the full team component (participants, model client,
// termination condition, execution policy) from already-resolved parts.
package team
