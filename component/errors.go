package component

import "fmt"

// UnknownLabelError reports a component envelope whose label is missing or
// names no known config variant.
type UnknownLabelError struct {
	Label string
}

// Error implements the error interface.
func (e *UnknownLabelError) Error() string {
	if e.Label == "" {
		return "component: missing label discriminant"
	}
	return fmt.Sprintf("component: unknown label %q", e.Label)
}

// LabelMismatchError reports payload access under the wrong discriminant.
type LabelMismatchError struct {
	Want Label
	Got  Label
}

// Error implements the error interface.
func (e *LabelMismatchError) Error() string {
	return fmt.Sprintf("component: label mismatch: want %q, got %q", e.Want, e.Got)
}
