package navigation

import (
	"fmt"
	"strings"
)

// UnknownStepError is returned when a destination has no step of the requested name.
type UnknownStepError struct {
	Kind        string
	Name        string
	Suggestions []string
}

func (e *UnknownStepError) Error() string {
	msg := fmt.Sprintf("no navigation step %q for %s", e.Name, e.Kind)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// StepFailedError is returned when a step's transition fails or its view
// never displays.
type StepFailedError struct {
	Kind string
	Step string
	Err  error
}

func (e *StepFailedError) Error() string {
	return fmt.Sprintf("navigation step %s/%s failed: %v", e.Kind, e.Step, e.Err)
}

func (e *StepFailedError) Unwrap() error { return e.Err }

// CycleError is returned when prerequisites lead back to a step already on the path.
type CycleError struct {
	Chain []Key
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, k := range e.Chain {
		parts[i] = k.String()
	}
	return "navigation cycle: " + strings.Join(parts, " -> ")
}
