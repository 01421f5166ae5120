package executor

import "fmt"

// BuildError is one genome's failure in a run.
type BuildError struct {
	Label string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("genome %s failed: %v", e.Label, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// PanicError records a recovered worker panic.
type PanicError struct {
	Label string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("build of %s panicked: %v", e.Label, e.Value)
}
