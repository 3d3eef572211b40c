package state

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDirectory is returned when navigation targets something that is
	// not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrIsDirectory is returned when Open is asked to launch a directory.
	ErrIsDirectory = errors.New("is a directory")

	errNoOpener = errors.New("no opener configured")
)

// NavigationError describes a failed Controller operation. State is left as
// it was before the call.
type NavigationError struct {
	Op   string
	Path string
	Err  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
