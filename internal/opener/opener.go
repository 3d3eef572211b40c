// Package opener hands files to the operating system's default application.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// commandBuilder is exec.Command, overridable in tests.
var commandBuilder = exec.Command

// Opener launches the platform's "open with default application" command.
type Opener struct {
	goos string
}

// New returns an opener for the running platform.
func New() *Opener {
	return NewForOS(runtime.GOOS)
}

// NewForOS returns an opener that dispatches as goos would.
func NewForOS(goos string) *Opener {
	return &Opener{goos: goos}
}

// Open starts the launcher for path and returns without waiting for it.
// Only a failure to start the launcher is reported; whether a handler
// actually opened the file is not observable.
func (o *Opener) Open(path string) error {
	args := LauncherArgs(o.goos, path)
	cmd := commandBuilder(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("cannot launch %s: %w", args[0], err)
	}
	// Reap the launcher so it does not linger as a zombie.
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// LauncherArgs returns the command line used to open path on goos.
func LauncherArgs(goos, path string) []string {
	switch strings.ToLower(goos) {
	case "darwin":
		return []string{"open", path}
	case "windows":
		// The empty argument is start's window title; without it a quoted
		// path would be taken as the title.
		return []string{"cmd", "/C", "start", "", path}
	default:
		return []string{"xdg-open", path}
	}
}
