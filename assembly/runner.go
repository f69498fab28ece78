package assembly

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes a compiled media tool command
type Runner interface {
	Run(cmd *exec.Cmd) error
}

// ExitError reports a non-zero exit status of the external tool
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("media tool exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExecRunner runs commands and waits for them. Output the command does not
// already redirect goes to Stdout and Stderr, or to the console when unset.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts cmd and waits for it
func (r ExecRunner) Run(cmd *exec.Cmd) error {
	if cmd.Stdout == nil {
		cmd.Stdout = writerOr(r.Stdout, os.Stdout)
	}
	if cmd.Stderr == nil {
		cmd.Stderr = writerOr(r.Stderr, os.Stderr)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("failed to run %s: %w", cmd.Path, err)
	}
	return nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
