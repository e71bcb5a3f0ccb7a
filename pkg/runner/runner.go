// Package runner executes external programs and captures their output.
//
// It knows nothing about SSH; it only spawns a binary with an argument
// vector, optionally feeds it stdin, and reports the captured streams and
// exit code. A nonzero exit code of the target program is reported as data,
// not as an error.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrTimeout is returned when the process does not exit within the
// configured bound. The process is killed before the error is returned.
var ErrTimeout = errors.New("process timed out")

// Request describes one external process invocation.
type Request struct {
	// Argv is the program and its arguments. Argv[0] is resolved via PATH
	// unless it is an absolute path.
	Argv []string

	// Stdin is an optional payload fed to the process. Nil means no input.
	Stdin io.Reader

	// Env holds extra KEY=VALUE entries appended to the current environment.
	Env []string

	// Timeout bounds the process execution. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration
}

// Output holds the captured streams and exit code of a finished process.
//
// Streams are decoded as UTF-8 text; binary output outside that encoding
// is not preserved faithfully.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner spawns external processes.
type Runner struct{}

// New creates a new runner.
func New() *Runner {
	return &Runner{}
}

// Run executes the request and waits for the process to exit.
//
// A nonzero exit code of the program is returned in Output with a nil
// error. An error is returned only when the binary cannot be started,
// the context is canceled, or the timeout elapses.
func (r *Runner) Run(ctx context.Context, req Request) (*Output, error) {
	if len(req.Argv) == 0 {
		return nil, fmt.Errorf("empty argument vector")
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, req.Argv[0], req.Argv[1:]...)
	cmd.Stdin = req.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if len(req.Env) > 0 {
		cmd.Env = append(os.Environ(), req.Env...)
	}

	logrus.Debugf("exec: %s", strings.Join(req.Argv, " "))

	err := cmd.Run()

	result := &Output{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", ErrTimeout, req.Argv[0], req.Timeout)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Binary not found, permission denied, etc.
			return nil, fmt.Errorf("failed to execute %s: %w", req.Argv[0], err)
		}
	}

	logrus.Debugf("exec: %s exited with code %d", req.Argv[0], result.ExitCode)

	return result, nil
}
