// Package bench executes benchmark configurations against the external
// simulator binary and sequences whole sweeps. The subprocess boundary is a
// single narrow interface so that failure classification can be tested
// without spawning real processes.
package bench

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Invocation is the raw result of one subprocess execution.
type Invocation struct {
	ExitCode int
	Stdout   string
	Stderr   string
	WallTime time.Duration
	TimedOut bool
	// LaunchErr is set when the process could not be started or failed for
	// a reason other than a nonzero exit or timeout.
	LaunchErr error
}

// Invoker abstracts the subprocess mechanism.
type Invoker interface {
	Invoke(ctx context.Context, path string, args []string) Invocation
}

// SubprocessInvoker runs the benchmark as a real child process. The context
// deadline terminates the child, so a timed-out run leaves no orphan.
type SubprocessInvoker struct{}

func (SubprocessInvoker) Invoke(ctx context.Context, path string, args []string) Invocation {
	cmd := exec.CommandContext(ctx, path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	inv := Invocation{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		WallTime: time.Since(start),
	}

	if err == nil {
		return inv
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		inv.TimedOut = true
		return inv
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		inv.ExitCode = exitErr.ExitCode()
		return inv
	}
	inv.LaunchErr = err
	return inv
}
