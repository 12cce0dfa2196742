package contract

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// LocalCommandRunner implements the CommandRunner interface by executing
// commands through the local shell, the way npm lifecycle scripts run.
type LocalCommandRunner struct{}

var _ CommandRunner = &LocalCommandRunner{} // Compile-time check

// NewLocalCommandRunner creates a new instance of the local command runner.
func NewLocalCommandRunner() *LocalCommandRunner {
	return &LocalCommandRunner{}
}

// Run executes a shell command in cwd with a bounded lifetime and fully
// captured output. Output is never passed through to the parent's stdio,
// so a protocol stream on stdout (e.g. MCP) stays clean. A nonzero exit
// is reported in CommandOutput, not as an error; only launch failures and
// deadline expiry produce an ExecutionError.
func (r *LocalCommandRunner) Run(ctx context.Context, command string, cwd string, timeout time.Duration) (CommandOutput, error) {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if info, err := os.Stat(cwd); err != nil || !info.IsDir() {
		return CommandOutput{ExitCode: -1}, &ExecutionError{Command: command, Err: errors.New("working directory does not exist: " + cwd)}
	}

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	cmd.Dir = cwd
	cmd.Env = os.Environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := CommandOutput{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		out.ExitCode = -1
		return out, &ExecutionError{Command: command, TimedOut: true, Err: runCtx.Err()}
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		out.ExitCode = 0
	case errors.As(err, &exitErr):
		// The program ran and exited nonzero. The caller decides whether
		// that constitutes a check failure.
		out.ExitCode = exitErr.ExitCode()
	default:
		out.ExitCode = -1
		return out, &ExecutionError{Command: command, Err: err}
	}

	return out, nil
}
