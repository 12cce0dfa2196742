// Package contract defines the interfaces, configuration and error types
// shared by all parts of plugcheck.
package contract

import (
	"context"
	"fmt"
	"time"

	"github.com/plugcheck/plugcheck/schema"
)

// CommandOutput holds the fully captured result of one external command.
type CommandOutput struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner executes external commands with a bounded lifetime.
// A nonzero exit code is NOT an error; implementations return an
// ExecutionError only when the command cannot be launched at all
// or its deadline expires.
type CommandRunner interface {
	Run(ctx context.Context, command string, cwd string, timeout time.Duration) (CommandOutput, error)
}

// HistoryStore persists audit run records.
type HistoryStore interface {
	InsertAuditRun(rec *schema.AuditRunRecord) (int64, error)
	GetAllAuditRuns() ([]schema.AuditRunRecord, error)
	GetStatus() (*schema.HistoryStatus, error)
	Clear() error
	Close() error
}

// HistoryManager provides access to the configured history store.
// A nil store means history tracking is disabled.
type HistoryManager interface {
	GetAuditStore() HistoryStore
}

// RequestError marks a malformed request (unknown check name, missing path).
// It is the only error class that crosses the engine boundary; it is raised
// before any analyzer runs or filesystem side effects happen.
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return "invalid request: " + e.Reason
}

// NewRequestError creates a RequestError with a formatted reason.
func NewRequestError(format string, args ...any) *RequestError {
	return &RequestError{Reason: fmt.Sprintf(format, args...)}
}

// ExecutionError marks an external command that could not be launched or
// that exceeded its deadline. Nonzero exits never produce this error.
type ExecutionError struct {
	Command  string
	TimedOut bool
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("command %q timed out", e.Command)
	}
	return fmt.Sprintf("command %q could not be launched: %v", e.Command, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
