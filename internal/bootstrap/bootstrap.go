// Package bootstrap sequences a container startup: dependency probing,
// schema migration, asset preparation, privilege drop, then supervision
// of the server process until it exits or a termination signal arrives.
// The sequence runs as a single supervisor.Runnable; phase order is
// enforced by an explicit state machine rather than control flow.
package bootstrap

import (
	"context"
	"time"
)

// Status is the coarse outcome of one boot phase. The runner inspects
// only this and the recommended exit code, never a phase's internals,
// which keeps phase implementations swappable.
type Status string

const (
	StatusSuccess  Status = "Success"
	StatusFailed   Status = "Failed"
	StatusTimedOut Status = "TimedOut"
	StatusCanceled Status = "Canceled"
)

// Result is what a phase reports back to the boot runner.
type Result struct {
	Status  Status
	Elapsed time.Duration

	// Message is the one-line diagnostic for the log trail. For
	// subcommand phases it carries the failure detail an operator needs
	// when the container is already gone.
	Message string

	// Code is the process exit code to use when the result is fatal.
	// Ignored for Success; for Canceled the runner substitutes the
	// signal-derived code.
	Code int
}

// OK reports whether the boot sequence may continue past this result.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Success builds a passing result.
func Success(elapsed time.Duration, message string) Result {
	return Result{Status: StatusSuccess, Elapsed: elapsed, Message: message}
}

// Failed builds a fatal result carrying the phase's exit code.
func Failed(code int, elapsed time.Duration, message string) Result {
	return Result{Status: StatusFailed, Elapsed: elapsed, Message: message, Code: code}
}

// TimedOut builds a deadline-expiry result carrying the phase's exit code.
func TimedOut(code int, elapsed time.Duration, message string) Result {
	return Result{Status: StatusTimedOut, Elapsed: elapsed, Message: message, Code: code}
}

// Canceled builds a result for a phase cut short by shutdown.
func Canceled(elapsed time.Duration, message string) Result {
	return Result{Status: StatusCanceled, Elapsed: elapsed, Message: message}
}

// Phase is one pre-running step of the boot sequence. Name returns the
// boot state the machine enters while the phase runs (a finitestate
// State* constant), which is also the phase's log name.
type Phase interface {
	Name() string
	Run(ctx context.Context) Result
}

// ServerProcess is the boot runner's handle on the spawned server. The
// runner owns it exclusively from Start until the process is gone; it is
// never shared or reused.
type ServerProcess interface {
	// Start spawns the process. Spawn errors map onto exit codes via
	// exitcode.FromSpawnError.
	Start() error

	// Done is closed once the process has exited and its status is
	// available.
	Done() <-chan struct{}

	// ExitCode is valid after Done is closed or Terminate returns.
	// Children killed by a signal report 128+signal.
	ExitCode() int

	// Terminate forwards SIGTERM to the process group, waits up to
	// grace, then SIGKILLs. Returns true when escalation was needed.
	Terminate(grace time.Duration) bool

	// Pid of the spawned process, for logging.
	Pid() int

	String() string
}
