package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/J0Ysutradhar/pilot/internal/bootstrap/finitestate"
	"github.com/J0Ysutradhar/pilot/internal/exitcode"
	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// ErrNoServerProcess is returned when a Runner is built without a server handle.
var ErrNoServerProcess = errors.New("no server process")

// Runner executes the boot sequence as a single supervisor.Runnable: the
// pre-running phases strictly in order, then the server process until it
// exits or the run context is canceled. The final process exit code is
// available from ExitCode after Run returns.
type Runner struct {
	phases []Phase
	server ServerProcess
	grace  time.Duration

	bootID    uuid.UUID
	handler   slog.Handler
	logger    *slog.Logger
	collector *loglater.LogCollector

	fsm finitestate.Machine

	runCtx    context.Context
	runCancel context.CancelFunc

	// shutdown stops the enclosing supervisor once the sequence has
	// concluded, so a finished boot tears the process down instead of
	// idling.
	shutdown func()

	exitCode atomic.Int32
	lastSig  atomic.Pointer[os.Signal]
}

// NewRunner assembles the boot sequence. Phases run in the given order;
// each phase's Name must be the boot state it occupies.
func NewRunner(
	phases []Phase,
	server ServerProcess,
	grace time.Duration,
	opts ...Option,
) (*Runner, error) {
	if server == nil {
		return nil, ErrNoServerProcess
	}

	runner := &Runner{
		phases:  phases,
		server:  server,
		grace:   grace,
		handler: slog.Default().Handler(),
	}

	// Apply functional options
	for _, opt := range opts {
		opt(runner)
	}

	runner.bootID = uuid.Must(uuid.NewV6())

	// Every runner log line goes through the collector so the boot
	// trail can be replayed when the sequence fails.
	runner.collector = loglater.NewLogCollector(runner.handler)
	runner.logger = slog.New(runner.collector).With("boot_id", runner.bootID)

	fsm, err := finitestate.New(runner.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	runner.fsm = fsm

	return runner, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return "bootstrap.Runner"
}

// Run implements the supervisor.Runnable interface. It always runs the
// sequence to a conclusion and reports problems through the exit code;
// an error return means the runner itself is broken, not the boot.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debug("Starting boot runner")

	r.runCtx, r.runCancel = context.WithCancel(ctx)
	defer r.runCancel()

	r.watchSignals()

	code, replay := r.boot()
	r.exitCode.Store(int32(code))

	if replay {
		r.playback(code)
	}

	if !r.fsm.TransitionBool(finitestate.StateExited) {
		r.logger.Error("Failed to transition to exited state", "state", r.fsm.GetState())
	}
	r.logger.Info("Boot sequence finished", "exit_code", code)

	if r.shutdown != nil {
		r.shutdown()
	}
	return nil
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Debug("Stopping boot runner")
	if r.runCancel != nil {
		r.runCancel()
	}
}

// ExitCode returns the process exit code the boot concluded with. Valid
// once Run has returned; zero before that.
func (r *Runner) ExitCode() int {
	return int(r.exitCode.Load())
}

// boot walks the phase sequence and then supervises the server. It
// returns the final exit code and whether the boot trail should be
// replayed as a postmortem.
func (r *Runner) boot() (int, bool) {
	for _, phase := range r.phases {
		if r.runCtx.Err() != nil {
			r.logger.Warn("Boot canceled", "before_phase", phase.Name())
			return r.signalExitCode(), false
		}

		if err := r.fsm.Transition(phase.Name()); err != nil {
			r.logger.Error("Failed to transition state machine",
				"state", phase.Name(), "error", err)
			return 1, true
		}
		r.logger.Info("Phase starting", "phase", phase.Name())

		result := phase.Run(r.runCtx)
		switch result.Status {
		case StatusSuccess:
			r.logger.Info("Phase complete",
				"phase", phase.Name(),
				"elapsed", result.Elapsed,
				"detail", result.Message)
		case StatusCanceled:
			r.logger.Warn("Phase canceled by shutdown",
				"phase", phase.Name(),
				"elapsed", result.Elapsed,
				"detail", result.Message)
			return r.signalExitCode(), false
		default:
			r.logger.Error("Phase failed",
				"phase", phase.Name(),
				"status", result.Status,
				"elapsed", result.Elapsed,
				"detail", result.Message,
				"exit_code", result.Code)
			return result.Code, true
		}
	}

	return r.runServer()
}

// runServer spawns the child and blocks on the two-source rendezvous:
// child exit versus run-context cancellation.
func (r *Runner) runServer() (int, bool) {
	if err := r.fsm.Transition(finitestate.StateRunning); err != nil {
		r.logger.Error("Failed to transition state machine",
			"state", finitestate.StateRunning, "error", err)
		return 1, true
	}

	if err := r.server.Start(); err != nil {
		code := exitcode.FromSpawnError(err)
		r.logger.Error("Failed to start server process",
			"cmd", r.server.String(), "error", err, "exit_code", code)
		return code, true
	}
	r.logger.Info("Server process started",
		"cmd", r.server.String(), "pid", r.server.Pid())

	select {
	case <-r.server.Done():
		code := r.server.ExitCode()
		if code == exitcode.OK {
			r.logger.Info("Server process exited", "exit_code", code)
		} else {
			r.logger.Error("Server process exited abnormally", "exit_code", code)
		}
		return code, false

	case <-r.runCtx.Done():
		return r.terminate(), false
	}
}

// terminate runs the graceful-stop protocol after a shutdown request.
func (r *Runner) terminate() int {
	if err := r.fsm.Transition(finitestate.StateTerminating); err != nil {
		r.logger.Error("Failed to transition state machine",
			"state", finitestate.StateTerminating, "error", err)
	}
	r.logger.Info("Forwarding SIGTERM to server process",
		"pid", r.server.Pid(), "grace_period", r.grace)

	forced := r.server.Terminate(r.grace)
	code := r.server.ExitCode()
	if forced {
		r.logger.Warn("Grace period expired, server force-killed", "exit_code", code)
	} else {
		r.logger.Info("Server exited within grace period", "exit_code", code)
	}
	return code
}

// watchSignals records which termination signal arrived. Signal handling
// itself belongs to the enclosing supervisor; this observer only makes
// the cancellation exit code honest (130 for SIGINT, 143 for SIGTERM).
func (r *Runner) watchSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			r.lastSig.Store(&sig)
			r.logger.Debug("Termination signal observed", "signal", sig.String())
		case <-r.runCtx.Done():
		}
	}()
}

// signalExitCode maps the observed shutdown signal to 128+signal,
// defaulting to SIGTERM's 143 when none was seen.
func (r *Runner) signalExitCode() int {
	if sig := r.lastSig.Load(); sig != nil {
		return exitcode.FromSignal(*sig)
	}
	return exitcode.FromSignal(nil)
}

// playback replays the recorded boot trail to the live handler so the
// tail of a dead container's log carries the whole diagnosis.
func (r *Runner) playback(code int) {
	slog.New(r.handler).Error("Boot failed, replaying phase trail",
		"boot_id", r.bootID, "exit_code", code)

	replayTo := r.handler.WithAttrs([]slog.Attr{slog.Bool("boot_replay", true)})
	if err := r.collector.PlayLogs(replayTo); err != nil {
		r.logger.Error("Failed to replay boot logs", "error", err)
	}
}
