// Package appserver owns the long-lived server child process. It is
// the only place that spawns, signals, and reaps the server; the boot
// runner talks to it through the bootstrap.ServerProcess interface.
package appserver

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/J0Ysutradhar/pilot/internal/bootstrap"
	"github.com/J0Ysutradhar/pilot/internal/config"
	"github.com/J0Ysutradhar/pilot/internal/exitcode"
)

// Process is the supervised server child. The child runs in its own
// process group with inherited stdio: the application owns the
// container log stream, pilot never touches its output.
type Process struct {
	argv []string
	port int
	env  map[string]string
	dir  string

	logger *slog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	waitErr error
	done    chan struct{}
}

var _ bootstrap.ServerProcess = (*Process)(nil)

func New(cfg config.Server, opts ...Option) *Process {
	p := &Process{
		argv:   cfg.Command,
		port:   cfg.Port,
		env:    cfg.Env,
		dir:    cfg.WorkingDir,
		logger: slog.Default().WithGroup("appserver"),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Process) String() string { return "appserver.Process" }

// Start spawns the server and begins reaping it in the background.
// The spawn error is returned untranslated so the caller can map it to
// the 126/127 shell conventions.
func (p *Process) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.argv) == 0 || p.argv[0] == "" {
		return fmt.Errorf("no server command: %w", exec.ErrNotFound)
	}

	cmd := exec.Command(p.argv[0], p.argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Dir = p.dir
	cmd.Env = p.environ()
	setProcAttrs(cmd)

	if err := cmd.Start(); err != nil {
		return err
	}
	p.cmd = cmd
	p.logger.Debug("Server process spawned", "pid", cmd.Process.Pid, "argv", p.argv)

	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		p.waitErr = err
		p.mu.Unlock()
		close(p.done)
	}()
	return nil
}

// environ builds the child environment: the inherited environment,
// then PORT, then the configured extras. Later entries win, so an
// explicit env entry can override PORT.
func (p *Process) environ() []string {
	env := append(os.Environ(), "PORT="+strconv.Itoa(p.port))
	for _, key := range slices.Sorted(maps.Keys(p.env)) {
		env = append(env, key+"="+p.env[key])
	}
	return env
}

// Done is closed once the server has exited and been reaped.
func (p *Process) Done() <-chan struct{} { return p.done }

// Pid returns the child pid, or 0 before Start.
func (p *Process) Pid() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil || p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// ExitCode reports the child's exit status: the plain code for a
// normal exit, 128+n when signal n terminated it, -1 while it is
// still running.
func (p *Process) ExitCode() int {
	select {
	case <-p.done:
	default:
		return -1
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if code, ok := exitcode.FromError(p.waitErr); ok {
		return code
	}
	// Wait failed for a reason other than the child's exit status.
	return 1
}

// Terminate sends SIGTERM to the server process group, waits up to
// grace, then kills the group. The return value reports whether the
// kill was needed.
func (p *Process) Terminate(grace time.Duration) bool {
	p.mu.Lock()
	cmd := p.cmd
	p.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return false
	}

	select {
	case <-p.done:
		return false
	default:
	}

	pid := cmd.Process.Pid
	if err := signalGroup(cmd, syscall.SIGTERM); err != nil {
		p.logger.Warn("Failed to signal server process", "pid", pid, "error", err)
	}

	select {
	case <-p.done:
		return false
	case <-time.After(grace):
	}

	p.logger.Warn("Server did not exit within grace period, killing", "pid", pid, "grace", grace)
	if err := killGroup(cmd); err != nil {
		p.logger.Warn("Failed to kill server process", "pid", pid, "error", err)
	}
	<-p.done
	return true
}
