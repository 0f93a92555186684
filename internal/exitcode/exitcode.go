// Package exitcode defines the stable exit codes pilot reports, so the
// surrounding orchestration (compose, Kubernetes, an init system) can
// tell failure causes apart without parsing logs.
package exitcode

import (
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"syscall"
)

// Fatal boot phases map onto sysexits.h values, which keeps them clear
// of the 0-2 range used by application CLIs and the 126+ shell range.
const (
	OK = 0

	// DependencyUnready reports a probed dependency that never accepted
	// a connection before the wait deadline (EX_UNAVAILABLE).
	DependencyUnready = 69

	// MigrationFailed reports a migration subcommand that exited
	// non-zero; schema state needs operator attention (EX_SOFTWARE).
	MigrationFailed = 70

	// AssetsFailed reports an asset preparation subcommand that exited
	// non-zero (EX_CANTCREAT).
	AssetsFailed = 73

	// PrivilegeDropFailed reports a run-as identity that could not be
	// applied or verified (EX_NOPERM).
	PrivilegeDropFailed = 77

	// ConfigInvalid reports startup configuration that did not resolve
	// or validate (EX_CONFIG).
	ConfigInvalid = 78

	// ServerNotExecutable and ServerNotFound mirror the shell's 126/127
	// conventions for a server command that cannot be spawned.
	ServerNotExecutable = 126
	ServerNotFound      = 127
)

// FromSignal returns the shell-convention exit code (128+signal) for a
// boot that was cut short by sig. SIGTERM is assumed when the signal is
// unknown, since that is what container runtimes send first.
func FromSignal(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok && int(s) > 0 {
		return 128 + int(s)
	}
	return 128 + int(syscall.SIGTERM)
}

// FromError extracts the exit code carried by a finished exec.Cmd
// error. Children killed by a signal report 128+signal. ok is false
// when err carries no exit status at all (spawn or wait-infrastructure
// failures), in which case the caller decides.
func FromError(err error) (code int, ok bool) {
	if err == nil {
		return OK, true
	}
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return 0, false
	}
	if ws, isWait := ee.Sys().(syscall.WaitStatus); isWait && ws.Signaled() {
		return 128 + int(ws.Signal()), true
	}
	return ee.ExitCode(), true
}

// FromSpawnError maps a failure to start a command onto the shell's
// conventions: 127 for a missing executable, 126 for anything present
// but not runnable.
func FromSpawnError(err error) int {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return ServerNotFound
	}
	return ServerNotExecutable
}
