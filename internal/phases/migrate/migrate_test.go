package migrate

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/J0Ysutradhar/pilot/internal/bootstrap"
	"github.com/J0Ysutradhar/pilot/internal/bootstrap/finitestate"
	"github.com/J0Ysutradhar/pilot/internal/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRunner_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, finitestate.StateMigrating, New(nil).Name())
}

func TestRunner_SkipsWithoutCommand(t *testing.T) {
	t.Parallel()

	res := New(nil).Run(t.Context())
	assert.True(t, res.OK())
	assert.Contains(t, res.Message, "no migration command")
}

func TestRunner_Success(t *testing.T) {
	skipWithoutShell(t)
	t.Parallel()

	marker := filepath.Join(t.TempDir(), "schema-version")
	r := New([]string{"sh", "-c", "echo 42 > " + marker})

	res := r.Run(t.Context())
	require.True(t, res.OK(), "unexpected result: %+v", res)
	assert.FileExists(t, marker)
}

func TestRunner_NonzeroExitIsFatal(t *testing.T) {
	skipWithoutShell(t)
	t.Parallel()

	r := New([]string{"sh", "-c", "exit 7"})
	res := r.Run(t.Context())

	assert.Equal(t, bootstrap.StatusFailed, res.Status)
	assert.Equal(t, exitcode.MigrationFailed, res.Code)
	assert.Contains(t, res.Message, "exit status 7")
}

func TestRunner_MissingCommandIsFatal(t *testing.T) {
	t.Parallel()

	r := New([]string{"pilot-test-no-such-migrator"})
	res := r.Run(t.Context())

	assert.Equal(t, bootstrap.StatusFailed, res.Status)
	assert.Equal(t, exitcode.MigrationFailed, res.Code)
}

func TestRunner_CancellationNeverInterrupts(t *testing.T) {
	skipWithoutShell(t)
	t.Parallel()

	marker := filepath.Join(t.TempDir(), "applied")
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	r := New([]string{"sh", "-c", "sleep 0.2 && echo ok > " + marker})
	res := r.Run(ctx)

	// The subcommand must have run to completion despite the canceled
	// context, and only then is the cancellation reported.
	assert.Equal(t, bootstrap.StatusCanceled, res.Status)
	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(content))
	assert.GreaterOrEqual(t, res.Elapsed, 150*time.Millisecond)
}
