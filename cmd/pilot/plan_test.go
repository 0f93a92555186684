package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/J0Ysutradhar/pilot/internal/exitcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn while collecting everything it writes to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestPlanAction_PrintsResolvedPlan(t *testing.T) {
	cmd := parseArgs(t,
		"--wait", "tcp://db:5432",
		"--migrate", "python manage.py migrate",
		"--run-as", "app",
		"--port", "9000",
		"--", "gunicorn", "app.wsgi",
	)

	var actionErr error
	out := captureStdout(t, func() {
		actionErr = planCmd.Action(t.Context(), cmd)
	})
	require.NoError(t, actionErr)

	assert.Contains(t, out, "Pilot Boot Plan")
	assert.Contains(t, out, "tcp://db:5432")
	assert.Contains(t, out, "python manage.py migrate")
	assert.Contains(t, out, "Run As: app")
	assert.Contains(t, out, "Port: 9000")
	assert.Contains(t, out, "gunicorn app.wsgi")
}

func TestPlanAction_RedactsCredentials(t *testing.T) {
	cmd := parseArgs(t,
		"--wait", "postgres://app:hunter2@db:5432/app",
		"--", "true",
	)

	var actionErr error
	out := captureStdout(t, func() {
		actionErr = planCmd.Action(t.Context(), cmd)
	})
	require.NoError(t, actionErr)

	assert.Contains(t, out, "postgres://app:xxxxx@db:5432/app")
	assert.NotContains(t, out, "hunter2")
}

func TestPlanAction_InvalidConfig(t *testing.T) {
	var actionErr error
	out := captureStdout(t, func() {
		actionErr = planCmd.Action(t.Context(), parseArgs(t))
	})

	assert.Equal(t, exitcode.ConfigInvalid, exitCode(t, actionErr))
	assert.Empty(t, out)
}

func TestPlanAction_ExecutesNothing(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "migrated")
	cmd := parseArgs(t,
		"--migrate", "touch "+marker,
		"--", "true",
	)

	captureStdout(t, func() {
		require.NoError(t, planCmd.Action(t.Context(), cmd))
	})

	assert.NoFileExists(t, marker)
}
