package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Equal(t, VersionLatest, cfg.Version)
	assert.Equal(t, 60*time.Second, cfg.Wait.Timeout.AsDuration())
	assert.Equal(t, time.Second, cfg.Wait.Interval.AsDuration())
	assert.Equal(t, 2*time.Second, cfg.Wait.AttemptTimeout.AsDuration())
	assert.Empty(t, cfg.Wait.Targets)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.GracePeriod.AsDuration())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)

	// Defaults alone never pass validation: there is no server command.
	require.Error(t, cfg.Validate())
}

func TestInterpolate(t *testing.T) {
	t.Setenv("PILOT_TEST_DBHOST", "db.internal")

	cfg := Default()
	cfg.Server.Port = 9000
	cfg.Server.Command = []string{"gunicorn", "app.wsgi", "--bind=0.0.0.0:${PORT}"}
	cfg.Server.Env = map[string]string{
		"DATABASE_URL": "postgres://${PILOT_TEST_DBHOST}:5432/app",
		"WORKERS":      "${PILOT_TEST_WORKERS:4}",
	}
	cfg.Wait.Targets = []string{"tcp://${PILOT_TEST_DBHOST}:5432"}

	require.NoError(t, cfg.Interpolate())

	assert.Equal(t, "--bind=0.0.0.0:9000", cfg.Server.Command[2],
		"resolved port wins over the PORT environment variable")
	assert.Equal(t, "postgres://db.internal:5432/app", cfg.Server.Env["DATABASE_URL"])
	assert.Equal(t, "4", cfg.Server.Env["WORKERS"])
	assert.Equal(t, []string{"tcp://db.internal:5432"}, cfg.Wait.Targets)
}

func TestInterpolate_MissingVar(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Server.Command = []string{"${PILOT_TEST_NOT_DEFINED_ANYWHERE}"}

	err := cfg.Interpolate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFailedToLoadConfig)
	assert.ErrorContains(t, err, "PILOT_TEST_NOT_DEFINED_ANYWHERE")
}

func TestSplitCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"python manage.py migrate --noinput", []string{"python", "manage.py", "migrate", "--noinput"}},
		{"  ls\t-la  ", []string{"ls", "-la"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitCommand(tt.input), "input %q", tt.input)
	}

	assert.Empty(t, SplitCommand(""))
	assert.Empty(t, SplitCommand("   "))
}
