// Package config resolves pilot's startup configuration from CLI flags,
// environment variables, and an optional TOML file. The result is read
// once at process entry and passed to the boot phases by value; nothing
// re-reads the environment mid-run.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/J0Ysutradhar/pilot/internal/interpolation"
)

// Config schema versions.
const (
	VersionLatest  = "v1"
	VersionUnknown = "unknown"
)

// Config is the resolved startup configuration. Duration fields use the
// local Duration wrapper so TOML strings like "90s" decode directly.
type Config struct {
	Version string `toml:"version" env_interpolation:"no"`

	Wait    Wait     `toml:"wait"            env_interpolation:"yes"`
	Migrate []string `toml:"migrate_command" env_interpolation:"yes"`
	Assets  []string `toml:"assets_command"  env_interpolation:"yes"`
	Server  Server   `toml:"server"          env_interpolation:"yes"`
	Log     Log      `toml:"log"             env_interpolation:"no"`
}

// Wait configures the dependency readiness phase. Targets use scheme
// URLs (tcp, unix, http, https, postgres, grpc, s3); a bare host:port
// is shorthand for tcp. A zero Timeout means one attempt per target.
type Wait struct {
	Targets        []string `toml:"targets"         env_interpolation:"yes"`
	Timeout        Duration `toml:"timeout"         env_interpolation:"no"`
	Interval       Duration `toml:"interval"        env_interpolation:"no"`
	AttemptTimeout Duration `toml:"attempt_timeout" env_interpolation:"no"`
}

// Server configures the long-running child process.
type Server struct {
	Command     []string          `toml:"command"      env_interpolation:"yes"`
	Port        int               `toml:"port"         env_interpolation:"no"`
	RunAs       string            `toml:"run_as"       env_interpolation:"yes"`
	GracePeriod Duration          `toml:"grace_period" env_interpolation:"no"`
	WorkingDir  string            `toml:"working_dir"  env_interpolation:"yes"`
	Env         map[string]string `toml:"env"          env_interpolation:"yes"`
}

// Log configures pilot's own log stream, not the child's.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// Default returns the configuration used when no file, flag, or
// environment variable says otherwise.
func Default() Config {
	return Config{
		Version: VersionLatest,
		Wait: Wait{
			Timeout:        FromDuration(60 * time.Second),
			Interval:       FromDuration(time.Second),
			AttemptTimeout: FromDuration(2 * time.Second),
		},
		Server: Server{
			Port:        8000,
			GracePeriod: FromDuration(10 * time.Second),
		},
		Log: Log{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Interpolate expands ${VAR} and ${VAR:default} placeholders in every
// tagged field against the process environment, with PORT overlaid by
// the resolved listen port so argv elements can reference it before the
// child env exists.
func (c *Config) Interpolate() error {
	port := strconv.Itoa(c.Server.Port)
	lookup := func(name string) (string, bool) {
		if name == "PORT" {
			return port, true
		}
		return os.LookupEnv(name)
	}
	if err := interpolation.InterpolateStructWith(c, lookup); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	return nil
}

// SplitCommand turns a space-separated command string from a flag or
// environment variable into an argv slice. Arguments with embedded
// whitespace need the TOML file's array form instead.
func SplitCommand(s string) []string {
	return strings.Fields(s)
}
