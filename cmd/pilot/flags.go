package main

import (
	"github.com/J0Ysutradhar/pilot/internal/config"
	"github.com/urfave/cli/v3"
)

// configFlags are shared by every subcommand that resolves a boot plan.
// Each flag shadows a PILOT_* environment variable; explicit flags win
// over the environment, and both win over the TOML file.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to TOML configuration file",
			Sources: cli.EnvVars("PILOT_CONFIG"),
		},
		&cli.StringSliceFlag{
			Name:    "wait",
			Aliases: []string{"w"},
			Usage:   "Dependency to await before boot (repeatable; host:port, tcp://, unix://, http(s)://, postgres://, grpc://, or s3://)",
			Sources: cli.EnvVars("PILOT_WAIT"),
		},
		&cli.DurationFlag{
			Name:    "wait-timeout",
			Usage:   "Give up probing after this long (0 means a single attempt per target)",
			Sources: cli.EnvVars("PILOT_WAIT_TIMEOUT"),
		},
		&cli.DurationFlag{
			Name:    "wait-interval",
			Usage:   "Pause between probe attempts",
			Sources: cli.EnvVars("PILOT_WAIT_INTERVAL"),
		},
		&cli.DurationFlag{
			Name:    "wait-attempt-timeout",
			Usage:   "Connection timeout for a single probe attempt",
			Sources: cli.EnvVars("PILOT_WAIT_ATTEMPT_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:    "migrate",
			Usage:   "Migration command to run once dependencies are ready",
			Sources: cli.EnvVars("PILOT_MIGRATE_CMD"),
		},
		&cli.StringFlag{
			Name:    "assets",
			Usage:   "Asset preparation command to run after migrations",
			Sources: cli.EnvVars("PILOT_ASSETS_CMD"),
		},
		&cli.StringFlag{
			Name:    "run-as",
			Usage:   "Drop to this identity before starting the server (user, uid, user:group, or uid:gid)",
			Sources: cli.EnvVars("PILOT_RUN_AS"),
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port exported to the server process as PORT",
			Sources: cli.EnvVars("PILOT_PORT", "PORT"),
		},
		&cli.DurationFlag{
			Name:    "grace-period",
			Usage:   "How long the server gets to exit after SIGTERM before SIGKILL",
			Sources: cli.EnvVars("PILOT_GRACE_PERIOD"),
		},
		&cli.StringFlag{
			Name:    "workdir",
			Usage:   "Working directory for the server process",
			Sources: cli.EnvVars("PILOT_WORKDIR"),
		},
	}
}

// logFlags configure pilot's own log stream.
func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (trace, debug, info, warn, error)",
			Sources: cli.EnvVars("PILOT_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "Log format (text or json)",
			Sources: cli.EnvVars("PILOT_LOG_FORMAT"),
		},
		&cli.StringFlag{
			Name:    "log-output",
			Usage:   "Log destination (stderr, stdout, or a file path)",
			Sources: cli.EnvVars("PILOT_LOG_OUTPUT"),
		},
	}
}

// resolveConfig builds the effective configuration: defaults, then the
// optional TOML file, then flag and environment overrides, and finally
// ${VAR} interpolation. Validation is left to the caller because the
// subcommands need different slices of the config to be well formed.
func resolveConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.FromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.IsSet("wait") {
		cfg.Wait.Targets = cmd.StringSlice("wait")
	}
	if cmd.IsSet("wait-timeout") {
		cfg.Wait.Timeout = config.FromDuration(cmd.Duration("wait-timeout"))
	}
	if cmd.IsSet("wait-interval") {
		cfg.Wait.Interval = config.FromDuration(cmd.Duration("wait-interval"))
	}
	if cmd.IsSet("wait-attempt-timeout") {
		cfg.Wait.AttemptTimeout = config.FromDuration(cmd.Duration("wait-attempt-timeout"))
	}
	if cmd.IsSet("migrate") {
		cfg.Migrate = config.SplitCommand(cmd.String("migrate"))
	}
	if cmd.IsSet("assets") {
		cfg.Assets = config.SplitCommand(cmd.String("assets"))
	}
	if cmd.IsSet("run-as") {
		cfg.Server.RunAs = cmd.String("run-as")
	}
	if cmd.IsSet("port") {
		cfg.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("grace-period") {
		cfg.Server.GracePeriod = config.FromDuration(cmd.Duration("grace-period"))
	}
	if cmd.IsSet("workdir") {
		cfg.Server.WorkingDir = cmd.String("workdir")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}
	if cmd.IsSet("log-output") {
		cfg.Log.Output = cmd.String("log-output")
	}

	// Positional arguments after -- are the server command, overriding
	// any command from the config file.
	if args := cmd.Args().Slice(); len(args) > 0 {
		cfg.Server.Command = args
	}

	if err := cfg.Interpolate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
