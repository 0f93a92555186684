package main

import (
	"context"

	"github.com/J0Ysutradhar/pilot/cmd/pilot/boot"
	"github.com/J0Ysutradhar/pilot/internal/exitcode"
	"github.com/urfave/cli/v3"
)

var runCmd = &cli.Command{
	Name:      "run",
	Usage:     "Boot the application server and supervise it until it exits",
	ArgsUsage: "-- SERVER_CMD [ARG...]",
	Description: `Runs the startup sequence: wait for dependencies, apply migrations,
prepare static assets, drop privileges, then start the server command
and forward termination signals to it. pilot exits with the server's
exit code, or with a phase-specific code when boot fails.`,
	Flags:  append(configFlags(), logFlags()...),
	Action: runAction,
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), exitcode.ConfigInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), exitcode.ConfigInvalid)
	}

	logger, err := SetupLogger(cfg.Log)
	if err != nil {
		return cli.Exit(err.Error(), exitcode.ConfigInvalid)
	}

	code, err := boot.Run(ctx, logger, cfg)
	if err != nil {
		logger.Error("Boot sequence could not run", "error", err)
	}
	if code != exitcode.OK {
		// Failure detail is already on the log stream; the empty message
		// keeps stderr clean while still carrying the code out.
		return cli.Exit("", code)
	}
	return nil
}
