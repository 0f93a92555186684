package main

import (
	"context"

	"github.com/J0Ysutradhar/pilot/internal/bootstrap"
	"github.com/J0Ysutradhar/pilot/internal/exitcode"
	"github.com/J0Ysutradhar/pilot/internal/phases/probe"
	"github.com/urfave/cli/v3"
)

var checkCmd = &cli.Command{
	Name:  "check",
	Usage: "Probe each wait target once and report readiness",
	Description: `Runs a single probe attempt against every wait target and exits 0 when
all are ready, 69 otherwise. Suitable as a container healthcheck or an
init container command. No server command is required.`,
	Flags:  append(configFlags(), logFlags()...),
	Action: checkAction,
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), exitcode.ConfigInvalid)
	}
	if err := cfg.Wait.Validate(); err != nil {
		return cli.Exit(err.Error(), exitcode.ConfigInvalid)
	}

	logger, err := SetupLogger(cfg.Log)
	if err != nil {
		return cli.Exit(err.Error(), exitcode.ConfigInvalid)
	}

	// One attempt per target regardless of the configured timeout; the
	// caller's probe cadence belongs to the healthcheck scheduler.
	cfg.Wait.Timeout = 0

	prober, err := probe.New(cfg.Wait, probe.WithLogger(logger))
	if err != nil {
		return cli.Exit(err.Error(), exitcode.ConfigInvalid)
	}

	result := prober.Run(ctx)
	switch result.Status {
	case bootstrap.StatusSuccess:
		logger.Info("Readiness check passed", "detail", result.Message)
		return nil
	case bootstrap.StatusCanceled:
		return cli.Exit(result.Message, exitcode.FromSignal(nil))
	default:
		return cli.Exit(result.Message, result.Code)
	}
}
