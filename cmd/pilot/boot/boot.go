// Package boot wires the configured phases into a boot runner and
// executes it under a PID-1 supervisor. It is the composition root the
// run subcommand calls into, kept separate so tests can drive full boot
// sequences in-process.
package boot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/J0Ysutradhar/pilot/internal/appserver"
	"github.com/J0Ysutradhar/pilot/internal/bootstrap"
	"github.com/J0Ysutradhar/pilot/internal/config"
	"github.com/J0Ysutradhar/pilot/internal/exitcode"
	"github.com/J0Ysutradhar/pilot/internal/phases/assets"
	"github.com/J0Ysutradhar/pilot/internal/phases/migrate"
	"github.com/J0Ysutradhar/pilot/internal/phases/privdrop"
	"github.com/J0Ysutradhar/pilot/internal/phases/probe"
	"github.com/robbyt/go-supervisor/supervisor"
)

// Run executes the boot sequence described by cfg and blocks until the
// server process has exited or boot has failed. It returns the process
// exit code pilot should finish with. The error return covers wiring
// failures only; boot outcomes are reported through the code.
func Run(ctx context.Context, logger *slog.Logger, cfg *config.Config) (int, error) {
	logHandler := logger.Handler()

	// The runner cancels this context once the sequence concludes, which
	// shuts the supervisor down instead of idling in a finished state.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prober, err := probe.New(cfg.Wait, probe.WithLogHandler(logHandler))
	if err != nil {
		return exitcode.ConfigInvalid, fmt.Errorf("failed to create readiness prober: %w", err)
	}

	phases := []bootstrap.Phase{
		prober,
		migrate.New(cfg.Migrate, migrate.WithLogHandler(logHandler)),
		assets.New(cfg.Assets, assets.WithLogHandler(logHandler)),
		privdrop.New(cfg.Server.RunAs, privdrop.WithLogHandler(logHandler)),
	}

	server := appserver.New(cfg.Server, appserver.WithLogHandler(logHandler))

	runner, err := bootstrap.NewRunner(
		phases,
		server,
		cfg.Server.GracePeriod.AsDuration(),
		bootstrap.WithLogHandler(logHandler),
		bootstrap.WithShutdownFunc(cancel),
	)
	if err != nil {
		return 1, fmt.Errorf("failed to create boot runner: %w", err)
	}

	super, err := supervisor.New(
		supervisor.WithContext(ctx),
		supervisor.WithLogHandler(logHandler),
		supervisor.WithRunnables(runner),
	)
	if err != nil {
		return 1, fmt.Errorf("failed to create supervisor: %w", err)
	}
	if err := super.Run(); err != nil {
		return 1, fmt.Errorf("failed to run boot sequence: %w", err)
	}

	return runner.ExitCode(), nil
}
