// Package migrate runs the schema migration subcommand. Migrations
// mutate shared database state, so this phase is deliberately the
// least interruptible part of the boot sequence.
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/J0Ysutradhar/pilot/internal/bootstrap"
	"github.com/J0Ysutradhar/pilot/internal/bootstrap/finitestate"
	"github.com/J0Ysutradhar/pilot/internal/exitcode"
	"github.com/J0Ysutradhar/pilot/internal/phases/subproc"
)

// Runner is the schema migration phase of the boot sequence.
type Runner struct {
	argv   []string
	logger *slog.Logger
}

var _ bootstrap.Phase = (*Runner)(nil)

func New(argv []string, opts ...Option) *Runner {
	r := &Runner{
		argv:   argv,
		logger: slog.Default().WithGroup("migrate"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) Name() string { return finitestate.StateMigrating }

// Run executes the migration command to completion. A termination
// signal arriving mid-migration never interrupts the subprocess; a
// half-applied migration is worse than a slow shutdown. Cancellation
// is honored only after the subcommand exits, with the schema intact.
func (r *Runner) Run(ctx context.Context) bootstrap.Result {
	start := time.Now()
	if len(r.argv) == 0 {
		r.logger.Debug("No migration command configured, skipping")
		return bootstrap.Success(time.Since(start), "no migration command configured")
	}

	err := subproc.Run(context.WithoutCancel(ctx), r.argv, r.logger)
	elapsed := time.Since(start)
	if err != nil {
		return bootstrap.Failed(
			exitcode.MigrationFailed,
			elapsed,
			fmt.Sprintf("migration command %q: %v", strings.Join(r.argv, " "), err),
		)
	}
	if ctx.Err() != nil {
		return bootstrap.Canceled(elapsed, "migrations applied, boot interrupted")
	}
	return bootstrap.Success(
		elapsed,
		fmt.Sprintf("migrations applied in %s", elapsed.Round(time.Millisecond)),
	)
}
