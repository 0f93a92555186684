// Package assets runs the static asset preparation subcommand
// (collectstatic, bundle builds, cache warmup). It runs before the
// privilege drop because asset output may need elevated filesystem
// writes.
package assets

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

// Preparer is the asset preparation phase of the boot sequence.
type Preparer struct {
	argv   []string
	logger *slog.Logger
}

var _ bootstrap.Phase = (*Preparer)(nil)

func New(argv []string, opts ...Option) *Preparer {
	p := &Preparer{
		argv:   argv,
		logger: slog.Default().WithGroup("assets"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Preparer) Name() string { return finitestate.StatePreparingAssets }

// Run executes the asset command to completion. Unlike migrations the
// subcommand is interruptible: asset output is regenerated on the next
// boot, so a termination signal terminates it and the phase reports
// Canceled.
func (p *Preparer) Run(ctx context.Context) bootstrap.Result {
	start := time.Now()
	if len(p.argv) == 0 {
		p.logger.Debug("No assets command configured, skipping")
		return bootstrap.Success(time.Since(start), "no assets command configured")
	}

	err := subproc.Run(ctx, p.argv, p.logger)
	elapsed := time.Since(start)
	if ctx.Err() != nil {
		return bootstrap.Canceled(elapsed, "asset preparation interrupted")
	}
	if err != nil {
		return bootstrap.Failed(
			exitcode.AssetsFailed,
			elapsed,
			fmt.Sprintf("assets command %q: %v", strings.Join(p.argv, " "), err),
		)
	}
	return bootstrap.Success(
		elapsed,
		fmt.Sprintf("assets prepared in %s", elapsed.Round(time.Millisecond)),
	)
}
