// Package probe blocks the boot sequence until every configured
// dependency accepts a connection. Targets are scheme-dispatched
// (tcp, unix, http, postgres, grpc, s3) and polled sequentially
// against one shared deadline.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/J0Ysutradhar/pilot/internal/bootstrap"
	"github.com/J0Ysutradhar/pilot/internal/bootstrap/finitestate"
	"github.com/J0Ysutradhar/pilot/internal/config"
	"github.com/J0Ysutradhar/pilot/internal/exitcode"
)

// Prober is the readiness phase of the boot sequence.
type Prober struct {
	checkers []Checker
	timeout  time.Duration
	interval time.Duration
	attempt  time.Duration
	logger   *slog.Logger
}

var _ bootstrap.Phase = (*Prober)(nil)

// New builds a Prober from the wait section of the startup config.
// Target strings are parsed eagerly so a typo fails configuration, not
// the first probe attempt.
func New(cfg config.Wait, opts ...Option) (*Prober, error) {
	p := &Prober{
		timeout:  cfg.Timeout.AsDuration(),
		interval: cfg.Interval.AsDuration(),
		attempt:  cfg.AttemptTimeout.AsDuration(),
		logger:   slog.Default().WithGroup("probe"),
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, target := range cfg.Targets {
		checker, err := NewChecker(target)
		if err != nil {
			return nil, err
		}
		p.checkers = append(p.checkers, checker)
	}
	return p, nil
}

func (p *Prober) Name() string { return finitestate.StateProbing }

// Targets returns the display form of every configured target, in
// probe order.
func (p *Prober) Targets() []string {
	targets := make([]string, 0, len(p.checkers))
	for _, checker := range p.checkers {
		targets = append(targets, checker.String())
	}
	return targets
}

// Run polls every target until it accepts a probe or the shared
// timeout elapses. A zero timeout means exactly one attempt per
// target. The first attempt is immediate.
func (p *Prober) Run(ctx context.Context) bootstrap.Result {
	start := time.Now()
	if len(p.checkers) == 0 {
		p.logger.Debug("No wait targets configured")
		return bootstrap.Success(time.Since(start), "no wait targets configured")
	}

	var deadline time.Time
	if p.timeout > 0 {
		deadline = start.Add(p.timeout)
	}
	p.logger.Info("Waiting for dependencies",
		"targets", p.Targets(),
		"timeout", p.timeout,
		"interval", p.interval)

	for _, checker := range p.checkers {
		if res := p.await(ctx, checker, start, deadline); !res.OK() {
			return res
		}
	}
	return bootstrap.Success(
		time.Since(start),
		fmt.Sprintf("%d target(s) ready", len(p.checkers)),
	)
}

// await drives the attempt loop for one target. A zero deadline means
// single-attempt mode.
func (p *Prober) await(
	ctx context.Context,
	checker Checker,
	start time.Time,
	deadline time.Time,
) bootstrap.Result {
	logger := p.logger.With("target", checker.String())
	single := deadline.IsZero()
	var lastErr error

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return p.canceled(checker, start)
		}
		if !single && time.Until(deadline) <= 0 {
			return p.timedOut(checker, start, lastErr)
		}

		err := p.check(ctx, checker, deadline)
		if err == nil {
			logger.Info("Dependency ready", "attempts", attempt, "elapsed", time.Since(start))
			return bootstrap.Success(time.Since(start), "")
		}
		if ctx.Err() != nil {
			return p.canceled(checker, start)
		}
		lastErr = err
		logger.Debug("Dependency not ready", "attempt", attempt, "error", err)

		if single {
			return bootstrap.TimedOut(
				exitcode.DependencyUnready,
				time.Since(start),
				fmt.Sprintf("%s not ready: %v", checker, err),
			)
		}

		wait := p.interval
		if remaining := time.Until(deadline); remaining < wait {
			wait = remaining
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return p.canceled(checker, start)
		}
	}
}

// check runs a single attempt, bounded by the per-attempt timeout and
// never extending past the shared deadline.
func (p *Prober) check(ctx context.Context, checker Checker, deadline time.Time) error {
	timeout := p.attempt
	if !deadline.IsZero() {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return checker.Check(attemptCtx)
}

func (p *Prober) timedOut(checker Checker, start time.Time, lastErr error) bootstrap.Result {
	msg := fmt.Sprintf("%s not ready after %s", checker, p.timeout)
	if lastErr != nil {
		msg = fmt.Sprintf("%s: %v", msg, lastErr)
	}
	return bootstrap.TimedOut(exitcode.DependencyUnready, time.Since(start), msg)
}

func (p *Prober) canceled(checker Checker, start time.Time) bootstrap.Result {
	return bootstrap.Canceled(
		time.Since(start),
		fmt.Sprintf("interrupted waiting for %s", checker),
	)
}
