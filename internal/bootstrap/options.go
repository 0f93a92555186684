package bootstrap

import (
	"log/slog"
)

type Option func(*Runner)

// WithLogHandler sets the handler the boot trail is recorded against.
// Phase transitions are logged through a collector wrapping this handler
// and replayed to it on fatal failure.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		if handler != nil {
			r.handler = handler
		}
	}
}

// WithShutdownFunc registers a callback invoked once the boot sequence
// has concluded, successfully or not. The CLI uses it to cancel the
// enclosing supervisor's context so the process exits instead of idling.
func WithShutdownFunc(fn func()) Option {
	return func(r *Runner) {
		r.shutdown = fn
	}
}
