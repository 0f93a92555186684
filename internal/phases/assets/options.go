package assets

import "log/slog"

type Option func(*Preparer)

// WithLogger sets a custom logger for the Preparer instance.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preparer) {
		p.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Preparer instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(p *Preparer) {
		if handler != nil {
			p.logger = slog.New(handler).WithGroup("assets")
		}
	}
}
