package probe

import "log/slog"

type Option func(*Prober)

// WithLogger sets a custom logger for the Prober instance.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Prober instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(p *Prober) {
		if handler != nil {
			p.logger = slog.New(handler).WithGroup("probe")
		}
	}
}
