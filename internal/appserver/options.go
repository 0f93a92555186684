package appserver

import "log/slog"

type Option func(*Process)

// WithLogger sets a custom logger for the Process instance.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Process) {
		p.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Process instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(p *Process) {
		if handler != nil {
			p.logger = slog.New(handler).WithGroup("appserver")
		}
	}
}
