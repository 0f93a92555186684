package privdrop

import "log/slog"

type Option func(*Dropper)

// WithLogger sets a custom logger for the Dropper instance.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dropper) {
		d.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Dropper instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(d *Dropper) {
		if handler != nil {
			d.logger = slog.New(handler).WithGroup("privdrop")
		}
	}
}
