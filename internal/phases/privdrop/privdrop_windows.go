//go:build windows

package privdrop

import "log/slog"

func drop(spec string, logger *slog.Logger) (identity, error) {
	return identity{}, ErrUnsupported
}
