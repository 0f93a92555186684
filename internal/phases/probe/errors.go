package probe

import "errors"

var (
	ErrUnsupportedScheme = errors.New("unsupported target scheme")
	ErrInvalidTarget     = errors.New("invalid probe target")
	ErrNotServing        = errors.New("dependency not serving")
)
