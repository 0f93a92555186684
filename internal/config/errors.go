package config

import "errors"

var (
	ErrFailedToLoadConfig     = errors.New("failed to load config")
	ErrFailedToValidateConfig = errors.New("failed to validate config")
	ErrUnsupportedConfigVer   = errors.New("unsupported config version")
)

// Validation specific errors
var (
	ErrNoServerCommand = errors.New("no server command")
	ErrInvalidValue    = errors.New("invalid value")
	ErrInvalidTarget   = errors.New("invalid probe target")
	ErrInvalidRunAs    = errors.New("invalid run-as identity")
)
