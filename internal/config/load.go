package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// FromFile reads a TOML config file on top of the defaults.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	return FromBytes(data)
}

// FromBytes parses TOML bytes on top of the defaults. The version field
// is checked first so an incompatible file is rejected before any field
// parsing, and a missing version means the current schema.
func FromBytes(data []byte) (Config, error) {
	var versionCheck struct {
		Version string `toml:"version"`
	}
	if err := toml.Unmarshal(data, &versionCheck); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}

	if versionCheck.Version == "" {
		versionCheck.Version = VersionLatest
	}
	if versionCheck.Version != VersionLatest {
		return Config{}, fmt.Errorf(
			"version %s is not supported: %w",
			versionCheck.Version,
			ErrUnsupportedConfigVer,
		)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	cfg.Version = VersionLatest
	return cfg, nil
}
