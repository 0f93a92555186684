package main

import (
	"fmt"
	"log/slog"

	"github.com/J0Ysutradhar/pilot/internal/config"
	"github.com/J0Ysutradhar/pilot/internal/logging"
	"github.com/J0Ysutradhar/pilot/internal/logging/writers"
)

// SetupLogger builds pilot's own logger from the log section and makes
// it the process default. The server process inherits the raw stdio
// streams, never this logger.
func SetupLogger(cfg config.Log) (*slog.Logger, error) {
	format, err := logging.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	writer, err := writers.CreateWriter(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to create log writer: %w", err)
	}

	handler, err := logging.SetupHandler(format, cfg.Level, writer)
	if err != nil {
		return nil, err
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
