// Package subproc runs boot subcommands (migrations, asset builds)
// synchronously with stdout and stderr inherited, so their output
// lands in the container log stream untouched.
package subproc

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

var ErrEmptyCommand = errors.New("empty command")

// termGrace is how long a canceled subprocess gets between SIGTERM and
// SIGKILL.
const termGrace = 10 * time.Second

// Run executes argv and waits for it. The subprocess inherits the
// parent environment and working directory. Cancelling ctx interrupts
// the subprocess group gracefully; after termGrace it is killed.
// The returned error is nil only for a zero exit.
func Run(ctx context.Context, argv []string, logger *slog.Logger) error {
	if len(argv) == 0 || argv[0] == "" {
		return ErrEmptyCommand
	}
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	setProcAttrs(cmd)
	cmd.Cancel = func() error { return interrupt(cmd) }
	cmd.WaitDelay = termGrace

	logger.Debug("Starting subprocess", "argv", argv)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		logger.Debug("Subprocess failed",
			"argv", argv,
			"elapsed", time.Since(start),
			"error", err)
		return err
	}
	logger.Debug("Subprocess finished", "argv", argv, "elapsed", time.Since(start))
	return nil
}
