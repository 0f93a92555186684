//go:build e2e
// +build e2e

package boot

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"os"
	"runtime"
	"syscall"
	"testing"
	"time"

	bootCmd "github.com/J0Ysutradhar/pilot/cmd/pilot/boot"
	"github.com/J0Ysutradhar/pilot/internal/config"
	"github.com/stretchr/testify/require"
)

type bootResult struct {
	code int
	err  error
	logs *bytes.Buffer
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

// startBoot loads the config file the way the run command does and
// starts the boot sequence in the background. The debug log stream is
// captured so tests can assert on the boot trail.
func startBoot(t *testing.T, ctx context.Context, configPath string) <-chan bootResult {
	t.Helper()

	cfg, err := config.FromFile(configPath)
	require.NoError(t, err, "Failed to load config")
	require.NoError(t, cfg.Interpolate(), "Failed to interpolate config")
	require.NoError(t, cfg.Validate(), "Invalid config")

	return startBootConfig(t, ctx, &cfg)
}

// startBootConfig is startBoot for an already resolved config.
func startBootConfig(t *testing.T, ctx context.Context, cfg *config.Config) <-chan bootResult {
	t.Helper()

	logBuf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logBuf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	resCh := make(chan bootResult, 1)
	go func() {
		code, err := bootCmd.Run(ctx, logger, cfg)
		resCh <- bootResult{code: code, err: err, logs: logBuf}
	}()
	return resCh
}

// waitResult blocks until the boot sequence concludes or the deadline
// expires.
func waitResult(t *testing.T, resCh <-chan bootResult, timeout time.Duration) bootResult {
	t.Helper()
	select {
	case res := <-resCh:
		return res
	case <-time.After(timeout):
		t.Fatal("boot sequence did not conclude in time")
		return bootResult{}
	}
}

// liveListener returns the address of a listening TCP socket.
func liveListener(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })
	return listener.Addr().String()
}

// deadAddr returns an address with nothing listening on it.
func deadAddr(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

// sendTERMToSelf delivers SIGTERM to the test process, the same path a
// container runtime uses against PID 1. The running supervisor owns the
// subscription, so the test binary survives the signal.
func sendTERMToSelf(t *testing.T) {
	t.Helper()
	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err, "Failed to find own process")
	t.Logf("Sending SIGTERM to process %d", os.Getpid())
	require.NoError(t, proc.Signal(syscall.SIGTERM), "Failed to send SIGTERM")
}
