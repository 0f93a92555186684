//go:build windows

package appserver

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcAttrs isolates the server in a new process group.
func setProcAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// signalGroup approximates Unix signal delivery. Windows console
// applications have no SIGTERM; kill is the only reliable stop.
func signalGroup(cmd *exec.Cmd, _ os.Signal) error {
	return cmd.Process.Kill()
}

func killGroup(cmd *exec.Cmd) error {
	return cmd.Process.Kill()
}
