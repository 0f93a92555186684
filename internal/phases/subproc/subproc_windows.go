//go:build windows

package subproc

import (
	"os/exec"
	"syscall"
)

// setProcAttrs isolates the subprocess in a new process group so
// console events aimed at it do not reach the parent.
func setProcAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// interrupt kills the subprocess. Windows has no SIGTERM equivalent
// that console applications reliably handle.
func interrupt(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
