//go:build !windows

package subproc

import (
	"os/exec"
	"syscall"
)

// setProcAttrs places the subprocess in its own process group so a
// termination signal reaches the whole tree, not just the direct
// child.
func setProcAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// interrupt sends SIGTERM to the subprocess group.
func interrupt(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
}
