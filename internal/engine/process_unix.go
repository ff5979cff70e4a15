//go:build !windows

package engine

import (
	"os/exec"
	"syscall"
)

// killProcessGroupOnCancel starts the engine in its own process group and kills the whole group on cancellation,
// so wrapper scripts cannot leave the actual engine running.
func killProcessGroupOnCancel(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
