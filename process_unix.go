//go:build !windows

package inkfit

import (
	"os/exec"
	"syscall"
)

// setProcessGroup places the command in its own process group so a
// cancellation kill reaches any children the engine forks.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
