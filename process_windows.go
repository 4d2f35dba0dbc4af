//go:build windows

package inkfit

import "os/exec"

// setProcessGroup is a no-op on Windows; KillProcessGroup uses taskkill's
// tree kill instead of process groups.
func setProcessGroup(cmd *exec.Cmd) {}
