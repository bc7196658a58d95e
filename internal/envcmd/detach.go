package envcmd

import (
	"os/exec"
	"syscall"
)

// detach starts cmd in its own session so it outlives the WM process
// across a restart or exit, matching the "exec and forget" contract
// env.exec/env.shell promise.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
