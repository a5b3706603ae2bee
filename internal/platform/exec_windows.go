package platform

import (
	"os"
	"os/exec"
	"syscall"
)

// HideWindow keeps the interpreter from opening a console window.
func HideWindow(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
}

// IsExecutable always reports true on Windows, which has no executable bit.
func IsExecutable(info os.FileInfo) bool {
	return true
}
