//go:build !windows

package platform

import (
	"os"
	"os/exec"
)

// HideWindow is a no-op outside Windows.
func HideWindow(cmd *exec.Cmd) {}

// IsExecutable reports whether any execute permission bit is set.
func IsExecutable(info os.FileInfo) bool {
	return info.Mode().Perm()&0111 != 0
}
