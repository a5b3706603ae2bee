//go:build !windows

package platform

import "os/exec"

// windowHidden is only meaningful on Windows; SysProcAttr has no HideWindow field elsewhere.
func windowHidden(cmd *exec.Cmd) bool {
	return true
}
