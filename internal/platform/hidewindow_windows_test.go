//go:build windows

package platform

import "os/exec"

// windowHidden reports whether cmd is configured to start without a console window.
func windowHidden(cmd *exec.Cmd) bool {
	return cmd.SysProcAttr != nil && cmd.SysProcAttr.HideWindow
}
