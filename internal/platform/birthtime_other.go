//go:build !linux && !darwin && !windows

package platform

import (
	"os"
	"time"
)

// BirthTime is unsupported on this platform.
func BirthTime(_ string, _ os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
