package platform

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// BirthTime returns the file's creation time via statx. ok is false when the
// filesystem does not record it.
func BirthTime(path string, _ os.FileInfo) (t time.Time, ok bool) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err != nil {
		return time.Time{}, false
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, false
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), true
}
