package platform

import (
	"os"
	"syscall"
	"time"
)

// BirthTime returns the file's creation time from the stat birthtime field.
func BirthTime(_ string, info os.FileInfo) (time.Time, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec), true
}
