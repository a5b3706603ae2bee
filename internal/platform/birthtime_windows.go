package platform

import (
	"os"
	"syscall"
	"time"
)

// BirthTime returns the file's creation time from its Win32 attributes.
func BirthTime(_ string, info os.FileInfo) (time.Time, bool) {
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, attrs.CreationTime.Nanoseconds()), true
}
