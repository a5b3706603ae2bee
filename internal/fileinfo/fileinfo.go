// Package fileinfo inspects a single file's size and timestamps.
package fileinfo

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ljytool/ljytool/internal/platform"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrIsDirectory is returned when the inspected path is a directory.
var ErrIsDirectory = errors.New("path is a directory, not a file")

// TimeLayout is used when rendering timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// Info describes a regular file.
type Info struct {
	Path     string
	Size     int64
	Created  time.Time // zero when the platform does not record it
	Modified time.Time
}

// HasCreated reports whether the creation time is known.
func (i *Info) HasCreated() bool {
	return !i.Created.IsZero()
}

// Inspect stats path. Directories are rejected with ErrIsDirectory.
func Inspect(path string) (*Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading file info: %w", err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	info := &Info{
		Path:     path,
		Size:     st.Size(),
		Modified: st.ModTime(),
	}
	if created, ok := platform.BirthTime(path, st); ok {
		info.Created = created
	}
	return info, nil
}

// localeVars are consulted in POSIX precedence order for number formatting.
var localeVars = []string{"LC_ALL", "LC_NUMERIC", "LANG"}

// Locale derives the display language from the POSIX locale variables read
// through getenv, e.g. "de_DE.UTF-8" becomes de-DE. The first set variable
// wins. Unset, "C", "POSIX" and unparsable values yield English.
func Locale(getenv func(string) string) language.Tag {
	for _, name := range localeVars {
		v := getenv(name)
		if v == "" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			return language.English
		}
		tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
		if err != nil {
			return language.English
		}
		return tag
	}
	return language.English
}

// Render formats info for display using the conventions of tag, e.g.
// digit grouping in the byte count.
func Render(info *Info, tag language.Tag) string {
	p := message.NewPrinter(tag)

	var b strings.Builder
	p.Fprintf(&b, "File size: %d bytes\n", info.Size)
	if info.HasCreated() {
		fmt.Fprintf(&b, "Created:   %s\n", info.Created.Local().Format(TimeLayout))
	} else {
		b.WriteString("Created:   unavailable on this platform\n")
	}
	fmt.Fprintf(&b, "Modified:  %s", info.Modified.Local().Format(TimeLayout))
	return b.String()
}
