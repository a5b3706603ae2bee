// Package sink provides append-only, line-oriented output destinations. A
// sink outlives a single script launch: later launches append after earlier
// ones, nothing is ever replaced.
package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often a blocked Lock polls for the file lock.
const lockRetry = 50 * time.Millisecond

// Sink is an append-only, ordered sequence of text lines.
type Sink interface {
	AppendLine(line string)
}

// Memory keeps lines in memory. It is safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	lines []string
}

// AppendLine records line.
func (m *Memory) AppendLine(line string) {
	m.mu.Lock()
	m.lines = append(m.lines, line)
	m.mu.Unlock()
}

// Lines returns a copy of the recorded lines in append order.
func (m *Memory) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}

// Writer appends each line plus a newline to an io.Writer.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// AppendLine writes line followed by a newline. Write errors are dropped;
// a sink has no way to report them to the process that produced the line.
func (s *Writer) AppendLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, line+"\n")
}

// File is a persistent log file opened in append mode. Several processes
// may hold the same log open; Lock gives one of them exclusive use for the
// duration of a run.
type File struct {
	*Writer
	f    *os.File
	lock *flock.Flock
}

// OpenFile opens (or creates) the log at path for appending, creating parent
// directories as needed.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening output log %s: %w", path, err)
	}
	return &File{Writer: NewWriter(f), f: f, lock: flock.New(path + ".lock")}, nil
}

// Lock blocks until this handle holds the log's exclusive lock or ctx is
// done. The lock lives in a sibling ".lock" file so the log itself stays
// writable on platforms with mandatory locking.
func (s *File) Lock(ctx context.Context) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("locking output log: %w", err)
	}
	if !ok {
		return fmt.Errorf("locking output log: %w", ctx.Err())
	}
	return nil
}

// Unlock releases the lock taken by Lock.
func (s *File) Unlock() error {
	return s.lock.Unlock()
}

// Path returns the file's path.
func (s *File) Path() string {
	return s.f.Name()
}

// Close closes the underlying file.
func (s *File) Close() error {
	return s.f.Close()
}

// Tee fans each line out to every sink in order.
type Tee []Sink

// AppendLine forwards line to all sinks.
func (t Tee) AppendLine(line string) {
	for _, s := range t {
		s.AppendLine(line)
	}
}
