package launcher

import (
	"errors"
	"fmt"
)

var (
	// ErrNoScript is returned when no script path has been configured.
	ErrNoScript = errors.New("no script path configured")
	// ErrScriptNotFound is returned when the script path does not resolve to a file.
	ErrScriptNotFound = errors.New("script not found")
	// ErrSpawn is returned when the interpreter process could not be started.
	ErrSpawn = errors.New("failed to start script")
	// ErrUnknownEncoding is returned for an unsupported output encoding name.
	ErrUnknownEncoding = errors.New("unknown output encoding")
)

// Request describes one script launch.
type Request struct {
	// ScriptPath is the absolute path of the script to run.
	ScriptPath string
	// Program is the interpreter binary, e.g. "cmd.exe" or "sh".
	Program string
	// Flag makes the interpreter run one script and exit, e.g. "/c" or "-c".
	// Empty means the script path is the only argument.
	Flag string
	// Encoding names the character set of the script's output. Empty means UTF-8.
	Encoding string
	// Env is the child environment. Nil inherits the current process environment.
	Env []string
	// Dir is the working directory. Empty inherits the current directory.
	Dir string
}

func (r Request) args() []string {
	if r.Flag == "" {
		return []string{r.ScriptPath}
	}
	return []string{r.Flag, r.ScriptPath}
}

// State is the lifecycle position of a single launch.
type State int32

// Launch states. A launch only moves forward and never returns to Idle.
const (
	StateIdle State = iota
	StateSpawned
	StateStreaming
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpawned:
		return "spawned"
	case StateStreaming:
		return "streaming"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Result is the terminal outcome of a launch.
type Result struct {
	RunID string
	// Exited is false when the process produced no exit code, e.g. it was
	// killed by a signal or could not be reaped.
	Exited   bool
	ExitCode int
}

// Success reports whether the script exited with code 0.
func (r Result) Success() bool {
	return r.Exited && r.ExitCode == 0
}
