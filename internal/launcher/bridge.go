package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/ljytool/ljytool/internal/logging"
	"github.com/ljytool/ljytool/internal/platform"
	"github.com/ljytool/ljytool/internal/sink"
	"github.com/sourcegraph/conc"
)

// ErrorPrefix marks every sink line that came from the script's stderr.
const ErrorPrefix = "Error: "

const chunkSize = 32 * 1024

// ExitLine returns the summary line appended when a launch terminates.
func ExitLine(r Result) string {
	if !r.Exited {
		return "Script finished, exit code: none"
	}
	return fmt.Sprintf("Script finished, exit code: %d", r.ExitCode)
}

type eventKind int

const (
	eventStdout eventKind = iota
	eventStderr
	eventExit
)

type event struct {
	kind   eventKind
	data   string
	result Result
}

// Launch is a running script. Only the goroutines started by Start touch
// the process; callers observe it through State, Done and Wait.
type Launch struct {
	runID  string
	state  atomic.Int32
	done   chan struct{}
	result Result
}

// RunID returns the launch's unique identifier.
func (l *Launch) RunID() string {
	return l.runID
}

// State returns the current lifecycle state.
func (l *Launch) State() State {
	return State(l.state.Load())
}

// Done is closed once the exit line has been written to the sink.
func (l *Launch) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the launch terminates and returns its result.
func (l *Launch) Wait() Result {
	<-l.done
	return l.result
}

func (l *Launch) advance(to State) {
	for {
		cur := l.state.Load()
		if State(cur) >= to {
			return
		}
		if l.state.CompareAndSwap(cur, int32(to)) {
			return
		}
	}
}

// Start validates req, spawns exactly one interpreter process and returns
// without waiting for it. Output is appended to s as it arrives: stdout
// chunks as-is, stderr chunks prefixed with ErrorPrefix. When the process
// exits, after every earlier chunk has been written, a single ExitLine is
// appended.
//
// If validation or the spawn itself fails, Start returns an error and
// nothing is written to s.
func Start(req Request, s sink.Sink) (*Launch, error) {
	if strings.TrimSpace(req.ScriptPath) == "" {
		return nil, ErrNoScript
	}
	info, err := os.Stat(req.ScriptPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrScriptNotFound, req.ScriptPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrScriptNotFound, req.ScriptPath)
	}

	enc, err := lookupEncoding(req.Encoding)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(req.Program, req.args()...)
	cmd.Env = req.Env
	cmd.Dir = req.Dir
	platform.HideWindow(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %w", ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr pipe: %w", ErrSpawn, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSpawn, req.Program, err)
	}

	l := &Launch{
		runID: uuid.NewString(),
		done:  make(chan struct{}),
	}
	l.advance(StateSpawned)

	logging.Debug().
		Str("run_id", l.runID).
		Str("script", req.ScriptPath).
		Str("interpreter", req.Program).
		Int("pid", cmd.Process.Pid).
		Msg("script spawned")

	events := make(chan event, 64)

	go func() {
		var readers conc.WaitGroup
		readers.Go(func() { pump(enc.NewDecoder().Reader(stdout), eventStdout, events) })
		readers.Go(func() { pump(enc.NewDecoder().Reader(stderr), eventStderr, events) })
		// Both pipes must be drained before Wait closes them.
		readers.Wait()

		events <- event{kind: eventExit, result: exitResult(cmd.Wait())}
		close(events)
	}()

	go l.consume(events, s)

	return l, nil
}

// consume is the only writer to the sink for this launch.
func (l *Launch) consume(events <-chan event, s sink.Sink) {
	defer close(l.done)
	for ev := range events {
		switch ev.kind {
		case eventStdout:
			l.advance(StateStreaming)
			for _, line := range chunkLines(ev.data) {
				s.AppendLine(line)
			}
		case eventStderr:
			l.advance(StateStreaming)
			for _, line := range chunkLines(ev.data) {
				s.AppendLine(ErrorPrefix + line)
			}
		case eventExit:
			l.advance(StateStreaming)
			ev.result.RunID = l.runID
			l.result = ev.result
			s.AppendLine(ExitLine(ev.result))
			l.advance(StateTerminated)

			logging.Debug().
				Str("run_id", l.runID).
				Bool("exited", ev.result.Exited).
				Int("exit_code", ev.result.ExitCode).
				Msg("script terminated")
		}
	}
}

// pump forwards every chunk read from r as an event of the given kind.
func pump(r io.Reader, kind eventKind, events chan<- event) {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			events <- event{kind: kind, data: string(buf[:n])}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				logging.Warn().Err(err).Msg("reading script output")
			}
			return
		}
	}
}

// chunkLines splits one chunk into sink lines. A single trailing line break
// is dropped; a chunk without one still yields its partial line.
func chunkLines(chunk string) []string {
	chunk = strings.TrimSuffix(chunk, "\n")
	chunk = strings.TrimSuffix(chunk, "\r")
	lines := strings.Split(chunk, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// exitResult converts the error from cmd.Wait into a Result. A process killed
// by a signal reports ExitCode -1 and is treated as having no exit code.
func exitResult(err error) Result {
	if err == nil {
		return Result{Exited: true, ExitCode: 0}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return Result{Exited: true, ExitCode: code}
		}
		return Result{}
	}
	logging.Warn().Err(err).Msg("waiting for script")
	return Result{}
}
