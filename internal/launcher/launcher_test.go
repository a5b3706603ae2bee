package launcher

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ljytool/ljytool/internal/config"
	"github.com/ljytool/ljytool/internal/sink"
)

// writeScript writes an executable sh script and returns a request for it.
func writeScript(t *testing.T, dir, name, body string) Request {
	t.Helper()
	return writeScriptMode(t, dir, name, "#!/bin/sh\n"+body, 0755)
}

// writeScriptMode writes content verbatim with the given mode and returns a
// request using the platform's default interpreter.
func writeScriptMode(t *testing.T, dir, name, content string, mode os.FileMode) Request {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("sh scripts are not available on windows")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	in := config.DefaultInterpreter()
	return Request{ScriptPath: path, Program: in.Program, Flag: in.Flag}
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") || len(got) != len(want) {
		t.Errorf("sink = %q, want %q", got, want)
	}
}

func runToEnd(t *testing.T, req Request, s sink.Sink) Result {
	t.Helper()
	launch, err := Start(req, s)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case <-launch.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("launch did not terminate")
	}
	if got := launch.State(); got != StateTerminated {
		t.Errorf("State() = %v, want %v", got, StateTerminated)
	}
	return launch.Wait()
}

func countExitLines(lines []string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, "Script finished, exit code: ") {
			n++
		}
	}
	return n
}

func TestStart_PrintsDoneAndExitZero(t *testing.T) {
	req := writeScript(t, t.TempDir(), "build.sh", "echo done\n")
	var s sink.Memory

	res := runToEnd(t, req, &s)

	if !res.Success() {
		t.Errorf("result = %+v, want success", res)
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	want := []string{"done", "Script finished, exit code: 0"}
	got := s.Lines()
	if len(got) != len(want) {
		t.Fatalf("sink = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStart_NonZeroExit(t *testing.T) {
	req := writeScript(t, t.TempDir(), "fail.sh", "echo partial\nexit 3\n")
	var s sink.Memory

	res := runToEnd(t, req, &s)

	if !res.Exited || res.ExitCode != 3 {
		t.Errorf("result = %+v, want exit code 3", res)
	}
	lines := s.Lines()
	if last := lines[len(lines)-1]; last != "Script finished, exit code: 3" {
		t.Errorf("last line = %q", last)
	}
}

func TestStart_StderrPrefixed(t *testing.T) {
	req := writeScript(t, t.TempDir(), "mixed.sh", "echo out\necho oops >&2\necho more >&2\n")
	var s sink.Memory

	runToEnd(t, req, &s)

	lines := s.Lines()
	seen := map[string]bool{}
	for _, l := range lines {
		seen[l] = true
	}
	for _, want := range []string{"out", "Error: oops", "Error: more"} {
		if !seen[want] {
			t.Errorf("missing line %q in %q", want, lines)
		}
	}
	if seen["Error: out"] || seen["oops"] {
		t.Errorf("stream prefixes mixed up: %q", lines)
	}
	// Per-stream order holds even though the streams interleave freely.
	oops, more := -1, -1
	for i, l := range lines {
		switch l {
		case "Error: oops":
			oops = i
		case "Error: more":
			more = i
		}
	}
	if oops > more {
		t.Errorf("stderr lines out of order: %q", lines)
	}
}

func TestStart_ExitLineLastAndOnce(t *testing.T) {
	body := "i=0\nwhile [ $i -lt 50 ]; do echo line$i; echo err$i >&2; i=$((i+1)); done\n"
	req := writeScript(t, t.TempDir(), "chatty.sh", body)
	var s sink.Memory

	runToEnd(t, req, &s)

	lines := s.Lines()
	if n := countExitLines(lines); n != 1 {
		t.Fatalf("exit lines = %d, want 1", n)
	}
	if !strings.HasPrefix(lines[len(lines)-1], "Script finished") {
		t.Errorf("exit line is not last: %q", lines[len(lines)-1])
	}
	stdout, stderr := 0, 0
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "line"):
			stdout++
		case strings.HasPrefix(l, ErrorPrefix+"err"):
			stderr++
		}
	}
	if stdout != 50 || stderr != 50 {
		t.Errorf("got %d stdout and %d stderr lines, want 50 each", stdout, stderr)
	}
}

func TestStart_NoOutput(t *testing.T) {
	req := writeScript(t, t.TempDir(), "quiet.sh", "exit 0\n")
	var s sink.Memory

	runToEnd(t, req, &s)

	if got := s.Lines(); len(got) != 1 || got[0] != "Script finished, exit code: 0" {
		t.Errorf("sink = %q", got)
	}
}

func TestStart_PartialLine(t *testing.T) {
	req := writeScript(t, t.TempDir(), "partial.sh", "printf 'no newline'\n")
	var s sink.Memory

	runToEnd(t, req, &s)

	if got := s.Lines(); len(got) != 2 || got[0] != "no newline" {
		t.Errorf("sink = %q", got)
	}
}

func TestStart_DecodesConfiguredEncoding(t *testing.T) {
	// "你好" in GBK.
	req := writeScript(t, t.TempDir(), "gbk.sh", "printf '\\304\\343\\272\\303\\n'\n")
	req.Encoding = "gbk"
	var s sink.Memory

	runToEnd(t, req, &s)

	if got := s.Lines(); got[0] != "你好" {
		t.Errorf("decoded line = %q, want %q", got[0], "你好")
	}
}

func TestStart_PathWithSpaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my scripts")
	req := writeScript(t, dir, "build.sh", "echo done\n")
	var s sink.Memory

	runToEnd(t, req, &s)

	assertLines(t, s.Lines(), []string{"done", "Script finished, exit code: 0"})
}

func TestStart_PathIsNotShellCode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a;echo injected")
	req := writeScript(t, dir, "build.sh", "echo done\n")
	var s sink.Memory

	runToEnd(t, req, &s)

	assertLines(t, s.Lines(), []string{"done", "Script finished, exit code: 0"})
}

func TestStart_ScriptWithoutExecBit(t *testing.T) {
	req := writeScriptMode(t, t.TempDir(), "build.sh", "echo done\n", 0644)
	var s sink.Memory

	res := runToEnd(t, req, &s)

	if !res.Success() {
		t.Errorf("result = %+v, want success", res)
	}
	assertLines(t, s.Lines(), []string{"done", "Script finished, exit code: 0"})
}

func TestStart_UnsetPath(t *testing.T) {
	var s sink.Memory
	_, err := Start(Request{Program: "sh"}, &s)
	if !errors.Is(err, ErrNoScript) {
		t.Errorf("err = %v, want ErrNoScript", err)
	}
	if len(s.Lines()) != 0 {
		t.Errorf("sink touched: %q", s.Lines())
	}
}

func TestStart_MissingScript(t *testing.T) {
	var s sink.Memory
	req := Request{ScriptPath: filepath.Join(t.TempDir(), "missing.bat"), Program: "sh"}

	_, err := Start(req, &s)
	if !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("err = %v, want ErrScriptNotFound", err)
	}
	if len(s.Lines()) != 0 {
		t.Errorf("sink touched: %q", s.Lines())
	}
}

func TestStart_DirectoryRejected(t *testing.T) {
	var s sink.Memory
	_, err := Start(Request{ScriptPath: t.TempDir(), Program: "sh"}, &s)
	if !errors.Is(err, ErrScriptNotFound) {
		t.Errorf("err = %v, want ErrScriptNotFound", err)
	}
}

func TestStart_InterpreterNotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.bat")
	if err := os.WriteFile(path, []byte("echo done\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var s sink.Memory

	launch, err := Start(Request{ScriptPath: path, Program: "nonexistent-interpreter-xyz-123", Flag: "/c"}, &s)
	if !errors.Is(err, ErrSpawn) {
		t.Fatalf("err = %v, want ErrSpawn", err)
	}
	if launch != nil {
		t.Error("a failed spawn must not return a launch")
	}
	if !strings.Contains(err.Error(), "nonexistent-interpreter-xyz-123") {
		t.Errorf("error %q should name the interpreter", err)
	}
	if len(s.Lines()) != 0 {
		t.Errorf("sink touched: %q", s.Lines())
	}
}

func TestStart_UnknownEncoding(t *testing.T) {
	req := writeScript(t, t.TempDir(), "x.sh", "echo x\n")
	req.Encoding = "klingon-8"
	var s sink.Memory

	if _, err := Start(req, &s); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("err = %v, want ErrUnknownEncoding", err)
	}
}

func TestExitResult_Signal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("signals are unix-only")
	}
	err := exec.Command("sh", "-c", "kill -9 $$").Run()
	res := exitResult(err)
	if res.Exited {
		t.Errorf("result = %+v, want no exit code for a killed process", res)
	}
	if got := ExitLine(res); got != "Script finished, exit code: none" {
		t.Errorf("ExitLine = %q", got)
	}
}

func TestChunkLines(t *testing.T) {
	tests := []struct {
		chunk string
		want  []string
	}{
		{"done\n", []string{"done"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"partial", []string{"partial"}},
		{"\n", []string{""}},
		{"a\n\nb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		got := chunkLines(tt.chunk)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("chunkLines(%q) = %q, want %q", tt.chunk, got, tt.want)
		}
	}
}

func TestLauncher_SequentialRuns(t *testing.T) {
	dir := t.TempDir()
	first := writeScript(t, dir, "first.sh", "echo first\n")
	second := writeScript(t, dir, "second.sh", "echo second\nexit 1\n")
	var s sink.Memory
	l := New(&s)

	if _, err := l.Run(context.Background(), first); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Run(context.Background(), second); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"first", "Script finished, exit code: 0",
		"second", "Script finished, exit code: 1",
	}
	got := s.Lines()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("sink = %q, want %q", got, want)
	}
}

func TestLauncher_ConcurrentRunsDoNotInterleave(t *testing.T) {
	dir := t.TempDir()
	a := writeScript(t, dir, "a.sh", "echo A1\nsleep 0.2\necho A2\n")
	b := writeScript(t, dir, "b.sh", "echo B1\nsleep 0.2\necho B2\n")
	var s sink.Memory
	l := New(&s)

	var wg sync.WaitGroup
	for _, req := range []Request{a, b} {
		wg.Add(1)
		go func(req Request) {
			defer wg.Done()
			if _, err := l.Run(context.Background(), req); err != nil {
				t.Errorf("Run: %v", err)
			}
		}(req)
	}
	wg.Wait()

	lines := s.Lines()
	if len(lines) != 6 {
		t.Fatalf("sink = %q, want 6 lines", lines)
	}
	// Each block of three lines belongs to one launch.
	for _, block := range [][]string{lines[0:3], lines[3:6]} {
		prefix := block[0][:1]
		if block[1] != prefix+"2" || !strings.HasPrefix(block[2], "Script finished") {
			t.Errorf("interleaved output: %q", lines)
		}
	}
}

func TestLauncher_CancelWhileWaiting(t *testing.T) {
	req := writeScript(t, t.TempDir(), "slow.sh", "sleep 0.5\n")
	var s sink.Memory
	l := New(&s)

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		close(started)
		l.Run(context.Background(), req)
	}()
	<-started
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Run(ctx, req); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	<-done
	if n := countExitLines(s.Lines()); n != 1 {
		t.Errorf("exit lines = %d, want 1 (cancelled run must not spawn)", n)
	}
}

func TestLauncher_LoadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	req := writeScript(t, dir, "greet.sh", "echo \"$GREETING\"\n")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GREETING=hello from dotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var s sink.Memory

	if _, err := New(&s).Run(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if got := s.Lines()[0]; got != "hello from dotenv" {
		t.Errorf("first line = %q", got)
	}
}

func TestLauncher_LockSerializesAcrossSinks(t *testing.T) {
	dir := t.TempDir()
	a := writeScript(t, dir, "a.sh", "echo A1\nsleep 0.2\necho A2\n")
	b := writeScript(t, dir, "b.sh", "echo B1\nsleep 0.2\necho B2\n")
	logPath := filepath.Join(dir, "logs", "script-output.log")

	// Each launcher has its own handle and its own in-process turn, as two
	// separate invocations would.
	var wg sync.WaitGroup
	for _, req := range []Request{a, b} {
		f, err := sink.OpenFile(logPath)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()

		wg.Add(1)
		go func(req Request, f *sink.File) {
			defer wg.Done()
			if _, err := New(f, WithLock(f)).Run(context.Background(), req); err != nil {
				t.Errorf("Run: %v", err)
			}
		}(req, f)
	}
	wg.Wait()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("log = %q, want 6 lines", lines)
	}
	for _, block := range [][]string{lines[0:3], lines[3:6]} {
		prefix := block[0][:1]
		if block[1] != prefix+"2" || !strings.HasPrefix(block[2], "Script finished") {
			t.Errorf("interleaved output: %q", lines)
		}
	}
}

type failingLock struct{ err error }

func (f failingLock) Lock(context.Context) error { return f.err }
func (f failingLock) Unlock() error              { return nil }

func TestLauncher_LockFailureSpawnsNothing(t *testing.T) {
	req := writeScript(t, t.TempDir(), "build.sh", "echo done\n")
	lockErr := errors.New("lock unavailable")
	var s sink.Memory

	_, err := New(&s, WithLock(failingLock{err: lockErr})).Run(context.Background(), req)
	if !errors.Is(err, lockErr) {
		t.Errorf("err = %v, want %v", err, lockErr)
	}
	if len(s.Lines()) != 0 {
		t.Errorf("sink touched: %q", s.Lines())
	}
}
