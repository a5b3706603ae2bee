// Package notify shows user-facing messages and simple choice prompts on the
// terminal. It plays the role of an editor's information, warning and error
// popups: short, colored, non-blocking unless a choice is requested.
package notify

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Notifier writes messages to Out and reads choices from In.
type Notifier struct {
	Out io.Writer
	In  io.Reader

	reader *bufio.Reader
	info   *color.Color
	warn   *color.Color
	err    *color.Color
	prompt *color.Color
}

// New creates a Notifier. Nil writers and readers default to os.Stderr and
// os.Stdin.
func New(out io.Writer, in io.Reader) *Notifier {
	if out == nil {
		out = os.Stderr
	}
	if in == nil {
		in = os.Stdin
	}
	return &Notifier{
		Out:    out,
		In:     in,
		info:   color.New(color.FgCyan),
		warn:   color.New(color.FgYellow),
		err:    color.New(color.FgRed, color.Bold),
		prompt: color.New(color.FgGreen, color.Bold),
	}
}

// SetNoColor disables or enables ANSI colors for all notifiers.
func SetNoColor(noColor bool) {
	color.NoColor = noColor
}

// Info shows an informational message.
func (n *Notifier) Info(msg string) {
	fmt.Fprintln(n.Out, n.info.Sprint("info: ")+msg)
}

// Infof formats and shows an informational message.
func (n *Notifier) Infof(format string, args ...any) {
	n.Info(fmt.Sprintf(format, args...))
}

// Warn shows a warning.
func (n *Notifier) Warn(msg string) {
	fmt.Fprintln(n.Out, n.warn.Sprint("warning: ")+msg)
}

// Error shows an error message.
func (n *Notifier) Error(msg string) {
	fmt.Fprintln(n.Out, n.err.Sprint("error: ")+msg)
}

// Errorf formats and shows an error message.
func (n *Notifier) Errorf(format string, args ...any) {
	n.Error(fmt.Sprintf(format, args...))
}

// Choose shows msg with a numbered list of options and returns the option
// the user picked. An empty answer, end of input or an unknown answer counts
// as dismissing the prompt and returns "".
// Answers may be the option number or its text (case-insensitive).
func (n *Notifier) Choose(msg string, options ...string) (string, error) {
	fmt.Fprintln(n.Out, n.prompt.Sprint("? ")+msg)
	for i, opt := range options {
		fmt.Fprintf(n.Out, "  %d) %s\n", i+1, opt)
	}
	fmt.Fprint(n.Out, "> ")

	answer, err := n.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", nil
	}

	if idx, convErr := strconv.Atoi(answer); convErr == nil {
		if idx >= 1 && idx <= len(options) {
			return options[idx-1], nil
		}
		return "", nil
	}
	for _, opt := range options {
		if strings.EqualFold(opt, answer) {
			return opt, nil
		}
	}
	return "", nil
}

// Ask shows msg and returns the trimmed line the user typed. End of input
// returns "".
func (n *Notifier) Ask(msg string) (string, error) {
	fmt.Fprint(n.Out, n.prompt.Sprint("? ")+msg+" ")
	return n.readLine()
}

func (n *Notifier) readLine() (string, error) {
	if n.reader == nil {
		n.reader = bufio.NewReader(n.In)
	}
	line, err := n.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
