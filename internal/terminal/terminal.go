// Package terminal owns all user-facing console output: separators, notices,
// the end-of-run summary, and the retry prompt.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	separatorColor = color.New(color.Bold)
	warnColor      = color.New(color.FgYellow, color.Bold)
	infoColor      = color.New(color.FgBlue, color.Bold)
	okColor        = color.New(color.FgGreen, color.Bold)
	failedColor    = color.New(color.FgRed, color.Bold)
	promptColor    = color.New(color.FgYellow, color.Bold)
)

// Terminal serializes writes so lines from concurrent tasks never interleave
// mid-line.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Reader
}

// New returns a Terminal writing to out and reading prompt answers from in.
// Either may be nil, defaulting to stdout/stdin.
func New(out io.Writer, in io.Reader) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	if in == nil {
		in = os.Stdin
	}
	return &Terminal{out: out, in: bufio.NewReader(in)}
}

// Separator prints a section header.
func (t *Terminal) Separator(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "\n%s\n", separatorColor.Sprintf("―― %s ――", title))
}

// Printf prints a plain line.
func (t *Terminal) Printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format+"\n", args...)
}

// Warn prints a yellow notice.
func (t *Terminal) Warn(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, warnColor.Sprintf(format, args...))
}

// Info prints a blue notice.
func (t *Terminal) Info(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, infoColor.Sprintf(format, args...))
}

// Result prints one summary row.
func (t *Terminal) Result(name string, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	marker := okColor.Sprint("OK")
	if !ok {
		marker = failedColor.Sprint("FAILED")
	}
	fmt.Fprintf(t.out, "%s: %s\n", name, marker)
}

// ConfirmRetry asks whether a failed step should be retried. The answer
// defaults to No: an empty line, anything but y/Y, or EOF declines.
func (t *Terminal) ConfirmRetry(name string, interrupted bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if interrupted {
		fmt.Fprint(t.out, promptColor.Sprintf("\n%s was interrupted. Retry? (y)es/(N)o (press Ctrl+C again to abort) ", name))
	} else {
		fmt.Fprint(t.out, promptColor.Sprintf("\n%s failed. Retry? (y)es/(N)o ", name))
	}

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(t.out)
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
