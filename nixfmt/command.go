// Copyright 2024 Jetify Inc. and contributors. All rights reserved.
// Use of this source code is governed by the license in the LICENSE file.

package nixfmt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"al.essio.dev/pkg/shellescape"
)

// defaultWaitDelay is how long a formatter gets to exit after an interrupt
// before it's killed.
const defaultWaitDelay = 5 * time.Second

// Cmd is a single run of a formatter executable: source goes in on stdin and
// the formatted result comes back on stdout. [Tool.Command] builds one from
// the tool's settings.
type Cmd struct {
	// Name is the formatter name used in logs and error messages.
	Name string

	// Path is the absolute path to the formatter executable.
	Path string

	// Args are the command line arguments, including the command name in
	// Args[0].
	Args Args

	// Src is the Nix source written to the formatter's stdin.
	Src []byte

	// WaitDelay is how long to wait for the formatter to exit after it's
	// interrupted before killing it. Zero means 5 seconds.
	WaitDelay time.Duration

	// Logger receives a debug record before and after the run. If nil, it
	// defaults to [slog.Default].
	Logger *slog.Logger

	proc   *exec.Cmd
	stderr bytes.Buffer
	out    int
	dur    time.Duration
	err    error
}

// Output runs the formatter and returns the formatted source. A Cmd can only
// be run once.
func (c *Cmd) Output(ctx context.Context) ([]byte, error) {
	if c.proc != nil {
		return nil, errors.New("nixfmt: Cmd already run")
	}

	stdout := &bytes.Buffer{}
	c.proc = exec.CommandContext(ctx, c.Path)
	c.proc.Args = c.Args
	c.proc.Stdin = bytes.NewReader(c.Src)
	c.proc.Stdout = stdout
	c.proc.Stderr = &c.stderr
	c.proc.Cancel = c.interrupt
	c.proc.WaitDelay = c.WaitDelay
	if c.proc.WaitDelay <= 0 {
		c.proc.WaitDelay = defaultWaitDelay
	}

	logger := c.logger()
	logger.DebugContext(ctx, "formatting nix source", "fmt", c)
	start := time.Now()
	err := c.proc.Run()
	c.dur = time.Since(start)
	c.out = stdout.Len()
	c.err = c.runError(ctx, err)
	logger.DebugContext(ctx, "formatter exited", "fmt", c)

	if c.err != nil {
		return nil, c.err
	}
	return stdout.Bytes(), nil
}

// interrupt asks the formatter to stop when the context is done. It falls
// back to killing the process if the signal can't be delivered.
func (c *Cmd) interrupt() error {
	err := c.proc.Process.Signal(os.Interrupt)
	switch {
	case errors.Is(err, os.ErrProcessDone):
		return err
	case err != nil:
		c.logger().Debug("killing formatter after failed interrupt",
			"name", c.Name, "pid", c.proc.Process.Pid, "err", err)
		return c.proc.Process.Kill()
	}
	// Report the exit status rather than ctx.Err once the formatter
	// stops; a formatter may still finish cleanly after SIGINT.
	return os.ErrProcessDone
}

// LogValue groups what's known about the run so far: the command line before
// it starts, then the pid, exit status, sizes and duration.
func (c *Cmd) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("name", c.Name),
		slog.String("cmd", c.Args.String()),
		slog.Int("in", len(c.Src)),
	}
	if c.proc == nil || c.proc.ProcessState == nil {
		return slog.GroupValue(attrs...)
	}

	state := c.proc.ProcessState
	attrs = append(attrs,
		slog.Int("pid", state.Pid()),
		slog.Int("out", c.out),
		slog.Duration("dur", c.dur),
	)
	if state.Exited() {
		attrs = append(attrs, slog.Int("code", state.ExitCode()))
	} else if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		attrs = append(attrs, slog.String("signal", ws.Signal().String()))
	}
	if excerpt := stderrExcerpt(c.stderr.String()); excerpt != "" {
		attrs = append(attrs, slog.String("stderr", excerpt))
	}
	return slog.GroupValue(attrs...)
}

// runError turns the result of running the formatter into an error that
// names the formatter and says why it failed.
func (c *Cmd) runError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var why string
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		why = "timed out"
	case errors.Is(ctxErr, context.Canceled):
		why = "canceled"
	default:
		why = "failed"
	}

	msg := &strings.Builder{}
	fmt.Fprintf(msg, "nixfmt: %s %s: %s", c.Name, why, c.Args)
	if excerpt := stderrExcerpt(c.stderr.String()); excerpt != "" {
		fmt.Fprintf(msg, ": %s", excerpt)
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr) && exitErr.Exited():
		fmt.Fprintf(msg, ": exit code %d", exitErr.ExitCode())
	case errors.As(err, &exitErr):
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			fmt.Fprintf(msg, ": killed by %s", ws.Signal())
		}
	case !errors.Is(err, ctx.Err()):
		fmt.Fprintf(msg, ": %v", err)
	}
	return &runError{msg: msg.String(), err: err}
}

// stderrExcerpt shortens formatter diagnostics to one message. Nix tooling
// ends with "error: <message>" lines, so the last such message wins;
// otherwise all of stderr is used. Newlines are escaped to keep log records
// on one line.
func stderrExcerpt(stderr string) string {
	excerpt := strings.TrimSpace(stderr)
	lines := strings.Split(excerpt, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		msg, ok := strings.CutPrefix(strings.TrimSpace(lines[i]), "error: ")
		if msg = strings.TrimSpace(msg); ok && msg != "" {
			excerpt = msg
			break
		}
	}
	if strconv.CanBackquote(excerpt) {
		return excerpt
	}
	quoted := strconv.Quote(excerpt)
	return quoted[1 : len(quoted)-1]
}

func (c *Cmd) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Args is a formatter command line.
type Args []string

// String returns the arguments as a shell command line, quoting arguments
// that the shell would otherwise interpret.
func (a Args) String() string {
	return shellescape.QuoteCommand(a)
}

type runError struct {
	msg string
	err error
}

func (e *runError) Error() string { return e.msg }
func (e *runError) Unwrap() error { return e.err }
