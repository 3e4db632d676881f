package shellexec

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"sync"

	rterrors "github.com/tuirun/fractal/internal/errors"
)

// maxScanTokenSize bounds a single line of shell output.
const maxScanTokenSize = 1024 * 1024

// Stream identifies which pipe a line came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

// Result is the outcome of a batch run: full stdout/stderr and the exit
// status. Status follows os/exec convention: -1 when the process was
// terminated by a signal or could not be waited on.
type Result struct {
	Stdout string
	Stderr string
	Status int
}

// command builds the `sh -c <commandLine>` exec.Cmd shared by RunBatch and
// RunStreaming.
func command(ctx context.Context, commandLine string) *exec.Cmd {
	//nolint:gosec // G204: commandLine is an intentional opaque shell invocation (spec.md §6).
	return exec.CommandContext(ctx, "sh", "-c", commandLine)
}

// RunBatch runs commandLine to completion and collects all of its output.
// It returns a non-nil *internal/errors.ExecError only when the process
// could not be spawned at all (spec.md §4.4) — a non-zero exit status is
// reported through Result.Status, not as an error. log is tagged
// "component"="shellexec" by the caller; a nil log is treated as discard.
func RunBatch(ctx context.Context, log *slog.Logger, commandLine string) (Result, error) {
	log = orDiscard(log)
	cmd := command(ctx, commandLine)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Error("failed to open stdout pipe", "error", err)

		return Result{}, &rterrors.ExecError{CommandLine: commandLine, Err: err}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		log.Error("failed to open stderr pipe", "error", err)

		return Result{}, &rterrors.ExecError{CommandLine: commandLine, Err: err}
	}

	if err := cmd.Start(); err != nil {
		log.Error("failed to start process", "error", err)

		return Result{}, &rterrors.ExecError{CommandLine: commandLine, Err: err}
	}

	log.Debug("started batch command", "command", commandLine)

	var outBuf, errBuf strBuilder

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		scanLines(stdout, func(line string) { outBuf.writeLine(line) })
	}()

	go func() {
		defer wg.Done()

		scanLines(stderr, func(line string) { errBuf.writeLine(line) })
	}()

	wg.Wait()

	status := exitStatus(cmd.Wait())
	log.Debug("batch command exited", "command", commandLine, "status", status)

	return Result{Stdout: outBuf.String(), Stderr: errBuf.String(), Status: status}, nil
}

// LineFunc receives one line of streaming output, in emission order within
// its own stream. Line includes its trailing newline, per spec.md §4.4.
type LineFunc func(stream Stream, line string)

// RunStreaming runs commandLine, invoking onLine once per line as it is
// produced from either pipe, and returns the exit status once the process
// has fully exited and both pipes are drained. Like RunBatch, a non-nil
// *internal/errors.ExecError means the process never started. log is
// tagged "component"="shellexec" by the caller.
func RunStreaming(ctx context.Context, log *slog.Logger, commandLine string, onLine LineFunc) (int, error) {
	log = orDiscard(log)
	cmd := command(ctx, commandLine)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Error("failed to open stdout pipe", "error", err)

		return 0, &rterrors.ExecError{CommandLine: commandLine, Err: err}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		log.Error("failed to open stderr pipe", "error", err)

		return 0, &rterrors.ExecError{CommandLine: commandLine, Err: err}
	}

	if err := cmd.Start(); err != nil {
		log.Error("failed to start process", "error", err)

		return 0, &rterrors.ExecError{CommandLine: commandLine, Err: err}
	}

	log.Debug("started streaming command", "command", commandLine)

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		scanLines(stdout, func(line string) { onLine(Stdout, line) })
	}()

	go func() {
		defer wg.Done()

		scanLines(stderr, func(line string) { onLine(Stderr, line) })
	}()

	wg.Wait()

	status := exitStatus(cmd.Wait())
	log.Debug("streaming command exited", "command", commandLine, "status", status)

	return status, nil
}

// orDiscard returns log, or a discard logger when log is nil.
func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.DiscardHandler)
	}

	return log
}

// scanLines reads r line by line, including the trailing newline in each
// call to emit. bufio.Scanner strips line terminators, so a custom split
// function restores them — spec.md §4.4 requires the newline survive.
func scanLines(r io.Reader, emit func(string)) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxScanTokenSize)
	scanner.Split(scanLinesKeepNewline)

	for scanner.Scan() {
		emit(scanner.Text())
	}
}

// scanLinesKeepNewline is bufio.ScanLines, minus the terminator trim.
func scanLinesKeepNewline(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	for i, b := range data {
		if b == '\n' {
			return i + 1, data[:i+1], nil
		}
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// exitStatus extracts a process exit code from cmd.Wait()'s error, treating
// a nil error as status 0.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}

	return -1
}

// strBuilder avoids importing strings.Builder's zero-value caveats across
// goroutines; each instance is only ever written from its own goroutine.
type strBuilder struct {
	b []byte
}

func (s *strBuilder) writeLine(line string) { s.b = append(s.b, line...) }
func (s *strBuilder) String() string        { return string(s.b) }
