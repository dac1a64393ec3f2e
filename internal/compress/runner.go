package compress

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"sync"
)

// streamRunner abstracts process execution with line-level streaming of both
// output channels, for testability.
type streamRunner interface {
	Run(ctx context.Context, name string, args []string, onStdout, onStderr func(line string)) (int, error)
}

// execStreamRunner executes commands via os/exec and scans stdout and stderr
// line by line as the process runs.
type execStreamRunner struct{}

// Run starts the command, streams its output through the callbacks, and
// returns the exit code alongside any error from the run.
func (r *execStreamRunner) Run(ctx context.Context, name string, args []string, onStdout, onStderr func(line string)) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, err
	}

	if err := cmd.Start(); err != nil {
		return -1, err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanLines(stdout, onStdout)
	}()
	go func() {
		defer wg.Done()
		scanLines(stderr, onStderr)
	}()
	wg.Wait()

	err = cmd.Wait()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return exitCode, err
	}
	return 0, nil
}

// scanLines forwards each line to the callback. The buffer is raised to 1 MB
// because encoder metadata lines can exceed the scanner default.
func scanLines(r io.Reader, callback func(line string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if callback != nil {
			callback(scanner.Text())
		}
	}
}
