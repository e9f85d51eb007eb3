// SPDX-License-Identifier: AGPL-3.0-or-later

// Package process runs the external tools checks delegate to.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Cmd describes one subprocess invocation.
type Cmd struct {
	Args    []string
	Dir     string
	Timeout time.Duration

	// Stream, when set, receives stdout and stderr as they are produced in
	// addition to being captured.
	Stream io.Writer
}

// String renders the argv for logs and diagnostics.
func (c Cmd) String() string {
	return strings.Join(c.Args, " ")
}

// Result holds the captured output of a finished subprocess.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports a zero exit status.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Executor runs subprocesses to completion.
//
// Run returns an error only if the program could not be started or was
// stopped by its timeout or ctx; a non-zero exit is reported in the Result.
type Executor interface {
	Run(ctx context.Context, cmd Cmd) (Result, error)
}

// waitDelay bounds how long Run waits for output pipes after the process
// group has been killed.
const waitDelay = 2 * time.Second

// ExecExecutor runs programs with os/exec. On timeout or cancellation the
// whole process group is killed, so helpers the tool spawned go too.
type ExecExecutor struct {
	Log *slog.Logger
}

// NewExecExecutor returns an executor that logs each invocation at debug level.
func NewExecExecutor(log *slog.Logger) *ExecExecutor {
	return &ExecExecutor{Log: log}
}

func (e *ExecExecutor) Run(ctx context.Context, c Cmd) (Result, error) {
	if len(c.Args) == 0 {
		return Result{}, errors.New("empty command")
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = waitDelay
	killGroupOnCancel(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if c.Stream != nil {
		cmd.Stdout = io.MultiWriter(&stdout, c.Stream)
		cmd.Stderr = io.MultiWriter(&stderr, c.Stream)
	}

	if e.Log != nil {
		e.Log.Debug("exec", "cmd", c.String(), "dir", c.Dir)
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("%s: timed out after %s", c.Args[0], c.Timeout)
		}
		return res, fmt.Errorf("%s: %w", c.Args[0], ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", c.Args[0], err)
	}
	return res, nil
}
