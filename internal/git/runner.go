// SPDX-License-Identifier: AGPL-3.0-or-later

package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes git subcommands in a repository.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
	// RunEnv is Run with env appended to the inherited environment.
	RunEnv(ctx context.Context, dir string, env []string, args ...string) (string, error)
}

// ExitError reports a git invocation that exited non-zero.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := e.Stderr
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", e.Code)
	}
	return fmt.Sprintf("git %s: %s", subcommand(e.Args), msg)
}

// ExecRunner runs the git binary.
type ExecRunner struct {
	GitBin string
}

// NewExecRunner returns a runner for gitBin, defaulting to "git" on PATH.
func NewExecRunner(gitBin string) *ExecRunner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &ExecRunner{GitBin: gitBin}
}

func (e *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	return e.RunEnv(ctx, dir, nil, args...)
}

func (e *ExecRunner) RunEnv(ctx context.Context, dir string, env []string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, e.GitBin, args...)
	if strings.TrimSpace(dir) != "" {
		cmd.Dir = dir
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), &ExitError{
				Args:   args,
				Code:   exitErr.ExitCode(),
				Stderr: strings.TrimSpace(stderr.String()),
			}
		}
		return "", fmt.Errorf("git %s: %w", subcommand(args), err)
	}
	return stdout.String(), nil
}

// subcommand keeps the leading subcommand only, so paths and messages do not
// end up in error strings.
func subcommand(args []string) string {
	if len(args) == 0 {
		return "<no-args>"
	}
	return args[0]
}
