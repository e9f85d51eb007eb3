// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"

	"github.com/bartekus/precommit/internal/process"
	"github.com/bartekus/precommit/internal/runner"
)

const testsFailed = "Please check your tests !"

// TestSuite runs the project's test runner once, streaming its output.
type TestSuite struct{}

func (c *TestSuite) ID() string          { return "tests" }
func (c *TestSuite) Stage() runner.Stage { return runner.StageTests }

func (c *TestSuite) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	cfg := deps.Config.Tests

	res, err := deps.Exec.Run(ctx, process.Cmd{
		Args:    cfg.Command,
		Dir:     deps.RepoRoot,
		Timeout: cfg.Timeout,
		Stream:  deps.Out.Writer(),
	})
	if err != nil {
		return runner.Fail(diagnostic(testsFailed, err.Error()))
	}
	if !res.Success() {
		return runner.Fail(testsFailed)
	}
	return runner.Pass()
}
