// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"

	"github.com/bartekus/precommit/internal/config"
	"github.com/bartekus/precommit/internal/process"
	"github.com/bartekus/precommit/internal/runner"
	"github.com/bartekus/precommit/internal/scanner"
)

// Lint runs the syntax validator on every staged source file.
type Lint struct{}

func (c *Lint) ID() string          { return "lint" }
func (c *Lint) Stage() runner.Stage { return runner.StageLint }

func (c *Lint) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	cfg := deps.Config.Lint
	files := deps.Files.Filter(scanner.FilterOptions{IncludeExtensions: cfg.Extensions})

	for _, file := range files {
		res, err := deps.Exec.Run(ctx, process.Cmd{
			Args: config.Expand(cfg.Command, file),
			Dir:  deps.RepoRoot,
		})
		if err != nil {
			return runner.Fail(lintFailure(file, err.Error()))
		}
		if !res.Success() {
			return runner.Fail(lintFailure(file, errorOutput(res)))
		}
	}
	return runner.Pass()
}

func lintFailure(file, output string) string {
	return diagnostic(fmt.Sprintf("`%s` failed the PHPLint test.", file), output)
}
