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

// StaticAnalysis runs the analyzer on staged files under the source tree.
type StaticAnalysis struct{}

func (c *StaticAnalysis) ID() string          { return "static-analysis" }
func (c *StaticAnalysis) Stage() runner.Stage { return runner.StageStaticAnalysis }

func (c *StaticAnalysis) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	cfg := &deps.Config.Analysis
	files := deps.Files.Filter(scanner.FilterOptions{Match: cfg.Match})

	for _, file := range files {
		deps.Out.Plain(fmt.Sprintf("%s analysis in progress ...", file))

		res, err := deps.Exec.Run(ctx, process.Cmd{
			Args: config.Expand(cfg.Command, file),
			Dir:  deps.RepoRoot,
		})
		header := fmt.Sprintf("`%s` failed the PHPMd test.", file)
		if err != nil {
			return runner.Fail(diagnostic(header, err.Error()))
		}
		if !res.Success() {
			// stdout carries the rule violations, stderr the tool's own errors.
			return runner.Fail(diagnostic(header, res.Stderr, res.Stdout))
		}
	}
	return runner.Pass()
}
