// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"log/slog"

	"github.com/bartekus/precommit/internal/config"
	"github.com/bartekus/precommit/internal/process"
	"github.com/bartekus/precommit/internal/prompt"
	"github.com/bartekus/precommit/internal/scanner"
	"github.com/bartekus/precommit/internal/ui"
)

// Differ produces the working-tree diff of a path against the last commit.
type Differ interface {
	Diff(ctx context.Context, path string) (string, error)
}

// Deps contains dependencies injected into checks.
type Deps struct {
	RepoRoot string
	Config   *config.Config

	// Files is the staged set. It is filled by the runner before the first
	// check that needs it.
	Files scanner.FileSet

	Repo    Differ
	Exec    process.Executor
	Confirm prompt.Confirmer
	Out     *ui.Reporter
	Log     *slog.Logger
}

// Check is one validator of the pipeline.
type Check interface {
	// ID returns the unique identifier (e.g. "composer").
	ID() string

	// Stage places the check in the pipeline.
	Stage() Stage

	// Run executes the check. It must not exit the process.
	Run(ctx context.Context, deps *Deps) Result
}
