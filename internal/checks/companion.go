// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"

	"github.com/bartekus/precommit/internal/runner"
)

// Companion fails when the dependency manifest is staged without its lock file.
type Companion struct{}

func (c *Companion) ID() string          { return "composer" }
func (c *Companion) Stage() runner.Stage { return runner.StageComposer }

func (c *Companion) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	manifest, lock := deps.Config.Companion.Manifest, deps.Config.Companion.Lock
	if manifest == "" || lock == "" {
		return runner.Pass()
	}

	if deps.Files.Contains(manifest) && !deps.Files.Contains(lock) {
		return runner.Failf("%s must be committed if %s is modified!", lock, manifest)
	}
	return runner.Pass()
}
