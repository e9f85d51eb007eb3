// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"sort"

	"github.com/bartekus/precommit/internal/scanner"
	"github.com/bartekus/precommit/internal/ui"
)

// Extractor produces the staged file set.
type Extractor interface {
	StagedFiles(ctx context.Context) (scanner.FileSet, error)
}

// Runner drives the checks through the pipeline stages.
type Runner struct {
	checks    []Check
	extractor Extractor
	token     *TokenStore
	deps      *Deps

	stage     Stage
	extracted bool
}

// NewRunner creates a runner. Checks are ordered by stage; checks sharing a
// stage keep the order given.
func NewRunner(checks []Check, extractor Extractor, token *TokenStore, deps *Deps) *Runner {
	ordered := make([]Check, len(checks))
	copy(ordered, checks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Stage() < ordered[j].Stage()
	})

	return &Runner{
		checks:    ordered,
		extractor: extractor,
		token:     token,
		deps:      deps,
		stage:     StageIdle,
	}
}

// Stage returns the current pipeline state.
func (r *Runner) Stage() Stage { return r.stage }

// Run clears the run token, executes every check in order and writes a
// fresh token once all of them pass.
//
// The first failing check ends the run: its diagnostic is reported and a
// *FailError is returned. Later checks never start.
func (r *Runner) Run(ctx context.Context) error {
	r.stage = StageIdle
	r.extracted = false

	if err := r.token.Clear(); err != nil {
		r.stage = StageFailed
		return err
	}

	for _, check := range r.checks {
		if err := ctx.Err(); err != nil {
			return r.fail(check.ID(), err.Error())
		}

		if check.Stage().NeedsStagedFiles() && !r.extracted {
			files, err := r.extractor.StagedFiles(ctx)
			if err != nil {
				return r.fail("extract", err.Error())
			}
			r.deps.Files = files
			r.extracted = true
			r.deps.Log.Debug("staged files", "files", []string(files))
		}

		r.stage = check.Stage()
		r.deps.Out.Heading(r.stage.Label())

		res := check.Run(ctx, r.deps)
		if !res.Passed() {
			return r.fail(check.ID(), res.Reason)
		}
		r.deps.Out.Done()
	}

	r.stage = StageDone

	if err := r.token.Write(); err != nil {
		return err
	}
	r.deps.Log.Debug("run token written", "path", r.token.Path())

	r.deps.Out.Info(ui.MsgSuccess)
	return nil
}

func (r *Runner) fail(check, reason string) error {
	failed := &FailError{Stage: r.stage, Check: check, Reason: reason}
	r.stage = StageFailed
	r.deps.Out.Failure(reason)
	r.deps.Log.Debug("check failed", "check", check, "stage", failed.Stage.String())
	return failed
}

