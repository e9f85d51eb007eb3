// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/bartekus/precommit/internal/runner"
)

const (
	confirmQuestion  = "Can you confirm ?"
	dangerousDecline = "Be careful when modifying dangerous files."
)

// DangerousFiles asks for confirmation before a configured sensitive file is
// committed deleted or modified. Every configured file is examined.
type DangerousFiles struct{}

func (c *DangerousFiles) ID() string          { return "dangerous-files" }
func (c *DangerousFiles) Stage() runner.Stage { return runner.StageDangerousFiles }

func (c *DangerousFiles) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	files := deps.Config.Files.Dangerous
	if len(files) == 0 {
		deps.Out.Warn("No dangerous files found.")
		return runner.Pass()
	}

	for _, rel := range files {
		abs := filepath.Join(deps.RepoRoot, rel)

		_, err := os.Stat(abs)
		switch {
		case os.IsNotExist(err):
			deps.Out.Error(fmt.Sprintf("A dangerous file is missing : `%s`", rel))
			deps.Out.Error("You might delete it.")
		case err != nil:
			return runner.Failf("checking %s: %v", rel, err)
		default:
			changes, err := deps.Repo.Diff(ctx, rel)
			if err != nil {
				return runner.Fail(err.Error())
			}
			if strings.TrimSpace(changes) == "" {
				continue
			}

			deps.Out.Warn(fmt.Sprintf("A dangerous file has changed : `%s`", rel))
			deps.Out.Warn("You might change it.")
			if summary := summarize(changes); summary != "" {
				deps.Out.Warn(summary)
			}
			deps.Out.Plain(changes)
		}

		ok, err := deps.Confirm.Confirm(ctx, confirmQuestion)
		if err != nil {
			return runner.Failf("confirmation aborted: %v", err)
		}
		if !ok {
			return runner.Fail(dangerousDecline)
		}
		deps.Log.Info("dangerous file change confirmed", "path", rel)
	}

	return runner.Pass()
}

// summarize counts added and removed lines of a unified diff. It returns ""
// when the diff has no textual hunks.
func summarize(unified string) string {
	fileDiffs, err := diff.ParseMultiFileDiff([]byte(unified))
	if err != nil {
		return ""
	}

	var added, removed int
	for _, fd := range fileDiffs {
		for _, hunk := range fd.Hunks {
			for _, line := range strings.Split(string(hunk.Body), "\n") {
				switch {
				case strings.HasPrefix(line, "+"):
					added++
				case strings.HasPrefix(line, "-"):
					removed++
				}
			}
		}
	}

	if added == 0 && removed == 0 {
		return ""
	}
	return fmt.Sprintf("(+%d -%d lines)", added, removed)
}
