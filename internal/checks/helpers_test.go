// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bartekus/precommit/internal/config"
	"github.com/bartekus/precommit/internal/logging"
	"github.com/bartekus/precommit/internal/process"
	"github.com/bartekus/precommit/internal/prompt"
	"github.com/bartekus/precommit/internal/runner"
	"github.com/bartekus/precommit/internal/scanner"
	"github.com/bartekus/precommit/internal/ui"
)

// fakeExecutor records invocations and answers them with respond.
type fakeExecutor struct {
	calls   []process.Cmd
	respond func(cmd process.Cmd) (process.Result, error)
}

func (f *fakeExecutor) Run(_ context.Context, cmd process.Cmd) (process.Result, error) {
	f.calls = append(f.calls, cmd)
	if f.respond == nil {
		return process.Result{}, nil
	}
	return f.respond(cmd)
}

func (f *fakeExecutor) argv() [][]string {
	out := make([][]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Args)
	}
	return out
}

// calledWith reports whether any invocation started with program.
func (f *fakeExecutor) calledWith(program string) bool {
	for _, c := range f.calls {
		if len(c.Args) > 0 && c.Args[0] == program {
			return true
		}
	}
	return false
}

type fakeDiffer struct {
	diffs map[string]string
	err   error
	calls []string
}

func (f *fakeDiffer) Diff(_ context.Context, path string) (string, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return "", f.err
	}
	return f.diffs[path], nil
}

// countingConfirmer wraps a fixed answer and counts questions.
type countingConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (c *countingConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	c.asked++
	return c.answer, c.err
}

var errNotFound = errors.New(`exec: "php": executable file not found in $PATH`)

type testEnv struct {
	deps *runner.Deps
	exec *fakeExecutor
	out  *bytes.Buffer
}

func newTestEnv(t *testing.T, files ...string) *testEnv {
	t.Helper()
	var out bytes.Buffer
	exec := &fakeExecutor{}
	return &testEnv{
		deps: &runner.Deps{
			RepoRoot: t.TempDir(),
			Config:   config.Default(),
			Files:    scanner.FileSet(files),
			Repo:     &fakeDiffer{},
			Exec:     exec,
			Confirm:  prompt.AlwaysDeny,
			Out:      ui.New(&out),
			Log:      logging.Discard(),
		},
		exec: exec,
		out:  &out,
	}
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const parametersDiff = `diff --git a/app/config/parameters.yml b/app/config/parameters.yml
index 3b18e51..a0e3f2c 100644
--- a/app/config/parameters.yml
+++ b/app/config/parameters.yml
@@ -1,2 +1,3 @@
 parameters:
-    database_host: prod.db
+    database_host: 127.0.0.1
+    database_port: 3306
`
