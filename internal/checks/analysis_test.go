// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/precommit/internal/process"
)

func TestStaticAnalysis_OnlySourceTree(t *testing.T) {
	env := newTestEnv(t, "src/Foo.php", "tests/FooTest.php", "src/view.twig", "src/Bundle/Bar.php")

	res := (&StaticAnalysis{}).Run(context.Background(), env.deps)

	require.True(t, res.Passed())
	assert.Equal(t, [][]string{
		{"php", "vendor/bin/phpmd", "src/Foo.php", "text", "controversial"},
		{"php", "vendor/bin/phpmd", "src/Bundle/Bar.php", "text", "controversial"},
	}, env.exec.argv())
	for _, c := range env.exec.calls {
		assert.Equal(t, env.deps.RepoRoot, c.Dir)
	}
	assert.Contains(t, env.out.String(), "src/Foo.php analysis in progress ...")
}

func TestStaticAnalysis_Failure(t *testing.T) {
	env := newTestEnv(t, "src/Foo.php", "src/Bar.php")
	env.exec.respond = func(process.Cmd) (process.Result, error) {
		return process.Result{
			ExitCode: 2,
			Stderr:   "warning: deprecated rule\n",
			Stdout:   "src/Foo.php:12\tAvoid using static access to class 'Foo'.\n",
		}, nil
	}

	res := (&StaticAnalysis{}).Run(context.Background(), env.deps)

	require.False(t, res.Passed())
	assert.Equal(t, "`src/Foo.php` failed the PHPMd test.\n"+
		"warning: deprecated rule\n"+
		"src/Foo.php:12\tAvoid using static access to class 'Foo'.", res.Reason)
	assert.Len(t, env.exec.calls, 1)
}

func TestStaticAnalysis_ToolUnavailable(t *testing.T) {
	env := newTestEnv(t, "src/Foo.php")
	env.exec.respond = func(process.Cmd) (process.Result, error) {
		return process.Result{}, errNotFound
	}

	res := (&StaticAnalysis{}).Run(context.Background(), env.deps)

	require.False(t, res.Passed())
	assert.Contains(t, res.Reason, errNotFound.Error())
}
