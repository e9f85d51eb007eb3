// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/precommit/internal/config"
	"github.com/bartekus/precommit/internal/logging"
	"github.com/bartekus/precommit/internal/scanner"
	"github.com/bartekus/precommit/internal/ui"
)

// MockCheck implements Check for testing.
type MockCheck struct {
	id     string
	stage  Stage
	result Result

	called    bool
	sawFiles  scanner.FileSet
	callOrder *[]string
}

func (m *MockCheck) ID() string   { return m.id }
func (m *MockCheck) Stage() Stage { return m.stage }

func (m *MockCheck) Run(ctx context.Context, deps *Deps) Result {
	m.called = true
	m.sawFiles = deps.Files
	if m.callOrder != nil {
		*m.callOrder = append(*m.callOrder, m.id)
	}
	return m.result
}

type fakeExtractor struct {
	files []string
	err   error
	calls int
}

func (f *fakeExtractor) StagedFiles(context.Context) (scanner.FileSet, error) {
	f.calls++
	return f.files, f.err
}

func newDeps(out *bytes.Buffer) *Deps {
	return &Deps{
		RepoRoot: "/repo",
		Config:   config.Default(),
		Out:      ui.New(out),
		Log:      logging.Discard(),
	}
}

func TestRunner_AllPass(t *testing.T) {
	var out bytes.Buffer
	var order []string
	token := NewTokenStore(filepath.Join(t.TempDir(), "var", "cache", "dev", "jeton"))
	extractor := &fakeExtractor{files: []string{"src/Foo.php"}}

	dangerous := &MockCheck{id: "dangerous-files", stage: StageDangerousFiles, result: Pass(), callOrder: &order}
	composer := &MockCheck{id: "composer", stage: StageComposer, result: Pass(), callOrder: &order}
	tests := &MockCheck{id: "tests", stage: StageTests, result: Pass(), callOrder: &order}
	lint := &MockCheck{id: "lint", stage: StageLint, result: Pass(), callOrder: &order}

	r := NewRunner([]Check{tests, lint, composer, dangerous}, extractor, token, newDeps(&out))
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []string{"dangerous-files", "composer", "lint", "tests"}, order)
	assert.Equal(t, StageDone, r.Stage())
	assert.Equal(t, 1, extractor.calls)

	assert.Nil(t, dangerous.sawFiles, "dangerous files run before extraction")
	assert.Equal(t, scanner.FileSet{"src/Foo.php"}, composer.sawFiles)
	assert.Equal(t, scanner.FileSet{"src/Foo.php"}, tests.sawFiles)

	exists, err := token.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Contains(t, out.String(), "* Checking dangerous files ...")
	assert.Contains(t, out.String(), "* Checking Linter ...\nDone !\n* Checking Tests ...")
	assert.Contains(t, out.String(), ui.MsgSuccess)
}

func TestRunner_ShortCircuit(t *testing.T) {
	var out bytes.Buffer
	token := NewTokenStore(filepath.Join(t.TempDir(), "jeton"))
	require.NoError(t, token.Write())

	composer := &MockCheck{id: "composer", stage: StageComposer,
		result: Fail("composer.lock must be committed if composer.json is modified!")}
	lint := &MockCheck{id: "lint", stage: StageLint, result: Pass()}
	analysis := &MockCheck{id: "static-analysis", stage: StageStaticAnalysis, result: Pass()}
	tests := &MockCheck{id: "tests", stage: StageTests, result: Pass()}

	r := NewRunner([]Check{composer, lint, analysis, tests}, &fakeExtractor{files: []string{"composer.json"}}, token, newDeps(&out))
	err := r.Run(context.Background())
	require.Error(t, err)

	var failErr *FailError
	require.ErrorAs(t, err, &failErr)
	assert.Equal(t, "composer", failErr.Check)
	assert.Equal(t, StageComposer, failErr.Stage)
	assert.Equal(t, StageFailed, r.Stage())

	assert.True(t, composer.called)
	assert.False(t, lint.called)
	assert.False(t, analysis.called)
	assert.False(t, tests.called)

	exists, err := token.Exists()
	require.NoError(t, err)
	assert.False(t, exists, "a stale token is cleared and not rewritten")

	assert.Contains(t, out.String(), "composer.lock must be committed if composer.json is modified!\n"+ui.MsgGoBack)
	assert.NotContains(t, out.String(), ui.MsgSuccess)
}

func TestRunner_DangerousFailureSkipsExtraction(t *testing.T) {
	var out bytes.Buffer
	extractor := &fakeExtractor{}
	dangerous := &MockCheck{id: "dangerous-files", stage: StageDangerousFiles, result: Fail("Be careful when modifying dangerous files.")}
	composer := &MockCheck{id: "composer", stage: StageComposer, result: Pass()}

	r := NewRunner([]Check{dangerous, composer}, extractor, NewTokenStore(filepath.Join(t.TempDir(), "jeton")), newDeps(&out))
	require.Error(t, r.Run(context.Background()))

	assert.Equal(t, 0, extractor.calls)
	assert.False(t, composer.called)
}

func TestRunner_ExtractionFailure(t *testing.T) {
	var out bytes.Buffer
	extractor := &fakeExtractor{err: errors.New("git diff-index: fatal: bad object HEAD")}
	composer := &MockCheck{id: "composer", stage: StageComposer, result: Pass()}

	r := NewRunner([]Check{composer}, extractor, NewTokenStore(filepath.Join(t.TempDir(), "jeton")), newDeps(&out))
	err := r.Run(context.Background())

	var failErr *FailError
	require.ErrorAs(t, err, &failErr)
	assert.Equal(t, "extract", failErr.Check)
	assert.False(t, composer.called)
	assert.Contains(t, out.String(), "bad object HEAD")
}

func TestRunner_CancelledContext(t *testing.T) {
	var out bytes.Buffer
	check := &MockCheck{id: "tests", stage: StageTests, result: Pass()}
	r := NewRunner([]Check{check}, &fakeExtractor{}, NewTokenStore(filepath.Join(t.TempDir(), "jeton")), newDeps(&out))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, r.Run(ctx))
	assert.False(t, check.called)
}

func TestRunner_NoChecks(t *testing.T) {
	var out bytes.Buffer
	token := NewTokenStore(filepath.Join(t.TempDir(), "jeton"))
	extractor := &fakeExtractor{}

	r := NewRunner(nil, extractor, token, newDeps(&out))
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, 0, extractor.calls)
	exists, err := token.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStage(t *testing.T) {
	assert.Equal(t, "static-analysis", StageStaticAnalysis.String())
	assert.Equal(t, "Linter", StageLint.Label())
	assert.Equal(t, "done", StageDone.Label())
	assert.Equal(t, "stage(42)", Stage(42).String())

	assert.False(t, StageDangerousFiles.NeedsStagedFiles())
	assert.True(t, StageComposer.NeedsStagedFiles())
	assert.True(t, StageTests.NeedsStagedFiles())
}

func TestTokenStore(t *testing.T) {
	token := NewTokenStore(filepath.Join(t.TempDir(), "var", "cache", "dev", "jeton"))

	require.NoError(t, token.Clear(), "clearing a missing token is fine")

	require.NoError(t, token.Write())
	require.NoError(t, token.Write(), "rewriting replaces the token")
	exists, err := token.Exists()
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, token.Clear())
	exists, err = token.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}
