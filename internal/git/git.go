// SPDX-License-Identifier: AGPL-3.0-or-later

// Package git wraps the git queries and index operations used by the pipeline.
package git

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// EmptyTree is the id of the empty tree object, the comparison base of a
// repository without commits.
const EmptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// Status values reported by diff-index.
const (
	StatusAdded    = "A"
	StatusModified = "M"
	StatusDeleted  = "D"
)

// Change is one entry of a name-status listing.
type Change struct {
	Status string
	Path   string
}

// Repo runs git commands against one repository root.
type Repo struct {
	root   string
	runner Runner
}

// New returns a Repo rooted at root.
func New(root string, runner Runner) *Repo {
	if runner == nil {
		runner = NewExecRunner("")
	}
	return &Repo{root: root, runner: runner}
}

// Root returns the repository root.
func (r *Repo) Root() string { return r.root }

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	return r.runner.Run(ctx, r.root, args...)
}

// HasCommits reports whether HEAD resolves to a commit.
func (r *Repo) HasCommits(ctx context.Context) (bool, error) {
	_, err := r.git(ctx, "rev-parse", "--verify", "--quiet", "HEAD")
	if err == nil {
		return true, nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}

// LastCommitID returns the id of the latest commit, or "" when there is none.
func (r *Repo) LastCommitID(ctx context.Context) (string, error) {
	ok, err := r.HasCommits(ctx)
	if err != nil || !ok {
		return "", err
	}
	out, err := r.git(ctx, "log", "--format=%H", "-n", "1")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Base returns the reference staged changes are compared against: HEAD, or
// the empty tree before the first commit.
func (r *Repo) Base(ctx context.Context) (string, error) {
	ok, err := r.HasCommits(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return EmptyTree, nil
	}
	return "HEAD", nil
}

// WriteTree records the current index as a tree and returns its id.
func (r *Repo) WriteTree(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "write-tree")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ReadTree replaces the index with the given tree.
func (r *Repo) ReadTree(ctx context.Context, tree string) error {
	_, err := r.git(ctx, "read-tree", tree)
	return err
}

// AddAll stages every working-tree change, deletions included.
func (r *Repo) AddAll(ctx context.Context) error {
	_, err := r.git(ctx, "add", "--all")
	return err
}

// DiffIndex lists index entries that differ from base.
func (r *Repo) DiffIndex(ctx context.Context, base string) ([]Change, error) {
	out, err := r.git(ctx, "diff-index", "--cached", "--name-status", "-z", base)
	if err != nil {
		return nil, err
	}
	return parseNameStatus(out)
}

// Diff returns the working-tree diff of path against the last commit.
func (r *Repo) Diff(ctx context.Context, path string) (string, error) {
	base, err := r.Base(ctx)
	if err != nil {
		return "", err
	}
	return r.git(ctx, "diff", base, "--", path)
}

// CommitOptions tune Commit.
type CommitOptions struct {
	// Exclude are repository-relative paths left out of the commit even when
	// they are untracked or modified.
	Exclude []string
	// Env is appended to the environment of `git commit` and so reaches hooks.
	Env []string
}

// Commit stages everything but opts.Exclude and commits it with message,
// returning git's output.
func (r *Repo) Commit(ctx context.Context, message string, opts CommitOptions) (string, error) {
	add := []string{"add", "--all"}
	if len(opts.Exclude) > 0 {
		add = append(add, "--", ".")
		for _, p := range opts.Exclude {
			add = append(add, ":(exclude)"+p)
		}
	}
	if _, err := r.git(ctx, add...); err != nil {
		return "", err
	}
	return r.runner.RunEnv(ctx, r.root, opts.Env, "commit", "-m", message)
}

// HooksDir returns the directory git reads hooks from.
func (r *Repo) HooksDir(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// parseNameStatus decodes `--name-status -z` output: a status field followed
// by one path (two for copies and renames), all NUL terminated.
func parseNameStatus(out string) ([]Change, error) {
	fields := strings.Split(strings.TrimSuffix(out, "\x00"), "\x00")
	if len(fields) == 1 && fields[0] == "" {
		return nil, nil
	}

	var changes []Change
	for i := 0; i < len(fields); {
		status := fields[i]
		if status == "" {
			return nil, fmt.Errorf("malformed name-status output at field %d", i)
		}
		paths := 1
		if status[0] == 'R' || status[0] == 'C' {
			paths = 2
		}
		if i+paths >= len(fields) {
			return nil, fmt.Errorf("truncated name-status output for status %q", status)
		}
		changes = append(changes, Change{
			Status: status[:1],
			Path:   fields[i+paths],
		})
		i += paths + 1
	}
	return changes, nil
}
