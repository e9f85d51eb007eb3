// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scanner extracts the set of files staged for the pending commit.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bartekus/precommit/internal/git"
)

// Repository is the subset of git operations extraction needs.
type Repository interface {
	LastCommitID(ctx context.Context) (string, error)
	Base(ctx context.Context) (string, error)
	WriteTree(ctx context.Context) (string, error)
	ReadTree(ctx context.Context, tree string) error
	AddAll(ctx context.Context) error
	DiffIndex(ctx context.Context, base string) ([]git.Change, error)
}

// Scanner computes the staged file set once and caches it for its lifetime.
type Scanner struct {
	repo Repository
	log  *slog.Logger

	mu     sync.Mutex
	staged FileSet
}

// New creates a Scanner over repo.
func New(repo Repository, log *slog.Logger) *Scanner {
	return &Scanner{repo: repo, log: log}
}

// StagedFiles returns the added or modified paths that the next commit would
// contain if every working-tree change were staged.
//
// The working tree is staged just long enough to diff the index against the
// base; the user's index is restored before returning, on error as well.
func (s *Scanner) StagedFiles(ctx context.Context) (FileSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.staged != nil {
		return s.staged, nil
	}

	if id, err := s.repo.LastCommitID(ctx); err != nil {
		return nil, fmt.Errorf("reading last commit: %w", err)
	} else if id != "" {
		s.log.Debug("last commit", "id", id)
	}

	base, err := s.repo.Base(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving comparison base: %w", err)
	}

	changes, err := s.diffWorkingTree(ctx, base)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, c := range changes {
		if c.Status == git.StatusAdded || c.Status == git.StatusModified {
			paths = append(paths, c.Path)
		}
	}

	s.staged = unique(paths)
	s.log.Debug("extracted staged files", "base", base, "count", len(s.staged))
	return s.staged, nil
}

func (s *Scanner) diffWorkingTree(ctx context.Context, base string) (changes []git.Change, err error) {
	tree, err := s.repo.WriteTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("saving index: %w", err)
	}
	defer func() {
		if rerr := s.repo.ReadTree(context.WithoutCancel(ctx), tree); rerr != nil && err == nil {
			err = fmt.Errorf("restoring index: %w", rerr)
		}
	}()

	if err := s.repo.AddAll(ctx); err != nil {
		return nil, fmt.Errorf("staging working tree: %w", err)
	}

	changes, err = s.repo.DiffIndex(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("listing staged files: %w", err)
	}
	return changes, nil
}
