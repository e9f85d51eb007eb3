// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"fmt"
	"os"
	"path/filepath"
)

// TokenStore manages the marker file recording that the last run passed.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store for the marker at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the marker location.
func (s *TokenStore) Path() string { return s.path }

// Exists reports whether a successful run has happened since the last Clear.
func (s *TokenStore) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking run token: %w", err)
	}
	return true, nil
}

// Clear removes the marker. A missing marker is not an error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing run token: %w", err)
	}
	return nil
}

// Write creates an empty marker, replacing any previous one.
func (s *TokenStore) Write() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("writing run token: %w", err)
	}
	return f.Close()
}
