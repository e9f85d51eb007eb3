// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"strings"
)

// FileSet is an ordered list of repository-relative paths staged for the
// next commit. It is never modified once extracted.
type FileSet []string

// FilterOptions defines criteria for including files.
type FilterOptions struct {
	// IncludeExtensions is a list of suffixes to include (e.g., ".php").
	// If empty, all extensions are included.
	IncludeExtensions []string

	// Match, when set, must also accept the path.
	Match func(path string) bool
}

// Contains reports whether path is in the set.
func (s FileSet) Contains(path string) bool {
	for _, p := range s {
		if p == path {
			return true
		}
	}
	return false
}

// Filter returns the paths accepted by opts, in their original order.
func (s FileSet) Filter(opts FilterOptions) FileSet {
	if len(s) == 0 {
		return nil
	}

	var filtered FileSet
	for _, path := range s {
		if !shouldIncludeExtension(path, opts.IncludeExtensions) {
			continue
		}
		if opts.Match != nil && !opts.Match(path) {
			continue
		}
		filtered = append(filtered, path)
	}
	return filtered
}

// shouldIncludeExtension returns true if extensions is empty OR path ends with one of them.
func shouldIncludeExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func unique(paths []string) FileSet {
	if len(paths) == 0 {
		return FileSet{}
	}
	seen := make(map[string]bool, len(paths))
	set := make(FileSet, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		set = append(set, p)
	}
	return set
}
