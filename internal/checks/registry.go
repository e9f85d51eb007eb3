// SPDX-License-Identifier: AGPL-3.0-or-later

// Package checks implements the validators of the pre-commit pipeline.
package checks

import (
	"strings"

	"github.com/bartekus/precommit/internal/process"
	"github.com/bartekus/precommit/internal/runner"
)

// Default returns the pipeline checks in their canonical order.
func Default() []runner.Check {
	return []runner.Check{
		&DangerousFiles{},
		&Companion{},
		&Lint{},
		&StaticAnalysis{},
		&TestSuite{},
	}
}

// diagnostic joins the non-empty, trimmed parts of a tool's output.
func diagnostic(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

// errorOutput prefers stderr and falls back to stdout for tools that report
// problems there.
func errorOutput(res process.Result) string {
	if msg := strings.TrimSpace(res.Stderr); msg != "" {
		return msg
	}
	return strings.TrimSpace(res.Stdout)
}
