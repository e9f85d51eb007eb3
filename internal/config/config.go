// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Precommit - a pre-commit quality gate that runs an ordered pipeline of checks
against the files staged for the next commit.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package config loads the precommit configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config location relative to the repository root.
const DefaultPath = ".precommit.yaml"

// FilePlaceholder is replaced by the staged path in per-file commands.
const FilePlaceholder = "{file}"

// Config is built once at startup and shared read-only by every check.
type Config struct {
	Files     FilesConfig     `yaml:"files"`
	TokenFile string          `yaml:"token_file"`
	Companion CompanionConfig `yaml:"companion"`
	Lint      LintConfig      `yaml:"lint"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Tests     TestsConfig     `yaml:"tests"`

	// Found reports whether the values came from a file.
	Found bool `yaml:"-"`
}

// FilesConfig holds path lists.
type FilesConfig struct {
	// Dangerous are repository-relative paths that need confirmation when changed or deleted.
	Dangerous []string `yaml:"dangerous"`
}

// CompanionConfig names a manifest and the lock file that must be committed with it.
type CompanionConfig struct {
	Manifest string `yaml:"manifest"`
	Lock     string `yaml:"lock"`
}

// LintConfig configures the syntax check.
type LintConfig struct {
	Command    []string `yaml:"command"`
	Extensions []string `yaml:"extensions"`
}

// AnalysisConfig configures the static-analysis check.
type AnalysisConfig struct {
	Command []string `yaml:"command"`
	Pattern string   `yaml:"pattern"`

	re *regexp.Regexp
}

// Match reports whether a staged path is subject to static analysis. The
// pattern is compiled by Default and Load; a config built any other way
// matches nothing.
func (a AnalysisConfig) Match(path string) bool {
	return a.re != nil && a.re.MatchString(path)
}

// TestsConfig configures the test-suite check.
type TestsConfig struct {
	Command []string      `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

const defaultAnalysisPattern = `^src/(.*)(\.php)$`

var defaultAnalysisRe = regexp.MustCompile(defaultAnalysisPattern)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		TokenFile: "var/cache/dev/jeton",
		Companion: CompanionConfig{
			Manifest: "composer.json",
			Lock:     "composer.lock",
		},
		Lint: LintConfig{
			Command:    []string{"php", "-l", FilePlaceholder},
			Extensions: []string{".php", ".inc"},
		},
		Analysis: AnalysisConfig{
			Command: []string{"php", "vendor/bin/phpmd", FilePlaceholder, "text", "controversial"},
			Pattern: defaultAnalysisPattern,
			re:      defaultAnalysisRe,
		},
		Tests: TestsConfig{
			Command: []string{"phpunit"},
			Timeout: time.Hour,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults are returned with Found set to false.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Found = true

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	re, err := regexp.Compile(c.Analysis.Pattern)
	if err != nil {
		return fmt.Errorf("analysis.pattern: %w", err)
	}
	c.Analysis.re = re

	commands := []struct {
		key  string
		argv []string
	}{
		{"lint.command", c.Lint.Command},
		{"analysis.command", c.Analysis.Command},
		{"tests.command", c.Tests.Command},
	}
	for _, cmd := range commands {
		if len(cmd.argv) == 0 || strings.TrimSpace(cmd.argv[0]) == "" {
			return fmt.Errorf("%s must name a program", cmd.key)
		}
	}

	if c.Tests.Timeout <= 0 {
		return errors.New("tests.timeout must be positive")
	}
	if strings.TrimSpace(c.TokenFile) == "" {
		return errors.New("token_file must not be empty")
	}

	for i, p := range c.Files.Dangerous {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("files.dangerous[%d] is empty", i)
		}
	}
	return nil
}

// Expand builds the argv for a per-file command. The placeholder is
// substituted when present, otherwise file is appended.
func Expand(command []string, file string) []string {
	argv := make([]string, 0, len(command)+1)
	substituted := false
	for _, arg := range command {
		if strings.Contains(arg, FilePlaceholder) {
			arg = strings.ReplaceAll(arg, FilePlaceholder, file)
			substituted = true
		}
		argv = append(argv, arg)
	}
	if !substituted {
		argv = append(argv, file)
	}
	return argv
}
