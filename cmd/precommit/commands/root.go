// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Precommit - a pre-commit quality gate that runs an ordered pipeline of checks
against the files staged for the next commit.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/precommit/internal/config"
	"github.com/bartekus/precommit/internal/logging"
	"github.com/bartekus/precommit/internal/process"
	"github.com/bartekus/precommit/internal/projectroot"
)

// rootOptions holds the global flags and the collaborators tests replace.
type rootOptions struct {
	verbose    bool
	configPath string

	workDir  string
	executor process.Executor
}

// NewRootCmd constructs the precommit root Cobra command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	version := os.Getenv("PRECOMMIT_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "precommit",
		Short:         "Precommit - check your code before committing",
		Long:          "Precommit runs dangerous-file, dependency lock, syntax, static-analysis and test checks against the files staged for the next commit.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file, relative to the repository root")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of precommit",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "precommit version %s\n", version)
		},
	})

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	cmd.AddCommand(newHookCmd(opts))

	return cmd
}

// env is what every subcommand resolves before doing work.
type env struct {
	root string
	cfg  *config.Config
	log  *slog.Logger
}

func (o *rootOptions) resolve(cmd *cobra.Command) (*env, error) {
	log := logging.New(cmd.ErrOrStderr(), o.verbose)

	wd := o.workDir
	if wd == "" {
		var err error
		if wd, err = os.Getwd(); err != nil {
			return nil, err
		}
	}

	root, err := projectroot.Find(wd)
	if err != nil {
		return nil, err
	}

	path := o.configPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Found {
		log.Debug("loaded config", "path", path)
	} else {
		log.Warn("no configuration file found, no dangerous files tracked", "path", path)
	}

	return &env{root: root, cfg: cfg, log: log}, nil
}

// tokenPath anchors the configured token file at the repository root.
func (e *env) tokenPath() string {
	if filepath.IsAbs(e.cfg.TokenFile) {
		return e.cfg.TokenFile
	}
	return filepath.Join(e.root, e.cfg.TokenFile)
}

// repoPaths returns the given absolute paths that lie inside the repository,
// relative to its root in git's slash form.
func (e *env) repoPaths(paths ...string) []string {
	var rel []string
	for _, p := range paths {
		r, err := filepath.Rel(e.root, p)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			continue
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}
