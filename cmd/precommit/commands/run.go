// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bartekus/precommit/cmd/precommit/internal/clierr"
	"github.com/bartekus/precommit/internal/checks"
	"github.com/bartekus/precommit/internal/config"
	"github.com/bartekus/precommit/internal/git"
	"github.com/bartekus/precommit/internal/process"
	"github.com/bartekus/precommit/internal/prompt"
	"github.com/bartekus/precommit/internal/runner"
	"github.com/bartekus/precommit/internal/scanner"
	"github.com/bartekus/precommit/internal/ui"
)

const banner = "Precommit Code Quality Tool"

// hookBypassEnv is set on the commit made after a passing run so the
// installed hook does not run the pipeline a second time.
const hookBypassEnv = "PRECOMMIT_COMMITTING"

type runOptions struct {
	yes     bool
	noInput bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [commit message]",
		Short: "Check your code before committing",
		Long: `Runs the dangerous files, composer, lint, static analysis and test checks in order.
The first failing check stops the run with exit code 1. When every check passes
the run token is written and, if a commit message is given, everything is committed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var message string
			if len(args) == 1 {
				message = args[0]
			}
			return runPrecommit(cmd.Context(), cmd, root, opts, message)
		},
	}

	cmd.Flags().BoolVar(&opts.yes, "yes", false, "approve every dangerous file confirmation")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "decline every dangerous file confirmation")
	cmd.MarkFlagsMutuallyExclusive("yes", "no-input")

	return cmd
}

func runPrecommit(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts *runOptions, message string) error {
	e, err := root.resolve(cmd)
	if err != nil {
		return err
	}

	out := ui.New(cmd.OutOrStdout())
	out.Banner(banner)

	executor := root.executor
	if executor == nil {
		executor = process.NewExecExecutor(e.log)
	}

	repo := git.New(e.root, nil)
	deps := &runner.Deps{
		RepoRoot: e.root,
		Config:   e.cfg,
		Repo:     repo,
		Exec:     executor,
		Confirm:  opts.confirmer(cmd.InOrStdin(), cmd.OutOrStdout(), e.cfg, e.log),
		Out:      out,
		Log:      e.log,
	}

	token := runner.NewTokenStore(e.tokenPath())
	r := runner.NewRunner(checks.Default(), scanner.New(repo, e.log), token, deps)

	if err := r.Run(ctx); err != nil {
		var failErr *runner.FailError
		if errors.As(err, &failErr) {
			return clierr.Silent(1, err)
		}
		return clierr.Wrap(1, "precommit", err)
	}

	if message == "" {
		return nil
	}

	commitOut, err := repo.Commit(ctx, message, git.CommitOptions{
		Exclude: e.repoPaths(token.Path()),
		Env:     []string{hookBypassEnv + "=1"},
	})
	if err != nil {
		return clierr.Wrap(1, "commit failed", err)
	}
	out.Plain(commitOut)
	return nil
}

// confirmer picks how dangerous file changes are confirmed. A terminal on
// stdin is asked; anything else is declined unless --yes is given.
func (o *runOptions) confirmer(in io.Reader, w io.Writer, cfg *config.Config, log *slog.Logger) prompt.Confirmer {
	switch {
	case o.yes:
		return prompt.AlwaysApprove
	case o.noInput:
		return prompt.AlwaysDeny
	}

	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		if len(cfg.Files.Dangerous) == 0 {
			return prompt.AlwaysDeny
		}
		log.Warn("stdin is not a terminal, dangerous file changes will be declined (use --yes to approve)")
		return prompt.AlwaysDeny
	}
	return prompt.NewInteractiveWithIO(in, w, true)
}
