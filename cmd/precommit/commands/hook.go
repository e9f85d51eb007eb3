// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bartekus/precommit/cmd/precommit/internal/clierr"
	"github.com/bartekus/precommit/internal/git"
)

// hookScript reattaches the terminal when there is one so dangerous file
// confirmations can be answered during `git commit`. Commits made by
// `precommit run <message>` have already passed and skip the hook.
const hookScript = `#!/bin/sh
# Installed by precommit hook install.
if [ -n "$` + hookBypassEnv + `" ]; then
	exit 0
fi
if (exec < /dev/tty) 2>/dev/null; then
	exec < /dev/tty
fi
exec precommit run
`

func newHookCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage the git pre-commit hook",
	}

	var force bool
	install := &cobra.Command{
		Use:   "install",
		Short: "Install a pre-commit hook that runs precommit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.resolve(cmd)
			if err != nil {
				return err
			}

			dir, err := git.New(e.root, nil).HooksDir(cmd.Context())
			if err != nil {
				return err
			}
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(e.root, dir)
			}
			path := filepath.Join(dir, "pre-commit")

			if _, err := os.Stat(path); err == nil && !force {
				return clierr.New(2, fmt.Sprintf("%s already exists (use --force to replace it)", path))
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(hookScript), 0o755); err != nil { //nolint:gosec // hooks must be executable
				return err
			}
			if err := os.Chmod(path, 0o755); err != nil { //nolint:gosec // hooks must be executable
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Installed %s\n", path)
			return err
		},
	}
	install.Flags().BoolVar(&force, "force", false, "replace an existing hook")

	cmd.AddCommand(install)
	return cmd
}
