// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/precommit/internal/runner"
)

type statusReport struct {
	Token  string `json:"token"`
	Passed bool   `json:"passed"`
}

func newStatusCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the last run passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.resolve(cmd)
			if err != nil {
				return err
			}

			token := runner.NewTokenStore(e.tokenPath())
			passed, err := token.Exists()
			if err != nil {
				return err
			}
			report := statusReport{Token: token.Path(), Passed: passed}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}

			if passed {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Last run passed (token: %s)\n", report.Token)
			} else {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No successful run since the token was cleared.")
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output results in JSON")
	return cmd
}
