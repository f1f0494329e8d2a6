// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/toeirei/lssh/internal/i18n"
	"github.com/toeirei/lssh/internal/sshconfig"
)

// newPolicyCmd prints which ssh_config keywords distributed host files may
// use, the excluded ones with their reason, and the whitelisted commands.
func newPolicyCmd() *cobra.Command {
	var commands bool
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Show the keywords and commands allowed in host files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if commands {
				opts, err := importOptions()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, i18n.T("policy.commands"))
				for _, e := range opts.AllowList {
					fmt.Fprintf(out, "  %-12s %-24s %s\n", orAny(e.User), orAny(e.Hostname), e.Command)
				}
				return nil
			}

			fmt.Fprintln(out, i18n.T("policy.allowed"))
			for _, k := range sshconfig.SortedAllowed() {
				fmt.Fprintln(out, "  "+k)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, i18n.T("policy.excluded"))
			excluded := make([]string, 0, len(sshconfig.ExcludedKeywords))
			for k := range sshconfig.ExcludedKeywords {
				excluded = append(excluded, k)
			}
			sort.Strings(excluded)
			for _, k := range excluded {
				fmt.Fprintf(out, "  %-28s %s\n", k, sshconfig.ExcludedKeywords[k])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&commands, "commands", false, "List the whitelisted remote commands instead")
	return cmd
}

func orAny(s string) string {
	if s == "" {
		return "*"
	}
	return s
}
