// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/toeirei/lssh/internal/db"
	"github.com/toeirei/lssh/internal/hostlist"
	"github.com/toeirei/lssh/internal/model"
	"github.com/toeirei/lssh/internal/recording"
	"github.com/toeirei/lssh/internal/tabcomplete"
)

// newCompleteCmd returns the command bash calls through
// `complete -C "lssh __complete__" lssh`. Bash passes the command name, the
// current and the previous word and the full line in COMP_LINE.
func newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "__complete__ CMD CUR PREV",
		Hidden:             true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cur, prev string
			if len(args) > 1 {
				cur = args[1]
			}
			if len(args) > 2 {
				prev = args[2]
			}
			src := tabcomplete.Sources{
				CompLine:   os.Getenv("COMP_LINE"),
				Options:    longOptions(cmd.Root()),
				Hosts:      completionHosts,
				Recordings: func() ([]model.Recording, error) { return recording.List(recording.BaseDir(appConfig.Recording.Dir)) },
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			for _, c := range tabcomplete.Complete(ctx, src, cur, prev) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

// completionHosts prefers the host index, which avoids parsing every host
// file on each key press.
func completionHosts(ctx context.Context) ([]model.HostEntry, error) {
	if st, err := db.Default(); err == nil {
		return hostlist.Cached(ctx, st, appConfig.HostsDir)
	}
	ix, err := hostlist.Load(appConfig.HostsDir)
	if err != nil {
		return nil, err
	}
	return ix.Entries(), nil
}

// longOptions lists the visible long flags of root.
func longOptions(root *cobra.Command) []string {
	root.InitDefaultHelpFlag()
	root.InitDefaultVersionFlag()
	var out []string
	root.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			out = append(out, "--"+f.Name)
		}
	})
	sort.Strings(out)
	return out
}
