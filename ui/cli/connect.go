// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/toeirei/lssh/internal/agent"
	"github.com/toeirei/lssh/internal/core"
	"github.com/toeirei/lssh/internal/db"
	"github.com/toeirei/lssh/internal/hostlist"
	"github.com/toeirei/lssh/internal/i18n"
	"github.com/toeirei/lssh/internal/logging"
	"github.com/toeirei/lssh/internal/recording"
	"github.com/toeirei/lssh/internal/tui"
)

// The functions below reach the terminal, the clipboard or other processes.
// Tests replace them.
var (
	hostDialog     = tui.HierarchicalOptionDialog
	flatDialog     = tui.FlatOptionDialog
	copyToClipbard = clipboard.WriteAll
	recordSession  = recording.Record
	agentEnv       = func(ctx context.Context) ([]string, error) {
		return agent.NewManager().Environment(ctx)
	}
	runCommand = func(ctx context.Context, argv, env []string) (int, error) {
		c := exec.CommandContext(ctx, argv[0], argv[1:]...)
		c.Env = env
		c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
		err := c.Run()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		if err != nil {
			return -1, err
		}
		return 0, nil
	}
)

// loadHosts reads the managed host list and keeps the host index in step.
func loadHosts(ctx context.Context) (*hostlist.Index, error) {
	ix, err := hostlist.Load(appConfig.HostsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load hosts from %s: %w", appConfig.HostsDir, err)
	}
	if st, err := db.Default(); err == nil {
		if refreshed, err := hostlist.Refresh(ctx, st, ix); err != nil {
			logging.Warnf("%v", err)
		} else if refreshed {
			logging.Debugf("host index refreshed")
		}
	}
	return ix, nil
}

// selectHost narrows the host list down to one host, asking the user when
// several hosts match.
func selectHost(ctx context.Context, substrings []string) (string, *hostlist.Index, error) {
	ix, err := loadHosts(ctx)
	if err != nil {
		return "", nil, err
	}
	matched, err := core.Match(ix.Entries(), substrings)
	switch {
	case errors.Is(err, core.ErrNoHosts):
		return "", nil, errors.New(i18n.T("connect.no_hosts"))
	case errors.Is(err, core.ErrNoMatch) && len(substrings) == 1:
		return "", nil, errors.New(i18n.T("connect.no_match_one", substrings[0]))
	case errors.Is(err, core.ErrNoMatch):
		return "", nil, errors.New(i18n.T("connect.no_match"))
	case err != nil:
		return "", nil, err
	}
	if len(matched) == 1 {
		return matched[0].DisplayName, ix, nil
	}

	customers := core.GroupByCustomer(matched)
	groups := make([]tui.Group, len(customers))
	for i, c := range customers {
		groups[i] = tui.Group{Name: c.Customer, Items: c.Hosts}
	}
	g, h, ok, err := hostDialog(groups, ix.DisplayNames, i18n.T("dialog.select_customer"), i18n.T("dialog.select_host"))
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, errors.New(i18n.T("connect.none_selected"))
	}
	return groups[g].Items[h], ix, nil
}

func showProxyChain(w io.Writer, chain []string) {
	if len(chain) == 1 {
		fmt.Fprintln(w, i18n.T("connect.direct", chain[0]))
		return
	}
	fmt.Fprintln(w, i18n.T("connect.via"))
	fmt.Fprintln(w, "  "+strings.Join(chain, " -> "))
}

// runConnect selects a host, prints the jump host chain and runs ssh,
// recorded unless disabled. The exit code of ssh becomes the exit code of
// lssh.
func runConnect(ctx context.Context, cmd *cobra.Command, o *rootOptions, args []string) error {
	var user string
	var substrings []string
	if len(args) > 0 {
		var first string
		user, first = core.SplitUser(args[0])
		if err := core.EnsureNoUsernames(args[1:]); err != nil {
			return err
		}
		substrings = append([]string{first}, args[1:]...)
	}

	selected, ix, err := selectHost(ctx, substrings)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return &exitError{code: 1}
	}
	chain, err := core.BuildProxyChain(selected, core.ByName(ix.Entries()))
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return &exitError{code: 1}
	}

	argv := core.BuildSSHCommand(o.sshOptions(), user, selected)
	line := core.ShellJoin(argv)
	showProxyChain(cmd.OutOrStdout(), chain)
	if o.verbose > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T("connect.executing", line))
	}
	if o.copy {
		if err := copyToClipbard(line); err != nil {
			logging.Warnf("could not copy the command line: %v", err)
		}
	}

	env, err := agentEnv(ctx)
	if err != nil {
		logging.Warnf("ssh-agent unavailable: %v", err)
		env = os.Environ()
	}

	code, err := execSSH(ctx, cmd, o, selected, argv, env)
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

func execSSH(ctx context.Context, cmd *cobra.Command, o *rootOptions, host string, argv, env []string) (int, error) {
	if !appConfig.Recording.Enabled || o.noRecord {
		return runCommand(ctx, argv, env)
	}
	dir, err := recording.NewDir(recording.BaseDir(appConfig.Recording.Dir), host, time.Now())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("connect.no_recording", err))
		return runCommand(ctx, argv, env)
	}
	code, err := recordSession(ctx, recording.Session{
		Dir:      dir,
		Argv:     argv,
		Env:      env,
		Compress: appConfig.Recording.Compress,
		Stdout:   cmd.OutOrStdout(),
	})
	if errors.Is(err, recording.ErrUnsupported) {
		_ = os.Remove(dir)
		return runCommand(ctx, argv, env)
	}
	return code, err
}
