// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/lssh/internal/cmdwhitelist"
	"github.com/toeirei/lssh/internal/hostlist"
	"github.com/toeirei/lssh/internal/i18n"
	"github.com/toeirei/lssh/internal/logging"
	"github.com/toeirei/lssh/internal/pull"
)

var pullSource = pull.Pull

// importOptions builds the transform options from the configuration.
func importOptions() (hostlist.Options, error) {
	allow, err := cmdwhitelist.LoadAll(appConfig.CommandWhitelists)
	if err != nil {
		return hostlist.Options{}, fmt.Errorf("failed to load command whitelist: %w", err)
	}
	return hostlist.Options{AllowList: allow, GeneralProxy: appConfig.GeneralProxy}, nil
}

func printFileErrors(w io.Writer, errs []hostlist.FileError) {
	for _, fe := range errs {
		for _, l := range fe.Lines() {
			fmt.Fprintln(w, l)
		}
	}
}

// validateOnce prints the problems of dir and reports whether there were any.
func validateOnce(ctx context.Context, cmd *cobra.Command, dir string, opts hostlist.Options) (bool, error) {
	errs, err := hostlist.Validate(ctx, dir, opts)
	if err != nil {
		return false, err
	}
	printFileErrors(cmd.ErrOrStderr(), errs)
	if len(errs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T("validate.ok", dir))
	}
	return len(errs) > 0, nil
}

func runValidate(ctx context.Context, cmd *cobra.Command, dir string, watch bool) error {
	opts, err := importOptions()
	if err != nil {
		return err
	}
	if !watch {
		failed, err := validateOnce(ctx, cmd, dir, opts)
		if err != nil {
			return err
		}
		if failed {
			return &exitError{code: 1}
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("validate.watching", dir))
	return hostlist.Watch(ctx, dir, hostlist.DefaultDebounce, func() {
		if _, err := validateOnce(ctx, cmd, dir, opts); err != nil {
			logging.Errorf("validation failed: %v", err)
		}
	})
}

// runImport imports the host files of src into the managed host directory
// and refreshes the host index.
func runImport(ctx context.Context, cmd *cobra.Command, src string) error {
	opts, err := importOptions()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(appConfig.HostsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", appConfig.HostsDir, err)
	}
	report, err := hostlist.Import(ctx, src, appConfig.HostsDir, opts)
	if err != nil {
		return err
	}
	printFileErrors(cmd.ErrOrStderr(), report.Errors)
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("import.summary",
		len(report.Created), len(report.Updated), len(report.Unchanged), len(report.Deleted)))

	if _, err := loadHosts(ctx); err != nil {
		logging.Warnf("%v", err)
	}
	if len(report.Errors) > 0 {
		return &exitError{code: 1}
	}
	return nil
}

// runUpdateHosts pulls the host files from the configured source into a
// staging directory and imports them.
func runUpdateHosts(ctx context.Context, cmd *cobra.Command) error {
	src := appConfig.Source
	if src.Address == "" {
		return fmt.Errorf("%s", i18n.T("update.no_source"))
	}
	staging, err := os.MkdirTemp("", "lssh-hosts-")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(staging) }()

	names, err := pullSource(ctx, pull.Config{
		Address:    src.Address,
		User:       src.User,
		Path:       src.Path,
		KnownHosts: src.KnownHosts,
	}, staging)
	if err != nil {
		return fmt.Errorf("failed to pull hosts from %s: %w", src.Address, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T("update.pulled", len(names), src.Address))
	return runImport(ctx, cmd, staging)
}
