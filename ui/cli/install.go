// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/lssh/internal/i18n"
	"github.com/toeirei/lssh/internal/install"
)

var installRunner install.Runner = install.ExecRunner{}

type installOptions struct {
	skipCrontab   bool
	skipSSHConfig bool
}

func (o *installOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.skipCrontab, "skip-crontab", false, "Leave the crontab alone")
	cmd.Flags().BoolVar(&o.skipSSHConfig, "skip-ssh-config", false, "Leave the system ssh_config alone")
}

func newCrontab() *install.Crontab {
	return &install.Crontab{Runner: installRunner, Command: appConfig.Install.PullCommand}
}

func newSSHConfig() *install.SSHConfig {
	return &install.SSHConfig{Path: appConfig.Install.SSHConfig, Include: appConfig.Install.Include}
}

func reportChange(cmd *cobra.Command, changed bool, changedID, unchangedID, target string) {
	id := unchangedID
	if changed {
		id = changedID
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T(id, target))
}

// newInstallCmd adds the hourly pull entry to the crontab and the include
// section for the managed host files to the system ssh_config.
func newInstallCmd() *cobra.Command {
	o := &installOptions{}
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the crontab pull entry and the ssh_config include section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !o.skipCrontab {
				changed, err := newCrontab().Add(cmd.Context())
				if err != nil {
					return err
				}
				reportChange(cmd, changed, "install.crontab_added", "install.crontab_present", appConfig.Install.PullCommand)
			}
			if !o.skipSSHConfig {
				changed, err := newSSHConfig().AddSection()
				if err != nil {
					return fmt.Errorf("%s: %w", appConfig.Install.SSHConfig, err)
				}
				reportChange(cmd, changed, "install.ssh_config_added", "install.ssh_config_present", appConfig.Install.SSHConfig)
			}
			return nil
		},
	}
	o.bind(cmd)
	return cmd
}

// newUninstallCmd reverts newInstallCmd.
func newUninstallCmd() *cobra.Command {
	o := &installOptions{}
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the crontab pull entry and the ssh_config include section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !o.skipCrontab {
				changed, err := newCrontab().Remove(cmd.Context())
				if err != nil {
					return err
				}
				reportChange(cmd, changed, "uninstall.crontab_removed", "uninstall.crontab_absent", appConfig.Install.PullCommand)
			}
			if !o.skipSSHConfig {
				changed, err := newSSHConfig().RemoveSection()
				if err != nil {
					return fmt.Errorf("%s: %w", appConfig.Install.SSHConfig, err)
				}
				reportChange(cmd, changed, "uninstall.ssh_config_removed", "uninstall.ssh_config_absent", appConfig.Install.SSHConfig)
			}
			return nil
		},
	}
	o.bind(cmd)
	return cmd
}
