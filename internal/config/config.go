// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads lssh settings from lssh.yaml, LSSH_* environment
// variables and command-line flags using Viper, and writes default files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every setting of lssh. Field tags are used by both viper
// (mapstructure) and the YAML writer.
type Config struct {
	HostsDir          string   `mapstructure:"hosts_dir" yaml:"hosts_dir"`
	GeneralProxy      string   `mapstructure:"general_proxy" yaml:"general_proxy"`
	CommandWhitelists []string `mapstructure:"command_whitelists" yaml:"command_whitelists"`
	Language          string   `mapstructure:"language" yaml:"language"`
	LogLevel          string   `mapstructure:"log_level" yaml:"log_level"`

	Database struct {
		Type string `mapstructure:"type" yaml:"type"`
		Dsn  string `mapstructure:"dsn" yaml:"dsn"`
	} `mapstructure:"database" yaml:"database"`

	Recording struct {
		Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
		Compress bool   `mapstructure:"compress" yaml:"compress"`
		Dir      string `mapstructure:"dir" yaml:"dir,omitempty"`
	} `mapstructure:"recording" yaml:"recording"`

	Source struct {
		Address    string `mapstructure:"address" yaml:"address,omitempty"`
		User       string `mapstructure:"user" yaml:"user,omitempty"`
		Path       string `mapstructure:"path" yaml:"path,omitempty"`
		KnownHosts string `mapstructure:"known_hosts" yaml:"known_hosts,omitempty"`
	} `mapstructure:"source" yaml:"source"`

	Install struct {
		SSHConfig   string `mapstructure:"ssh_config" yaml:"ssh_config"`
		Include     string `mapstructure:"include" yaml:"include"`
		PullCommand string `mapstructure:"pull_command" yaml:"pull_command"`
	} `mapstructure:"install" yaml:"install"`
}

// Defaults returns the default key/value pairs registered with viper.
func Defaults() map[string]any {
	return map[string]any{
		"hosts_dir":            "/var/local/lssh/hosts",
		"general_proxy":        "",
		"command_whitelists":   []string{"/var/local/lssh/command_whitelist.csv"},
		"language":             "en",
		"log_level":            "warn",
		"database.type":        "sqlite",
		"database.dsn":         "",
		"recording.enabled":    true,
		"recording.compress":   true,
		"install.ssh_config":   "/etc/ssh/ssh_config",
		"install.include":      "/var/local/lssh/hosts/*.txt",
		"install.pull_command": "/var/local/lssh/pull.sh",
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "lssh")
		default:
			configDir = "/etc/lssh"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "lssh")
	}

	return filepath.Join(configDir, "lssh.yaml"), nil
}

// LoadConfig merges defaults, the first lssh.yaml found (or the explicit
// file), LSSH_* environment variables and the flags of cmd into a T.
// A missing config file is reported as viper.ConfigFileNotFoundError together
// with the fully populated value.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, explicitPath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("lssh")
	v.SetConfigType("yaml")
	if explicitPath != nil {
		v.SetConfigFile(*explicitPath)
	}
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	var notFound error
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return c, err
		}
		notFound = err
	}

	v.SetEnvPrefix("lssh")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Flags are spelled with dashes, config keys with underscores.
	if cmd != nil {
		var bindErr error
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return c, bindErr
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, notFound
}

// WriteConfigFile stores c as YAML in the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0o644)
}
