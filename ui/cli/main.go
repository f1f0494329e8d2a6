// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the lssh command line using the Cobra library. It defines
// the root command with its action flags and the ssh pass-through options,
// the subcommands and the shared service setup.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/lssh/buildvars"
	"github.com/toeirei/lssh/internal/config"
	"github.com/toeirei/lssh/internal/core"
	"github.com/toeirei/lssh/internal/db"
	"github.com/toeirei/lssh/internal/i18n"
	"github.com/toeirei/lssh/internal/logging"
)

const modulePath = "github.com/toeirei/lssh"

var version = buildvars.VersionOrDefault("dev")
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var appConfig config.Config

// rootOptions holds the flags of the root command.
type rootOptions struct {
	cfgFile     string
	validate    string
	watch       bool
	loadFrom    string
	updateHosts bool
	replay      bool
	timestamp   string
	speed       float64
	verbose     int
	copy        bool
	noRecord    bool

	counted map[byte]*int
	values  map[byte]*[]string
}

// sshOptions collects the pass-through flags given on the command line.
func (o *rootOptions) sshOptions() core.SSHOptions {
	opts := core.SSHOptions{
		Counted: make(map[byte]int),
		Values:  make(map[byte][]string),
		Verbose: o.verbose,
	}
	for c, n := range o.counted {
		if *n > 0 {
			opts.Counted[c] = *n
		}
	}
	for c, v := range o.values {
		if len(*v) > 0 {
			opts.Values[c] = append([]string(nil), (*v)...)
		}
	}
	return opts
}

// exitError carries a process exit code without a message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// Execute runs the CLI entrypoint. The main package should call this function
// and exit with ExitCode of the result.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := db.Close(); err != nil {
			logging.Warnf("closing host index: %v", err)
		}
	}()

	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, i18n.T("cli.error", err))
	}
	return err
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if f := cmd.Flags().Lookup("config"); f == nil || !f.Changed {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid unwanted behavior.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// defaultDSN places the SQLite host index in the user cache directory.
func defaultDSN() (string, error) {
	path, err := xdg.CacheFile(filepath.Join("lssh", "hosts.db"))
	if err != nil {
		return "", err
	}
	return path, nil
}

func setupDefaultServices(cmd *cobra.Command, verbose int) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	// A missing config file is expected on first run; the defaults apply.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		logging.Debugf("no config file found, using defaults")
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if err := logging.SetLevel(appConfig.LogLevel); err != nil {
		logging.Warnf("invalid log level %q: %v", appConfig.LogLevel, err)
	}
	if verbose > 0 {
		logging.SetDebug(true)
	}
	i18n.Init(appConfig.Language)

	// The host index only speeds up completion and selection; lssh works
	// without it.
	if !db.IsInitialized() {
		dsn := appConfig.Database.Dsn
		if dsn == "" && appConfig.Database.Type == "sqlite" {
			if dsn, err = defaultDSN(); err != nil {
				logging.Warnf("no location for the host index: %v", err)
				return nil
			}
		}
		if err := db.InitDB(appConfig.Database.Type, dsn); err != nil {
			logging.Warnf("%s", i18n.T("config.error_init_db", err))
		}
	}
	return nil
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{
		counted: make(map[byte]*int),
		values:  make(map[byte]*[]string),
	}

	cmd := &cobra.Command{
		Use:   "lssh [ssh options] [user@]substring [substring...]",
		Short: "lssh selects a host by substrings and connects to it with ssh.",
		Long: `lssh searches the managed host list for hosts whose name or keywords
contain every given substring. A single match is connected directly,
several matches open a selection dialog grouped by customer.

The following options are passed through to ssh: ` + core.OptionSummary() + `,
see the ssh(1) man page for details.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupDefaultServices(cmd, o.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, o, args)
		},
	}

	v, c, d := resolveBuildVersion(nil)
	compositeVersion := v
	if c != "" && c != "dev" {
		compositeVersion = compositeVersion + " (" + c + ")"
	}
	if d != "" {
		compositeVersion = compositeVersion + " built: " + d
	}
	cmd.Version = compositeVersion
	cmd.SetVersionTemplate("lssh version {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "config file")
	pf.String("language", "en", `Message language ("en", "de")`)
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.String("hosts-dir", "", "Directory holding the managed host files")
	pf.CountVarP(&o.verbose, "verbose", "v", "Verbose mode, prints the ssh command line; repeat to raise ssh verbosity")

	f := cmd.Flags()
	f.StringVar(&o.validate, "validate", "", "Validate the host files of `DIR` and exit")
	f.BoolVar(&o.watch, "watch", false, "With --validate, validate again whenever a file changes")
	f.StringVar(&o.loadFrom, "load-from", "", "Import the host files of `DIR` into the managed host list")
	f.BoolVar(&o.updateHosts, "update-hosts", false, "Pull the host files from the configured source and import them")
	f.BoolVarP(&o.replay, "replay", "r", false, "Watch a previously recorded ssh session")
	f.StringVar(&o.timestamp, "timestamp", "", "The exact start `TIME` of the recording, YYYY-MM-DD_hh-mm-ss (implies --replay)")
	f.Float64Var(&o.speed, "speed", 1, "Replay speed factor")
	f.BoolVar(&o.copy, "copy", false, "Copy the ssh command line to the clipboard")
	f.BoolVar(&o.noRecord, "no-record", false, "Do not record the session")
	cmd.MarkFlagsMutuallyExclusive("validate", "load-from", "update-hosts", "replay")

	for i := 0; i < len(core.CountedOptions); i++ {
		c := core.CountedOptions[i]
		n := new(int)
		f.CountVarP(n, "ssh-"+string(c), string(c), "")
		_ = f.MarkHidden("ssh-" + string(c))
		o.counted[c] = n
	}
	for i := 0; i < len(core.ValueOptions); i++ {
		c := core.ValueOptions[i]
		v := new([]string)
		f.StringArrayVarP(v, "ssh-"+string(c), string(c), nil, "")
		_ = f.MarkHidden("ssh-" + string(c))
		o.values[c] = v
	}

	cmd.AddCommand(
		newCompleteCmd(),
		newInstallCmd(),
		newUninstallCmd(),
		newPolicyCmd(),
	)
	return cmd
}

// runRoot dispatches on the action flags; without one it connects.
func runRoot(cmd *cobra.Command, o *rootOptions, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	switch {
	case o.validate != "":
		return runValidate(ctx, cmd, o.validate, o.watch)
	case o.loadFrom != "":
		return runImport(ctx, cmd, o.loadFrom)
	case o.updateHosts:
		return runUpdateHosts(ctx, cmd)
	case o.replay || o.timestamp != "":
		return runReplay(ctx, cmd, o, args)
	}
	return runConnect(ctx, cmd, o, args)
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := version
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if infoLocal, found := debug.ReadBuildInfo(); found {
			info = infoLocal
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit given via ldflags.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, strings.TrimSpace(resolvedDate)
}
