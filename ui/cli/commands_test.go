// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompleteHosts(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{"acme.txt": testHosts})

	t.Setenv("COMP_LINE", "lssh root@we")
	out, _, err := executeCommand(t, "__complete__", "lssh", "root@we", "lssh")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if strings.TrimSpace(out) != "root@web-01" {
		t.Fatalf("completions = %q", out)
	}
}

func TestCompleteOptions(t *testing.T) {
	setupTestEnv(t, "")
	t.Setenv("COMP_LINE", "lssh --lo")
	out, _, err := executeCommand(t, "__complete__", "lssh", "--lo", "lssh")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	lines := strings.Fields(out)
	if len(lines) != 2 || lines[0] != "--load-from" || lines[1] != "--log-level" {
		t.Fatalf("completions = %q", out)
	}
}

func TestCompleteTimestamps(t *testing.T) {
	env := setupTestEnv(t, "")
	makeRecordings(t, env.recordingsDir, "2026-03-01_10-00-00_web-01", "2026-03-02_11-00-00_db-01")

	t.Setenv("COMP_LINE", "lssh web --timestamp ")
	out, _, err := executeCommand(t, "__complete__", "lssh", "", "--timestamp")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if strings.TrimSpace(out) != "2026-03-01_10-00-00" {
		t.Fatalf("completions = %q", out)
	}
}

func TestPolicy(t *testing.T) {
	setupTestEnv(t, "")
	out, _, err := executeCommand(t, "policy")
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	for _, want := range []string{"Keywords allowed in host files:", "hostname", "Excluded keywords:", "ForwardAgent"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestPolicyCommands(t *testing.T) {
	env := setupTestEnv(t, "")
	if err := os.WriteFile(env.whitelist, []byte("*,web-01,uptime\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := executeCommand(t, "policy", "--commands")
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if !strings.Contains(out, "web-01") || !strings.Contains(out, "uptime") {
		t.Fatalf("output = %q", out)
	}
}

// fakeCrontab keeps the crontab in memory.
type fakeCrontab struct {
	content string
	exists  bool
}

type noCrontab struct{}

func (noCrontab) Error() string { return "no crontab for user" }
func (noCrontab) ExitCode() int { return 1 }

func (f *fakeCrontab) Run(_ context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	if len(args) == 1 && args[0] == "-l" {
		if !f.exists {
			return nil, noCrontab{}
		}
		return []byte(f.content), nil
	}
	f.content, f.exists = string(stdin), true
	return nil, nil
}

func TestInstallAndUninstall(t *testing.T) {
	env := setupTestEnv(t, "")
	if err := os.WriteFile(env.sshConfig, []byte("Host *\n  SendEnv LANG\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fc := &fakeCrontab{}
	orig := installRunner
	installRunner = fc
	t.Cleanup(func() { installRunner = orig })

	out, _, err := executeCommand(t, "install")
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if !strings.Contains(fc.content, "/var/local/lssh/pull.sh # automatically added by lssh installer") {
		t.Fatalf("crontab = %q", fc.content)
	}
	data, _ := os.ReadFile(env.sshConfig)
	if !strings.Contains(string(data), "Include "+filepath.Join(env.hostsDir, "*.txt")) {
		t.Fatalf("ssh_config = %q", data)
	}
	if !strings.Contains(out, "Added pull entry") {
		t.Fatalf("stdout = %q", out)
	}

	out, _, err = executeCommand(t, "install")
	if err != nil {
		t.Fatalf("second install: %v", err)
	}
	if !strings.Contains(out, "already in the crontab") || !strings.Contains(out, "is up to date") {
		t.Fatalf("second install output = %q", out)
	}

	if _, _, err := executeCommand(t, "uninstall"); err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	if strings.Contains(fc.content, "pull.sh") {
		t.Fatalf("crontab after uninstall = %q", fc.content)
	}
	data, _ = os.ReadFile(env.sshConfig)
	if string(data) != "Host *\n  SendEnv LANG\n" {
		t.Fatalf("ssh_config after uninstall = %q", data)
	}
}

func TestInstallSkipFlags(t *testing.T) {
	env := setupTestEnv(t, "")
	fc := &fakeCrontab{}
	orig := installRunner
	installRunner = fc
	t.Cleanup(func() { installRunner = orig })

	if _, _, err := executeCommand(t, "install", "--skip-ssh-config"); err != nil {
		t.Fatalf("install: %v", err)
	}
	if !fc.exists {
		t.Fatal("crontab should be written")
	}
	if _, err := os.Stat(env.sshConfig); !os.IsNotExist(err) {
		t.Fatal("ssh_config must stay untouched")
	}
}
