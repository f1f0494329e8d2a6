// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toeirei/lssh/internal/pull"
)

func writeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestValidateFlag(t *testing.T) {
	setupTestEnv(t, "")

	good := writeDir(t, map[string]string{"acme.txt": "Host web-01\n  HostName 10.0.0.1\n"})
	out, errOut, err := executeCommand(t, "--validate", good)
	if err != nil {
		t.Fatalf("validate: %v (%s)", err, errOut)
	}
	if !strings.Contains(out, "no problems found") {
		t.Fatalf("stdout = %q", out)
	}

	bad := writeDir(t, map[string]string{"bad.txt": "Host web-01\n  ForwardAgent yes\n"})
	_, errOut, err = executeCommand(t, "--validate", bad)
	if ExitCode(err) != 1 {
		t.Fatalf("exit code = %d", ExitCode(err))
	}
	if !strings.HasPrefix(errOut, "bad.txt: ") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestValidateMissingDir(t *testing.T) {
	setupTestEnv(t, "")
	_, _, err := executeCommand(t, "--validate", filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoadFrom(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{"old.txt": "Host old-01\n"})

	src := writeDir(t, map[string]string{
		"acme.txt": "Host web-01\n  HostName 10.0.0.1\n",
		"bad.txt":  "Host web-02\n  ForwardAgent yes\n",
	})
	out, errOut, err := executeCommand(t, "--load-from", src)
	if ExitCode(err) != 1 {
		t.Fatalf("errors in the source must exit 1, got %v", err)
	}
	if !strings.Contains(errOut, "bad.txt: ") {
		t.Fatalf("stderr = %q", errOut)
	}
	if !strings.Contains(out, "1 created, 0 updated, 0 unchanged, 1 deleted") {
		t.Fatalf("stdout = %q", out)
	}
	data, err := os.ReadFile(filepath.Join(env.hostsDir, "acme.txt"))
	if err != nil {
		t.Fatalf("imported file missing: %v", err)
	}
	if !strings.Contains(string(data), "HostKeyAlias") {
		t.Fatalf("imported file not hardened:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(env.hostsDir, "bad.txt")); !os.IsNotExist(err) {
		t.Fatal("files with errors must not be written")
	}
	if _, err := os.Stat(filepath.Join(env.hostsDir, "old.txt")); !os.IsNotExist(err) {
		t.Fatal("files removed from the source must be deleted")
	}
}

func TestUpdateHostsWithoutSource(t *testing.T) {
	setupTestEnv(t, "")
	_, _, err := executeCommand(t, "--update-hosts")
	if err == nil || !strings.Contains(err.Error(), "source.address") {
		t.Fatalf("err = %v", err)
	}
}

func TestUpdateHosts(t *testing.T) {
	env := setupTestEnv(t, "source:\n  address: hosts.example.com\n  user: lssh\n  path: /srv/lssh\n")
	orig := pullSource
	t.Cleanup(func() { pullSource = orig })

	var got pull.Config
	pullSource = func(_ context.Context, cfg pull.Config, staging string) ([]string, error) {
		got = cfg
		return []string{"acme.txt"}, os.WriteFile(filepath.Join(staging, "acme.txt"), []byte("Host web-01\n"), 0o644)
	}

	out, _, err := executeCommand(t, "--update-hosts")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Address != "hosts.example.com" || got.User != "lssh" || got.Path != "/srv/lssh" {
		t.Fatalf("pull config = %+v", got)
	}
	if !strings.Contains(out, "Pulled 1 host files from hosts.example.com") {
		t.Fatalf("stdout = %q", out)
	}
	if _, err := os.Stat(filepath.Join(env.hostsDir, "acme.txt")); err != nil {
		t.Fatalf("pulled file not imported: %v", err)
	}
}

func TestUpdateHostsPullError(t *testing.T) {
	setupTestEnv(t, "source:\n  address: hosts.example.com\n")
	orig := pullSource
	t.Cleanup(func() { pullSource = orig })
	pullSource = func(context.Context, pull.Config, string) ([]string, error) {
		return nil, pull.ErrNoAgent
	}

	_, _, err := executeCommand(t, "--update-hosts")
	if !errors.Is(err, pull.ErrNoAgent) {
		t.Fatalf("err = %v", err)
	}
}

func TestActionFlagsAreExclusive(t *testing.T) {
	setupTestEnv(t, "")
	if _, _, err := executeCommand(t, "--update-hosts", "--replay"); err == nil {
		t.Fatal("expected error for conflicting action flags")
	}
}
