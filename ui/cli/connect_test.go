// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/toeirei/lssh/internal/core"
	"github.com/toeirei/lssh/internal/recording"
	"github.com/toeirei/lssh/internal/tui"
)

const testHosts = `# lssh:displayname ACME Corp
Host web-01
  HostName 10.0.0.1

Host db-01
  HostName 10.0.0.2
  ProxyJump jump-01

Host jump-01
  HostName 10.0.0.3
`

// fakeSSH replaces the process and terminal hooks of the connect path.
type fakeSSH struct {
	argv   []string
	env    []string
	code   int
	dialog func(groups []tui.Group) (int, int, bool, error)
	copied string
}

func installFakeSSH(t *testing.T) *fakeSSH {
	t.Helper()
	f := &fakeSSH{}
	origRun, origEnv, origDialog, origCopy, origRecord := runCommand, agentEnv, hostDialog, copyToClipbard, recordSession
	t.Cleanup(func() {
		runCommand, agentEnv, hostDialog, copyToClipbard, recordSession = origRun, origEnv, origDialog, origCopy, origRecord
	})
	runCommand = func(_ context.Context, argv, env []string) (int, error) {
		f.argv, f.env = argv, env
		return f.code, nil
	}
	agentEnv = func(context.Context) ([]string, error) { return []string{"SSH_AUTH_SOCK=/tmp/agent.sock"}, nil }
	hostDialog = func(groups []tui.Group, _ map[string]string, _, _ string) (int, int, bool, error) {
		if f.dialog == nil {
			t.Fatal("unexpected dialog")
		}
		return f.dialog(groups)
	}
	copyToClipbard = func(s string) error {
		f.copied = s
		return nil
	}
	return f
}

func TestConnectSingleMatch(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{"acme.txt": testHosts})
	f := installFakeSSH(t)

	out, _, err := executeCommand(t, "-4", "-L", "8080:localhost:80", "root@web")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	want := []string{"ssh", "-4", "-L", "8080:localhost:80", "root@web-01"}
	if !reflect.DeepEqual(f.argv, want) {
		t.Fatalf("argv = %v, want %v", f.argv, want)
	}
	if !reflect.DeepEqual(f.env, []string{"SSH_AUTH_SOCK=/tmp/agent.sock"}) {
		t.Fatalf("env = %v", f.env)
	}
	if !strings.Contains(out, "Connecting to web-01 without jumphost") {
		t.Fatalf("output = %q", out)
	}
}

func TestConnectShowsProxyChainAndCopies(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{"acme.txt": testHosts})
	f := installFakeSSH(t)

	out, _, err := executeCommand(t, "-v", "--copy", "db")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !strings.Contains(out, "Connecting via:\n  jump-01 -> db-01\n") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(out, "executing command: ssh -v db-01") {
		t.Fatalf("verbose output missing: %q", out)
	}
	if f.copied != "ssh -v db-01" {
		t.Fatalf("copied %q", f.copied)
	}
}

func TestConnectDialogSelection(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{
		"acme.txt":   testHosts,
		"globex.txt": "Host web-02\n  HostName 10.1.0.1\n",
	})
	f := installFakeSSH(t)
	f.dialog = func(groups []tui.Group) (int, int, bool, error) {
		want := []tui.Group{{Name: "acme", Items: []string{"web-01"}}, {Name: "globex", Items: []string{"web-02"}}}
		if !reflect.DeepEqual(groups, want) {
			t.Fatalf("groups = %v", groups)
		}
		return 1, 0, true, nil
	}

	if _, _, err := executeCommand(t, "web"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if got := f.argv[len(f.argv)-1]; got != "web-02" {
		t.Fatalf("connected to %s", got)
	}
}

func TestConnectDialogAborted(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{"acme.txt": testHosts})
	f := installFakeSSH(t)
	f.dialog = func([]tui.Group) (int, int, bool, error) { return -1, -1, false, nil }

	_, errOut, err := executeCommand(t)
	if ExitCode(err) != 1 {
		t.Fatalf("exit code = %d (%v)", ExitCode(err), err)
	}
	if !strings.Contains(errOut, "No host has been selected") {
		t.Fatalf("stderr = %q", errOut)
	}
	if f.argv != nil {
		t.Fatal("ssh must not run")
	}
}

func TestConnectNoMatch(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{"acme.txt": testHosts})
	installFakeSSH(t)

	_, errOut, err := executeCommand(t, "zzz")
	if ExitCode(err) != 1 {
		t.Fatalf("exit code = %d", ExitCode(err))
	}
	if !strings.Contains(errOut, "No matching hosts for substring `zzz' found") {
		t.Fatalf("stderr = %q", errOut)
	}

	_, errOut, _ = executeCommand(t, "web", "zzz")
	if !strings.Contains(errOut, "No matching hosts for the given substrings found") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestConnectNoHosts(t *testing.T) {
	setupTestEnv(t, "")
	installFakeSSH(t)

	_, errOut, err := executeCommand(t, "web")
	if ExitCode(err) != 1 || !strings.Contains(errOut, "No hosts defined in the configuration") {
		t.Fatalf("err = %v, stderr = %q", err, errOut)
	}
}

func TestConnectProxyLoop(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{"loop.txt": "Host a\n  ProxyJump b\nHost b\n  ProxyJump a\n"})
	f := installFakeSSH(t)
	f.dialog = func([]tui.Group) (int, int, bool, error) { return 0, 0, true, nil }

	_, errOut, err := executeCommand(t, "a")
	if ExitCode(err) != 1 {
		t.Fatalf("exit code = %d", ExitCode(err))
	}
	if !strings.Contains(errOut, "there is a loop in the proxy hosts: ... -> a -> b -> a") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestConnectUsernameOnlyFirst(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{"acme.txt": testHosts})
	installFakeSSH(t)

	_, _, err := executeCommand(t, "web", "root@acme")
	if !errors.Is(err, core.ErrUsernameNotFirst) {
		t.Fatalf("err = %v", err)
	}
}

func TestConnectPassesExitCode(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{"acme.txt": testHosts})
	f := installFakeSSH(t)
	f.code = 255

	_, _, err := executeCommand(t, "web")
	if ExitCode(err) != 255 {
		t.Fatalf("exit code = %d", ExitCode(err))
	}
}

func TestConnectRecordsSession(t *testing.T) {
	env := setupTestEnv(t, "")
	env.writeHosts(t, map[string]string{"acme.txt": testHosts})
	f := installFakeSSH(t)
	var session recording.Session
	recordSession = func(_ context.Context, s recording.Session) (int, error) {
		session = s
		return 0, nil
	}
	// Recording is disabled in the test config; enable it through the env.
	t.Setenv("LSSH_RECORDING_ENABLED", "true")

	if _, _, err := executeCommand(t, "web"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if f.argv != nil {
		t.Fatal("recorded sessions must not use the plain runner")
	}
	if filepath.Dir(session.Dir) != env.recordingsDir || !strings.HasSuffix(session.Dir, "_web-01") {
		t.Fatalf("recording dir = %s", session.Dir)
	}
	if _, err := os.Stat(session.Dir); err != nil {
		t.Fatalf("recording dir not created: %v", err)
	}
	if session.Argv[len(session.Argv)-1] != "web-01" {
		t.Fatalf("argv = %v", session.Argv)
	}

	session = recording.Session{}
	if _, _, err := executeCommand(t, "--no-record", "web"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if session.Dir != "" || f.argv == nil {
		t.Fatal("--no-record must run ssh directly")
	}
}
