// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// package agent makes sure ssh runs with a usable ssh-agent. An agent
// started by lssh is remembered in a cache file and reused by later runs as
// long as it still answers.
package agent // import "github.com/toeirei/lssh/internal/agent"

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/toeirei/lssh/internal/logging"
	"golang.org/x/crypto/ssh/agent"
)

const sockVar = "SSH_AUTH_SOCK"

var setenvLine = regexp.MustCompile(`^setenv ([^ ]+) (.*);$`)

// startAgentFunc runs `ssh-agent -c` and returns its output. Tests replace it.
var startAgentFunc = func(ctx context.Context) ([]byte, error) {
	return exec.CommandContext(ctx, "ssh-agent", "-c").Output()
}

// CachePath is where the environment of an agent started by lssh is kept.
func CachePath() string {
	return filepath.Join(xdg.CacheHome, "lssh", "ssh_agent.config")
}

// Manager resolves the agent environment for ssh.
type Manager struct {
	CachePath string
	Getenv    func(string) string
	Environ   func() []string
}

// NewManager returns a Manager using the process environment.
func NewManager() *Manager {
	return &Manager{CachePath: CachePath(), Getenv: os.Getenv, Environ: os.Environ}
}

// Environment returns the environment for ssh. A caller provided agent is
// kept as is; otherwise a cached agent is reused if it still answers, or a
// new one is started and cached.
func (m *Manager) Environment(ctx context.Context) ([]string, error) {
	if m.Getenv(sockVar) != "" {
		return m.Environ(), nil
	}
	if vars, err := m.load(); err == nil && Alive(vars[sockVar]) {
		logging.Debugf("reusing ssh-agent at %s", vars[sockVar])
		return merge(m.Environ(), vars), nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warnf("ignoring ssh-agent cache: %v", err)
	}

	out, err := startAgentFunc(ctx)
	if err != nil {
		return m.Environ(), fmt.Errorf("failed to start ssh-agent: %w", err)
	}
	vars := ParseCshOutput(string(out))
	if vars[sockVar] == "" {
		return m.Environ(), errors.New("ssh-agent did not report " + sockVar)
	}
	if err := m.save(vars); err != nil {
		logging.Warnf("could not cache ssh-agent settings: %v", err)
	}
	logging.Debugf("started ssh-agent at %s", vars[sockVar])
	return merge(m.Environ(), vars), nil
}

// ParseCshOutput extracts the variables from `ssh-agent -c` output.
func ParseCshOutput(out string) map[string]string {
	vars := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		if m := setenvLine.FindStringSubmatch(sc.Text()); m != nil {
			vars[m[1]] = m[2]
		}
	}
	return vars
}

// Alive reports whether an agent answers on sock.
func Alive(sock string) bool {
	if sock == "" {
		return false
	}
	conn, err := dialSocket(sock)
	if err != nil {
		return false
	}
	defer func() { _ = conn.Close() }()
	_, err = agent.NewClient(conn).List()
	return err == nil
}

func (m *Manager) load() (map[string]string, error) {
	data, err := os.ReadFile(m.CachePath)
	if err != nil {
		return nil, err
	}
	var vars map[string]string
	if err := json.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("corrupt cache %s: %w", m.CachePath, err)
	}
	return vars, nil
}

func (m *Manager) save(vars map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(m.CachePath), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(vars)
	if err != nil {
		return err
	}
	return os.WriteFile(m.CachePath, data, 0o600)
}

// merge returns env with vars set, replacing existing entries.
func merge(env []string, vars map[string]string) []string {
	out := make([]string, 0, len(env)+len(vars))
	for _, kv := range env {
		k, _, _ := strings.Cut(kv, "=")
		if _, ok := vars[k]; ok {
			continue
		}
		out = append(out, kv)
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+vars[k])
	}
	return out
}
