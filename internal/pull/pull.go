// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// package pull fetches the host source files from a central server over
// SFTP so they can be imported like a local directory.
package pull // import "github.com/toeirei/lssh/internal/pull"

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"github.com/toeirei/lssh/internal/agent"
	"github.com/toeirei/lssh/internal/hostlist"
	"github.com/toeirei/lssh/internal/logging"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// ErrNoAgent is returned when no ssh-agent is available for authentication.
var ErrNoAgent = errors.New("no ssh-agent available for authentication")

// Config locates the host source on the server.
type Config struct {
	Address    string // host or host:port
	User       string
	Path       string // remote directory holding the *.txt files
	KnownHosts string // known_hosts file used to verify the server
	Timeout    time.Duration
}

// Puller holds an open SFTP session.
type Puller struct {
	client *ssh.Client
	sftp   *sftp.Client
}

// Dial connects to the source server. Authentication uses the keys of the
// running ssh-agent; the server key must be listed in cfg.KnownHosts.
func Dial(ctx context.Context, cfg Config) (*Puller, error) {
	if cfg.Address == "" {
		return nil, errors.New("no source address configured")
	}
	known := cfg.KnownHosts
	if known == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		known = filepath.Join(home, ".ssh", "known_hosts")
	}
	hostKeyCallback, err := knownhosts.New(known)
	if err != nil {
		return nil, fmt.Errorf("failed to read known hosts %s: %w", known, err)
	}
	ag := agent.Connect()
	if ag == nil {
		return nil, ErrNoAgent
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	config := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeysCallback(ag.Signers)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}

	// Add port 22 if not specified.
	addr := cfg.Address
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "22")
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}
	client := ssh.NewClient(c, chans, reqs)
	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to start sftp session: %w", err)
	}
	return &Puller{client: client, sftp: sftpClient}, nil
}

// Close ends the SFTP session and the SSH connection.
func (p *Puller) Close() {
	if p.sftp != nil {
		_ = p.sftp.Close()
	}
	if p.client != nil {
		_ = p.client.Close()
	}
}

// Fetch copies the host files of remoteDir into localDir, which must be
// empty or hold a previous fetch. It returns the names of the copied files.
func (p *Puller) Fetch(remoteDir, localDir string) ([]string, error) {
	return fetch(p.sftp, remoteDir, localDir)
}

func fetch(c *sftp.Client, remoteDir, localDir string) ([]string, error) {
	infos, err := c.ReadDir(remoteDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", remoteDir, err)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return nil, err
	}
	// Drop files of an earlier fetch so removals on the server carry over.
	old, err := hostlist.HostFiles(localDir)
	if err != nil {
		return nil, err
	}
	for _, n := range old {
		_ = os.Remove(filepath.Join(localDir, n))
	}

	var names []string
	for _, fi := range infos {
		if !fi.Mode().IsRegular() || !strings.HasSuffix(fi.Name(), hostlist.FileSuffix) {
			continue
		}
		if err := copyFile(c, path.Join(remoteDir, fi.Name()), filepath.Join(localDir, fi.Name())); err != nil {
			return names, err
		}
		names = append(names, fi.Name())
	}
	logging.Debugf("fetched %d host files from %s", len(names), remoteDir)
	return names, nil
}

func copyFile(c *sftp.Client, remote, local string) error {
	src, err := c.Open(remote)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", remote, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(local, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to copy %s: %w", remote, err)
	}
	return dst.Close()
}

// Pull connects with cfg and fetches cfg.Path into staging.
func Pull(ctx context.Context, cfg Config, staging string) ([]string, error) {
	p, err := Dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Fetch(cfg.Path, staging)
}
