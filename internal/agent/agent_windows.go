// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build windows

package agent

import (
	"net"
	"os"

	"github.com/Microsoft/go-winio"
	"github.com/davidmz/go-pageant"
	"golang.org/x/crypto/ssh/agent"
)

const defaultPipe = `\\.\pipe\openssh-ssh-agent`

func dialSocket(sock string) (net.Conn, error) {
	return winio.DialPipe(sock, nil)
}

// Connect returns a client for a running agent. Pageant compatible agents
// are preferred over the OpenSSH agent pipe.
func Connect() agent.Agent {
	if pageant.Available() {
		return pageant.New()
	}
	sock := os.Getenv(sockVar)
	if sock == "" {
		sock = defaultPipe
	}
	if conn, err := dialSocket(sock); err == nil {
		return agent.NewClient(conn)
	}
	return nil
}
