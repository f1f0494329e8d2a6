// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build !windows

package agent

import (
	"net"
	"os"

	"golang.org/x/crypto/ssh/agent"
)

func dialSocket(sock string) (net.Conn, error) {
	return net.Dial("unix", sock)
}

// Connect returns a client for the agent in SSH_AUTH_SOCK, or nil if there
// is none.
func Connect() agent.Agent {
	if sock := os.Getenv(sockVar); sock != "" {
		if conn, err := dialSocket(sock); err == nil {
			return agent.NewClient(conn)
		}
	}
	return nil
}
