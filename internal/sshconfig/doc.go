// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sshconfig validates and hardens ssh client configuration files that are
// distributed to many users.
//
// Every setting must be on a conservative allow-list. Host blocks are tracked so
// that a custom HostName is pinned with a HostKeyAlias, a configured general proxy
// is injected as ProxyJump, and RemoteCommand programs are checked against a
// command allow-list. Transform either returns the rewritten configuration or a
// *ValidationError listing every problem of the input; partial output is never
// returned.
//
// The package performs no I/O and keeps no state between calls, so files can be
// transformed concurrently.
package sshconfig
