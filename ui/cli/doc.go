// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the lssh command line using Cobra. It wires the
// configuration, logging, translations and the host index, then delegates to
// the internal packages for host selection, config import and recordings.
package cli
