// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/toeirei/lssh/internal/logging"

func dbLogf(format string, v ...any) {
	logging.Debugf(format, v...)
}
