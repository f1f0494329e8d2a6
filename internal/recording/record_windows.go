// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build windows

package recording

import "context"

// Record is not available on Windows.
func Record(ctx context.Context, s Session) (int, error) {
	return -1, ErrUnsupported
}
