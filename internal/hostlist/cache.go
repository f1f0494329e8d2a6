// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package hostlist

import (
	"context"
	"fmt"

	"github.com/toeirei/lssh/internal/db"
	"github.com/toeirei/lssh/internal/model"
)

// Refresh stores ix in the cache when the cache is older than the source.
// It reports whether the cache was rewritten.
func Refresh(ctx context.Context, st db.Store, ix *Index) (bool, error) {
	stamp, err := st.Stamp(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read cache stamp: %w", err)
	}
	if !stamp.IsZero() && !stamp.Before(ix.Newest) {
		return false, nil
	}
	if err := st.ReplaceHosts(ctx, ix.Entries(), ix.DisplayNames, ix.Newest); err != nil {
		return false, fmt.Errorf("failed to update host cache: %w", err)
	}
	return true, nil
}

// Cached returns the cached hosts. When the cache is empty, dir is loaded
// and cached first.
func Cached(ctx context.Context, st db.Store, dir string) ([]model.HostEntry, error) {
	stamp, err := st.Stamp(ctx)
	if err != nil {
		return nil, err
	}
	if stamp.IsZero() {
		ix, err := Load(dir)
		if err != nil {
			return nil, err
		}
		if _, err := Refresh(ctx, st, ix); err != nil {
			return nil, err
		}
		return ix.Entries(), nil
	}
	return st.Hosts(ctx)
}
