// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the data structures shared between the host loader,
// the cache and the selection front end.
package model // import "github.com/toeirei/lssh/internal/model"

import (
	"sort"
	"strings"
)

// HostEntry is one selectable host from the host source directory.
type HostEntry struct {
	DisplayName string   // The Host pattern, also what ssh is called with.
	Customer    string   // Base name of the file the host came from, or its assigned customer.
	Keywords    []string // Sorted, unique search keywords. Always contains the customer.
	Jumphost    string   // First ProxyJump value of the host block, empty if none.
}

// String returns the display name.
func (h HostEntry) String() string {
	return h.DisplayName
}

// AddKeywords merges kw into the keyword set, dropping blanks and keeping
// the slice sorted.
func (h *HostEntry) AddKeywords(kw ...string) {
	seen := make(map[string]struct{}, len(h.Keywords)+len(kw))
	for _, k := range h.Keywords {
		seen[k] = struct{}{}
	}
	for _, k := range kw {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		h.Keywords = append(h.Keywords, k)
	}
	sort.Strings(h.Keywords)
}

// Recording identifies a recorded session directory.
type Recording struct {
	Dir       string // Directory name below the recordings base dir.
	Timestamp string // YYYY-MM-DD_hh-mm-ss.
	Name      string // Host name, possibly with a trailing counter.
}
