// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core holds the host selection logic behind the lssh command line:
// substring matching, grouping for the selection dialog, jump host chains
// and assembling the ssh command.
package core // import "github.com/toeirei/lssh/internal/core"

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/toeirei/lssh/internal/model"
)

var (
	// ErrNoHosts is returned by Match when the host list is empty.
	ErrNoHosts = errors.New("no hosts defined in the configuration")
	// ErrNoMatch is returned by Match when no host matches the substrings.
	ErrNoMatch = errors.New("no matching hosts found")
	// ErrUsernameNotFirst is returned when a username appears after the
	// first substring.
	ErrUsernameNotFirst = errors.New("only the first substring may contain a username")
	// ErrProxyLoop is matched by *ProxyLoopError.
	ErrProxyLoop = errors.New("there is a loop in the proxy hosts")
)

// SplitUser splits "user@substring" at the first '@'. user is empty when s
// carries no username.
func SplitUser(s string) (user, substring string) {
	i := strings.IndexByte(s, '@')
	if i < 0 {
		return "", s
	}
	return s[:i], s[i+1:]
}

// EnsureNoUsernames fails if any of the additional substrings contains '@'.
func EnsureNoUsernames(substrings []string) error {
	for _, s := range substrings {
		if strings.Contains(s, "@") {
			return fmt.Errorf("%w: %s", ErrUsernameNotFirst, s)
		}
	}
	return nil
}

func matchesOne(h model.HostEntry, sub string) bool {
	if strings.Contains(h.DisplayName, sub) {
		return true
	}
	for _, k := range h.Keywords {
		if strings.Contains(k, sub) {
			return true
		}
	}
	return false
}

// MatchesAll reports whether every substring occurs in the display name or
// in one of the keywords of h. Matching is case sensitive.
func MatchesAll(h model.HostEntry, substrings []string) bool {
	for _, s := range substrings {
		if !matchesOne(h, s) {
			return false
		}
	}
	return true
}

// Filter returns the hosts matching all substrings, keeping their order.
func Filter(hosts []model.HostEntry, substrings []string) []model.HostEntry {
	out := make([]model.HostEntry, 0, len(hosts))
	for _, h := range hosts {
		if MatchesAll(h, substrings) {
			out = append(out, h)
		}
	}
	return out
}

// Match is Filter with the empty cases turned into ErrNoHosts and ErrNoMatch.
func Match(hosts []model.HostEntry, substrings []string) ([]model.HostEntry, error) {
	if len(hosts) == 0 {
		return nil, ErrNoHosts
	}
	out := Filter(hosts, substrings)
	if len(out) == 0 {
		return nil, ErrNoMatch
	}
	return out, nil
}

// CustomerGroup is one entry of the customer column of the host dialog.
type CustomerGroup struct {
	Customer string
	Hosts    []string
}

// GroupByCustomer groups host display names by customer. Customers and the
// hosts within a customer are sorted.
func GroupByCustomer(hosts []model.HostEntry) []CustomerGroup {
	byCustomer := make(map[string][]string)
	for _, h := range hosts {
		byCustomer[h.Customer] = append(byCustomer[h.Customer], h.DisplayName)
	}
	out := make([]CustomerGroup, 0, len(byCustomer))
	for c, names := range byCustomer {
		sort.Strings(names)
		out = append(out, CustomerGroup{Customer: c, Hosts: names})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Customer < out[j].Customer })
	return out
}

// ProxyLoopError reports a cycle in the jump host configuration.
type ProxyLoopError struct {
	Loop []string // starts and ends with the repeated host
}

func (e *ProxyLoopError) Error() string {
	return fmt.Sprintf("%s: ... -> %s", ErrProxyLoop.Error(), strings.Join(e.Loop, " -> "))
}

func (e *ProxyLoopError) Is(target error) bool { return target == ErrProxyLoop }

// BuildProxyChain follows the jump hosts of selected. The result starts with
// the outermost jump host and ends with selected.
func BuildProxyChain(selected string, hosts map[string]model.HostEntry) ([]string, error) {
	chain := []string{selected}
	cur := selected
	for {
		h, ok := hosts[cur]
		if !ok || h.Jumphost == "" {
			return chain, nil
		}
		cur = h.Jumphost
		for _, c := range chain {
			if c == cur {
				return nil, &ProxyLoopError{Loop: append([]string{cur}, chain...)}
			}
		}
		chain = append([]string{cur}, chain...)
	}
}

// ByName indexes hosts by display name.
func ByName(hosts []model.HostEntry) map[string]model.HostEntry {
	out := make(map[string]model.HostEntry, len(hosts))
	for _, h := range hosts {
		out[h.DisplayName] = h
	}
	return out
}
