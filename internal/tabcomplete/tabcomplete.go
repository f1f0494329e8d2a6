// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tabcomplete answers bash `complete -C` queries:
//
//	complete -C 'lssh __complete__' lssh
//
// bash runs the command with the command name, the word being completed and
// the previous word as arguments and the whole line in COMP_LINE.
package tabcomplete // import "github.com/toeirei/lssh/internal/tabcomplete"

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toeirei/lssh/internal/core"
	"github.com/toeirei/lssh/internal/model"
)

// Sources provides the data completions are drawn from.
type Sources struct {
	CompLine   string
	Options    []string // long options offered for words starting with '-'
	Hosts      func(ctx context.Context) ([]model.HostEntry, error)
	Recordings func() ([]model.Recording, error)
}

// dirFlags complete to directories.
var dirFlags = map[string]bool{"--load-from": true, "--validate": true}

// valueFlag reports whether word consumes the following word.
func valueFlag(word string) bool {
	if word == "--timestamp" || dirFlags[word] {
		return true
	}
	return len(word) == 2 && word[0] == '-' && strings.IndexByte(core.ValueOptions, word[1]) >= 0
}

// Substrings extracts the host substrings typed so far from a bash command
// line. Options and their values are skipped and the username of the first
// substring is dropped.
func Substrings(compLine string) []string {
	parts := strings.Split(compLine, " ")
	if len(parts) > 0 {
		parts = parts[1:]
	}
	var subs []string
	skip := false
	for _, p := range parts {
		switch {
		case skip:
			skip = false
		case strings.HasPrefix(p, "-"):
			skip = valueFlag(p)
		case p == "":
		default:
			subs = append(subs, p)
		}
	}
	if len(subs) > 0 {
		_, subs[0] = core.SplitUser(subs[0])
	}
	return subs
}

func containsAll(words, substrings []string) bool {
	for _, s := range substrings {
		found := false
		for _, w := range words {
			if strings.Contains(w, s) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Complete returns the completions for cur given the previous word prev.
func Complete(ctx context.Context, src Sources, cur, prev string) []string {
	var choices []string
	switch {
	case prev == "--timestamp":
		choices = timestamps(src, Substrings(src.CompLine))
	case dirFlags[prev]:
		return directories(cur)
	case strings.HasPrefix(cur, "-"):
		choices = src.Options
	default:
		choices = hostChoices(ctx, src, Substrings(src.CompLine))
		if user, rest := core.SplitUser(cur); user != "" {
			var out []string
			for _, c := range filterPrefix(choices, rest) {
				out = append(out, user+"@"+c)
			}
			return out
		}
	}
	return filterPrefix(choices, cur)
}

func filterPrefix(choices []string, prefix string) []string {
	seen := make(map[string]bool, len(choices))
	var out []string
	for _, c := range choices {
		if strings.HasPrefix(c, prefix) && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

func timestamps(src Sources, subs []string) []string {
	if src.Recordings == nil {
		return nil
	}
	recs, err := src.Recordings()
	if err != nil {
		return nil
	}
	var out []string
	for _, r := range recs {
		if containsAll([]string{r.Name}, subs) {
			out = append(out, r.Timestamp)
		}
	}
	return out
}

func hostChoices(ctx context.Context, src Sources, subs []string) []string {
	if src.Hosts == nil {
		return nil
	}
	hosts, err := src.Hosts(ctx)
	if err != nil {
		return nil
	}
	var out []string
	for _, h := range hosts {
		if !containsAll(append([]string{h.DisplayName}, h.Keywords...), subs) {
			continue
		}
		out = append(out, h.DisplayName)
		out = append(out, h.Keywords...)
	}
	return out
}

// directories lists the directories starting with cur, like `compgen -d`.
func directories(cur string) []string {
	matches, err := filepath.Glob(globEscape(cur) + "*")
	if err != nil {
		return nil
	}
	var out []string
	for _, m := range matches {
		if st, err := os.Stat(m); err == nil && st.IsDir() {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out
}

func globEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}
