// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"sort"
	"strings"

	"github.com/alessio/shellescape"
)

const (
	// CountedOptions are the ssh flags without a value; they may repeat.
	CountedOptions = "46AaCfGgKkMNnqsTtXxYy"
	// ValueOptions are the ssh flags taking a value; every occurrence is kept.
	ValueOptions = "BbcDEeFIiJLlmOopQRSWw"
)

// SSHOptions are the ssh flags passed through from the lssh command line.
type SSHOptions struct {
	Counted map[byte]int
	Values  map[byte][]string
	Verbose int
}

// OptionSummary lists all pass-through flags sorted case-insensitively with
// the uppercase letter first.
func OptionSummary() string {
	opts := []byte(CountedOptions + ValueOptions)
	sort.Slice(opts, func(i, j int) bool {
		li, lj := lower(opts[i]), lower(opts[j])
		if li != lj {
			return li < lj
		}
		return opts[i] < opts[j]
	})
	return string(opts)
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

// BuildSSHCommand returns the argv of the ssh invocation. Flags come in the
// order of CountedOptions then ValueOptions, followed by the verbosity flag
// and the target.
func BuildSSHCommand(opts SSHOptions, user, host string) []string {
	argv := []string{"ssh"}
	for i := 0; i < len(CountedOptions); i++ {
		c := CountedOptions[i]
		if n := opts.Counted[c]; n > 0 {
			argv = append(argv, "-"+strings.Repeat(string(c), n))
		}
	}
	for i := 0; i < len(ValueOptions); i++ {
		c := ValueOptions[i]
		for _, v := range opts.Values[c] {
			argv = append(argv, "-"+string(c), v)
		}
	}
	if opts.Verbose > 0 {
		argv = append(argv, "-"+strings.Repeat("v", opts.Verbose))
	}
	if user != "" {
		host = user + "@" + host
	}
	return append(argv, host)
}

// ShellJoin quotes argv for display and for copy and paste into a shell.
func ShellJoin(argv []string) string {
	return shellescape.QuoteCommand(argv)
}
