// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import (
	"strings"

	"github.com/alessio/shellescape"
)

// IsLiteral reports whether token means exactly its own characters to a shell,
// i.e. quoting it for safe execution leaves it unchanged. The empty string is
// not literal because it has to be quoted to survive word splitting.
func IsLiteral(token string) bool {
	return shellescape.Quote(token) == token
}

// ParseEscapedCommand extracts the program of a RemoteCommand value.
//
// The command is split into blank separated words. A word is a concatenation of
// unquoted runs that pass IsLiteral, single-quoted strings and the empty string
// idiom "". Every word of the command has to parse, but only the first one, with
// its quoting removed, is returned. ok is false when any part of the command
// could carry shell syntax beyond plain words.
func ParseEscapedCommand(command string) (program string, ok bool) {
	var first strings.Builder
	words := 0
	inWord := false

	for i := 0; i < len(command); {
		switch c := command[i]; {
		case c == ' ' || c == '\t':
			if inWord {
				words++
				inWord = false
			}
			i++
		case c == '\'':
			end := strings.IndexByte(command[i+1:], '\'')
			if end < 0 {
				return "", false
			}
			if words == 0 {
				first.WriteString(command[i+1 : i+1+end])
			}
			inWord = true
			i += end + 2
		case c == '"':
			if i+1 >= len(command) || command[i+1] != '"' {
				return "", false
			}
			inWord = true
			i += 2
		default:
			j := i
			for j < len(command) && !strings.ContainsRune(" \t'\"", rune(command[j])) {
				j++
			}
			run := command[i:j]
			if !IsLiteral(run) {
				return "", false
			}
			if words == 0 {
				first.WriteString(run)
			}
			inWord = true
			i = j
		}
	}

	if first.Len() == 0 {
		return "", false
	}
	return first.String(), true
}

// SuggestQuoting returns a shell-safe spelling of a whitespace separated
// argument. It is a hint for users and may not preserve what they meant.
func SuggestQuoting(argument string) string {
	return shellescape.QuoteCommand(strings.Fields(argument))
}
