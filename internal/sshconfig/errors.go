// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a validation problem.
type ErrorKind int

const (
	// KindSyntax is a line that is neither blank, a comment nor a setting.
	KindSyntax ErrorKind = iota + 1
	// KindPolicy is a keyword that is not allow-listed.
	KindPolicy
	// KindScope is HostName or RemoteCommand outside a single-host block.
	KindScope
	// KindDuplicate is a per-section field set twice.
	KindDuplicate
	// KindUnsafeCommand is a RemoteCommand that cannot be parsed into a literal program.
	KindUnsafeCommand
	// KindUnauthorizedCommand is a RemoteCommand missing from the command allow-list.
	KindUnauthorizedCommand
	// KindInvalidHost is a single-host pattern with characters outside [A-Za-z0-9.-_].
	KindInvalidHost
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindPolicy:
		return "policy"
	case KindScope:
		return "scope"
	case KindDuplicate:
		return "duplicate"
	case KindUnsafeCommand:
		return "unsafe-command"
	case KindUnauthorizedCommand:
		return "unauthorized-command"
	case KindInvalidHost:
		return "invalid-host"
	default:
		return "unknown"
	}
}

// Problem is one finding of a validation run. Message is the stable, human
// readable text that tooling may parse.
type Problem struct {
	Line    int
	Kind    ErrorKind
	Message string
}

func (p Problem) String() string {
	return p.Message
}

// ValidationError is returned by Transform when the input contains at least one
// problem. Problems are ordered as they were encountered.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0].Message
	}
	return fmt.Sprintf("%d problems: %s", len(e.Problems), strings.Join(e.Messages(), "; "))
}

// Messages returns the problem messages in order.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p.Message)
	}
	return out
}

func syntaxProblem(line int) Problem {
	return Problem{line, KindSyntax, fmt.Sprintf("Line %d could not be parsed by the validator.", line)}
}

func policyProblem(keyword string, line int) Problem {
	return Problem{line, KindPolicy, fmt.Sprintf("Option %s (line %d) is not whitelisted.", keyword, line)}
}

func scopeProblem(keyword string, line int) Problem {
	return Problem{line, KindScope, fmt.Sprintf("Option %s (line %d) is not allowed outside a single-host block.", keyword, line)}
}

func duplicateProblem(keyword string, line, previous int) Problem {
	return Problem{line, KindDuplicate, fmt.Sprintf("Option %s (line %d) was already set in line %d.", keyword, line, previous)}
}

func unsafeCommandProblem(argument string, line int) Problem {
	return Problem{line, KindUnsafeCommand, fmt.Sprintf(
		"RemoteCommand (line %d) could not be parsed safely. A shell-safe version might be (this could be incorrect): RemoteCommand %s",
		line, SuggestQuoting(argument))}
}

func unauthorizedCommandProblem(command string, line int, user, target string) Problem {
	if user == "" {
		user = "<any user>"
	}
	return Problem{line, KindUnauthorizedCommand, fmt.Sprintf(
		"RemoteCommand %s (line %d) is not whitelisted for user %s on host %s.", command, line, user, target)}
}

func invalidHostProblem(argument string, line int) Problem {
	return Problem{line, KindInvalidHost, fmt.Sprintf("Host %s (line %d) contains invalid characters.", argument, line)}
}
