// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import (
	"regexp"
	"strings"
	"unicode"
)

var hostNamePattern = regexp.MustCompile(`^[A-Za-z0-9.\-_]+$`)

// AllowListEntry permits Command as RemoteCommand program for User on Hostname.
// An empty User or Hostname matches any value.
type AllowListEntry struct {
	User     string
	Hostname string
	Command  string
}

func (e AllowListEntry) permits(command, user, target string) bool {
	return e.Command == command &&
		(e.User == "" || e.User == user) &&
		(e.Hostname == "" || e.Hostname == target)
}

// Transform validates content and returns it with hardening lines injected.
//
// The whole input is always scanned. If any problem is found the returned
// string is empty and err is a *ValidationError listing all problems in the
// order they were encountered. generalProxy may be empty to disable ProxyJump
// injection.
func Transform(content string, allowList []AllowListEntry, generalProxy string) (string, error) {
	t := &transformer{
		allowList:    allowList,
		generalProxy: generalProxy,
		current:      newGlobalSection(),
	}
	for i, raw := range strings.Split(content, "\n") {
		t.handle(Classify(raw), i+1)
	}
	t.finalize()

	if len(t.problems) > 0 {
		return "", &ValidationError{Problems: t.problems}
	}
	return strings.Join(t.out, "\n"), nil
}

// transformer owns all state of a single Transform call.
type transformer struct {
	allowList    []AllowListEntry
	generalProxy string

	current  *section
	out      []string
	problems []Problem
}

func (t *transformer) report(p Problem) {
	t.problems = append(t.problems, p)
}

func (t *transformer) handle(l ConfigLine, nr int) {
	switch l.Kind {
	case LineBlank, LineComment:
		t.current.appendPassive(l)
	case LineSetting:
		t.addSetting(l, nr)
	default:
		t.report(syntaxProblem(nr))
	}
}

func (t *transformer) addSetting(l ConfigLine, nr int) {
	s := t.current
	value := strings.TrimSpace(l.Argument)

	switch lookupSpecial(l.Keyword) {
	case specialHost:
		t.openSection(l, value, nr)

	case specialHostName:
		switch {
		case s.scope != scopeHost:
			t.report(scopeProblem(l.Keyword, nr))
		case s.connectTarget.set:
			t.report(duplicateProblem(l.Keyword, nr, s.connectTarget.line))
		default:
			s.connectTarget.assign(value, nr)
			s.appendSetting(l)
		}

	case specialUser:
		if s.scope == scopeHost && s.username.set {
			t.report(duplicateProblem(l.Keyword, nr, s.username.line))
		}
		// The later value wins even after a duplicate was reported.
		s.username.assign(value, nr)
		s.appendSetting(l)

	case specialRemoteCommand:
		program, ok := ParseEscapedCommand(l.Argument)
		switch {
		case !ok:
			t.report(unsafeCommandProblem(l.Argument, nr))
		case s.scope != scopeHost:
			t.report(scopeProblem(l.Keyword, nr))
		case s.remoteCommand.set:
			t.report(duplicateProblem(l.Keyword, nr, s.remoteCommand.line))
		default:
			s.remoteCommand.assign(program, nr)
			s.appendSetting(l)
		}

	case specialProxyJump:
		s.proxyGiven = true
		s.appendSetting(l)

	case specialHostKeyAlias:
		switch {
		case s.scope != scopeHost || value != s.host:
			t.report(policyProblem(l.Keyword, nr))
		case s.hostKeyAlias.set:
			t.report(duplicateProblem(l.Keyword, nr, s.hostKeyAlias.line))
		default:
			s.hostKeyAlias.assign(value, nr)
			s.appendSetting(l)
		}

	default:
		if !IsAllowed(l.Keyword) {
			t.report(policyProblem(l.Keyword, nr))
			return
		}
		s.appendSetting(l)
	}
}

// openSection closes the current section and starts the block of a Host line.
func (t *transformer) openSection(l ConfigLine, pattern string, nr int) {
	t.finalize()

	switch {
	case strings.ContainsAny(pattern, "*?") || strings.IndexFunc(pattern, unicode.IsSpace) >= 0:
		t.current = newHostSection(scopeWildcard, "", l.Raw)
	case !hostNamePattern.MatchString(pattern):
		t.report(invalidHostProblem(pattern, nr))
		t.current = newHostSection(scopeWildcard, "", l.Raw)
	default:
		t.current = newHostSection(scopeHost, pattern, l.Raw)
	}
}

// finalize checks the current section and moves its lines to the output.
func (t *transformer) finalize() {
	s := t.current
	if s.scope == scopeHost {
		if s.remoteCommand.set {
			t.checkCommand(s)
		}
		s.insert(s.hardening(t.generalProxy))
	}
	t.out = append(t.out, s.lines...)
}

func (t *transformer) checkCommand(s *section) {
	target := s.target()
	for _, e := range t.allowList {
		if e.permits(s.remoteCommand.value, s.username.value, target) {
			return
		}
	}
	t.report(unauthorizedCommandProblem(s.remoteCommand.value, s.remoteCommand.line, s.username.value, target))
}
