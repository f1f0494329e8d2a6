// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

// scope tags what a section stands for. Only scopeHost sections carry a host
// name and are subject to the single-host field rules.
type scope int

const (
	scopeGlobal scope = iota
	scopeWildcard
	scopeHost
)

// defaultIndent is used for hardening lines of a host block that has no
// settings to copy the indentation from.
const defaultIndent = "  "

// field is a per-section value that may be set at most once.
type field struct {
	value string
	line  int
	set   bool
}

func (f *field) assign(value string, line int) {
	f.value = value
	f.line = line
	f.set = true
}

type section struct {
	scope scope
	host  string

	connectTarget field
	username      field
	remoteCommand field
	hostKeyAlias  field
	proxyGiven    bool

	lines    []string
	insertAt int
	indent   string
}

func newGlobalSection() *section {
	return &section{scope: scopeGlobal}
}

// newHostSection opens a block for heading. host is ignored unless sc is
// scopeHost.
func newHostSection(sc scope, host, heading string) *section {
	s := &section{
		scope:  sc,
		lines:  []string{heading},
		indent: defaultIndent,
	}
	s.insertAt = len(s.lines)
	if sc == scopeHost {
		s.host = host
	}
	return s
}

// appendSetting adds a setting line and moves the insertion point behind it.
func (s *section) appendSetting(l ConfigLine) {
	s.lines = append(s.lines, l.Raw)
	s.insertAt = len(s.lines)
	s.indent = l.Indent
}

// appendPassive adds a blank or comment line without moving the insertion point.
func (s *section) appendPassive(l ConfigLine) {
	s.lines = append(s.lines, l.Raw)
}

// target is the identity the connection ends up at.
func (s *section) target() string {
	if s.connectTarget.set {
		return s.connectTarget.value
	}
	return s.host
}

// hardening returns the lines to inject when the section closes.
func (s *section) hardening(generalProxy string) []string {
	var out []string
	if s.connectTarget.set && !s.hostKeyAlias.set {
		out = append(out, s.indent+"HostKeyAlias "+s.host)
	}
	if generalProxy != "" && !s.proxyGiven && s.host != generalProxy {
		out = append(out, s.indent+"ProxyJump "+generalProxy)
	}
	return out
}

// insert places lines at the insertion point.
func (s *section) insert(lines []string) {
	if len(lines) == 0 {
		return
	}
	merged := make([]string, 0, len(s.lines)+len(lines))
	merged = append(merged, s.lines[:s.insertAt]...)
	merged = append(merged, lines...)
	merged = append(merged, s.lines[s.insertAt:]...)
	s.lines = merged
	s.insertAt += len(lines)
}
