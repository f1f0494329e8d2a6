// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import "regexp"

// LineKind is the classification of one physical config line.
type LineKind int

const (
	LineUnparseable LineKind = iota
	LineBlank
	LineComment
	LineSetting
)

var (
	blankLine   = regexp.MustCompile(`^\s*$`)
	commentLine = regexp.MustCompile(`^\s*#`)
	settingLine = regexp.MustCompile(`^(\s*)([A-Za-z]+)(\s+)(\S.*)$`)
)

// ConfigLine is a classified line. The setting fields are only filled for
// LineSetting and concatenate back to Raw.
type ConfigLine struct {
	Raw      string
	Kind     LineKind
	Indent   string
	Keyword  string
	Sep      string
	Argument string
}

// Classify determines the kind of line and, for settings, splits it into its
// parts without trimming anything.
func Classify(line string) ConfigLine {
	switch {
	case blankLine.MatchString(line):
		return ConfigLine{Raw: line, Kind: LineBlank}
	case commentLine.MatchString(line):
		return ConfigLine{Raw: line, Kind: LineComment}
	}
	m := settingLine.FindStringSubmatch(line)
	if m == nil {
		return ConfigLine{Raw: line, Kind: LineUnparseable}
	}
	return ConfigLine{
		Raw:      line,
		Kind:     LineSetting,
		Indent:   m[1],
		Keyword:  m[2],
		Sep:      m[3],
		Argument: m[4],
	}
}
