// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// runProgram runs a dialog model to completion. Tests replace it to feed
// key messages without a terminal.
var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// FlatOptionDialog lets the user choose one of options. ok is false when the
// user aborted.
func FlatOptionDialog(options []string, heading string) (idx int, ok bool, err error) {
	if len(options) == 0 {
		return -1, false, nil
	}
	final, err := runProgram(newFlatModel(options, heading))
	if err != nil {
		return -1, false, fmt.Errorf("dialog failed: %w", err)
	}
	m, _ := final.(flatModel)
	if m.chosen < 0 {
		return -1, false, nil
	}
	return m.chosen, true, nil
}

// HierarchicalOptionDialog lets the user choose a group and then one of its
// items. Groups are listed by their display name, falling back to the group
// name. The returned indices refer to groups and to the chosen group's Items.
func HierarchicalOptionDialog(groups []Group, displayNames map[string]string, groupHeading, itemHeading string) (group, item int, ok bool, err error) {
	if len(groups) == 0 {
		return -1, -1, false, nil
	}
	final, err := runProgram(newHierModel(groups, displayNames, groupHeading, itemHeading))
	if err != nil {
		return -1, -1, false, fmt.Errorf("dialog failed: %w", err)
	}
	m, _ := final.(hierModel)
	if !m.ok {
		return -1, -1, false, nil
	}
	return m.chosen[0], m.chosen[1], true, nil
}
