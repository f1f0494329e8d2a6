// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the selection dialogs lssh shows when more than one
// host or recording matches.
// This file defines the shared lipgloss styles of the dialogs.
package tui // import "github.com/toeirei/lssh/internal/tui"

import "github.com/charmbracelet/lipgloss"

// colorPalette defines the core colors used in the TUI.
const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // Teal
	colorWhite     = lipgloss.Color("231")
	colorDimBg     = lipgloss.Color("237")
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	helpStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Padding(0, 1)

	itemStyle         = lipgloss.NewStyle()
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(colorHighlight)
	// Cursor of the column that lost focus.
	parkedItemStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(colorDimBg)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)
	activePaneStyle = paneStyle.BorderForeground(colorHighlight)
)
