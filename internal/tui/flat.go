// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/lssh/internal/i18n"
)

// flatModel lets the user pick one entry of a single list.
type flatModel struct {
	heading string
	list    list
	height  int
	chosen  int
	done    bool
}

func newFlatModel(options []string, heading string) flatModel {
	return flatModel{heading: heading, list: list{items: options}, chosen: -1}
}

func (m flatModel) Init() tea.Cmd {
	return nil
}

func (m flatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		case "up", "k":
			m.list.up()
		case "down", "j":
			m.list.down()
		case "pgup":
			m.list.page(-bodyRows(m.height))
		case "pgdown":
			m.list.page(bodyRows(m.height))
		case "home", "g":
			m.list.home()
		case "end", "G":
			m.list.end()
		case "enter":
			if len(m.list.items) > 0 {
				m.chosen = m.list.cursor
			}
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m flatModel) View() string {
	if m.done {
		return ""
	}
	body := paneStyle.Render(m.list.render(bodyRows(m.height), selectedItemStyle))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.heading),
		body,
		helpStyle.Render(i18n.T("dialog.help_flat")),
	))
}
