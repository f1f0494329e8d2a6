// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/lssh/internal/i18n"
)

// Group is one node of the left column with its children for the right one.
type Group struct {
	Name  string
	Items []string
}

// hierModel is a two column dialog: groups on the left, the items of the
// highlighted group on the right.
type hierModel struct {
	leftHeading  string
	rightHeading string
	groups       []Group
	order        []int // display position -> index into groups
	left         list
	right        list
	focusRight   bool
	height       int
	chosen       [2]int
	ok           bool
	done         bool
}

func newHierModel(groups []Group, displayNames map[string]string, leftHeading, rightHeading string) hierModel {
	label := func(name string) string {
		if d, ok := displayNames[name]; ok && d != "" {
			return d
		}
		return name
	}
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	// Case-insensitive by label, then exact label, then group name.
	sort.SliceStable(order, func(a, b int) bool {
		ga, gb := groups[order[a]], groups[order[b]]
		la, lb := label(ga.Name), label(gb.Name)
		if x, y := strings.ToLower(la), strings.ToLower(lb); x != y {
			return x < y
		}
		if la != lb {
			return la < lb
		}
		return ga.Name < gb.Name
	})
	labels := make([]string, len(order))
	for pos, idx := range order {
		labels[pos] = label(groups[idx].Name)
	}
	m := hierModel{
		leftHeading:  leftHeading,
		rightHeading: rightHeading,
		groups:       groups,
		order:        order,
		left:         list{items: labels},
	}
	m.syncRight()
	return m
}

// syncRight shows the items of the highlighted group in the right column.
func (m *hierModel) syncRight() {
	if len(m.order) == 0 {
		m.right = list{}
		return
	}
	m.right = list{items: m.groups[m.order[m.left.cursor]].Items}
}

func (m hierModel) Init() tea.Cmd {
	return nil
}

func (m hierModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
		if m.focusRight {
			return m.updateRight(key)
		}
		return m.updateLeft(key)
	}
	return m, nil
}

func (m hierModel) updateLeft(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		m.left.up()
		m.syncRight()
	case "down", "j":
		m.left.down()
		m.syncRight()
	case "pgup":
		m.left.page(-bodyRows(m.height))
		m.syncRight()
	case "pgdown":
		m.left.page(bodyRows(m.height))
		m.syncRight()
	case "home", "g":
		m.left.home()
		m.syncRight()
	case "end", "G":
		m.left.end()
		m.syncRight()
	case "enter", "right", "l", "tab":
		if len(m.right.items) > 0 {
			m.focusRight = true
		}
	}
	return m, nil
}

func (m hierModel) updateRight(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		m.right.up()
	case "down", "j":
		m.right.down()
	case "pgup":
		m.right.page(-bodyRows(m.height))
	case "pgdown":
		m.right.page(bodyRows(m.height))
	case "home", "g":
		m.right.home()
	case "end", "G":
		m.right.end()
	case "left", "h", "backspace", "shift+tab":
		m.focusRight = false
		m.right.cursor, m.right.offset = 0, 0
	case "enter":
		m.chosen = [2]int{m.order[m.left.cursor], m.right.cursor}
		m.ok = true
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m hierModel) View() string {
	if m.done {
		return ""
	}
	rows := bodyRows(m.height)
	leftCursor, rightCursor := selectedItemStyle, parkedItemStyle
	leftPane, rightPane := activePaneStyle, paneStyle
	if m.focusRight {
		leftCursor, rightCursor = parkedItemStyle, selectedItemStyle
		leftPane, rightPane = paneStyle, activePaneStyle
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.leftHeading),
		leftPane.Render(m.left.render(rows, leftCursor)),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.rightHeading),
		rightPane.Render(m.right.render(rows, rightCursor)),
	)
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right),
		helpStyle.Render(i18n.T("dialog.help_hierarchical")),
	))
}
