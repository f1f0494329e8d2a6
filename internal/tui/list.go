// Copyright (c) 2026 Keymaster Team
// lssh - SSH host selection and config distribution
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// list is a scrollable cursor over a slice of labels.
type list struct {
	items  []string
	cursor int
	offset int
}

func (l *list) up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

func (l *list) down() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
	}
}

func (l *list) page(n int) {
	l.cursor += n
	if l.cursor < 0 {
		l.cursor = 0
	}
	if l.cursor > len(l.items)-1 {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *list) home() { l.cursor = 0 }

func (l *list) end() {
	if len(l.items) > 0 {
		l.cursor = len(l.items) - 1
	}
}

// scroll keeps the cursor inside a window of rows lines.
func (l *list) scroll(rows int) {
	if rows < 1 {
		rows = 1
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+rows {
		l.offset = l.cursor - rows + 1
	}
}

func (l *list) render(rows int, cursorStyle lipgloss.Style) string {
	l.scroll(rows)
	var b strings.Builder
	end := l.offset + rows
	if end > len(l.items) {
		end = len(l.items)
	}
	for i := l.offset; i < end; i++ {
		if i > l.offset {
			b.WriteByte('\n')
		}
		if i == l.cursor {
			b.WriteString(cursorStyle.Render("▸ " + l.items[i]))
		} else {
			b.WriteString(itemStyle.Render("  " + l.items[i]))
		}
	}
	return b.String()
}

// bodyRows is the number of list rows that fit into a terminal of height h.
func bodyRows(h int) int {
	const chrome = 7 // margins, title, borders, help line
	if h <= 0 {
		return 20
	}
	if h-chrome < 3 {
		return 3
	}
	return h - chrome
}
