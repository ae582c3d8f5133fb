// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/lipgloss"
)

// View renders the full screen: header, sidebar and thread, input, status.
func (m Model) View() string {
	var body string
	switch {
	case m.confirm.Visible():
		body = m.confirm.View(m.width, m.bodyHeight())
	case m.styles.GetLayoutMode().ShowSidebar():
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.thread.View())
	default:
		body = m.thread.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.input.View(),
		m.status.View(),
	)
}
