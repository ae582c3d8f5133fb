// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/styles"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/util"
)

// =============================================================================
// HEADER COMPONENT - Title bar with theme indicator
// =============================================================================

// Header shows the brand, the active conversation title and the theme.
type Header struct {
	Title     string
	Theme     theme.Theme
	Simulated bool
	Width     int
	styles    *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(st *styles.Theme) *Header {
	return &Header{
		Theme:  theme.Light,
		Width:  80,
		styles: st,
	}
}

// View renders the header on one line.
func (h *Header) View() string {
	width := h.Width
	if width < 30 {
		width = 30
	}

	right := h.styles.HeaderTheme.Render("[ctrl+t] " + h.Theme.Label())
	if h.Simulated {
		right = h.styles.HeaderTitle.Render("simulation") + "  " + right
	}

	left := h.styles.HeaderBrand.Render("LegiChat")
	room := width - 2 - lipgloss.Width(left) - lipgloss.Width(right) - 5
	if title := strings.TrimSpace(h.Title); title != "" && room > 3 {
		left += h.styles.HeaderTitle.Render(" | " + util.TruncateWidth(util.OneLine(title), room))
	}

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return h.styles.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
