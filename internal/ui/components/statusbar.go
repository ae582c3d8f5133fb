// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Shortcuts and transient notices
// =============================================================================

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// IdleShortcuts are shown when no reply is pending.
var IdleShortcuts = []Shortcut{
	{"enter", "envoyer"},
	{"ctrl+n", "nouvelle"},
	{"↑/↓", "naviguer"},
	{"ctrl+x", "supprimer"},
	{"/", "filtrer"},
	{"ctrl+e", "modifier"},
	{"ctrl+y", "copier"},
	{"ctrl+s", "exporter"},
	{"ctrl+c", "quitter"},
}

// GeneratingShortcuts are shown while a reply is pending.
var GeneratingShortcuts = []Shortcut{
	{"esc", "interrompre"},
	{"pgup/pgdn", "défiler"},
	{"ctrl+c", "quitter"},
}

// StatusBar renders key hints, or a notice when one is set.
type StatusBar struct {
	Width      int
	Generating bool
	Notice     string
	theme      *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the status bar on one line.
func (s *StatusBar) View() string {
	width := s.Width
	if width < 20 {
		width = 20
	}

	if s.Notice != "" {
		return s.theme.StatusBar.Width(width).Render(s.Notice)
	}

	shortcuts := IdleShortcuts
	if s.Generating {
		shortcuts = GeneratingShortcuts
	}

	var parts []string
	used := 0
	for _, sc := range shortcuts {
		part := s.theme.ShortcutKey.Render(sc.Key) + " " + s.theme.ShortcutDesc.Render(sc.Desc)
		if used+lipgloss.Width(part)+3 > width-2 {
			break
		}
		parts = append(parts, part)
		used += lipgloss.Width(part) + 3
	}
	return s.theme.StatusBar.Width(width).Render(strings.Join(parts, "   "))
}
