// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/styles"
)

// init matches the lipgloss profile to the terminal so piped output stays plain.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// Shared styles for command output. They reuse the TUI palette so both
// surfaces look alike.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Gold)

	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(22)

	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Gold).
			Bold(true)
)

// RenderConditional renders text with style only when colors are enabled.
func RenderConditional(style lipgloss.Style, text string) string {
	if !ColorsEnabled() {
		return text
	}
	return style.Render(text)
}

// RenderLabel renders a fixed-width field label.
func RenderLabel(label string) string {
	return RenderConditional(LabelStyle, label)
}

// RenderKeyValue renders one "label value" line.
func RenderKeyValue(label, value string) string {
	if !ColorsEnabled() {
		return padRight(label, 22) + value
	}
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}

// RenderSeparator renders a horizontal rule of width cells (70 by default).
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 70
	}
	return RenderConditional(DimStyle, strings.Repeat("─", width))
}

func padRight(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s + " "
}
