// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme stores the light/dark preference and applies it.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// DetectDark reports whether the terminal background is dark.
func DetectDark() bool {
	return termenv.HasDarkBackground()
}

// TerminalApplier switches every lipgloss.AdaptiveColor to the chosen theme,
// then notifies onChange (used to swap the markdown style).
type TerminalApplier struct {
	onChange func(Theme)
}

// NewTerminalApplier creates a terminal applier. onChange may be nil.
func NewTerminalApplier(onChange func(Theme)) *TerminalApplier {
	return &TerminalApplier{onChange: onChange}
}

// Apply implements Applier.
func (a *TerminalApplier) Apply(t Theme) {
	lipgloss.SetHasDarkBackground(t == Dark)
	if a.onChange != nil {
		a.onChange(t)
	}
}
