// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the LegiChat TUI.

All colors use Lip Gloss AdaptiveColor. The theme store switches the
light/dark resolution with lipgloss.SetHasDarkBackground, so every style
built here follows the theme toggle without being rebuilt.

# Color System (colors.go)

  - Navy - Brand color, header, active conversation
  - Gold - Sources, filter prompt, edit badge
  - Rose - Errors and delete confirmation
  - Emerald - Success notices

# Theme (theme.go)

Theme groups the styles per component: header, sidebar, message bubbles,
input area, confirmation dialog and status bar.

	theme := styles.NewTheme()
	theme.SetSize(width, height)
	if theme.GetLayoutMode().ShowSidebar() {
	    // render sidebar
	}
*/
package styles
