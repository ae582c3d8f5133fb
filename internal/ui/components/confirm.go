// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/styles"
)

// DeleteConversationPrompt is asked before a conversation is deleted.
const DeleteConversationPrompt = "Êtes-vous sûr de vouloir supprimer cette conversation ?"

// =============================================================================
// CONFIRM DIALOG - Yes/no prompt
// =============================================================================

// Confirm is a modal yes/no prompt. The subject identifies what is being
// confirmed and is echoed back in ConfirmResultMsg.
type Confirm struct {
	theme   *styles.Theme
	subject string
	title   string
	message string
	yes     bool
	visible bool
}

// NewConfirm creates a hidden dialog.
func NewConfirm(theme *styles.Theme) *Confirm {
	return &Confirm{theme: theme}
}

// Show opens the dialog with "Annuler" preselected.
func (c *Confirm) Show(subject, title, message string) {
	c.subject = subject
	c.title = title
	c.message = message
	c.yes = false
	c.visible = true
}

// Visible reports whether the dialog is open.
func (c *Confirm) Visible() bool {
	return c.visible
}

// Subject returns what the open dialog is about.
func (c *Confirm) Subject() string {
	return c.subject
}

// Update handles keys while the dialog is open.
func (c *Confirm) Update(msg tea.Msg) tea.Cmd {
	if !c.visible {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		c.yes = !c.yes
		return nil
	case "y", "Y", "o", "O":
		return c.answer(true)
	case "n", "N", "esc":
		return c.answer(false)
	case "enter":
		return c.answer(c.yes)
	}
	return nil
}

func (c *Confirm) answer(yes bool) tea.Cmd {
	c.visible = false
	return emit(ConfirmResultMsg{Subject: c.subject, Confirmed: yes})
}

// View renders the dialog centered in width x height.
func (c *Confirm) View(width, height int) string {
	if !c.visible {
		return ""
	}

	yesBtn, noBtn := c.theme.ConfirmButton, c.theme.ConfirmActive
	if c.yes {
		yesBtn, noBtn = c.theme.ConfirmActive, c.theme.ConfirmButton
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		yesBtn.Render("Supprimer (o)"),
		noBtn.Render("Annuler (n)"),
	)

	body := lipgloss.JoinVertical(lipgloss.Center,
		c.theme.ConfirmTitle.Render(c.title),
		"",
		c.message,
		"",
		buttons,
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, c.theme.ConfirmBox.Render(body))
}
