// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/styles"
)

// MaxInputChars caps a single question.
const MaxInputChars = 4000

// DisabledText replaces the input while a reply is pending.
const DisabledText = "LegiChat rédige une réponse... (Échap pour interrompre)"

// =============================================================================
// INPUT AREA COMPONENT - Question field with edit mode
// =============================================================================

// InputArea is the question field. Enter submits the trimmed text; Esc
// stops a pending reply or leaves edit mode.
type InputArea struct {
	input    textinput.Model
	theme    *styles.Theme
	width    int
	disabled bool
	editID   string
}

// NewInputArea creates a focused input area.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "Posez votre question juridique..."
	ti.CharLimit = MaxInputChars
	ti.Width = 70
	ti.Prompt = "> "

	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Navy)
	ti.Focus()

	return &InputArea{
		input: ti,
		theme: theme,
		width: 80,
	}
}

// SetWidth sets the input area width
func (i *InputArea) SetWidth(width int) {
	i.width = width
	inputWidth := width - 8
	if i.editID != "" {
		inputWidth -= 15 // edit badge
	}
	if inputWidth < 10 {
		inputWidth = 10
	}
	i.input.Width = inputWidth
}

// SetDisabled blocks typing and submission while a reply is pending.
func (i *InputArea) SetDisabled(disabled bool) {
	i.disabled = disabled
	if disabled {
		i.input.Blur()
	} else {
		i.input.Focus()
	}
}

// Disabled reports whether the input is disabled.
func (i *InputArea) Disabled() bool {
	return i.disabled
}

// Value returns the current input value
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue sets the input value
func (i *InputArea) SetValue(value string) {
	i.input.SetValue(value)
	i.input.CursorEnd()
}

// Reset clears the input and leaves edit mode.
func (i *InputArea) Reset() {
	i.input.Reset()
	i.editID = ""
}

// BeginEdit prefills the input with text; the next submit replaces messageID.
func (i *InputArea) BeginEdit(messageID, text string) {
	i.editID = messageID
	i.SetValue(text)
	i.SetWidth(i.width)
}

// CancelEdit leaves edit mode and clears the field.
func (i *InputArea) CancelEdit() {
	i.Reset()
	i.SetWidth(i.width)
}

// Editing reports whether the next submit is an edit.
func (i *InputArea) Editing() bool {
	return i.editID != ""
}

// EditID returns the message being edited, if any.
func (i *InputArea) EditID() string {
	return i.editID
}

// Update handles input updates
func (i *InputArea) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if i.disabled {
				return nil
			}
			text := strings.TrimSpace(i.input.Value())
			if text == "" {
				return nil
			}
			submit := SubmitMsg{Text: text, EditID: i.editID}
			i.Reset()
			i.SetWidth(i.width)
			return emit(submit)
		case "esc":
			if i.disabled {
				return emit(StopMsg{})
			}
			if i.Editing() {
				i.CancelEdit()
			}
			return nil
		}
		if i.disabled {
			return nil
		}
	}

	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return cmd
}

// View renders the input area
func (i *InputArea) View() string {
	style := i.theme.InputContainer.Width(i.width)

	if i.disabled {
		return style.Render(i.theme.InputDisabled.Render(DisabledText))
	}

	line := i.input.View()
	if i.Editing() {
		line = i.theme.EditBadge.Render("Modification") + " " + line
	}

	count := len([]rune(i.input.Value()))
	if count > MaxInputChars*9/10 {
		line += " " + lipgloss.NewStyle().Foreground(styles.Amber).
			Render(fmt.Sprintf("%d/%d", count, MaxInputChars))
	}
	return style.Render(line)
}
