// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/styles"
)

// EmptyThreadText is shown for a conversation without messages.
const EmptyThreadText = "Posez votre première question à LegiChat."

// =============================================================================
// THREAD COMPONENT - Scrollable message list
// =============================================================================

// Thread lists the active conversation's messages in a viewport. It jumps
// to the bottom whenever the messages change, but not on spinner frames.
type Thread struct {
	theme    *styles.Theme
	viewport viewport.Model
	spinner  spinner.Model
	markdown Markdown

	messages       []*model.Message
	signature      string
	showTimestamps bool

	width  int
	height int
}

// NewThread creates an empty thread.
func NewThread(theme *styles.Theme, md Markdown) *Thread {
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return &Thread{
		theme:          theme,
		viewport:       viewport.New(80, 20),
		spinner:        sp,
		markdown:       md,
		showTimestamps: true,
		width:          80,
		height:         20,
	}
}

// SetSize updates the viewport dimensions and re-renders.
func (t *Thread) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = height
	t.Refresh()
}

// SetShowTimestamps toggles HH:MM display.
func (t *Thread) SetShowTimestamps(show bool) {
	t.showTimestamps = show
	t.Refresh()
}

// SetMessages replaces the messages, scrolling to the bottom if they changed.
func (t *Thread) SetMessages(msgs []*model.Message) {
	t.messages = msgs
	sig := signatureOf(msgs)
	t.Refresh()
	if sig != t.signature {
		t.signature = sig
		t.viewport.GotoBottom()
	}
}

// Messages returns the messages shown.
func (t *Thread) Messages() []*model.Message {
	return t.messages
}

// Loading reports whether any visible message awaits its reply.
func (t *Thread) Loading() bool {
	for _, m := range t.messages {
		if m.IsLoading {
			return true
		}
	}
	return false
}

// SpinnerTick starts the spinner animation.
func (t *Thread) SpinnerTick() tea.Cmd {
	return t.spinner.Tick
}

// Refresh re-renders without moving the scroll position.
func (t *Thread) Refresh() {
	t.viewport.SetContent(t.render())
}

// Update advances the spinner and forwards scrolling input to the viewport.
func (t *Thread) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !t.Loading() {
			return nil
		}
		var cmd tea.Cmd
		t.spinner, cmd = t.spinner.Update(msg)
		t.Refresh()
		return cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			t.viewport, cmd = t.viewport.Update(msg)
			return cmd
		case "home":
			t.viewport.GotoTop()
		case "end":
			t.viewport.GotoBottom()
		}
		return nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		t.viewport, cmd = t.viewport.Update(msg)
		return cmd
	}
	return nil
}

// View renders the viewport.
func (t *Thread) View() string {
	return t.viewport.View()
}

func (t *Thread) render() string {
	if len(t.messages) == 0 {
		return lipgloss.Place(t.width, t.height, lipgloss.Center, lipgloss.Center,
			t.theme.EmptyThread.Render(EmptyThreadText))
	}

	opts := BubbleOptions{
		Width:         t.width - 1,
		ShowTimestamp: t.showTimestamps,
		Spinner:       t.spinner.View(),
		Markdown:      t.markdown,
	}

	parts := make([]string, 0, len(t.messages))
	for _, m := range t.messages {
		parts = append(parts, RenderBubble(t.theme, m, opts))
	}
	return strings.Join(parts, "\n\n")
}

func signatureOf(msgs []*model.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(m.ID)
		if m.IsLoading {
			b.WriteString("~")
		}
		b.WriteString(":")
		b.WriteString(m.Content)
		b.WriteString("|")
	}
	return b.String()
}
