// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import tea "github.com/charmbracelet/bubbletea"

// =============================================================================
// INTENT MESSAGES
// =============================================================================

// Components never touch the stores. They emit these messages and the app
// model applies them through the store and controller APIs.

// NewConversationMsg asks for a fresh conversation.
type NewConversationMsg struct{}

// SelectConversationMsg asks to make a conversation active.
type SelectConversationMsg struct {
	ID string
}

// DeleteConversationMsg is emitted once a deletion has been confirmed.
type DeleteConversationMsg struct {
	ID string
}

// FilterMsg carries the current sidebar filter query.
type FilterMsg struct {
	Query string
}

// SubmitMsg carries trimmed input text. EditID is set when the text
// replaces an existing user message.
type SubmitMsg struct {
	Text   string
	EditID string
}

// StopMsg asks to interrupt the pending reply.
type StopMsg struct{}

// ConfirmResultMsg reports the answer to a confirmation prompt.
type ConfirmResultMsg struct {
	Subject   string
	Confirmed bool
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
