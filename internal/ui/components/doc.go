// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the LegiChat TUI.

# Components

  - Sidebar: conversation list with relative dates and a "/" filter
  - Thread: viewport of message bubbles with a spinner for pending replies
  - InputArea: question field with edit mode and a disabled state
  - Confirm: yes/no modal used before deleting a conversation
  - Header: brand, active title and theme indicator
  - StatusBar: key hints and transient notices

# Intents

Components hold no references to the stores. User intents leave as
tea.Msg values (SubmitMsg, StopMsg, SelectConversationMsg, ...) and the
app model applies them.

	input := components.NewInputArea(theme)
	cmd := input.Update(keyMsg) // may emit SubmitMsg
*/
package components
