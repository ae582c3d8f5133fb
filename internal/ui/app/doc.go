// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the root Bubble Tea model of the LegiChat TUI.
//
// The model wires the presentation components to the conversation and
// message stores, the chat controller and the theme store. Store signals
// mark the view dirty; the model re-reads the stores once per update.
//
// An exchange runs as a tea.Cmd off the event loop. Its result comes back
// as a message and is resolved by the controller on the event loop.
//
// Key bindings:
//   - Enter: send the question (or open the conversation picked with arrows)
//   - Esc: interrupt the pending reply, or leave edit mode
//   - Ctrl+N: new conversation
//   - Up/Down: move through conversations
//   - Ctrl+X: delete the highlighted conversation
//   - /: filter conversations (empty input only)
//   - Ctrl+E: edit the last question
//   - Ctrl+T: toggle light/dark theme
//   - Ctrl+Y: copy the last answer
//   - PgUp/PgDn: scroll the thread
//   - Ctrl+C: quit
package app
