// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the request lifecycle of a LegiChat exchange.
//
// The Controller moves between two states. Send appends the user message and
// an empty assistant placeholder and enters AwaitingReply; Resolve writes the
// reply (or a notice) into the placeholder and returns to Idle. Stop cancels
// the pending exchange.
//
// # Threading
//
// Send, Resolve, Stop and Edit mutate the stores and must run on the UI event
// loop. Exchange.Run only calls the answer client, so it can run in a
// bubbletea command:
//
//	ex, err := ctrl.Send(text)
//	if err != nil { ... }
//	return func() tea.Msg { return ex.Run() }
//
//	// later, in Update:
//	case chat.Result:
//	    ctrl.Resolve(msg)
//
// A Result belonging to an exchange that was stopped or superseded is dropped.
package chat
