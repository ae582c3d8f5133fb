// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types persisted by the stores and
// exchanged with the answer backend.
//
// # Key Types
//
//   - Conversation: a chat session (title, timestamps, optional preview)
//   - Message: a single message tied to a conversation by ConversationID
//   - Role: message author (user, assistant)
//   - ResponseMetadata: structured answer info (response type, country, sources)
//   - MessagePatch: shallow partial update applied by the message store
//
// # Usage
//
//	conv := model.NewConversation("")
//	msg := model.NewMessage(conv.ID, "Qu'est-ce qu'un bail commercial ?", model.RoleUser)
package model
