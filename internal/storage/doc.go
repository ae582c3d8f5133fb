// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage holds the conversation and message state of LegiChat.
//
// Both stores keep their state in memory behind a signal and write the full
// collection through the kv adapter on every mutation. Persistence failures are
// absorbed by the adapter, so the in-memory state stays authoritative for the
// running session.
//
// # Key Types
//
//   - ConversationStore: ordered conversation list plus the active pointer
//   - MessageStore: every message of every conversation, in insertion order
//
// # Usage
//
//	store := kv.NewStore(backend)
//	messages := storage.NewMessageStore(store)
//	conversations := storage.NewConversationStore(store, messages)
//
//	conv := conversations.Create("")
//	messages.Add(conv.ID, "Bonjour", model.RoleUser)
//
// # Storage Keys
//
// Conversations are stored under legichat_conversations and messages under
// legichat_messages, each as a single JSON array.
package storage
