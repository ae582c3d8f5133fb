// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultConversationTitle is used when a conversation is created without a title.
const DefaultConversationTitle = "Nouvelle conversation"

// conversationIDPrefix marks conversation ids apart from message ids.
const conversationIDPrefix = "conv-"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is a chat session. Messages are stored separately and refer
// back to it through Message.ConversationID.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Preview is the beginning of the first user message, shown in the sidebar.
	Preview string `json:"preview,omitempty"`
}

// NewConversation creates a conversation with a generated ID.
// An empty title falls back to DefaultConversationTitle.
func NewConversation(title string) *Conversation {
	if title == "" {
		title = DefaultConversationTitle
	}
	now := time.Now()
	return &Conversation{
		ID:        conversationIDPrefix + uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// HasPreview returns true if a preview has been recorded.
func (c *Conversation) HasPreview() bool {
	return c.Preview != ""
}
