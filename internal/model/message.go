// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the label shown above a message bubble.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "Vous"
	case RoleAssistant:
		return "LegiChat"
	default:
		return string(r)
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Content        string    `json:"content"`
	Role           Role      `json:"role"`
	Timestamp      time.Time `json:"timestamp"`

	// IsLoading marks the assistant placeholder while a reply is pending.
	// It is runtime state and never persisted.
	IsLoading bool `json:"-"`

	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

// NewMessage creates a message with a generated ID and the current time.
func NewMessage(conversationID, content string, role Role) *Message {
	return &Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Content:        content,
		Role:           role,
		Timestamp:      time.Now(),
	}
}

// IsUser returns true if this is a user message.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant returns true if this is an assistant message.
func (m *Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// HasSources returns true if the message carries at least one source citation.
func (m *Message) HasSources() bool {
	return m.Metadata != nil && len(m.Metadata.Sources) > 0
}

// Clone returns a copy of the message. Metadata is copied deeply.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Metadata = m.Metadata.Clone()
	return &cp
}

// =============================================================================
// PARTIAL UPDATES
// =============================================================================

// MessagePatch is a shallow partial update. Nil fields are left untouched.
type MessagePatch struct {
	Content   *string
	Role      *Role
	Timestamp *time.Time
	IsLoading *bool
	Metadata  *ResponseMetadata
}

// Apply merges the non-nil fields of p into m.
func (p MessagePatch) Apply(m *Message) {
	if p.Content != nil {
		m.Content = *p.Content
	}
	if p.Role != nil {
		m.Role = *p.Role
	}
	if p.Timestamp != nil {
		m.Timestamp = *p.Timestamp
	}
	if p.IsLoading != nil {
		m.IsLoading = *p.IsLoading
	}
	if p.Metadata != nil {
		m.Metadata = p.Metadata.Clone()
	}
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
