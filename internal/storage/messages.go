// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage holds the conversation and message state of LegiChat.
package storage

import (
	"github.com/BenYacineSawadogo/LegiChatUi/internal/kv"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/signal"
)

// =============================================================================
// MESSAGE STORE
// =============================================================================

// MessageStore holds every message across all conversations.
//
// The slice in the signal is never mutated in place: each change publishes a
// fresh slice, so subscribers can keep the value they were handed.
type MessageStore struct {
	kv       *kv.Store
	messages *signal.Signal[[]*model.Message]
}

// NewMessageStore loads persisted messages. A missing or unparsable value
// yields an empty store.
func NewMessageStore(store *kv.Store) *MessageStore {
	var loaded []*model.Message
	if !store.GetJSON(kv.KeyMessages, &loaded) {
		loaded = nil
	}

	clean := make([]*model.Message, 0, len(loaded))
	for _, m := range loaded {
		if m != nil {
			clean = append(clean, m)
		}
	}

	return &MessageStore{
		kv:       store,
		messages: signal.New(clean),
	}
}

// Messages returns the reactive view of all messages.
func (s *MessageStore) Messages() signal.Readable[[]*model.Message] {
	return s.messages
}

// All returns a copy of every message.
func (s *MessageStore) All() []*model.Message {
	return cloneMessages(s.messages.Get())
}

// Count returns the total number of stored messages.
func (s *MessageStore) Count() int {
	return len(s.messages.Get())
}

// ListForConversation returns the messages of one conversation in insertion order.
func (s *MessageStore) ListForConversation(conversationID string) []*model.Message {
	var out []*model.Message
	for _, m := range s.messages.Get() {
		if m.ConversationID == conversationID {
			out = append(out, m.Clone())
		}
	}
	return out
}

// CountForConversation returns the number of messages in one conversation.
func (s *MessageStore) CountForConversation(conversationID string) int {
	n := 0
	for _, m := range s.messages.Get() {
		if m.ConversationID == conversationID {
			n++
		}
	}
	return n
}

// Get returns a copy of the message with the given id.
func (s *MessageStore) Get(id string) (*model.Message, bool) {
	for _, m := range s.messages.Get() {
		if m.ID == id {
			return m.Clone(), true
		}
	}
	return nil, false
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Add appends a new message and returns a copy of it.
func (s *MessageStore) Add(conversationID, content string, role model.Role) *model.Message {
	msg := model.NewMessage(conversationID, content, role)
	s.messages.Update(func(list []*model.Message) []*model.Message {
		next := make([]*model.Message, 0, len(list)+1)
		next = append(next, list...)
		return append(next, msg)
	})
	s.persist()
	return msg.Clone()
}

// Update replaces the content of a message. Unknown ids are ignored.
func (s *MessageStore) Update(id, content string) {
	if s.modify(id, func(m *model.Message) { m.Content = content }) {
		s.persist()
	}
}

// UpdateFromPartial shallow-merges patch into a message. Unknown ids are ignored.
func (s *MessageStore) UpdateFromPartial(id string, patch model.MessagePatch) {
	if s.modify(id, patch.Apply) {
		s.persist()
	}
}

// SetLoading toggles the loading flag. The flag is runtime-only, so nothing
// is written to storage.
func (s *MessageStore) SetLoading(id string, loading bool) {
	s.modify(id, func(m *model.Message) { m.IsLoading = loading })
}

// DeleteOne removes a single message.
func (s *MessageStore) DeleteOne(id string) {
	s.removeWhere(func(m *model.Message) bool { return m.ID == id })
}

// DeleteForConversation removes every message of a conversation.
func (s *MessageStore) DeleteForConversation(conversationID string) {
	s.removeWhere(func(m *model.Message) bool { return m.ConversationID == conversationID })
}

// ClearAll removes every message.
func (s *MessageStore) ClearAll() {
	s.messages.Set([]*model.Message{})
	s.persist()
}

// modify applies fn to a copy of the matching message and publishes the
// result. It reports whether a message matched.
func (s *MessageStore) modify(id string, fn func(*model.Message)) bool {
	list := s.messages.Get()
	idx := -1
	for i, m := range list {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	next := make([]*model.Message, len(list))
	copy(next, list)
	updated := list[idx].Clone()
	fn(updated)
	next[idx] = updated
	s.messages.Set(next)
	return true
}

func (s *MessageStore) removeWhere(match func(*model.Message) bool) {
	list := s.messages.Get()
	next := make([]*model.Message, 0, len(list))
	for _, m := range list {
		if !match(m) {
			next = append(next, m)
		}
	}
	if len(next) == len(list) {
		return
	}
	s.messages.Set(next)
	s.persist()
}

func (s *MessageStore) persist() {
	s.kv.SetJSON(kv.KeyMessages, s.messages.Get())
}

func cloneMessages(list []*model.Message) []*model.Message {
	out := make([]*model.Message, len(list))
	for i, m := range list {
		out[i] = m.Clone()
	}
	return out
}
