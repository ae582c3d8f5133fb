// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage holds the conversation and message state of LegiChat.
package storage

import (
	"strings"
	"time"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/kv"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/signal"
)

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// ConversationStore holds the ordered conversation list (newest first) and the
// id of the active conversation. Every mutation writes the full list.
type ConversationStore struct {
	kv       *kv.Store
	messages *MessageStore

	conversations *signal.Signal[[]*model.Conversation]
	activeID      *signal.Signal[string]
	active        *signal.Computed[*model.Conversation]
}

// NewConversationStore loads the persisted list. If it is non-empty, the first
// conversation becomes active. Nothing is created on an empty load.
func NewConversationStore(store *kv.Store, messages *MessageStore) *ConversationStore {
	var loaded []*model.Conversation
	if !store.GetJSON(kv.KeyConversations, &loaded) {
		loaded = nil
	}

	clean := make([]*model.Conversation, 0, len(loaded))
	for _, c := range loaded {
		if c != nil && c.ID != "" {
			clean = append(clean, c)
		}
	}

	activeID := ""
	if len(clean) > 0 {
		activeID = clean[0].ID
	}

	s := &ConversationStore{
		kv:            store,
		messages:      messages,
		conversations: signal.New(clean),
		activeID:      signal.New(activeID),
	}
	s.active = signal.NewComputed(func() *model.Conversation {
		return find(s.conversations.Get(), s.activeID.Get())
	}, s.conversations, s.activeID)
	return s
}

// =============================================================================
// REACTIVE VIEWS
// =============================================================================

// Conversations returns the reactive view of the list.
func (s *ConversationStore) Conversations() signal.Readable[[]*model.Conversation] {
	return s.conversations
}

// ActiveIDSignal returns the reactive view of the active id.
func (s *ConversationStore) ActiveIDSignal() signal.Readable[string] {
	return s.activeID
}

// ActiveConversation returns the active conversation, derived from the list
// and the active id. It is nil when nothing is active.
func (s *ConversationStore) ActiveConversation() signal.Readable[*model.Conversation] {
	return s.active
}

// =============================================================================
// READS
// =============================================================================

// List returns a copy of all conversations, newest first.
func (s *ConversationStore) List() []*model.Conversation {
	list := s.conversations.Get()
	out := make([]*model.Conversation, len(list))
	for i, c := range list {
		out[i] = c.Clone()
	}
	return out
}

// Len returns the number of conversations.
func (s *ConversationStore) Len() int {
	return len(s.conversations.Get())
}

// ActiveID returns the id of the active conversation, or "".
func (s *ConversationStore) ActiveID() string {
	return s.activeID.Get()
}

// Active returns a copy of the active conversation, or nil.
func (s *ConversationStore) Active() *model.Conversation {
	return s.active.Get().Clone()
}

// Get returns a copy of a conversation by id.
func (s *ConversationStore) Get(id string) (*model.Conversation, error) {
	if c := find(s.conversations.Get(), id); c != nil {
		return c.Clone(), nil
	}
	return nil, ErrConversationNotFound
}

// Search returns the conversations whose title or preview contains query,
// ignoring case. An empty query matches everything.
func (s *ConversationStore) Search(query string) []*model.Conversation {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.List()
	}

	var results []*model.Conversation
	for _, c := range s.conversations.Get() {
		if strings.Contains(strings.ToLower(c.Title), query) ||
			strings.Contains(strings.ToLower(c.Preview), query) {
			results = append(results, c.Clone())
		}
	}
	return results
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create prepends a new conversation, makes it active and returns a copy.
func (s *ConversationStore) Create(title string) *model.Conversation {
	conv := model.NewConversation(title)
	s.conversations.Update(func(list []*model.Conversation) []*model.Conversation {
		next := make([]*model.Conversation, 0, len(list)+1)
		next = append(next, conv)
		return append(next, list...)
	})
	s.activeID.Set(conv.ID)
	s.persist()
	return conv.Clone()
}

// SetActive makes id the active conversation. Unknown ids are ignored.
func (s *ConversationStore) SetActive(id string) {
	if find(s.conversations.Get(), id) == nil {
		return
	}
	s.activeID.Set(id)
}

// Delete removes a conversation together with its messages. When the active
// conversation is removed, the first remaining one becomes active; when none
// remain, a fresh conversation is created.
func (s *ConversationStore) Delete(id string) {
	list := s.conversations.Get()
	if find(list, id) == nil {
		return
	}

	next := make([]*model.Conversation, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			next = append(next, c)
		}
	}

	if s.messages != nil {
		s.messages.DeleteForConversation(id)
	}
	s.conversations.Set(next)

	if s.activeID.Get() == id {
		if len(next) > 0 {
			s.activeID.Set(next[0].ID)
		} else {
			// Create persists the new single-entry list.
			s.Create("")
			return
		}
	}
	s.persist()
}

// Clear removes every conversation and message, then creates a fresh
// conversation so one is always active afterwards.
func (s *ConversationStore) Clear() {
	if s.messages != nil {
		s.messages.ClearAll()
	}
	s.conversations.Set([]*model.Conversation{})
	s.activeID.Set("")
	s.Create("")
}

// UpdateTitle replaces a conversation title. Unknown ids are ignored.
func (s *ConversationStore) UpdateTitle(id, title string) {
	s.modify(id, func(c *model.Conversation) { c.Title = title })
}

// UpdatePreview replaces a conversation preview. Unknown ids are ignored.
func (s *ConversationStore) UpdatePreview(id, preview string) {
	s.modify(id, func(c *model.Conversation) { c.Preview = preview })
}

// Touch bumps UpdatedAt without changing anything else.
func (s *ConversationStore) Touch(id string) {
	s.modify(id, func(*model.Conversation) {})
}

func (s *ConversationStore) modify(id string, fn func(*model.Conversation)) {
	list := s.conversations.Get()
	next := make([]*model.Conversation, len(list))
	found := false
	for i, c := range list {
		if c.ID == id {
			updated := c.Clone()
			fn(updated)
			updated.UpdatedAt = time.Now()
			next[i] = updated
			found = true
			continue
		}
		next[i] = c
	}
	if !found {
		return
	}
	s.conversations.Set(next)
	s.persist()
}

func (s *ConversationStore) persist() {
	s.kv.SetJSON(kv.KeyConversations, s.conversations.Get())
}

func find(list []*model.Conversation, id string) *model.Conversation {
	if id == "" {
		return nil
	}
	for _, c := range list {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrConversationNotFound is returned when a conversation doesn't exist.
// Use errors.Is(err, ErrConversationNotFound) to check for this error.
var ErrConversationNotFound = &ConversationError{Message: "conversation not found"}

// ConversationError represents a conversation-related error.
type ConversationError struct {
	Message string
}

// Error implements the error interface.
func (e *ConversationError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing conversation errors.
func (e *ConversationError) Is(target error) bool {
	t, ok := target.(*ConversationError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
