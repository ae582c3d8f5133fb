// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/kv"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
)

// =============================================================================
// MESSAGE STORE TESTS
// =============================================================================

func TestMessageStore_AddAndList(t *testing.T) {
	s := NewMessageStore(kv.NewMemoryStore())

	s.Add("c1", "Hi", model.RoleUser)
	s.Add("c2", "Other", model.RoleUser)
	s.Add("c1", "Hello", model.RoleAssistant)

	got := s.ListForConversation("c1")
	require.Len(t, got, 2)
	assert.Equal(t, "Hi", got[0].Content)
	assert.Equal(t, model.RoleUser, got[0].Role)
	assert.Equal(t, "Hello", got[1].Content)
	assert.Equal(t, model.RoleAssistant, got[1].Role)

	assert.Len(t, s.ListForConversation("c2"), 1)
	assert.Empty(t, s.ListForConversation("c3"))
	assert.Equal(t, 3, s.Count())
}

func TestMessageStore_Update(t *testing.T) {
	s := NewMessageStore(kv.NewMemoryStore())
	msg := s.Add("c1", "draft", model.RoleAssistant)

	s.Update(msg.ID, "final")
	got, ok := s.Get(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "final", got.Content)
	assert.Equal(t, model.RoleAssistant, got.Role)

	// Unknown id is a no-op
	s.Update("missing", "x")
	assert.Equal(t, 1, s.Count())
}

func TestMessageStore_UpdateFromPartial(t *testing.T) {
	s := NewMessageStore(kv.NewMemoryStore())
	msg := s.Add("c1", "", model.RoleAssistant)
	s.SetLoading(msg.ID, true)

	md := &model.ResponseMetadata{ResponseType: model.ResponseLegalAnswer, Country: "Sénégal"}
	s.UpdateFromPartial(msg.ID, model.MessagePatch{
		Content:   model.Ptr("Réponse"),
		Metadata:  md,
		IsLoading: model.Ptr(false),
	})

	got, _ := s.Get(msg.ID)
	assert.Equal(t, "Réponse", got.Content)
	assert.False(t, got.IsLoading)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, "Sénégal", got.Metadata.Country)
}

func TestMessageStore_SetLoadingNotPersisted(t *testing.T) {
	store := kv.NewMemoryStore()
	s := NewMessageStore(store)
	msg := s.Add("c1", "", model.RoleAssistant)

	s.SetLoading(msg.ID, true)
	got, _ := s.Get(msg.ID)
	assert.True(t, got.IsLoading)

	reloaded := NewMessageStore(store)
	got, ok := reloaded.Get(msg.ID)
	require.True(t, ok)
	assert.False(t, got.IsLoading, "loading flag must not survive a reload")
}

func TestMessageStore_Deletes(t *testing.T) {
	store := kv.NewMemoryStore()
	s := NewMessageStore(store)
	a := s.Add("c1", "a", model.RoleUser)
	s.Add("c1", "b", model.RoleAssistant)
	s.Add("c2", "c", model.RoleUser)

	s.DeleteOne(a.ID)
	assert.Len(t, s.ListForConversation("c1"), 1)

	s.DeleteForConversation("c1")
	assert.Empty(t, s.ListForConversation("c1"))
	assert.Len(t, s.ListForConversation("c2"), 1)

	reloaded := NewMessageStore(store)
	assert.Equal(t, 1, reloaded.Count())

	s.ClearAll()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, NewMessageStore(store).Count())
}

func TestMessageStore_ReturnsCopies(t *testing.T) {
	s := NewMessageStore(kv.NewMemoryStore())
	msg := s.Add("c1", "original", model.RoleUser)
	msg.Content = "mutated"

	got, _ := s.Get(msg.ID)
	assert.Equal(t, "original", got.Content)
}

func TestMessageStore_SignalNotifies(t *testing.T) {
	s := NewMessageStore(kv.NewMemoryStore())
	var counts []int
	s.Messages().Subscribe(func(list []*model.Message) { counts = append(counts, len(list)) })

	msg := s.Add("c1", "a", model.RoleUser)
	s.SetLoading(msg.ID, true)
	s.DeleteOne(msg.ID)

	assert.Equal(t, []int{1, 1, 0}, counts)
}

func TestMessageStore_MalformedStorage(t *testing.T) {
	store := kv.NewMemoryStore()
	store.SetString(kv.KeyMessages, "not json at all")

	s := NewMessageStore(store)
	assert.Equal(t, 0, s.Count())
	assert.Error(t, store.LastError())
}
