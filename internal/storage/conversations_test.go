// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/kv"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
)

func newStores(t *testing.T) (*kv.Store, *ConversationStore, *MessageStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	messages := NewMessageStore(store)
	return store, NewConversationStore(store, messages), messages
}

// =============================================================================
// CONVERSATION STORE TESTS
// =============================================================================

func TestConversationStore_EmptyLoad(t *testing.T) {
	_, s, _ := newStores(t)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.ActiveID())
	assert.Nil(t, s.Active())
}

func TestConversationStore_Create(t *testing.T) {
	_, s, _ := newStores(t)

	conv := s.Create("Trip planning")
	assert.Equal(t, "Trip planning", conv.Title)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, conv.ID, s.ActiveID())
	require.NotNil(t, s.Active())
	assert.Equal(t, "Trip planning", s.Active().Title)
}

func TestConversationStore_CreatePrependsAndUnique(t *testing.T) {
	_, s, _ := newStores(t)

	first := s.Create("")
	second := s.Create("")

	assert.NotEqual(t, first.ID, second.ID)
	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest conversation comes first")
	assert.Equal(t, model.DefaultConversationTitle, list[1].Title)
	assert.Equal(t, second.ID, s.ActiveID())
}

func TestConversationStore_SetActive(t *testing.T) {
	_, s, _ := newStores(t)
	a := s.Create("a")
	b := s.Create("b")

	s.SetActive(a.ID)
	assert.Equal(t, a.ID, s.ActiveID())

	s.SetActive("does-not-exist")
	assert.Equal(t, a.ID, s.ActiveID(), "unknown id must not move the pointer")

	s.SetActive(b.ID)
	assert.Equal(t, "b", s.Active().Title)
}

func TestConversationStore_DeleteOnlyConversation(t *testing.T) {
	_, s, _ := newStores(t)
	only := s.Create("only")

	s.Delete(only.ID)

	require.Equal(t, 1, s.Len())
	active := s.Active()
	require.NotNil(t, active)
	assert.NotEqual(t, only.ID, active.ID)
	assert.Equal(t, model.DefaultConversationTitle, active.Title)
}

func TestConversationStore_DeleteNonActive(t *testing.T) {
	_, s, _ := newStores(t)
	a := s.Create("a")
	b := s.Create("b")

	s.Delete(a.ID)
	assert.Equal(t, b.ID, s.ActiveID())
	assert.Equal(t, 1, s.Len())
}

func TestConversationStore_DeleteActivePromotesFirst(t *testing.T) {
	_, s, _ := newStores(t)
	a := s.Create("a")
	b := s.Create("b")
	c := s.Create("c")

	// list is c, b, a
	s.Delete(c.ID)
	assert.Equal(t, b.ID, s.ActiveID())

	s.SetActive(a.ID)
	s.Delete(a.ID)
	assert.Equal(t, b.ID, s.ActiveID())
}

func TestConversationStore_DeleteCascadesMessages(t *testing.T) {
	_, s, messages := newStores(t)
	a := s.Create("a")
	b := s.Create("b")
	messages.Add(a.ID, "hello", model.RoleUser)
	messages.Add(b.ID, "keep", model.RoleUser)

	s.Delete(a.ID)
	assert.Empty(t, messages.ListForConversation(a.ID))
	assert.Len(t, messages.ListForConversation(b.ID), 1)
}

func TestConversationStore_DeleteUnknown(t *testing.T) {
	_, s, _ := newStores(t)
	a := s.Create("a")

	s.Delete("nope")
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, a.ID, s.ActiveID())
}

func TestConversationStore_UpdateTitleAndPreview(t *testing.T) {
	_, s, _ := newStores(t)
	conv := s.Create("")
	before := conv.UpdatedAt

	s.UpdateTitle(conv.ID, "Droit du travail")
	s.UpdatePreview(conv.ID, "Quelle est la durée")

	got, err := s.Get(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Droit du travail", got.Title)
	assert.Equal(t, "Quelle est la durée", got.Preview)
	assert.False(t, got.UpdatedAt.Before(before))

	// Unknown id is a no-op
	s.UpdateTitle("missing", "x")
	_, err = s.Get("missing")
	assert.True(t, errors.Is(err, ErrConversationNotFound))
}

func TestConversationStore_RoundTrip(t *testing.T) {
	store, s, messages := newStores(t)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, s.Create("").ID)
	}
	s.UpdatePreview(ids[2], "preview")

	reloaded := NewConversationStore(store, messages)
	want := s.List()
	got := reloaded.List()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Title, got[i].Title)
		assert.Equal(t, want[i].Preview, got[i].Preview)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
	}
	assert.Equal(t, want[0].ID, reloaded.ActiveID(), "first entry becomes active on load")
}

func TestConversationStore_MalformedStorage(t *testing.T) {
	store := kv.NewMemoryStore()
	store.SetString(kv.KeyConversations, "[{broken")

	s := NewConversationStore(store, NewMessageStore(store))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.ActiveID())
}

func TestConversationStore_Search(t *testing.T) {
	_, s, _ := newStores(t)
	a := s.Create("Bail commercial")
	b := s.Create("Divorce")
	s.UpdatePreview(b.ID, "Procédure de BAIL")
	s.Create("Succession")

	results := s.Search("bail")
	require.Len(t, results, 2)
	ids := []string{results[0].ID, results[1].ID}
	assert.Contains(t, ids, a.ID)
	assert.Contains(t, ids, b.ID)

	assert.Len(t, s.Search(""), 3)
	assert.Empty(t, s.Search("fiscal"))
}

func TestConversationStore_ActiveComputed(t *testing.T) {
	_, s, _ := newStores(t)
	var titles []string
	s.ActiveConversation().Subscribe(func(c *model.Conversation) {
		if c != nil {
			titles = append(titles, c.Title)
		}
	})

	conv := s.Create("first")
	s.UpdateTitle(conv.ID, "renamed")

	require.NotEmpty(t, titles)
	assert.Equal(t, "renamed", titles[len(titles)-1])
	assert.Equal(t, "renamed", s.ActiveConversation().Get().Title)
}

func TestConversationStore_Clear(t *testing.T) {
	_, s, messages := newStores(t)
	a := s.Create("a")
	messages.Add(a.ID, "x", model.RoleUser)
	s.Create("b")

	s.Clear()
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, messages.Count())
	assert.NotEqual(t, a.ID, s.ActiveID())
}

func TestFormatConversationList(t *testing.T) {
	_, s, messages := newStores(t)
	conv := s.Create("Bail commercial")
	messages.Add(conv.ID, "Quelle durée ?", model.RoleUser)
	s.UpdatePreview(conv.ID, "Quelle durée ?")

	out := FormatConversationList(s.Summaries(s.List()))
	assert.Contains(t, out, "Bail commercial")
	assert.Contains(t, out, "Quelle durée ?")
	assert.True(t, strings.Contains(out, "* "), "active row should be marked")
	assert.Contains(t, out, conv.ID, "ids must be listed in full")
	assert.NotContains(t, out, "…")

	assert.Equal(t, "Aucune conversation.", FormatConversationList(nil))
}
