// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/api"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/chat"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/kv"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/storage"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/components"
)

type stubClient struct {
	content string
	block   bool
}

func (c *stubClient) Submit(ctx context.Context, conversationID, text string) (*model.Message, error) {
	if c.block {
		<-ctx.Done()
		return nil, &api.RequestError{Op: "submit", Err: ctx.Err()}
	}
	reply := model.NewMessage(conversationID, c.content+" "+text, model.RoleAssistant)
	reply.Metadata = &model.ResponseMetadata{ResponseType: model.ResponseLegalAnswer}
	return reply, nil
}

type plainMarkdown struct{}

func (plainMarkdown) RenderCurrent(content string, _ int) string { return content }

type harness struct {
	kv            *kv.Store
	conversations *storage.ConversationStore
	messages      *storage.MessageStore
	ctrl          *chat.Controller
	themes        *theme.Store
	client        *stubClient
}

func newHarness(t *testing.T, client *stubClient) (*harness, Model) {
	t.Helper()
	store := kv.NewMemoryStore()
	messages := storage.NewMessageStore(store)
	conversations := storage.NewConversationStore(store, messages)
	conversations.Create("")

	h := &harness{
		kv:            store,
		conversations: conversations,
		messages:      messages,
		ctrl:          chat.New(conversations, messages, client),
		themes:        theme.NewStore(store, func() bool { return false }, theme.ApplierFunc(func(theme.Theme) {})),
		client:        client,
	}
	m := New(Deps{
		Conversations:  conversations,
		Messages:       messages,
		Controller:     h.ctrl,
		Themes:         h.themes,
		Markdown:       plainMarkdown{},
		SidebarWidth:   30,
		ShowTimestamps: true,
	})
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h, next.(Model)
}

// drain runs cmd and returns the messages it produced quickly. Timers and
// blocking calls are abandoned.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, drain(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// pump feeds msg and every follow-up message back into the model.
func pump(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "message loop did not settle")
		next, cmd := m.Update(queue[0])
		m = next.(Model)
		queue = queue[1:]
		for _, out := range drain(cmd) {
			if _, tick := out.(spinner.TickMsg); tick {
				continue
			}
			queue = append(queue, out)
		}
	}
	return m
}

func ctrlKey(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

// =============================================================================
// TESTS
// =============================================================================

func TestView_InitialScreen(t *testing.T) {
	_, m := newHarness(t, &stubClient{content: "ok"})
	view := m.View()
	assert.Contains(t, view, "LegiChat")
	assert.Contains(t, view, "Conversations (1)")
	assert.Contains(t, view, components.EmptyThreadText)
	assert.Contains(t, view, "Mode clair")
}

func TestView_NarrowHidesSidebar(t *testing.T) {
	_, m := newHarness(t, &stubClient{content: "ok"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 50, Height: 30})
	assert.NotContains(t, next.(Model).View(), "Conversations (")
}

func TestSubmit_ReplyIsResolved(t *testing.T) {
	h, m := newHarness(t, &stubClient{content: "Réponse:"})
	m.input.SetValue("Bonjour")

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	thread := h.messages.ListForConversation(h.conversations.ActiveID())
	require.Len(t, thread, 2)
	assert.Equal(t, "Bonjour", thread[0].Content)
	assert.Equal(t, "Réponse: Bonjour", thread[1].Content)
	assert.False(t, thread[1].IsLoading)
	assert.False(t, h.ctrl.IsGenerating())
	assert.False(t, m.input.Disabled())
	assert.Equal(t, "Bonjour", h.conversations.Active().Preview)
	assert.Contains(t, m.View(), "Réponse: Bonjour")
}

func TestStop_WritesNoticeAndDropsLateResult(t *testing.T) {
	h, m := newHarness(t, &stubClient{block: true})

	next, _ := m.Update(components.SubmitMsg{Text: "Question longue"})
	m = next.(Model)
	require.True(t, h.ctrl.IsGenerating())
	assert.True(t, m.input.Disabled())
	pending := h.ctrl.Pending()
	require.NotNil(t, pending)

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.ctrl.IsGenerating())
	assert.False(t, m.input.Disabled())

	placeholder, ok := h.messages.Get(pending.PlaceholderID)
	require.True(t, ok)
	assert.Equal(t, chat.CancellationNotice, placeholder.Content)
	assert.False(t, placeholder.IsLoading)

	// the cancelled call returns after the stop and must not overwrite it
	m = pump(t, m, exchangeDoneMsg{result: pending.Run()})
	placeholder, _ = h.messages.Get(pending.PlaceholderID)
	assert.Equal(t, chat.CancellationNotice, placeholder.Content)
}

func TestSubmit_BusyIsRejected(t *testing.T) {
	h, m := newHarness(t, &stubClient{block: true})
	next, _ := m.Update(components.SubmitMsg{Text: "un"})
	m = next.(Model)
	next, _ = m.Update(components.SubmitMsg{Text: "deux"})
	m = next.(Model)

	assert.Equal(t, 2, h.messages.CountForConversation(h.conversations.ActiveID()))
	assert.Contains(t, m.status.Notice, "Une réponse est déjà en cours.")
	h.ctrl.Stop()
}

func TestNewConversation_Key(t *testing.T) {
	h, m := newHarness(t, &stubClient{content: "ok"})
	first := h.conversations.ActiveID()

	m = pump(t, m, ctrlKey(tea.KeyCtrlN))
	assert.Equal(t, 2, h.conversations.Len())
	assert.NotEqual(t, first, h.conversations.ActiveID())
	assert.Contains(t, m.View(), "Conversations (2)")
}

func TestNavigateAndSelect(t *testing.T) {
	h, m := newHarness(t, &stubClient{content: "ok"})
	older := h.conversations.ActiveID()
	m = pump(t, m, components.NewConversationMsg{})
	newer := h.conversations.ActiveID()
	require.NotEqual(t, older, newer)

	// newest first: the cursor sits on newer, down moves to older
	m = pump(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, newer, h.conversations.ActiveID(), "moving the cursor does not select")

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, older, h.conversations.ActiveID())
	assert.Equal(t, 0, h.messages.Count(), "enter after navigation does not submit")
	_ = m
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	h, m := newHarness(t, &stubClient{content: "ok"})
	m = pump(t, m, components.NewConversationMsg{})
	require.Equal(t, 2, h.conversations.Len())

	m = pump(t, m, ctrlKey(tea.KeyCtrlX))
	require.True(t, m.confirm.Visible())
	assert.Contains(t, m.View(), components.DeleteConversationPrompt)

	m = pump(t, m, runes("n"))
	assert.Equal(t, 2, h.conversations.Len(), "declined deletion keeps the conversation")

	m = pump(t, m, ctrlKey(tea.KeyCtrlX))
	m = pump(t, m, runes("o"))
	assert.Equal(t, 1, h.conversations.Len())
	assert.False(t, m.confirm.Visible())
}

func TestDelete_LastConversationIsReplaced(t *testing.T) {
	h, m := newHarness(t, &stubClient{content: "ok"})
	only := h.conversations.ActiveID()

	m = pump(t, m, ctrlKey(tea.KeyCtrlX))
	m = pump(t, m, runes("o"))

	require.Equal(t, 1, h.conversations.Len())
	assert.NotEqual(t, only, h.conversations.ActiveID())
	assert.Contains(t, m.View(), "Conversations (1)")
}

func TestDelete_PendingConversationUnlocksInput(t *testing.T) {
	h, m := newHarness(t, &stubClient{block: true})
	next, _ := m.Update(components.SubmitMsg{Text: "Question longue"})
	m = next.(Model)
	pending := h.ctrl.Pending()
	require.NotNil(t, pending)
	require.True(t, m.input.Disabled())

	m = pump(t, m, components.ConfirmResultMsg{Confirmed: true, Subject: pending.ConversationID})
	assert.False(t, h.ctrl.IsGenerating())
	assert.False(t, m.input.Disabled())
	assert.NotEqual(t, pending.ConversationID, h.conversations.ActiveID())

	m = pump(t, m, exchangeDoneMsg{result: pending.Run()})
	assert.Equal(t, 0, h.messages.Count())
}

func TestFilter_UsesSearch(t *testing.T) {
	h, m := newHarness(t, &stubClient{content: "ok"})
	h.conversations.UpdateTitle(h.conversations.ActiveID(), "Bail commercial")
	m = pump(t, m, components.NewConversationMsg{})
	h.conversations.UpdateTitle(h.conversations.ActiveID(), "Succession")

	m = pump(t, m, runes("/"))
	require.True(t, m.sidebar.Filtering())
	for _, r := range "bail" {
		m = pump(t, m, runes(string(r)))
	}

	items := m.sidebar.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Bail commercial", items[0].Title)

	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.sidebar.Items(), 2)
}

func TestFilter_SlashIsTypedWhenInputHasText(t *testing.T) {
	_, m := newHarness(t, &stubClient{content: "ok"})
	m.input.SetValue("article 12")
	m = pump(t, m, runes("/"))
	assert.False(t, m.sidebar.Filtering())
	assert.Equal(t, "article 12/", m.input.Value())
}

func TestToggleTheme_Persists(t *testing.T) {
	h, m := newHarness(t, &stubClient{content: "ok"})
	require.Equal(t, theme.Light, h.themes.Current())

	m = pump(t, m, ctrlKey(tea.KeyCtrlT))
	assert.Equal(t, theme.Dark, h.themes.Current())
	stored, ok := h.kv.GetString(kv.KeyTheme)
	require.True(t, ok)
	assert.Equal(t, "dark", stored)
	assert.Contains(t, m.View(), "Mode sombre")
}

func TestCopyReply(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	_, m := newHarness(t, &stubClient{content: "Art. 5:"})
	m = pump(t, m, ctrlKey(tea.KeyCtrlY))
	assert.Empty(t, copied)
	assert.Contains(t, m.status.Notice, "Aucune réponse à copier.")

	m = pump(t, m, components.SubmitMsg{Text: "préavis"})
	m = pump(t, m, ctrlKey(tea.KeyCtrlY))
	assert.Equal(t, "Art. 5: préavis", copied)
	assert.Contains(t, m.status.Notice, "Réponse copiée")
}

func TestExportActive(t *testing.T) {
	_, m := newHarness(t, &stubClient{content: "Art. 12:"})
	dir := t.TempDir()
	m.deps.ExportDir = dir

	m = pump(t, m, ctrlKey(tea.KeyCtrlS))
	assert.Contains(t, m.status.Notice, "Rien à exporter.")

	m = pump(t, m, components.SubmitMsg{Text: "bail commercial"})
	m = pump(t, m, ctrlKey(tea.KeyCtrlS))
	assert.Contains(t, m.status.Notice, "Exportée : "+dir)

	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Art. 12: bail commercial")
}

func TestEditLastQuestion(t *testing.T) {
	h, m := newHarness(t, &stubClient{content: "R:"})
	m = pump(t, m, components.SubmitMsg{Text: "Hello"})
	require.Equal(t, 2, h.messages.Count())

	m = pump(t, m, ctrlKey(tea.KeyCtrlE))
	require.True(t, m.input.Editing())
	assert.Equal(t, "Hello", m.input.Value())

	m.input.SetValue("Hi")
	m = pump(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	thread := h.messages.ListForConversation(h.conversations.ActiveID())
	require.Len(t, thread, 2)
	assert.Equal(t, "Hi", thread[0].Content)
	assert.Equal(t, model.RoleUser, thread[0].Role)
	assert.Equal(t, "R: Hi", thread[1].Content)
	assert.False(t, m.input.Editing())
}

func TestQuit_StopsPendingReply(t *testing.T) {
	h, m := newHarness(t, &stubClient{block: true})
	next, _ := m.Update(components.SubmitMsg{Text: "question"})
	m = next.(Model)
	require.True(t, h.ctrl.IsGenerating())

	_, cmd := m.Update(ctrlKey(tea.KeyCtrlC))
	assert.False(t, h.ctrl.IsGenerating())

	var quit bool
	for _, msg := range drain(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			quit = true
		}
	}
	assert.True(t, quit)
}

func TestSettingsMsg_AppliesThemeAndLayout(t *testing.T) {
	h, m := newHarness(t, &stubClient{content: "ok"})
	require.Equal(t, theme.Light, h.themes.Current())

	m = pump(t, m, SettingsMsg{SidebarWidth: 40, ShowTimestamps: false, Theme: theme.Dark})

	assert.Equal(t, theme.Dark, h.themes.Current())
	assert.Equal(t, 40, m.deps.SidebarWidth)
	assert.False(t, m.deps.ShowTimestamps)
	assert.Contains(t, m.status.Notice, "Configuration rechargée.")
}
