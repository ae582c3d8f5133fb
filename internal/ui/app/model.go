// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/chat"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/storage"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/components"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/styles"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// Deps are the services the TUI drives.
type Deps struct {
	Conversations *storage.ConversationStore
	Messages      *storage.MessageStore
	Controller    *chat.Controller
	Themes        *theme.Store
	Markdown      components.Markdown

	SidebarWidth   int
	ShowTimestamps bool
	Simulated      bool

	// ExportDir receives ctrl+s transcripts; empty means the working directory
	ExportDir string
}

// Model is the root Bubble Tea model.
type Model struct {
	deps   Deps
	styles *styles.Theme
	keys   KeyMap

	header  *components.Header
	sidebar *components.Sidebar
	thread  *components.Thread
	input   *components.InputArea
	confirm *components.Confirm
	status  *components.StatusBar

	width  int
	height int

	// query filters the sidebar through ConversationStore.Search
	query string

	// navigating is set by Up/Down so that Enter opens the highlighted
	// conversation instead of submitting
	navigating bool

	spinning  bool
	noticeSeq int

	// dirty is flipped by store subscriptions and shared by every copy
	dirty       *bool
	unsubscribe []func()
}

// New creates the root model and subscribes it to the stores.
func New(deps Deps) Model {
	if deps.SidebarWidth <= 0 {
		deps.SidebarWidth = 32
	}

	st := styles.NewTheme()
	thread := components.NewThread(st, deps.Markdown)
	thread.SetShowTimestamps(deps.ShowTimestamps)

	header := components.NewHeader(st)
	header.Simulated = deps.Simulated

	dirty := true
	m := Model{
		deps:    deps,
		styles:  st,
		keys:    DefaultKeyMap(),
		header:  header,
		sidebar: components.NewSidebar(st),
		thread:  thread,
		input:   components.NewInputArea(st),
		confirm: components.NewConfirm(st),
		status:  components.NewStatusBar(st),
		width:   100,
		height:  30,
		dirty:   &dirty,
	}

	mark := func() { *m.dirty = true }
	m.unsubscribe = []func(){
		deps.Conversations.Conversations().Subscribe(func([]*model.Conversation) { mark() }),
		deps.Conversations.ActiveIDSignal().Subscribe(func(string) { mark() }),
		deps.Messages.Messages().Subscribe(func([]*model.Message) { mark() }),
		deps.Controller.State().Subscribe(func(chat.State) { mark() }),
		deps.Themes.Signal().Subscribe(func(theme.Theme) {
			mark()
			thread.Refresh()
		}),
	}

	m.layout()
	m.sync()
	return m
}

// Close drops the store subscriptions.
func (m Model) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// STORE SYNC
// =============================================================================

// sync re-reads the stores into the components when a subscription fired.
// It returns the spinner tick when a reply starts loading.
func (m *Model) sync() tea.Cmd {
	if !*m.dirty {
		return nil
	}
	*m.dirty = false

	activeID := m.deps.Conversations.ActiveID()
	items := m.deps.Conversations.List()
	if m.query != "" {
		items = m.deps.Conversations.Search(m.query)
	}
	m.sidebar.SetItems(items, activeID)

	m.thread.SetMessages(m.deps.Messages.ListForConversation(activeID))

	if conv := m.deps.Conversations.Active(); conv != nil {
		m.header.Title = conv.Title
	} else {
		m.header.Title = ""
	}
	m.header.Theme = m.deps.Themes.Current()

	generating := m.deps.Controller.IsGenerating()
	m.input.SetDisabled(generating)
	m.status.Generating = generating

	loading := m.thread.Loading()
	start := loading && !m.spinning
	m.spinning = loading
	if start {
		return m.thread.SpinnerTick()
	}
	return nil
}

// layout sizes the components from the window size.
func (m *Model) layout() {
	const (
		headerHeight = 1
		inputHeight  = 2 // border + line
		statusHeight = 1
	)

	m.styles.SetSize(m.width, m.height)
	bodyHeight := m.height - headerHeight - inputHeight - statusHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	threadWidth := m.width
	if m.styles.GetLayoutMode().ShowSidebar() {
		sw := m.deps.SidebarWidth
		if sw > m.width/2 {
			sw = m.width / 2
		}
		m.sidebar.SetSize(sw, bodyHeight)
		threadWidth -= sw
	}

	m.header.Width = m.width
	m.status.Width = m.width
	m.input.SetWidth(m.width)
	m.thread.SetSize(threadWidth, bodyHeight)
}

func (m *Model) bodyHeight() int {
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	return h
}
