// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/chat"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/export"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/components"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/styles"
)

// noticeTTL is how long a status notice stays visible.
const noticeTTL = 3 * time.Second

// exchangeDoneMsg carries a finished exchange back to the event loop.
type exchangeDoneMsg struct {
	result chat.Result
}

// noticeExpiredMsg clears the notice it was scheduled for.
type noticeExpiredMsg struct {
	seq int
}

// SettingsMsg applies reloaded UI settings to a running program. An empty
// Theme leaves the current theme alone.
type SettingsMsg struct {
	SidebarWidth   int
	ShowTimestamps bool
	Theme          theme.Theme
}

// runExchange performs the remote call off the event loop.
func runExchange(ex *chat.Exchange) tea.Cmd {
	return func() tea.Msg {
		return exchangeDoneMsg{result: ex.Run()}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		next, cmd := m.handleKey(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		m = next

	case components.SubmitMsg:
		cmds = append(cmds, m.submit(msg))

	case components.StopMsg:
		m.deps.Controller.Stop()

	case components.NewConversationMsg:
		m.clearFilter()
		m.deps.Conversations.Create("")

	case components.SelectConversationMsg:
		m.deps.Conversations.SetActive(msg.ID)

	case components.ConfirmResultMsg:
		if msg.Confirmed {
			m.deps.Controller.StopFor(msg.Subject)
			m.deps.Conversations.Delete(msg.Subject)
			cmds = append(cmds, m.notify(styles.RenderSuccess("Conversation supprimée.")))
		}

	case components.FilterMsg:
		m.query = msg.Query
		*m.dirty = true

	case exchangeDoneMsg:
		outcome := m.deps.Controller.Resolve(msg.result)
		if outcome == chat.OutcomeFailed {
			cmds = append(cmds, m.notify(styles.RenderError("La requête a échoué.")))
		}

	case SettingsMsg:
		cmds = append(cmds, m.applySettings(msg))

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.status.Notice = ""
		}

	case spinner.TickMsg, tea.MouseMsg:
		cmds = append(cmds, m.thread.Update(msg))

	default:
		// cursor blink and other component-internal messages
		if m.sidebar.Filtering() {
			cmds = append(cmds, m.sidebar.Update(msg))
		} else {
			cmds = append(cmds, m.input.Update(msg))
		}
	}

	cmds = append(cmds, m.sync())
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.deps.Controller.Stop()
		return m, tea.Quit
	}

	// Modal prompt has priority
	if m.confirm.Visible() {
		return m, m.confirm.Update(msg)
	}

	if m.sidebar.Filtering() {
		return m, m.sidebar.Update(msg)
	}

	wasNavigating := m.navigating
	m.navigating = false

	switch {
	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return components.NewConversationMsg{} }

	case key.Matches(msg, m.keys.Up):
		m.sidebar.CursorUp()
		m.navigating = true
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.sidebar.CursorDown()
		m.navigating = true
		return m, nil

	case key.Matches(msg, m.keys.Select) && wasNavigating:
		return m, m.sidebar.Select()

	case key.Matches(msg, m.keys.Delete):
		if c := m.sidebar.Highlighted(); c != nil {
			m.confirm.Show(c.ID, "Supprimer « "+c.Title+" »", components.DeleteConversationPrompt)
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter) && m.input.Value() == "" && !m.input.Disabled():
		return m, m.sidebar.StartFilter()

	case key.Matches(msg, m.keys.Edit):
		return m, m.beginEdit()

	case key.Matches(msg, m.keys.ToggleTheme):
		t := m.deps.Themes.Toggle()
		return m, m.notify(styles.RenderInfo(t.Label()))

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyReply()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportActive()

	case key.Matches(msg, m.keys.Scroll):
		return m, m.thread.Update(msg)
	}

	return m, m.input.Update(msg)
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m *Model) submit(msg components.SubmitMsg) tea.Cmd {
	var (
		ex  *chat.Exchange
		err error
	)
	if msg.EditID != "" {
		ex, err = m.deps.Controller.Edit(msg.EditID, msg.Text)
	} else {
		ex, err = m.deps.Controller.Send(msg.Text)
	}

	if err != nil {
		log.Printf("submit rejected: %v", err)
		return m.notify(styles.RenderWarning(rejectionText(err)))
	}
	return runExchange(ex)
}

func rejectionText(err error) string {
	switch {
	case errors.Is(err, chat.ErrBusy):
		return "Une réponse est déjà en cours."
	case errors.Is(err, chat.ErrNoActiveConversation):
		return "Aucune conversation active."
	case errors.Is(err, chat.ErrEmptyMessage):
		return "Le message est vide."
	case errors.Is(err, chat.ErrMessageNotFound), errors.Is(err, chat.ErrNotUserMessage):
		return "Ce message ne peut pas être modifié."
	default:
		return err.Error()
	}
}

// beginEdit prefills the input with the last question. A pending reply is
// stopped first so the input becomes usable.
func (m *Model) beginEdit() tea.Cmd {
	last, ok := m.deps.Controller.LastUserMessage()
	if !ok {
		return m.notify(styles.RenderWarning("Aucune question à modifier."))
	}
	m.deps.Controller.Stop()
	m.input.SetDisabled(false)
	m.input.BeginEdit(last.ID, last.Content)
	return nil
}

func (m *Model) copyReply() tea.Cmd {
	reply, ok := m.deps.Controller.LastReply()
	if !ok || reply.IsLoading || strings.TrimSpace(reply.Content) == "" {
		return m.notify(styles.RenderWarning("Aucune réponse à copier."))
	}
	if err := writeClipboard(reply.Content); err != nil {
		log.Printf("clipboard: %v", err)
		return m.notify(styles.RenderError(fmt.Sprintf("Copie impossible : %v", err)))
	}
	return m.notify(styles.RenderSuccess("Réponse copiée dans le presse-papiers."))
}

// exportActive writes the active conversation as Markdown to ExportDir.
func (m *Model) exportActive() tea.Cmd {
	tr, err := export.NewTranscript(m.deps.Conversations, m.deps.Messages, m.deps.Conversations.ActiveID())
	if err != nil || len(tr.Messages) == 0 {
		return m.notify(styles.RenderWarning("Rien à exporter."))
	}

	opts := export.DefaultOptions()
	if m.deps.ExportDir != "" {
		opts.OutputDir = m.deps.ExportDir
	}
	opts.IncludeTimestamps = m.deps.ShowTimestamps
	path, err := export.ExportToFile(tr, export.NewMarkdownExporter(opts), opts)
	if err != nil {
		log.Printf("export: %v", err)
		return m.notify(styles.RenderError(fmt.Sprintf("Export impossible : %v", err)))
	}
	return m.notify(styles.RenderSuccess("Exportée : " + path))
}

func (m *Model) clearFilter() {
	if m.query != "" {
		m.query = ""
		*m.dirty = true
	}
}

// notify shows text in the status bar until noticeTTL elapses.
func (m *Model) notify(text string) tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	m.status.Notice = text
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m *Model) applySettings(msg SettingsMsg) tea.Cmd {
	if msg.SidebarWidth > 0 {
		m.deps.SidebarWidth = msg.SidebarWidth
	}
	m.deps.ShowTimestamps = msg.ShowTimestamps
	m.thread.SetShowTimestamps(msg.ShowTimestamps)
	m.layout()
	*m.dirty = true

	if msg.Theme != "" && msg.Theme != m.deps.Themes.Current() {
		if err := m.deps.Themes.Set(msg.Theme); err != nil {
			log.Printf("settings: %v", err)
		}
	}
	return m.notify(styles.RenderInfo("Configuration rechargée."))
}
