// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/styles"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/util"
)

// =============================================================================
// SIDEBAR COMPONENT - Conversation list
// =============================================================================

// sidebarItemHeight is title + preview + date + spacer.
const sidebarItemHeight = 4

// Sidebar shows the conversation list with the active one highlighted.
// The cursor is independent from the active conversation until Enter.
type Sidebar struct {
	theme *styles.Theme

	items    []*model.Conversation
	activeID string
	cursor   int
	offset   int

	width  int
	height int

	filter    textinput.Model
	filtering bool

	now func() time.Time
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "Rechercher..."
	fi.CharLimit = 100

	return &Sidebar{
		theme:  theme,
		width:  32,
		height: 20,
		filter: fi,
		now:    time.Now,
	}
}

// SetItems replaces the visible conversations. The cursor follows the
// active conversation when it changes, and is clamped otherwise.
func (s *Sidebar) SetItems(items []*model.Conversation, activeID string) {
	activeChanged := activeID != s.activeID
	s.items = items
	s.activeID = activeID

	if activeChanged {
		for i, c := range items {
			if c.ID == activeID {
				s.cursor = i
				break
			}
		}
	}
	s.clamp()
}

// SetSize updates the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.filter.Width = width - 6
	s.clamp()
}

// Width returns the sidebar width.
func (s *Sidebar) Width() int {
	return s.width
}

// Items returns the conversations currently shown.
func (s *Sidebar) Items() []*model.Conversation {
	return s.items
}

// CursorUp moves the cursor to the previous conversation.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
	s.clamp()
}

// CursorDown moves the cursor to the next conversation.
func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.items)-1 {
		s.cursor++
	}
	s.clamp()
}

// Highlighted returns the conversation under the cursor.
func (s *Sidebar) Highlighted() *model.Conversation {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return nil
	}
	return s.items[s.cursor]
}

// Select emits a selection for the highlighted conversation.
func (s *Sidebar) Select() tea.Cmd {
	c := s.Highlighted()
	if c == nil {
		return nil
	}
	return emit(SelectConversationMsg{ID: c.ID})
}

// =============================================================================
// FILTER
// =============================================================================

// Filtering reports whether the filter field has focus.
func (s *Sidebar) Filtering() bool {
	return s.filtering
}

// Query returns the current filter text.
func (s *Sidebar) Query() string {
	return s.filter.Value()
}

// StartFilter focuses the filter field.
func (s *Sidebar) StartFilter() tea.Cmd {
	s.filtering = true
	return s.filter.Focus()
}

// Update handles keys while the filter has focus. Esc clears the filter,
// Enter keeps it and returns focus.
func (s *Sidebar) Update(msg tea.Msg) tea.Cmd {
	if !s.filtering {
		return nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			s.filtering = false
			s.filter.Blur()
			s.filter.Reset()
			return emit(FilterMsg{Query: ""})
		case "enter":
			s.filtering = false
			s.filter.Blur()
			return nil
		case "up":
			s.CursorUp()
			return nil
		case "down":
			s.CursorDown()
			return nil
		}
	}

	before := s.filter.Value()
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	if after := s.filter.Value(); after != before {
		return tea.Batch(cmd, emit(FilterMsg{Query: after}))
	}
	return cmd
}

// =============================================================================
// RENDERING
// =============================================================================

func (s *Sidebar) visibleCount() int {
	// heading + filter line
	n := (s.height - 3) / sidebarItemHeight
	if n < 1 {
		n = 1
	}
	return n
}

func (s *Sidebar) clamp() {
	if s.cursor >= len(s.items) {
		s.cursor = len(s.items) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	visible := s.visibleCount()
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+visible {
		s.offset = s.cursor - visible + 1
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	inner := s.width - 3 // border + padding
	if inner < 8 {
		inner = 8
	}

	var b strings.Builder
	b.WriteString(s.theme.SidebarHeading.Render(fmt.Sprintf("Conversations (%d)", len(s.items))))
	b.WriteString("\n")

	if s.filtering || s.Query() != "" {
		b.WriteString(s.theme.SidebarFilter.Render(s.filter.View()))
		b.WriteString("\n")
	}

	if len(s.items) == 0 {
		empty := "Aucune conversation."
		if s.Query() != "" {
			empty = "Aucun résultat."
		}
		b.WriteString(s.theme.SidebarEmpty.Render(empty))
	}

	now := s.now()
	end := s.offset + s.visibleCount()
	if end > len(s.items) {
		end = len(s.items)
	}
	for i := s.offset; i < end; i++ {
		b.WriteString(s.renderItem(s.items[i], i == s.cursor, inner, now))
	}

	style := s.theme.Sidebar
	if s.filtering {
		style = s.theme.SidebarFocused
	}
	return style.Width(s.width - 1).Height(s.height).Render(strings.TrimRight(b.String(), "\n"))
}

func (s *Sidebar) renderItem(c *model.Conversation, cursor bool, width int, now time.Time) string {
	marker := "  "
	if c.ID == s.activeID {
		marker = s.theme.SidebarItemActive.Render("* ")
	}

	titleStyle := s.theme.SidebarItem
	if c.ID == s.activeID {
		titleStyle = s.theme.SidebarItemActive
	}
	title := titleStyle.Render(util.TruncateWidth(util.OneLine(c.Title), width-2))
	if cursor {
		title = s.theme.SidebarItemCursor.Render(util.PadWidth(util.TruncateWidth(util.OneLine(c.Title), width-2), width-2))
	}

	var b strings.Builder
	b.WriteString(marker + title + "\n")
	if c.HasPreview() {
		b.WriteString("  " + s.theme.SidebarPreview.Render(util.TruncateWidth(util.OneLine(c.Preview), width-2)))
	}
	b.WriteString("\n")
	b.WriteString("  " + s.theme.SidebarDate.Render(RelativeDate(c.UpdatedAt, now)) + "\n")
	b.WriteString("\n")
	return b.String()
}
