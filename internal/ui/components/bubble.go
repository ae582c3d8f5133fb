// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/styles"
)

// ThinkingText is shown next to the spinner while a reply is pending.
const ThinkingText = "Recherche dans les textes juridiques..."

// Markdown renders assistant content for the terminal.
type Markdown interface {
	RenderCurrent(content string, width int) string
}

// BubbleOptions controls how a message bubble is drawn.
type BubbleOptions struct {
	Width         int
	ShowTimestamp bool
	Spinner       string
	Markdown      Markdown
}

// RenderBubble draws one message. User messages are right-aligned plain
// text; assistant messages are rendered as markdown with their sources.
func RenderBubble(theme *styles.Theme, msg *model.Message, opts BubbleOptions) string {
	width := opts.Width
	if width < 20 {
		width = 20
	}

	header := theme.BubbleAuthor.Render(msg.Role.DisplayName())
	if opts.ShowTimestamp {
		header += "  " + theme.Timestamp.Render(FormatTime(msg.Timestamp))
	}
	if msg.Metadata != nil && msg.Metadata.ResponseType != "" && msg.Metadata.ResponseType != model.ResponseLegalAnswer {
		header += "  " + theme.SourcesHeading.Render("["+msg.Metadata.ResponseType.Label()+"]")
	}

	if msg.IsUser() {
		// padding is inside Width, borders are not
		bubbleWidth := lipgloss.Width(msg.Content) + 2
		if limit := width*3/4 - 2; bubbleWidth > limit {
			bubbleWidth = limit
		}
		body := theme.UserBubble.Width(bubbleWidth).Render(msg.Content)
		block := lipgloss.JoinVertical(lipgloss.Right, header, body)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
	}

	var content string
	switch {
	case msg.IsLoading:
		content = theme.Spinner.Render(opts.Spinner) + " " + theme.ThinkingText.Render(ThinkingText)
	case opts.Markdown != nil:
		content = opts.Markdown.RenderCurrent(msg.Content, width-4)
	default:
		content = msg.Content
	}
	if content == "" {
		content = " "
	}

	if !msg.IsLoading && msg.HasSources() {
		content += "\n\n" + renderSources(theme, msg.Metadata)
	}

	body := theme.AssistantBubble.Width(width - 2).Render(content) // minus borders
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func renderSources(theme *styles.Theme, md *model.ResponseMetadata) string {
	heading := "Sources"
	if md.Country != "" {
		heading += " (" + md.Country + ")"
	}

	var b strings.Builder
	b.WriteString(theme.SourcesHeading.Render(heading))
	for _, src := range md.Sources {
		line := "- " + src.Title()
		if src.Relevance > 0 {
			line += fmt.Sprintf(" (%.0f%%)", src.Relevance*100)
		}
		b.WriteString("\n")
		b.WriteString(theme.SourceItem.Render(line))
		if src.Lien != "" && src.Title() != src.Lien {
			b.WriteString("\n")
			b.WriteString(theme.SourceItem.Render("  " + styles.RenderLink(src.Lien)))
		}
	}
	return b.String()
}
