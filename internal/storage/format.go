// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage holds the conversation and message state of LegiChat.
package storage

import (
	"strconv"
	"strings"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/util"
)

// =============================================================================
// CONVERSATION LIST FORMATTING
// =============================================================================

// ConversationSummary is the listing row used by the CLI (text and JSON).
type ConversationSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Preview      string `json:"preview,omitempty"`
	UpdatedAt    string `json:"updatedAt"`
	MessageCount int    `json:"messageCount"`
	Active       bool   `json:"active"`
}

// Summaries builds listing rows for convs.
func (s *ConversationStore) Summaries(convs []*model.Conversation) []ConversationSummary {
	activeID := s.ActiveID()
	out := make([]ConversationSummary, 0, len(convs))
	for _, c := range convs {
		count := 0
		if s.messages != nil {
			count = s.messages.CountForConversation(c.ID)
		}
		out = append(out, ConversationSummary{
			ID:           c.ID,
			Title:        c.Title,
			Preview:      c.Preview,
			UpdatedAt:    c.UpdatedAt.Format("2006-01-02 15:04"),
			MessageCount: count,
			Active:       c.ID == activeID,
		})
	}
	return out
}

// FormatConversationList renders rows as a table. The id column is as wide
// as the longest id so every id can be copied into follow-up commands.
func FormatConversationList(rows []ConversationSummary) string {
	if len(rows) == 0 {
		return "Aucune conversation."
	}

	idWidth := util.StringWidth("ID")
	for _, r := range rows {
		idWidth = max(idWidth, util.StringWidth(r.ID))
	}

	var sb strings.Builder
	sb.WriteString("  " + util.PadWidth("ID", idWidth) + " " + util.PadWidth("Mis à jour", 17) + " " +
		util.PadWidth("Msgs", 5) + " Titre\n")
	sb.WriteString(strings.Repeat("-", idWidth+2+17+1+5+1+40) + "\n")

	previewIndent := strings.Repeat(" ", 2+idWidth+1+17+1+5+1)
	for _, r := range rows {
		marker := "  "
		if r.Active {
			marker = "* "
		}
		sb.WriteString(marker +
			util.PadWidth(r.ID, idWidth) + " " +
			util.PadWidth(r.UpdatedAt, 17) + " " +
			util.PadWidth(strconv.Itoa(r.MessageCount), 5) + " " +
			util.TruncateWidth(r.Title, 40) + "\n")
		if r.Preview != "" {
			sb.WriteString(previewIndent + util.TruncateRunes(util.OneLine(r.Preview), 40) + "\n")
		}
	}
	return sb.String()
}
