// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/chat"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/components"
)

const askUsage = `legichat ask "question" [--conversation <id>] [--new] [--raw]`

// stdin is read when ask gets no question on a non-interactive input.
var stdin io.Reader = os.Stdin

// askResult is the --json payload of ask.
type askResult struct {
	ConversationID string         `json:"conversationId"`
	Reply          *model.Message `json:"reply"`
}

// HandleAsk sends one question through the controller and prints the reply.
func HandleAsk(args Args) error {
	p := NewArgParser(args.Raw, "new", "raw")
	question := strings.TrimSpace(JoinPositionalArgs(p, 0))
	if question == "" && !IsTTY() {
		data, err := io.ReadAll(io.LimitReader(stdin, components.MaxInputChars*4))
		if err != nil {
			return NewCommandError("ask", "read", "failed to read stdin", err)
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return ErrMissingArgument("question", askUsage)
	}
	if p.BoolFlag("new") && p.Flag("conversation") != "" {
		return NewUsageError("--new and --conversation cannot be combined", askUsage)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	setupLogging(cfg, args.Verbose)

	rt, err := OpenRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	switch id := p.Flag("conversation"); {
	case p.BoolFlag("new"):
		rt.Conversations.Create("")
	case id != "":
		if _, err := rt.Conversations.Get(id); err != nil {
			return NewNotFoundError("conversation", id)
		}
		rt.Conversations.SetActive(id)
	default:
		rt.EnsureConversation()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reply, outcome, err := rt.Controller.SendAndWait(ctx, question)
	if err != nil {
		return NewCommandError("ask", "send", "message rejected", err)
	}

	switch outcome {
	case chat.OutcomeCancelled:
		return NewCommandError("ask", "send", chat.CancellationNotice, context.Canceled)
	case chat.OutcomeFailed:
		return NewCommandError("ask", "send", chat.FailureNotice, nil)
	}

	if args.JSON {
		return NewJSONResponse("ask", askResult{ConversationID: rt.Conversations.ActiveID(), Reply: reply}).Print()
	}

	width := GetTerminalWidth()
	if p.BoolFlag("raw") || !IsStdoutTTY() {
		fmt.Fprintln(stdout, WrapText(reply.Content, width))
	} else {
		fmt.Fprintln(stdout, rt.Markdown.Render(reply.Content, rt.Themes.Current(), width))
	}
	if s := formatSources(reply.Metadata); s != "" {
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, s)
	}
	return nil
}

// formatSources lists metadata sources as plain text, or "" when there are none.
func formatSources(md *model.ResponseMetadata) string {
	if md == nil || len(md.Sources) == 0 {
		return ""
	}

	var sb strings.Builder
	heading := "Sources"
	if md.Country != "" {
		heading += " (" + md.Country + ")"
	}
	sb.WriteString(RenderConditional(TitleStyle, heading) + "\n")
	for _, src := range md.Sources {
		line := "  - " + src.Title()
		if src.Relevance > 0 {
			line += fmt.Sprintf(" (%.0f%%)", src.Relevance*100)
		}
		sb.WriteString(line + "\n")
		if src.Lien != "" {
			sb.WriteString("    " + RenderConditional(DimStyle, src.Lien) + "\n")
		}
	}
	return sb.String()
}
