// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/export"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/storage"
)

// Command: conversations [subcommand]
//
//	list (default) [--search <text>]
//	rename <id> <title>
//	delete <id>
//	export <id> [--format md|json|html] [--output dir] [--stdout]
//	clear --confirm
const conversationsUsage = "legichat conversations [list [--search text]|rename <id> <title>|delete <id>|export <id>|clear --confirm]"

// HandleConversations manages stored conversations.
func HandleConversations(args Args) error {
	p := NewArgParser(args.Raw, "confirm", "stdout")

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

	switch sub := strings.ToLower(p.Subcommand()); sub {
	case "", "list", "ls":
		return listConversations(rt, p.Flag("search"), args.JSON)
	case "rename":
		return renameConversation(rt, p.Positional(1), JoinPositionalArgs(p, 2), args.JSON)
	case "delete", "rm":
		return deleteConversation(rt, p.Positional(1), args.JSON)
	case "export":
		return exportConversation(rt, p, args.JSON)
	case "clear":
		if !p.BoolFlag("confirm") {
			return NewUsageError("clear deletes every conversation; pass --confirm", "legichat conversations clear --confirm")
		}
		return clearConversations(rt, args.JSON)
	default:
		return NewUsageError(fmt.Sprintf("unknown subcommand %q", sub), conversationsUsage)
	}
}

func listConversations(rt *Runtime, query string, jsonMode bool) error {
	return OutputJSON(jsonMode, "conversations list", func() (interface{}, error) {
		rows := rt.Conversations.Summaries(rt.Conversations.Search(query))
		if !jsonMode {
			out := storage.FormatConversationList(rows)
			if !strings.HasSuffix(out, "\n") {
				out += "\n"
			}
			fmt.Fprint(stdout, out)
		}
		return rows, nil
	})
}

func renameConversation(rt *Runtime, id, title string, jsonMode bool) error {
	return OutputJSON(jsonMode, "conversations rename", func() (interface{}, error) {
		title = strings.TrimSpace(title)
		if id == "" || title == "" {
			return nil, ErrMissingArgument("id and title", "legichat conversations rename <id> <title>")
		}
		if _, err := rt.Conversations.Get(id); err != nil {
			return nil, NewNotFoundError("conversation", id)
		}
		rt.Conversations.UpdateTitle(id, title)
		if !jsonMode {
			fmt.Fprintln(stdout, RenderConditional(SuccessStyle, "Conversation renommée."))
		}
		conv, _ := rt.Conversations.Get(id)
		return conv, nil
	})
}

func deleteConversation(rt *Runtime, id string, jsonMode bool) error {
	return OutputJSON(jsonMode, "conversations delete", func() (interface{}, error) {
		if id == "" {
			return nil, ErrMissingArgument("id", "legichat conversations delete <id>")
		}
		if _, err := rt.Conversations.Get(id); err != nil {
			return nil, NewNotFoundError("conversation", id)
		}
		rt.Conversations.Delete(id)
		if !jsonMode {
			fmt.Fprintln(stdout, RenderConditional(SuccessStyle, "Conversation supprimée."))
		}
		return map[string]string{"deleted": id, "active": rt.Conversations.ActiveID()}, nil
	})
}

func exportConversation(rt *Runtime, p *ArgParser, jsonMode bool) error {
	return OutputJSON(jsonMode, "conversations export", func() (interface{}, error) {
		id := p.Positional(1)
		if id == "" {
			return nil, ErrMissingArgument("id", "legichat conversations export <id> [--format md|json|html]")
		}
		format, err := export.ParseFormat(p.Flag("format"))
		if err != nil {
			return nil, NewUsageError(err.Error(), "formats: md, json, html")
		}

		tr, err := export.NewTranscript(rt.Conversations, rt.Messages, id)
		if err != nil {
			return nil, NewNotFoundError("conversation", id)
		}

		opts := export.DefaultOptions()
		opts.OutputDir = p.FlagOrDefault("output", ".")
		opts.IncludeTimestamps = rt.Config.UI.ShowTimestamps
		opts.Theme = string(rt.Themes.Current())
		exporter, err := export.New(format, opts)
		if err != nil {
			return nil, err
		}

		if p.BoolFlag("stdout") && !jsonMode {
			content, err := exporter.Export(tr)
			if err != nil {
				return nil, err
			}
			_, err = stdout.Write(content)
			return nil, err
		}

		path, err := export.ExportToFile(tr, exporter, opts)
		if err != nil {
			return nil, err
		}
		if !jsonMode {
			fmt.Fprintln(stdout, RenderConditional(SuccessStyle, "Conversation exportée : "+path))
		}
		return map[string]string{"id": id, "path": path, "format": string(format)}, nil
	})
}

func clearConversations(rt *Runtime, jsonMode bool) error {
	return OutputJSON(jsonMode, "conversations clear", func() (interface{}, error) {
		removed := rt.Conversations.Len()
		rt.Conversations.Clear()
		if !jsonMode {
			fmt.Fprintln(stdout, RenderConditional(SuccessStyle, fmt.Sprintf("%d conversation(s) supprimée(s).", removed)))
		}
		return map[string]int{"removed": removed}, nil
	})
}
