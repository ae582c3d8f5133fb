// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output streams. Tests swap them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdConversations
	CmdTheme
	CmdConfig
	CmdServe
	CmdVersion
	CmdHelp
	CmdUnknown
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdConversations:
		return "conversations"
	case CmdTheme:
		return "theme"
	case CmdConfig:
		return "config"
	case CmdServe:
		return "serve"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	Verbose    bool
	JSON       bool

	// Name is the command word as typed, kept for error messages.
	Name string

	// Raw holds the arguments after the command word.
	Raw []string
}

const usageText = `legichat - assistant juridique en terminal

Usage:
  legichat                             Start the chat interface (default)
  legichat tui                         Start the chat interface
  legichat ask "question"              Ask one question and print the reply
    --conversation <id>                Ask inside an existing conversation
    --new                              Ask in a new conversation
    --raw                              Print the reply without markdown rendering
  legichat chat                        Line-mode chat with input history
  legichat conversations [list]        List conversations
    --search <text>                    Filter by title or preview
  legichat conversations rename <id> <title>
  legichat conversations delete <id>   Delete a conversation and its messages
  legichat conversations export <id>   Write a transcript file
    --format md|json|html              Export format (default md)
    --output <dir>                     Target directory (default .)
    --stdout                           Print instead of writing a file
  legichat conversations clear --confirm
                                       Delete every conversation
  legichat theme [show|light|dark|toggle]
  legichat config [show|get <key>|set <key> <value>|reset|path]
  legichat serve [--port N]            Run the local development backend
  legichat version
  legichat help

Global flags:
  --config <path>                      Use this config file
  -v, --verbose                        Log to stderr
  --json                               JSON output for list and show commands

Environment:
  LEGICHAT_API_URL, LEGICHAT_STORAGE, LEGICHAT_SIMULATE, LEGICHAT_LOG

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Fprintf(stdout, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Fprintf(stdout, "legichat version %s\n", Version)
	fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(stdout, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(stdout, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name) into a command and args.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	parsed.Name = strings.ToLower(remaining[0])
	parsed.Raw = remaining[1:]

	switch parsed.Name {
	case "tui":
		return CmdTUI, parsed
	case "ask", "a":
		return CmdAsk, parsed
	case "chat":
		return CmdChat, parsed
	case "conversations", "conversation", "conv", "c":
		return CmdConversations, parsed
	case "theme":
		return CmdTheme, parsed
	case "config":
		return CmdConfig, parsed
	case "serve", "server":
		return CmdServe, parsed
	case "version", "--version":
		return CmdVersion, parsed
	case "help", "-h", "--help":
		return CmdHelp, parsed
	default:
		return CmdUnknown, parsed
	}
}

// parseGlobalFlags extracts global flags wherever they appear and returns the rest.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var (
		remaining []string
		parsed    Args
	)

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "-v" || arg == "--verbose":
			parsed.Verbose = true
		case arg == "--json":
			parsed.JSON = true
		case arg == "--config":
			if i+1 < len(argv) {
				i++
				parsed.ConfigPath = argv[i]
			}
		case strings.HasPrefix(arg, "--config="):
			parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsed
}

// Run dispatches cmd to its handler.
func Run(cmd Command, args Args) error {
	switch cmd {
	case CmdTUI:
		return HandleTUI(args)
	case CmdAsk:
		return HandleAsk(args)
	case CmdChat:
		return HandleChat(args)
	case CmdConversations:
		return HandleConversations(args)
	case CmdTheme:
		return HandleTheme(args)
	case CmdConfig:
		return HandleConfig(args)
	case CmdServe:
		return HandleServe(args)
	case CmdVersion:
		PrintVersion()
		return nil
	case CmdHelp:
		PrintUsage()
		return nil
	default:
		return NewUsageError(fmt.Sprintf("unknown command %q", args.Name), "legichat help")
	}
}
