// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/peterh/liner"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/chat"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/config"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/storage"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/components"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides line editing and persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor backed by ~/.legichat/chat_history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(dir, "chat_history")}
	c.LoadHistory()
	return c
}

// LoadHistory loads the history file if it exists.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput prompts for one line and records non-empty input.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes the history file with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession is the line-mode loop state, independent of the line editor.
type chatSession struct {
	rt  *Runtime
	raw bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// HandleChat runs the line-mode chat until /quit, Ctrl+C at the prompt or EOF.
func HandleChat(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return NewUsageError(err.Error(), `legichat ask "question"`)
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
	rt.EnsureConversation()

	session := &chatSession{rt: rt, raw: NewArgParser(args.Raw, "raw").BoolFlag("raw")}

	// Ctrl+C while a reply is pending stops that reply only
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if session.interrupt() {
				fmt.Fprintln(stderr, "\n"+RenderConditional(WarningStyle, "["+chat.CancellationNotice+"]"))
			}
		}
	}()

	input := NewChatCLI()
	defer input.Close()

	fmt.Fprintln(stdout, RenderConditional(TitleStyle, "LegiChat")+" "+
		RenderConditional(DimStyle, "(/help pour les commandes, /quit pour sortir)"))
	session.printActive()

	for {
		line, err := input.ReadInput(RenderConditional(PromptStyle, "legichat> "))
		if err != nil {
			if !errors.Is(err, liner.ErrPromptAborted) {
				log.Printf("chat: input closed: %v", err)
			}
			fmt.Fprintln(stdout)
			return nil
		}

		cont, err := session.handleLine(line)
		if err != nil {
			DisplayError(err, false)
		}
		if !cont {
			return nil
		}
	}
}

// interrupt cancels the pending reply. It reports whether one was pending.
func (s *chatSession) interrupt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil
	return true
}

// handleLine processes one input line. It returns false when the session ends.
func (s *chatSession) handleLine(line string) (bool, error) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return true, nil
	case strings.HasPrefix(line, "/"):
		return s.handleSlashCommand(line)
	case strings.EqualFold(line, "exit"), strings.EqualFold(line, "quit"):
		return false, nil
	}
	if n := len([]rune(line)); n > components.MaxInputChars {
		return true, fmt.Errorf("message too long (%d > %d characters)", n, components.MaxInputChars)
	}
	return true, s.send(line)
}

func (s *chatSession) send(text string) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer s.interrupt()

	reply, outcome, err := s.rt.Controller.SendAndWait(ctx, text)
	if err != nil {
		return err
	}
	if outcome == chat.OutcomeCancelled {
		return nil
	}
	if outcome == chat.OutcomeFailed {
		return errors.New(chat.FailureNotice)
	}

	if s.raw {
		fmt.Fprintln(stdout, WrapText(reply.Content, GetTerminalWidth()))
	} else {
		fmt.Fprintln(stdout, s.rt.Markdown.Render(reply.Content, s.rt.Themes.Current(), GetTerminalWidth()))
	}
	if src := formatSources(reply.Metadata); src != "" {
		fmt.Fprint(stdout, src)
	}
	fmt.Fprintln(stdout)
	return nil
}

// handleSlashCommand handles /commands.
func (s *chatSession) handleSlashCommand(cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])
	rest := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		printChatHelp()

	case "/quit", "/q", "/exit":
		return false, nil

	case "/new", "/n":
		s.rt.Conversations.Create(strings.Join(rest, " "))
		s.printActive()

	case "/list", "/l":
		convs := s.rt.Conversations.Search(strings.Join(rest, " "))
		fmt.Fprint(stdout, storage.FormatConversationList(s.rt.Conversations.Summaries(convs)))

	case "/switch", "/s":
		if len(rest) == 0 {
			return true, ErrMissingArgument("id", "/switch <id>")
		}
		if _, err := s.rt.Conversations.Get(rest[0]); err != nil {
			return true, NewNotFoundError("conversation", rest[0])
		}
		s.rt.Conversations.SetActive(rest[0])
		s.printActive()

	case "/history":
		s.printHistory()

	case "/theme":
		t := s.rt.Themes.Toggle()
		fmt.Fprintln(stdout, RenderConditional(DimStyle, "["+t.Label()+"]"))

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
	return true, nil
}

func (s *chatSession) printActive() {
	if c := s.rt.Conversations.Active(); c != nil {
		fmt.Fprintln(stdout, RenderConditional(DimStyle, fmt.Sprintf("[%s] %s", c.ID, c.Title)))
	}
}

func (s *chatSession) printHistory() {
	msgs := s.rt.Messages.ListForConversation(s.rt.Conversations.ActiveID())
	if len(msgs) == 0 {
		fmt.Fprintln(stdout, components.EmptyThreadText)
		return
	}
	for _, m := range msgs {
		author := "LegiChat"
		if m.IsUser() {
			author = "Vous"
		}
		fmt.Fprintf(stdout, "%s %s\n%s\n\n",
			RenderConditional(TitleStyle, author),
			RenderConditional(DimStyle, components.FormatTime(m.Timestamp)),
			m.Content)
	}
}

func printChatHelp() {
	fmt.Fprintln(stdout, `Commandes :
  /new [titre]      Nouvelle conversation
  /list [texte]     Lister (et filtrer) les conversations
  /switch <id>      Changer de conversation
  /history          Afficher la conversation active
  /theme            Basculer clair/sombre
  /quit             Quitter
Ctrl+C pendant une réponse l'interrompt.`)
}
