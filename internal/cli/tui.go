// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/config"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/ui/app"
)

// HandleTUI runs the full-screen interface. Logs go to the configured file
// because the terminal belongs to the program.
func HandleTUI(args Args) error {
	if err := RequiresTTY("start the chat interface"); err != nil {
		return NewUsageError(err.Error(), `legichat ask "question"`)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logFile, err := openTUILog(cfg.Log.Path)
	if err != nil {
		return err
	}
	defer logFile.Close()

	rt, err := OpenRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.EnsureConversation()

	model := app.New(app.Deps{
		Conversations:  rt.Conversations,
		Messages:       rt.Messages,
		Controller:     rt.Controller,
		Themes:         rt.Themes,
		Markdown:       rt.Markdown,
		SidebarWidth:   cfg.UI.SidebarWidth,
		ShowTimestamps: cfg.UI.ShowTimestamps,
		Simulated:      cfg.API.Simulate,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if watcher := watchConfig(args.ConfigPath, program); watcher != nil {
		defer watcher.Close()
	}

	log.Printf("tui: starting (storage=%s api=%s)", cfg.Storage.Backend, cfg.API.URL)
	final, err := program.Run()
	if m, ok := final.(app.Model); ok {
		m.Close()
	}
	rt.Controller.Stop()
	if err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}

// openTUILog attaches the standard logger to path through tea.LogToFile.
func openTUILog(path string) (*os.File, error) {
	path = config.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "legichat")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// watchConfig forwards config file edits to the running program. It returns
// nil when there is no file to watch.
func watchConfig(explicit string, program *tea.Program) *config.Watcher {
	path := explicit
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil
		}
		path = p
	}
	if _, err := os.Stat(config.ExpandPath(path)); err != nil {
		return nil
	}

	w, err := config.Watch(path, config.DefaultWatchDebounce, func(cfg *config.Config) {
		program.Send(settingsFrom(cfg))
	})
	if err != nil {
		log.Printf("config watch disabled: %v", err)
		return nil
	}
	return w
}

// settingsFrom extracts the live-reloadable part of cfg.
func settingsFrom(cfg *config.Config) app.SettingsMsg {
	msg := app.SettingsMsg{
		SidebarWidth:   cfg.UI.SidebarWidth,
		ShowTimestamps: cfg.UI.ShowTimestamps,
	}
	if t, err := theme.Parse(cfg.UI.Theme); err == nil && cfg.UI.Theme != "" {
		msg.Theme = t
	}
	return msg
}
