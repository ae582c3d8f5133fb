// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/api"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/chat"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/config"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/kv"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/markdown"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/storage"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
)

// Runtime is the wired application state shared by the commands.
type Runtime struct {
	Config        *config.Config
	Backend       kv.Backend
	Store         *kv.Store
	Messages      *storage.MessageStore
	Conversations *storage.ConversationStore
	Controller    *chat.Controller
	Themes        *theme.Store
	Markdown      *markdown.Renderer
}

// prefersDark is swapped in tests so the host terminal is never queried.
var prefersDark = theme.DetectDark

// loadConfig loads the config selected by --config.
func loadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// setupLogging sends log output to stderr with --verbose (or log.verbose)
// and discards it otherwise. The TUI redirects to a file instead.
func setupLogging(cfg *config.Config, verbose bool) {
	log.SetFlags(log.LstdFlags)
	if verbose || (cfg != nil && cfg.Log.Verbose) {
		log.SetOutput(stderr)
		return
	}
	log.SetOutput(io.Discard)
}

// OpenRuntime opens storage and builds the stores, controller and theme.
func OpenRuntime(cfg *config.Config) (*Runtime, error) {
	kind, err := kv.ParseKind(cfg.Storage.Backend)
	if err != nil {
		return nil, err
	}
	backend, err := kv.Open(kind, cfg.Storage.ResolvedPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", kind, err)
	}
	log.Printf("storage: %s at %s", kind, cfg.Storage.ResolvedPath())

	store := kv.NewStore(backend)
	messages := storage.NewMessageStore(store)
	conversations := storage.NewConversationStore(store, messages)

	renderer := markdown.NewRenderer()
	themes := theme.NewStore(store, prefersDark, theme.NewTerminalApplier(renderer.SetTheme))
	if cfg.UI.Theme != "" {
		t, err := theme.Parse(cfg.UI.Theme)
		if err != nil {
			backend.Close()
			return nil, err
		}
		if err := themes.Set(t); err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Runtime{
		Config:        cfg,
		Backend:       backend,
		Store:         store,
		Messages:      messages,
		Conversations: conversations,
		Controller:    chat.New(conversations, messages, newClient(cfg.API)),
		Themes:        themes,
		Markdown:      renderer,
	}, nil
}

// Close releases the storage backend.
func (r *Runtime) Close() error {
	if r == nil || r.Backend == nil {
		return nil
	}
	return r.Backend.Close()
}

// EnsureConversation creates a first conversation when none exist.
func (r *Runtime) EnsureConversation() {
	if r.Conversations.Len() == 0 {
		r.Conversations.Create("")
	}
}

// newClient builds the answer client for the API settings.
func newClient(cfg config.APIConfig) api.Client {
	if cfg.Simulate {
		log.Printf("api: simulated replies (delay %s)", cfg.SimulateDelay())
		return api.NewSimulatedClient(cfg.SimulateDelay())
	}
	return api.NewHTTPClient(cfg.URL).
		WithTimeout(cfg.Timeout()).
		WithMaxRetries(cfg.MaxRetries).
		WithRateLimit(cfg.RatePerSec)
}
