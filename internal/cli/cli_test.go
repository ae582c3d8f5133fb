// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/api"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/chat"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/config"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/model"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/storage"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// testEnv is a config file backed by a temp sqlite database and simulated replies.
type testEnv struct {
	t       *testing.T
	cfgPath string
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("[api]\nsimulate = true\nsimulate_delay_ms = 1\n\n[storage]\nbackend = \"sqlite\"\npath = %q\n",
		filepath.Join(dir, "legichat.db"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))

	for _, key := range []string{"LEGICHAT_API_URL", "LEGICHAT_STORAGE", "LEGICHAT_SIMULATE", "LEGICHAT_LOG"} {
		t.Setenv(key, "")
	}

	env := &testEnv{t: t, cfgPath: cfgPath, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	prevOut, prevErr, prevDark := stdout, stderr, prefersDark
	stdout, stderr = env.out, env.errOut
	prefersDark = func() bool { return false }
	ForceColorsEnabled(false)
	t.Cleanup(func() {
		stdout, stderr, prefersDark = prevOut, prevErr, prevDark
	})
	return env
}

// run executes argv against the env config and returns the handler error.
func (e *testEnv) run(argv ...string) error {
	e.out.Reset()
	cmd, args := ParseArgs(append([]string{"--config", e.cfgPath}, argv...))
	return Run(cmd, args)
}

// runtime opens the env storage for inspection. Close it before the next run.
func (e *testEnv) runtime() *Runtime {
	e.t.Helper()
	cfg, err := config.Load(e.cfgPath)
	require.NoError(e.t, err)
	rt, err := OpenRuntime(cfg)
	require.NoError(e.t, err)
	return rt
}

func (e *testEnv) conversations() []*model.Conversation {
	rt := e.runtime()
	defer rt.Close()
	return rt.Conversations.List()
}

func decodeJSON(t *testing.T, raw []byte) JSONResponse {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(raw, &resp), string(raw))
	return resp
}

// =============================================================================
// PARSING
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		want     Command
		validate func(*testing.T, Args)
	}{
		{name: "no args starts the tui", argv: nil, want: CmdTUI},
		{name: "tui", argv: []string{"tui"}, want: CmdTUI},
		{
			name: "ask keeps the rest raw",
			argv: []string{"ask", "--raw", "Qu'est-ce que le SMIG ?"},
			want: CmdAsk,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, []string{"--raw", "Qu'est-ce que le SMIG ?"}, a.Raw)
			},
		},
		{name: "ask alias", argv: []string{"a", "bonjour"}, want: CmdAsk},
		{name: "chat", argv: []string{"chat"}, want: CmdChat},
		{name: "conversations alias", argv: []string{"conv", "list"}, want: CmdConversations},
		{name: "theme", argv: []string{"theme", "dark"}, want: CmdTheme},
		{name: "config", argv: []string{"config", "path"}, want: CmdConfig},
		{name: "serve alias", argv: []string{"server"}, want: CmdServe},
		{name: "version flag", argv: []string{"--version"}, want: CmdVersion},
		{name: "help flag", argv: []string{"-h"}, want: CmdHelp},
		{
			name: "unknown command keeps its name",
			argv: []string{"Frobnicate"},
			want: CmdUnknown,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "frobnicate", a.Name)
			},
		},
		{
			name: "global flags anywhere",
			argv: []string{"conversations", "--json", "list", "-v", "--config", "/tmp/c.toml"},
			want: CmdConversations,
			validate: func(t *testing.T, a Args) {
				assert.True(t, a.JSON)
				assert.True(t, a.Verbose)
				assert.Equal(t, "/tmp/c.toml", a.ConfigPath)
				assert.Equal(t, []string{"list"}, a.Raw)
			},
		},
		{
			name: "config with equals",
			argv: []string{"--config=/etc/legichat.toml", "theme"},
			want: CmdTheme,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "/etc/legichat.toml", a.ConfigPath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			assert.Equal(t, tt.want, cmd, "command %s", cmd)
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "ask", CmdAsk.String())
	assert.Equal(t, "conversations", CmdConversations.String())
	assert.Equal(t, "unknown", Command(99).String())
}

func TestArgParser(t *testing.T) {
	t.Run("bool flag does not consume the question", func(t *testing.T) {
		p := NewArgParser([]string{"--raw", "droit du travail"}, "raw")
		assert.True(t, p.BoolFlag("raw"))
		assert.Equal(t, "droit du travail", p.Positional(0))
	})

	t.Run("string flag takes the next value", func(t *testing.T) {
		p := NewArgParser([]string{"list", "--search", "bail"})
		assert.Equal(t, "list", p.Subcommand())
		assert.Equal(t, "bail", p.Flag("search"))
		assert.Equal(t, 1, p.PositionalCount())
	})

	t.Run("equals forms", func(t *testing.T) {
		p := NewArgParser([]string{"--port=8080", "--confirm=false"}, "confirm")
		n, err := p.FlagInt("port")
		require.NoError(t, err)
		assert.Equal(t, 8080, n)
		assert.False(t, p.BoolFlag("confirm"))
		assert.True(t, p.HasFlag("confirm"))
	})

	t.Run("double dash ends flags", func(t *testing.T) {
		p := NewArgParser([]string{"rename", "--", "id1", "--weird title"})
		assert.Equal(t, []string{"id1", "--weird title"}, p.PositionalFrom(1))
		assert.Equal(t, "id1 --weird title", JoinPositionalArgs(p, 1))
	})

	t.Run("trailing flag is boolean", func(t *testing.T) {
		p := NewArgParser([]string{"clear", "--confirm"})
		assert.True(t, p.BoolFlag("confirm"))
		assert.Equal(t, "", p.Flag("confirm"))
		assert.Equal(t, "fallback", p.FlagOrDefault("missing", "fallback"))
	})

	t.Run("empty", func(t *testing.T) {
		p := NewArgParser(nil)
		assert.Equal(t, "", p.Subcommand())
		assert.Equal(t, "", p.Positional(3))
		assert.Empty(t, p.PositionalFrom(1))
	})
}

func TestParsePort(t *testing.T) {
	n, err := ParsePort(" 5000 ")
	require.NoError(t, err)
	assert.Equal(t, 5000, n)

	for _, bad := range []string{"", "abc", "0", "65536", "-1"} {
		_, err := ParsePort(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"true", "YES", "y", "1", "on"} {
		b, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"false", "no", "N", "0", "off"} {
		b, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	_, err := ParseBoolString("peut-être")
	assert.Error(t, err)
}

// =============================================================================
// ERRORS AND OUTPUT HELPERS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", NewUsageError("bad", "legichat help"), ExitUsageError},
		{"empty message", NewCommandError("ask", "send", "rejected", chat.ErrEmptyMessage), ExitUsageError},
		{"config", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "ui.sidebar_width", Message: "too small"}}), ExitConfigError},
		{"not found", NewNotFoundError("conversation", "x"), ExitNotFoundError},
		{"store not found", fmt.Errorf("get: %w", storage.ErrConversationNotFound), ExitNotFoundError},
		{"timeout", &api.RequestError{Op: "submit", Err: context.DeadlineExceeded}, ExitTimeoutError},
		{"network", &api.RequestError{Op: "submit", StatusCode: 502}, ExitNetworkError},
		{"generic", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	env := newTestEnv(t)

	DisplayError(NewNotFoundError("conversation", "abc"), false)
	assert.Contains(t, env.errOut.String(), "[ERREUR] conversation not found: abc")

	DisplayError(NewNotFoundError("conversation", "abc"), true)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &out))
	assert.Equal(t, "not_found_error", out["error_type"])
	assert.Equal(t, "abc", out["id"])
	assert.Equal(t, false, out["success"])
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "un deux\ntrois", WrapText("un deux trois", 8))
	assert.Equal(t, "court", WrapText("court", 80))
	assert.Equal(t, "a\n\nb", WrapText("a\n\nb", 10))
	// accented words are measured in cells, not bytes
	assert.Equal(t, "élève été", WrapText("élève été", 9))
}

func TestFormatSources(t *testing.T) {
	assert.Equal(t, "", formatSources(nil))
	assert.Equal(t, "", formatSources(&model.ResponseMetadata{Country: "Burkina Faso"}))

	ForceColorsEnabled(false)
	got := formatSources(&model.ResponseMetadata{
		Country: "Burkina Faso",
		Sources: []model.Source{
			{Document: "Code du travail", Numero: "36", Relevance: 0.92, Lien: "https://example.org/ct"},
			{Type: "loi"},
		},
	})
	assert.Contains(t, got, "Sources (Burkina Faso)")
	assert.Contains(t, got, "  - Code du travail n°36 (92%)")
	assert.Contains(t, got, "    https://example.org/ct")
	assert.Contains(t, got, "  - Source\n")
}

func TestOutputJSON(t *testing.T) {
	env := newTestEnv(t)

	err := OutputJSON(true, "demo", func() (interface{}, error) {
		return map[string]int{"n": 1}, nil
	})
	require.NoError(t, err)
	resp := decodeJSON(t, env.out.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "demo", resp.Command)
	assert.Nil(t, resp.Error)

	env.out.Reset()
	err = OutputJSON(true, "demo", func() (interface{}, error) {
		return nil, errors.New("échec")
	})
	require.Error(t, err)
	resp = decodeJSON(t, env.out.Bytes())
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "échec", *resp.Error)
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestRun_VersionAndHelp(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("version"))
	assert.Contains(t, env.out.String(), "legichat version "+Version)

	require.NoError(t, env.run("help"))
	assert.Contains(t, env.out.String(), "legichat ask \"question\"")

	err := env.run("frobnicate")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleAsk(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("ask", "--raw", "Quelle est la durée du préavis ?"))
	assert.Contains(t, env.out.String(), "Réponse simulée")
	assert.Contains(t, env.out.String(), "Sources (Burkina Faso)")

	convs := env.conversations()
	require.Len(t, convs, 1)

	rt := env.runtime()
	msgs := rt.Messages.ListForConversation(convs[0].ID)
	rt.Close()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsUser())
	assert.Equal(t, "Quelle est la durée du préavis ?", msgs[0].Content)
	assert.True(t, msgs[1].IsAssistant())
	assert.False(t, msgs[1].IsLoading)

	// a second ask reuses the active conversation
	require.NoError(t, env.run("ask", "--raw", "Et pour un CDD ?"))
	assert.Len(t, env.conversations(), 1)

	require.NoError(t, env.run("ask", "--new", "--raw", "Autre sujet"))
	assert.Len(t, env.conversations(), 2)
}

func TestHandleAsk_JSON(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--json", "ask", "Bonjour"))
	resp := decodeJSON(t, env.out.Bytes())
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["conversationId"])
	reply, ok := data["reply"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "assistant", reply["role"])
}

func TestHandleAsk_Errors(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("ask", "--new", "--conversation", "abc", "question")
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = env.run("ask", "--conversation", "inconnue", "question")
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestHandleAsk_Stdin(t *testing.T) {
	if IsTTY() {
		t.Skip("stdin is a terminal")
	}
	env := newTestEnv(t)
	prev := stdin
	stdin = strings.NewReader("  Question lue sur l'entrée  \n")
	t.Cleanup(func() { stdin = prev })

	require.NoError(t, env.run("ask", "--raw"))
	assert.Contains(t, env.out.String(), "Question lue sur l'entrée")
}

func TestHandleConversations(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("conversations"))
	assert.Contains(t, env.out.String(), "Aucune conversation.")

	require.NoError(t, env.run("ask", "--raw", "Premier sujet"))
	require.NoError(t, env.run("ask", "--new", "--raw", "Second sujet"))
	convs := env.conversations()
	require.Len(t, convs, 2)
	first, second := convs[0], convs[1]
	if first.Preview != "Premier sujet" {
		first, second = second, first
	}
	require.Equal(t, "Premier sujet", first.Preview)

	require.NoError(t, env.run("conversations", "list"))
	assert.Contains(t, env.out.String(), first.ID)
	assert.Contains(t, env.out.String(), second.ID)

	t.Run("rename", func(t *testing.T) {
		require.NoError(t, env.run("conversations", "rename", first.ID, "Licenciement", "abusif"))
		assert.Contains(t, env.out.String(), "Conversation renommée.")

		rt := env.runtime()
		conv, err := rt.Conversations.Get(first.ID)
		rt.Close()
		require.NoError(t, err)
		assert.Equal(t, "Licenciement abusif", conv.Title)

		require.NoError(t, env.run("conversations", "list", "--search", "licenciement"))
		assert.Contains(t, env.out.String(), first.ID)
		assert.NotContains(t, env.out.String(), second.ID)
	})

	t.Run("json list", func(t *testing.T) {
		require.NoError(t, env.run("--json", "conversations", "list"))
		resp := decodeJSON(t, env.out.Bytes())
		rows, ok := resp.Data.([]interface{})
		require.True(t, ok)
		assert.Len(t, rows, 2)
	})

	t.Run("delete", func(t *testing.T) {
		err := env.run("conversations", "delete", "inconnue")
		assert.Equal(t, ExitNotFoundError, GetExitCode(err))

		require.NoError(t, env.run("conversations", "delete", second.ID))
		left := env.conversations()
		require.Len(t, left, 1)
		assert.Equal(t, first.ID, left[0].ID)
	})

	t.Run("clear needs confirm", func(t *testing.T) {
		err := env.run("conversations", "clear")
		assert.Equal(t, ExitUsageError, GetExitCode(err))
		assert.Len(t, env.conversations(), 1)

		require.NoError(t, env.run("conversations", "clear", "--confirm"))
		assert.Contains(t, env.out.String(), "1 conversation(s) supprimée(s).")
		left := env.conversations()
		require.Len(t, left, 1)
		assert.NotEqual(t, first.ID, left[0].ID)
		assert.Equal(t, model.DefaultConversationTitle, left[0].Title)
	})

	t.Run("unknown subcommand", func(t *testing.T) {
		err := env.run("conversations", "archive")
		assert.Equal(t, ExitUsageError, GetExitCode(err))
	})
}

func TestHandleConversations_Export(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.run("ask", "--raw", "Comment rédiger un bail ?"))
	id := env.conversations()[0].ID

	require.NoError(t, env.run("conversations", "export", id, "--stdout"))
	assert.Contains(t, env.out.String(), "Comment rédiger un bail ?")
	assert.Contains(t, env.out.String(), "### LegiChat")

	dir := t.TempDir()
	require.NoError(t, env.run("--json", "conversations", "export", id, "--format", "json", "--output", dir))
	resp := decodeJSON(t, env.out.Bytes())
	data := resp.Data.(map[string]interface{})
	path, _ := data["path"].(string)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".json", filepath.Ext(path))
	_, err := os.Stat(path)
	assert.NoError(t, err)

	err = env.run("conversations", "export", id, "--format", "pdf")
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = env.run("conversations", "export", "inconnue")
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestHandleTheme(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("theme"))
	assert.Contains(t, env.out.String(), "light")

	require.NoError(t, env.run("theme", "toggle"))
	assert.Contains(t, env.out.String(), "dark")

	rt := env.runtime()
	assert.Equal(t, theme.Dark, rt.Themes.Current())
	rt.Close()

	require.NoError(t, env.run("--json", "theme", "light"))
	resp := decodeJSON(t, env.out.Bytes())
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "light", data["theme"])

	err := env.run("theme", "sepia")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleConfig(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("config", "path"))
	assert.Equal(t, env.cfgPath+"\n", env.out.String())

	require.NoError(t, env.run("config", "get", "api.simulate"))
	assert.Equal(t, "true\n", env.out.String())

	require.NoError(t, env.run("config", "set", "ui.sidebar_width", "44"))
	assert.Contains(t, env.out.String(), "ui.sidebar_width = 44")

	cfg, err := config.Load(env.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 44, cfg.UI.SidebarWidth)
	assert.True(t, cfg.API.Simulate, "existing values survive a set")

	require.NoError(t, env.run("config", "show"))
	assert.Contains(t, env.out.String(), "ui.sidebar_width")
	assert.Contains(t, env.out.String(), "44")

	t.Run("environment overrides are not saved", func(t *testing.T) {
		t.Setenv("LEGICHAT_API_URL", "http://override.test/api")
		require.NoError(t, env.run("config", "set", "ui.show_timestamps", "false"))

		data, err := os.ReadFile(env.cfgPath)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "override.test")
	})

	t.Run("errors", func(t *testing.T) {
		assert.Equal(t, ExitUsageError, GetExitCode(env.run("config", "get")))
		assert.Equal(t, ExitUsageError, GetExitCode(env.run("config", "get", "nope.key")))
		assert.Equal(t, ExitUsageError, GetExitCode(env.run("config", "reset")))
		assert.Error(t, env.run("config", "set", "ui.sidebar_width", "2"))

		cfg, err := config.Load(env.cfgPath)
		require.NoError(t, err)
		assert.Equal(t, 44, cfg.UI.SidebarWidth, "invalid value is not written")
	})
}

// =============================================================================
// LINE-MODE CHAT
// =============================================================================

func TestChatSession_HandleLine(t *testing.T) {
	env := newTestEnv(t)
	rt := env.runtime()
	defer rt.Close()
	rt.EnsureConversation()
	s := &chatSession{rt: rt, raw: true}

	cont, err := s.handleLine("   ")
	assert.True(t, cont)
	assert.NoError(t, err)

	env.out.Reset()
	cont, err = s.handleLine("Qu'est-ce qu'un bail ?")
	require.NoError(t, err)
	assert.True(t, cont)
	assert.Contains(t, env.out.String(), "Réponse simulée")
	assert.Equal(t, 2, rt.Messages.CountForConversation(rt.Conversations.ActiveID()))

	env.out.Reset()
	_, err = s.handleLine("/history")
	require.NoError(t, err)
	assert.Contains(t, env.out.String(), "Vous")
	assert.Contains(t, env.out.String(), "Qu'est-ce qu'un bail ?")

	firstID := rt.Conversations.ActiveID()
	_, err = s.handleLine("/new Succession")
	require.NoError(t, err)
	assert.NotEqual(t, firstID, rt.Conversations.ActiveID())
	assert.Equal(t, "Succession", rt.Conversations.Active().Title)

	_, err = s.handleLine("/switch " + firstID)
	require.NoError(t, err)
	assert.Equal(t, firstID, rt.Conversations.ActiveID())

	_, err = s.handleLine("/switch inconnue")
	assert.True(t, IsNotFoundError(err))

	env.out.Reset()
	_, err = s.handleLine("/list succ")
	require.NoError(t, err)
	assert.Contains(t, env.out.String(), "Succession")

	_, err = s.handleLine("/theme")
	require.NoError(t, err)
	assert.Equal(t, theme.Dark, rt.Themes.Current())

	_, err = s.handleLine("/inconnue")
	assert.Error(t, err)

	_, err = s.handleLine(strings.Repeat("a", 5000))
	assert.Error(t, err)

	cont, err = s.handleLine("/quit")
	assert.NoError(t, err)
	assert.False(t, cont)

	cont, _ = s.handleLine("exit")
	assert.False(t, cont)
}

func TestChatSession_Interrupt(t *testing.T) {
	s := &chatSession{}
	assert.False(t, s.interrupt())

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	assert.True(t, s.interrupt())
	assert.Error(t, ctx.Err())
	assert.False(t, s.interrupt())
}
