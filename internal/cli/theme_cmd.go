// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/theme"
)

// HandleTheme shows or changes the stored theme: show (default), light, dark, toggle.
func HandleTheme(args Args) error {
	p := NewArgParser(args.Raw)

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	setupLogging(cfg, args.Verbose)

	// ui.theme would pin the theme on every start; the command edits the stored value
	cfg.UI.Theme = ""
	rt, err := OpenRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	sub := strings.ToLower(p.Subcommand())
	switch sub {
	case "", "show":
	case "toggle":
		rt.Themes.Toggle()
	case "light", "dark":
		if err := rt.Themes.Set(theme.Theme(sub)); err != nil {
			return err
		}
	default:
		return NewUsageError(fmt.Sprintf("unknown theme %q", sub), "legichat theme [show|light|dark|toggle]")
	}

	current := rt.Themes.Current()
	return OutputJSON(args.JSON, "theme", func() (interface{}, error) {
		if !args.JSON {
			fmt.Fprintln(stdout, RenderKeyValue("Thème", string(current)+" ("+current.Label()+")"))
		}
		return map[string]string{"theme": string(current), "label": current.Label()}, nil
	})
}
