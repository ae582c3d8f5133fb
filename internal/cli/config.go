// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/config"
)

// Command: config [subcommand]
//
//	show (default)      Display the effective configuration
//	get <key>           Print one value
//	set <key> <value>   Change one value in the config file
//	reset --confirm     Write the defaults
//	path                Print the config file location
//
// Keys use dot notation, see config.GetAllKeys.
const configUsage = "legichat config [show|get <key>|set <key> <value>|reset --confirm|path]"

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	p := NewArgParser(args.Raw, "confirm")
	path, err := configFilePath(args)
	if err != nil {
		return err
	}

	switch sub := strings.ToLower(p.Subcommand()); sub {
	case "", "show":
		return handleConfigShow(args, path)
	case "get":
		return handleConfigGet(args, p.Positional(1))
	case "set":
		return handleConfigSet(path, p.Positional(1), JoinPositionalArgs(p, 2), args.JSON)
	case "reset":
		if !p.BoolFlag("confirm") {
			return NewUsageError("reset overwrites the config file; pass --confirm", "legichat config reset --confirm")
		}
		return handleConfigReset(path, args.JSON)
	case "path":
		return OutputJSON(args.JSON, "config path", func() (interface{}, error) {
			if !args.JSON {
				fmt.Fprintln(stdout, path)
			}
			return map[string]string{"path": path}, nil
		})
	default:
		return NewUsageError(fmt.Sprintf("unknown config subcommand %q", sub), configUsage)
	}
}

// configFilePath is --config when given, else the default location.
func configFilePath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return config.ExpandPath(args.ConfigPath), nil
	}
	return config.ConfigPath()
}

func handleConfigShow(args Args, path string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config show", cfg).Print()
	}

	fmt.Fprintln(stdout, RenderConditional(TitleStyle, "Configuration LegiChat"))
	fmt.Fprintln(stdout, RenderConditional(DimStyle, path))
	fmt.Fprintln(stdout, RenderSeparator(50))
	for _, key := range config.GetAllKeys() {
		val, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Fprintln(stdout, RenderKeyValue(key, fmt.Sprint(val)))
	}
	return nil
}

func handleConfigGet(args Args, key string) error {
	if key == "" {
		return ErrMissingArgument("key", "legichat config get <key>")
	}
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	val, err := cfg.Get(key)
	if err != nil {
		return NewUsageError(err.Error(), "keys: "+strings.Join(config.GetAllKeys(), ", "))
	}
	return OutputJSON(args.JSON, "config get", func() (interface{}, error) {
		if !args.JSON {
			fmt.Fprintln(stdout, val)
		}
		return map[string]interface{}{"key": key, "value": val}, nil
	})
}

// handleConfigSet edits the file itself: environment overrides are not applied
// so they never leak into the saved config.
func handleConfigSet(path, key, value string, jsonMode bool) error {
	if key == "" {
		return ErrMissingArgument("key", "legichat config set <key> <value>")
	}

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := cfg.Set(key, value); err != nil {
		return NewUsageError(err.Error(), "keys: "+strings.Join(config.GetAllKeys(), ", "))
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	return OutputJSON(jsonMode, "config set", func() (interface{}, error) {
		val, _ := cfg.Get(key)
		if !jsonMode {
			fmt.Fprintln(stdout, RenderConditional(SuccessStyle, fmt.Sprintf("%s = %v", key, val)))
		}
		return map[string]interface{}{"key": key, "value": val}, nil
	})
}

func handleConfigReset(path string, jsonMode bool) error {
	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	return OutputJSON(jsonMode, "config reset", func() (interface{}, error) {
		if !jsonMode {
			fmt.Fprintln(stdout, RenderConditional(SuccessStyle, "Configuration réinitialisée."))
		}
		return map[string]string{"path": path}, nil
	})
}
