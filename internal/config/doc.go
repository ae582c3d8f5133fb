// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for LegiChat.
//
// Configuration is a TOML file with sensible defaults, environment variable
// overrides, and validation.
//
// # Sections
//
//   - [api]: answer backend URL, timeout, retries, rate limit, simulation
//   - [storage]: key-value backend (sqlite, bolt, memory) and its path
//   - [ui]: sidebar width, timestamps, forced theme
//   - [log]: log file path and verbosity
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LEGICHAT_*)
//   - --config <path>, or ~/.legichat/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewHTTPClient(cfg.API.URL).WithTimeout(cfg.API.Timeout())
package config
