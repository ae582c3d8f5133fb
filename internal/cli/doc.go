// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the command handlers of
// legichat.
//
// # Commands
//
//   - tui (default): full-screen chat interface
//   - ask: one headless question, reply printed to stdout
//   - chat: line-mode chat with input history
//   - conversations: list, rename, delete, export or clear stored conversations
//   - theme: show or change the light/dark theme
//   - config: show, get or set configuration values
//   - serve: local development answer backend
//   - version, help
//
// # Usage
//
//	cmd, args := cli.Parse()
//	if err := cli.Run(cmd, args); err != nil {
//		cli.HandleErrorAndExit(err, args.JSON)
//	}
//
// Listing commands accept --json and then print a JSONResponse envelope.
package cli
