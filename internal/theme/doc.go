// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme stores the light/dark preference and applies it.
//
// The preference is persisted under legichat_theme. When nothing valid is
// stored, the terminal background decides. Every change is persisted, then
// handed to an Applier; the terminal applier flips lipgloss adaptive colors.
//
// # Usage
//
//	store := theme.NewStore(kvStore, theme.DetectDark, theme.NewTerminalApplier(nil))
//	store.Toggle()
//	if store.IsDark() { ... }
package theme
