// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across LegiChat.
//
// # Key Functions
//
// String Utilities:
//   - FirstRunes: rune-safe prefix (conversation previews)
//   - TruncateRunes: rune-safe truncation with ellipsis
//   - TruncateWidth, PadWidth: display-width aware layout for the sidebar
//   - OneLine: collapse whitespace for single-line rendering
//
// File Operations:
//   - WriteFileAtomic: streams into a temp file, fsyncs, renames (config save)
//   - WriteBytesAtomic: the same for in-memory content (exports)
//
// # Usage
//
//	preview := util.FirstRunes(text, 50)
//	cell := util.PadWidth(util.TruncateWidth(title, 28), 28)
package util
