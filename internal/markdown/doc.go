// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders assistant answers for the terminal.
//
// Raw HTML is stripped outside code fences, single newlines become hard line
// breaks, and the result goes through glamour with the style of the current
// theme. Rendering never fails: on error the original text is returned.
//
// # Usage
//
//	r := markdown.NewRenderer()
//	out := r.Render(msg.Content, theme.Dark, 72)
package markdown
