// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a stored conversation to a file.
//
// # Supported Formats
//
//   - Markdown: readable transcript with sources under each answer
//   - JSON: the conversation and its messages as stored
//   - HTML: standalone page styled for the light or dark theme
//
// # Usage
//
//	tr, err := export.NewTranscript(conversations, messages, id)
//	exporter, err := export.New(export.FormatMarkdown, nil)
//	path, err := export.ExportToFile(tr, exporter, nil)
package export
