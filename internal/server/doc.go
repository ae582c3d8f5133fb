// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server is a local development backend for the LegiChat answer
// endpoint. It speaks the same wire contract the TUI client expects, so the
// client can be exercised end to end without the real service.
//
// # Endpoints
//
//   - POST /api/chat   - answer one question for a conversation
//   - GET  /api/health - liveness and request counters
//
// Answers come from a small built-in Library of legal texts matched by
// keyword. Questions with no usable topic get a not_found reply.
//
// # Usage
//
//	srv := server.NewServer(5000)
//	go srv.Start()
//	defer srv.Shutdown(ctx)
package server
