// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv is the key-value persistence layer behind every LegiChat store.
//
// A Backend is a raw string-to-string map on disk (SQLite or BoltDB) or in
// memory. Store wraps a Backend with JSON helpers and absorbs failures: a read,
// write or parse error is logged once as a *StorageError and the caller carries
// on with in-memory state.
//
// # Backends
//
//   - SQLiteBackend: single kv table via modernc.org/sqlite (default)
//   - BoltBackend: single bucket via go.etcd.io/bbolt
//   - MemoryBackend: process-local map for tests and ephemeral sessions
//
// # Usage
//
//	backend, err := kv.Open(kv.KindSQLite, "~/.legichat/legichat.db")
//	if err != nil { ... }
//	store := kv.NewStore(backend)
//	defer store.Close()
//
//	var list []model.Conversation
//	store.GetJSON(kv.KeyConversations, &list)
package kv
