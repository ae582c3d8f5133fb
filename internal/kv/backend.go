// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv is the key-value persistence layer behind every LegiChat store.
package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Logical keys shared by the stores.
const (
	KeyConversations = "legichat_conversations"
	KeyMessages      = "legichat_messages"
	KeyTheme         = "legichat_theme"
)

// Backend is a persistent string map.
type Backend interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Clear() error
	Close() error
}

// Kind selects a backend implementation.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindBolt   Kind = "bolt"
	KindMemory Kind = "memory"
)

// Kinds lists the supported backend kinds.
var Kinds = []Kind{KindSQLite, KindBolt, KindMemory}

// ParseKind validates a backend name from configuration.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// Open creates the backend of the given kind. path is ignored for memory.
func Open(kind Kind, path string) (Backend, error) {
	if kind == KindMemory {
		return NewMemoryBackend(), nil
	}

	path = expandHome(path)
	if path == "" {
		return nil, fmt.Errorf("%s backend requires a path", kind)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	switch kind {
	case KindSQLite:
		return OpenSQLite(path)
	case KindBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
