// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv is the key-value persistence layer behind every LegiChat store.
package kv

import (
	"encoding/json"
	"log"
	"sync"
)

// Store adapts a Backend for the stores. Its methods never return errors:
// failures are logged and remembered in LastError, and callers keep working
// from their in-memory state.
type Store struct {
	backend Backend

	mu      sync.Mutex
	lastErr *StorageError
}

// NewStore wraps backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// NewMemoryStore returns a Store over a fresh MemoryBackend.
func NewMemoryStore() *Store {
	return NewStore(NewMemoryBackend())
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// GetString returns the raw value for key. Missing or unreadable values
// return ok=false.
func (s *Store) GetString(key string) (string, bool) {
	v, ok, err := s.backend.Get(key)
	if err != nil {
		s.absorb(OpRead, key, err)
		return "", false
	}
	return v, ok
}

// SetString writes a raw value.
func (s *Store) SetString(key, value string) {
	if err := s.backend.Set(key, value); err != nil {
		s.absorb(OpWrite, key, err)
	}
}

// GetJSON decodes the value for key into dst. It returns false when the key is
// missing, unreadable or malformed; dst is left untouched in that case.
func (s *Store) GetJSON(key string, dst any) bool {
	raw, ok := s.GetString(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.absorb(OpParse, key, err)
		return false
	}
	return true
}

// SetJSON encodes v as JSON and writes it under key.
func (s *Store) SetJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.absorb(OpEncode, key, err)
		return
	}
	s.SetString(key, string(data))
}

// Remove deletes key.
func (s *Store) Remove(key string) {
	if err := s.backend.Delete(key); err != nil {
		s.absorb(OpDelete, key, err)
	}
}

// Clear deletes every key.
func (s *Store) Clear() {
	if err := s.backend.Clear(); err != nil {
		s.absorb(OpClear, "", err)
	}
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// LastError returns the most recently absorbed failure, or nil.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return nil
	}
	return s.lastErr
}

func (s *Store) absorb(op, key string, err error) {
	se := &StorageError{Op: op, Key: key, Err: err}
	log.Printf("WARNING: %v", se)

	s.mu.Lock()
	s.lastErr = se
	s.mu.Unlock()
}
