// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv is the key-value persistence layer behind every LegiChat store.
package kv

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBackend is returned for an unsupported backend kind.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrClosed is returned when a backend is used after Close.
	ErrClosed = errors.New("storage backend closed")
)

// Storage operations reported in StorageError.Op.
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpParse  = "parse"
	OpEncode = "encode"
	OpDelete = "delete"
	OpClear  = "clear"
)

// StorageError describes a failed key-value operation.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
