// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the request lifecycle of a LegiChat exchange.
package chat

import (
	"context"
	"sync"
)

// =============================================================================
// CANCEL HANDLE
// =============================================================================

// cancelHandle holds the cancel function of the in-flight exchange.
// Safe for use from the event loop and from the goroutine running the request.
type cancelHandle struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

func newCancelHandle() *cancelHandle {
	return &cancelHandle{}
}

// set stores fn, cancelling any function it replaces.
func (h *cancelHandle) set(fn context.CancelFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelFunc != nil {
		h.cancelFunc()
	}
	h.cancelFunc = fn
}

// cancel invokes the stored function and clears it.
// Safe to call multiple times or with nothing set.
func (h *cancelHandle) cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancelFunc != nil {
		h.cancelFunc()
		h.cancelFunc = nil
	}
}

// active reports whether a cancel function is held.
func (h *cancelHandle) active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelFunc != nil
}
