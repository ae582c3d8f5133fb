// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the client side of the LegiChat answer endpoint.
package api

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse indicates a 2xx reply without a usable body.
	ErrEmptyResponse = errors.New("empty response from answer backend")

	// ErrInvalidRequest indicates a missing conversation id or message.
	ErrInvalidRequest = errors.New("invalid request")
)

// RequestError describes a failed submission.
// StatusCode is 0 when the request never produced an HTTP response.
type RequestError struct {
	Op         string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure was a server-side error.
func (e *RequestError) Retryable() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsCancellation reports whether err comes from a cancelled request.
// Deadline expiry is a failure, not a cancellation.
func IsCancellation(err error) bool {
	return err != nil && errors.Is(err, context.Canceled)
}
