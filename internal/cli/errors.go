// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/BenYacineSawadogo/LegiChatUi/internal/api"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/chat"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/config"
	"github.com/BenYacineSawadogo/LegiChatUi/internal/storage"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2
	ExitConfigError   = 3
	ExitNetworkError  = 5
	ExitNotFoundError = 7
	ExitTimeoutError  = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // e.g. "conversations"
	Action  string // e.g. "delete"
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError is a malformed invocation. Usage is an example of correct use.
type UsageError struct {
	Reason string
	Usage  string
}

func (e *UsageError) Error() string {
	if e.Usage == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s\nUsage: %s", e.Reason, e.Usage)
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewCommandError creates a CommandError.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// NewUsageError creates a UsageError.
func NewUsageError(reason, usage string) error {
	return &UsageError{Reason: reason, Usage: usage}
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ErrMissingArgument reports a required argument that was not given.
func ErrMissingArgument(argName, usage string) error {
	return NewUsageError(fmt.Sprintf("missing required argument: %s", argName), usage)
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError prints err to stderr, or as a JSON envelope on stdout in JSON mode.
func DisplayError(err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		DisplayErrorJSON(err)
		return
	}
	fmt.Fprintf(stderr, "%s %s\n", RenderConditional(ErrorStyle, "[ERREUR]"), err.Error())
}

// DisplayErrorJSON writes err as a JSON object with its type.
func DisplayErrorJSON(err error) {
	output := map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	}

	var (
		cmdErr      *CommandError
		usageErr    *UsageError
		notFoundErr *NotFoundError
		reqErr      *api.RequestError
		validateErr config.ValidateErrors
	)
	switch {
	case errors.As(err, &cmdErr):
		output["error_type"] = "command_error"
		output["command"] = cmdErr.Command
		output["action"] = cmdErr.Action
	case errors.As(err, &usageErr):
		output["error_type"] = "usage_error"
	case errors.As(err, &notFoundErr):
		output["error_type"] = "not_found_error"
		output["resource"] = notFoundErr.Resource
		output["id"] = notFoundErr.ID
	case errors.As(err, &validateErr):
		output["error_type"] = "config_error"
		fields := make([]string, 0, len(validateErr))
		for _, v := range validateErr {
			fields = append(fields, v.Field)
		}
		output["fields"] = fields
	case errors.As(err, &reqErr):
		output["error_type"] = "request_error"
		if reqErr.StatusCode > 0 {
			output["status"] = reqErr.StatusCode
		}
	default:
		output["error_type"] = "generic_error"
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}

// HandleErrorAndExit displays err and exits with GetExitCode(err).
func HandleErrorAndExit(err error, jsonMode bool) {
	if err == nil {
		return
	}
	DisplayError(err, jsonMode)
	os.Exit(GetExitCode(err))
}

// GetExitCode maps an error onto an exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		usageErr    *UsageError
		notFoundErr *NotFoundError
		validateErr config.ValidateErrors
		reqErr      *api.RequestError
	)
	switch {
	case errors.As(err, &usageErr), errors.Is(err, chat.ErrEmptyMessage):
		return ExitUsageError
	case errors.As(err, &validateErr):
		return ExitConfigError
	case errors.As(err, &notFoundErr), errors.Is(err, storage.ErrConversationNotFound):
		return ExitNotFoundError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.As(err, &reqErr):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}

// IsNotFoundError reports whether err is a NotFoundError.
func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}
