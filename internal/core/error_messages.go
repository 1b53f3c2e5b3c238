package core

// error_messages.go maps technical errors to user-facing messages with a
// code that support can look up.
//
// Codes by category:
//
//	DB001-DB006   storage (duplicates, connectivity, timeouts, conflicts)
//	VAL001-VAL004 input (missing fields, quantity, wrong bucket, missing column)
//	FILE001-FILE003 import files (size, encoding, no file)
//	IMP001-IMP003 import runs and lookups (busy, cancelled, not found)
//	RATE001       request throttling
//	ERR000        anything else; check the logs for the technical error
//
// Typed and sentinel errors are matched first with errors.Is / errors.As.
// Everything else falls through to the substring table, where the first
// case-insensitive match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

var sentinelMessages = []sentinelMessage{
	{ErrInvalidInput, UserMessage{
		Message: "Range, code and name are required",
		Action:  "Fill in every required field and try again",
		Code:    "VAL001",
	}},
	{ErrInvalidQuantity, UserMessage{
		Message: "Quantity must be between 1 and 99",
		Action:  "Pick a quantity in the allowed range",
		Code:    "VAL002",
	}},
	{ErrWrongStatus, UserMessage{
		Message: "This entry is not on the wishlist",
		Action:  "Refresh the list and try again",
		Code:    "VAL003",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum import size",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "Another import is still running",
		Action:  "Please wait a moment and try again",
		Code:    "IMP001",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "IMP002",
	}},
	{ErrNotFound, UserMessage{
		Message: "The paint or inventory entry no longer exists",
		Action:  "Refresh the list and try again",
		Code:    "IMP003",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is matched in order; keep specific patterns first.
var errorPatterns = []errorPattern{
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "This paint is already being saved",
			Action:  "Please try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced paint does not exist",
			Action:  "Refresh the catalog and try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB005",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB005",
		},
	},
	{
		pattern: "could not serialize access",
		msg: UserMessage{
			Message: "Database was busy with a conflicting change",
			Action:  "Please try again",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with a conflicting change",
			Action:  "Please try again",
			Code:    "DB006",
		},
	},
	{
		pattern: "decode latin-1",
		msg: UserMessage{
			Message: "File contains characters that could not be read",
			Action:  "Save the file as UTF-8 and import it again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to import",
			Code:    "FILE003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if col, ok := IsMissingColumn(err); ok {
		return UserMessage{
			Message: fmt.Sprintf("Required column %q is missing from the file", col),
			Action:  "Check the header against the sample CSV",
			Code:    "VAL004",
		}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action", or "" for nil.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
