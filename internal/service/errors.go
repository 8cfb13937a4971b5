// Package service implements the booking lifecycle and the payment
// ledger on top of the repository layer. Handlers talk to services,
// services talk to stores; the error types below carry enough context
// for the HTTP layer to pick a status code without string matching.
package service

import (
	"fmt"
	"strings"
)

// ValidationError describes one violated input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidationErrors collects every violated field of a request so the
// caller can fix them all in one round trip. Maps to HTTP 400.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ConflictError reports a schedule overlap with an existing active
// booking. BookingID identifies the conflicting booking so the caller
// can show it. Maps to HTTP 409.
type ConflictError struct {
	BookingID uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule conflict with booking %d", e.BookingID)
}

// TransitionError reports a booking status change that the state
// machine does not allow. Maps to HTTP 422.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}
