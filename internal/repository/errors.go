// Package repository defines error values shared across repositories.
// These sentinels let handlers and services distinguish failure modes
// without inspecting driver errors: not-found conditions map to HTTP
// 404 and a schedule conflict maps to 409.
package repository

import "errors"

// ErrBookingNotFound is returned when a booking does not exist or is
// inactive in a context that requires an active booking.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPaymentNotFound is returned when a payment row does not exist.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrCustomerNotFound is returned when a customer does not exist or
// has been deactivated.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrScheduleConflict is returned by the transactional create when the
// locked re-check finds an active booking overlapping the requested
// interval. The conflicting booking's ID accompanies the error.
var ErrScheduleConflict = errors.New("schedule conflict")
