package model

import "time"

// Booking statuses form a small state machine: a booking starts out
// pending, is confirmed by staff and finally completed. Cancellation is
// only possible while the booking has not been completed.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Booking mirrors the schema of the bookings table. Times of day are
// carried as "HH:MM:SS" strings exactly as MySQL stores TIME columns;
// the booking date is a plain "YYYY-MM-DD" string. Monetary amounts are
// integer cents.
//
// Fields:
//  ID                 – primary key identifier.
//  BookingDate        – calendar date of the appointment.
//  StartTime, EndTime – same-day time-of-day interval, end > start.
//  CustomerID         – customer the appointment is for.
//  ServiceName        – name of the booked service.
//  ServiceAmountCents – price of the service in cents.
//  Status             – lifecycle status (pending/confirmed/completed/cancelled).
//  PaymentStatus      – derived from the active payments (unpaid/partial/paid).
//  IsActive           – soft-delete flag; inactive bookings are hidden, not purged.
//  CreatedBy          – staff user who created the booking.
type Booking struct {
	ID                 uint64    `json:"id"`
	BookingDate        string    `json:"booking_date"`
	StartTime          string    `json:"start_time"`
	EndTime            string    `json:"end_time"`
	CustomerID         uint64    `json:"customer_id"`
	ServiceName        string    `json:"service_name"`
	ServiceAmountCents int64     `json:"service_amount_cents"`
	Note               string    `json:"note,omitempty"`
	Status             string    `json:"status"`
	PaymentStatus      string    `json:"payment_status"`
	IsActive           bool      `json:"is_active"`
	CreatedBy          uint64    `json:"created_by"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	StaffIDs           []uint64  `json:"staff_ids"`
}

// StaffAssignment links a booking to a staff member. Rows are written
// atomically with the owning booking and never updated afterwards.
type StaffAssignment struct {
	ID         uint64    `json:"id"`
	BookingID  uint64    `json:"booking_id"`
	StaffID    uint64    `json:"staff_id"`
	AssignedBy uint64    `json:"assigned_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidStatus reports whether s is one of the four booking statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from one status to
// another. Allowed edges: pending->confirmed, confirmed->completed, and
// cancelled from pending or confirmed. Everything else, including
// re-entering the current status, is rejected.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// Overlaps applies the half-open interval test to two same-day
// [start, end) time-of-day intervals: they overlap iff
// aStart < bEnd && aEnd > bStart. Intervals that merely touch
// (aEnd == bStart) do not overlap. The strings compare correctly as long
// as both sides use the same zero-padded HH:MM:SS layout, which is what
// the validator normalizes to and what MySQL TIME columns return.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}
