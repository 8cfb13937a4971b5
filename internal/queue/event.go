// Package queue defines the notification events exchanged over the
// message broker and the worker that turns them into outbound SMS
// messages.
package queue

// Event kinds carried in BookingNotification.Event.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
)

// BookingNotification is published whenever a booking is created or
// confirmed. It carries enough denormalized detail for the SMS worker
// to compose a message without querying the primary database.
type BookingNotification struct {
	Event              string `json:"event"`
	BookingID          uint64 `json:"booking_id"`
	CustomerID         uint64 `json:"customer_id"`
	CustomerName       string `json:"customer_name,omitempty"`
	CustomerPhone      string `json:"customer_phone,omitempty"`
	ServiceName        string `json:"service_name"`
	BookingDate        string `json:"booking_date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	ServiceAmountCents int64  `json:"service_amount_cents"`
	OccurredAt         string `json:"occurred_at"`
}
