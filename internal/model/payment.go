package model

import "time"

// Payment statuses derived for a booking from its active payments.
const (
	PaymentUnpaid  = "unpaid"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// Payment records money received against a booking. Payments are never
// purged; reversing one sets IsActive to false so the audit history
// survives even when the owning booking is soft-deleted.
type Payment struct {
	ID          uint64    `json:"id"`
	BookingID   uint64    `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method,omitempty"`
	ReferenceNo string    `json:"reference_no,omitempty"`
	Note        string    `json:"note,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   uint64    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// DerivePaymentStatus computes a booking's payment status from the sum
// of its active payments and the service price, both in cents. The
// comparison is exact integer arithmetic:
//
//	totalPaid == 0                 -> unpaid (unless the service is free)
//	0 < totalPaid < serviceAmount  -> partial
//	totalPaid >= serviceAmount     -> paid
//
// A zero-priced service is paid from the start, with or without payments.
func DerivePaymentStatus(totalPaidCents, serviceAmountCents int64) string {
	if serviceAmountCents == 0 {
		return PaymentPaid
	}
	switch {
	case totalPaidCents == 0:
		return PaymentUnpaid
	case totalPaidCents < serviceAmountCents:
		return PaymentPartial
	default:
		return PaymentPaid
	}
}
