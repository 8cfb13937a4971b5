package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avelys/salonops/internal/model"
)

// Ledger is the payment persistence surface. Its implementations keep
// the payment write and the payment-status recomputation in one
// transaction; the service layer never sees the two separately.
type Ledger interface {
	Create(ctx context.Context, p *model.Payment) error
	SoftDelete(ctx context.Context, id uint64) error
	ListByBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error)
}

// PaymentService validates and records payments against bookings.
type PaymentService struct {
	ledger   Ledger
	validate *Validator
	log      *zap.Logger
}

// NewPaymentService wires the payment service.
func NewPaymentService(ledger Ledger, log *zap.Logger) *PaymentService {
	return &PaymentService{ledger: ledger, validate: NewValidator(), log: log}
}

// AddPaymentInput is the payload for Add. Amounts are integer cents and
// must be positive; method and reference are free-form.
type AddPaymentInput struct {
	BookingID   uint64 `json:"booking_id" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Method      string `json:"method" validate:"max=64"`
	ReferenceNo string `json:"reference_no" validate:"max=64"`
	Note        string `json:"note" validate:"max=2000"`
}

// Add records a payment against an active booking. The owning booking's
// payment status is reconciled in the same transaction as the insert.
// When no reference number is supplied a receipt reference is
// generated, so every ledger row can be pointed at from a paper trail.
// Returns repository.ErrBookingNotFound when the booking is missing or
// inactive.
func (s *PaymentService) Add(ctx context.Context, input AddPaymentInput, createdBy uint64) (*model.Payment, error) {
	if errs := s.validate.Struct(input); len(errs) > 0 {
		return nil, errs
	}
	ref := input.ReferenceNo
	if ref == "" {
		ref = uuid.NewString()
	}
	p := &model.Payment{
		BookingID:   input.BookingID,
		AmountCents: input.AmountCents,
		Method:      input.Method,
		ReferenceNo: ref,
		Note:        input.Note,
		CreatedBy:   createdBy,
	}
	if err := s.ledger.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Reverse soft-deletes a payment and reconciles the owning booking.
// Returns repository.ErrPaymentNotFound when the payment does not exist
// or was already reversed.
func (s *PaymentService) Reverse(ctx context.Context, id uint64) error {
	return s.ledger.SoftDelete(ctx, id)
}

// ListForBooking returns the full payment history of a booking,
// reversed entries included.
func (s *PaymentService) ListForBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
	return s.ledger.ListByBooking(ctx, bookingID)
}
