package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/avelys/salonops/internal/model"
	"github.com/avelys/salonops/internal/queue"
	"github.com/avelys/salonops/internal/repository"
)

// BookingStore is the persistence surface the lifecycle service needs.
// The production implementation is repository.BookingRepo; tests supply
// in-memory fakes.
type BookingStore interface {
	CheckConflict(ctx context.Context, date, start, end string) (uint64, bool, error)
	CreateWithStaff(ctx context.Context, b *model.Booking, staffIDs []uint64, assignedBy uint64) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	ListActive(ctx context.Context) ([]model.Booking, error)
	UpdateStatusFrom(ctx context.Context, id uint64, from, to string) (int64, error)
	SoftDelete(ctx context.Context, id uint64) error
}

// CustomerStore resolves customer references before a booking is
// accepted and supplies contact details for notifications.
type CustomerStore interface {
	Exists(ctx context.Context, id uint64) (bool, error)
	GetByID(ctx context.Context, id uint64) (*model.Customer, error)
}

// Notifier publishes booking notifications for the SMS worker. A nil
// Notifier disables notifications entirely.
type Notifier interface {
	Publish(ctx context.Context, ev queue.BookingNotification) error
}

// BookingService orchestrates the booking lifecycle: validated,
// conflict-checked creation; the status state machine; soft deletion.
type BookingService struct {
	store     BookingStore
	customers CustomerStore
	notifier  Notifier
	validate  *Validator
	log       *zap.Logger
}

// NewBookingService wires the lifecycle service. notifier may be nil.
func NewBookingService(store BookingStore, customers CustomerStore, notifier Notifier, log *zap.Logger) *BookingService {
	return &BookingService{
		store:     store,
		customers: customers,
		notifier:  notifier,
		validate:  NewValidator(),
		log:       log,
	}
}

// CreateBookingInput is the payload for Create. Times accept HH:MM or
// HH:MM:SS; amounts are integer cents.
type CreateBookingInput struct {
	BookingDate        string   `json:"booking_date" validate:"required,datetime=2006-01-02"`
	StartTime          string   `json:"start_time" validate:"required,timeofday"`
	EndTime            string   `json:"end_time" validate:"required,timeofday"`
	CustomerID         uint64   `json:"customer_id" validate:"required"`
	ServiceName        string   `json:"service_name" validate:"required,max=255"`
	ServiceAmountCents int64    `json:"service_amount_cents" validate:"gte=0"`
	Note               string   `json:"note" validate:"max=2000"`
	StaffIDs           []uint64 `json:"staff_ids"`
}

// Create runs the whole create-booking sequence: field validation,
// conflict pre-check, then the atomic booking+staff insert. The caller
// gets either a fully formed booking or an error; there is no partial
// state to observe. A successful create publishes a booking.created
// notification, best effort.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput, createdBy uint64) (*model.Booking, error) {
	errs := s.validate.Struct(input)

	start, startOK := NormalizeTimeOfDay(input.StartTime)
	end, endOK := NormalizeTimeOfDay(input.EndTime)
	if startOK && endOK && end <= start {
		errs = append(errs, ValidationError{Field: "end_time", Message: "must be after start_time"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if ok, err := s.customers.Exists(ctx, input.CustomerID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ValidationErrors{{Field: "customer_id", Message: "unknown customer"}}
	}

	// Fast-path pre-check so the common conflict case never opens a
	// transaction. The authoritative check runs again under lock inside
	// CreateWithStaff.
	if conflictID, found, err := s.store.CheckConflict(ctx, input.BookingDate, start, end); err != nil {
		return nil, err
	} else if found {
		return nil, &ConflictError{BookingID: conflictID}
	}

	booking := &model.Booking{
		BookingDate:        input.BookingDate,
		StartTime:          start,
		EndTime:            end,
		CustomerID:         input.CustomerID,
		ServiceName:        input.ServiceName,
		ServiceAmountCents: input.ServiceAmountCents,
		Note:               input.Note,
		CreatedBy:          createdBy,
	}
	staffIDs := dedupe(input.StaffIDs)

	conflictID, err := s.store.CreateWithStaff(ctx, booking, staffIDs, createdBy)
	if errors.Is(err, repository.ErrScheduleConflict) {
		return nil, &ConflictError{BookingID: conflictID}
	}
	if err != nil {
		return nil, err
	}

	s.notify(ctx, queue.EventBookingCreated, booking)
	return booking, nil
}

// UpdateStatus moves a booking through the state machine. Statuses
// outside the enum fail validation; disallowed edges fail with
// TransitionError. Updating a soft-deleted booking is a silent no-op,
// matching the delete semantics: the row is hidden, not gone.
func (s *BookingService) UpdateStatus(ctx context.Context, id uint64, newStatus string) (*model.Booking, error) {
	if !model.ValidStatus(newStatus) {
		return nil, ValidationErrors{{Field: "status", Message: "must be one of: pending confirmed completed cancelled"}}
	}
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return b, nil
	}
	if !model.CanTransition(b.Status, newStatus) {
		return nil, &TransitionError{From: b.Status, To: newStatus}
	}
	n, err := s.store.UpdateStatusFrom(ctx, id, b.Status, newStatus)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Lost a race with a concurrent transition or delete.
		return nil, &TransitionError{From: b.Status, To: newStatus}
	}
	b.Status = newStatus
	if newStatus == model.StatusConfirmed {
		s.notify(ctx, queue.EventBookingConfirmed, b)
	}
	return b, nil
}

// SoftDelete hides a booking from the active views. Staff assignments
// and payments stay in storage untouched.
func (s *BookingService) SoftDelete(ctx context.Context, id uint64) error {
	return s.store.SoftDelete(ctx, id)
}

// Get returns a booking by ID, active or not, with staff IDs.
func (s *BookingService) Get(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.store.GetByID(ctx, id)
}

// List returns all active bookings.
func (s *BookingService) List(ctx context.Context) ([]model.Booking, error) {
	return s.store.ListActive(ctx)
}

func (s *BookingService) notify(ctx context.Context, event string, b *model.Booking) {
	if s.notifier == nil {
		return
	}
	ev := queue.BookingNotification{
		Event:              event,
		BookingID:          b.ID,
		CustomerID:         b.CustomerID,
		ServiceName:        b.ServiceName,
		BookingDate:        b.BookingDate,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		ServiceAmountCents: b.ServiceAmountCents,
		OccurredAt:         time.Now().UTC().Format(time.RFC3339),
	}
	// Contact details are a best-effort enrichment; the worker can cope
	// with an empty phone.
	if cust, err := s.customers.GetByID(ctx, b.CustomerID); err == nil {
		ev.CustomerName = cust.FullName
		ev.CustomerPhone = cust.Phone
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.log.Warn("publish booking notification failed",
			zap.String("event", event), zap.Uint64("booking_id", b.ID), zap.Error(err))
	}
}

// dedupe drops zero and duplicate staff IDs while preserving order.
func dedupe(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
