package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avelys/salonops/internal/model"
	"github.com/avelys/salonops/internal/repository"
)

// ledgerBooking is the slice of booking state the ledger fake needs.
type ledgerBooking struct {
	amountCents   int64
	active        bool
	paymentStatus string
}

// fakeLedger mirrors repository.PaymentRepo's contract: every write
// reconciles the owning booking's payment status in the same step, and
// writes against missing or inactive bookings fail.
type fakeLedger struct {
	bookings map[uint64]*ledgerBooking
	payments map[uint64]*model.Payment
	nextID   uint64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		bookings: map[uint64]*ledgerBooking{},
		payments: map[uint64]*model.Payment{},
		nextID:   1,
	}
}

func (f *fakeLedger) recalc(bookingID uint64) {
	b := f.bookings[bookingID]
	var total int64
	for _, p := range f.payments {
		if p.BookingID == bookingID && p.IsActive {
			total += p.AmountCents
		}
	}
	b.paymentStatus = model.DerivePaymentStatus(total, b.amountCents)
}

func (f *fakeLedger) Create(_ context.Context, p *model.Payment) error {
	b, ok := f.bookings[p.BookingID]
	if !ok || !b.active {
		return repository.ErrBookingNotFound
	}
	p.ID = f.nextID
	f.nextID++
	p.IsActive = true
	f.payments[p.ID] = p
	f.recalc(p.BookingID)
	return nil
}

func (f *fakeLedger) SoftDelete(_ context.Context, id uint64) error {
	p, ok := f.payments[id]
	if !ok || !p.IsActive {
		return repository.ErrPaymentNotFound
	}
	p.IsActive = false
	if b, ok := f.bookings[p.BookingID]; ok && b.active {
		f.recalc(p.BookingID)
	}
	return nil
}

func (f *fakeLedger) ListByBooking(_ context.Context, bookingID uint64) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newPaymentFixture() (*PaymentService, *fakeLedger) {
	ledger := newFakeLedger()
	ledger.bookings[1] = &ledgerBooking{amountCents: 10000, active: true, paymentStatus: model.PaymentUnpaid}
	return NewPaymentService(ledger, zap.NewNop()), ledger
}

func TestAddPaymentReconciliationSequence(t *testing.T) {
	svc, ledger := newPaymentFixture()
	ctx := context.Background()

	p1, err := svc.Add(ctx, AddPaymentInput{BookingID: 1, AmountCents: 4000, Method: "cash"}, 9)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPartial, ledger.bookings[1].paymentStatus)

	_, err = svc.Add(ctx, AddPaymentInput{BookingID: 1, AmountCents: 6000, Method: "card"}, 9)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, ledger.bookings[1].paymentStatus)

	// Reversing the first payment drops the booking back to partial.
	require.NoError(t, svc.Reverse(ctx, p1.ID))
	assert.Equal(t, model.PaymentPartial, ledger.bookings[1].paymentStatus)

	// History keeps the reversed row.
	history, err := svc.ListForBooking(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestAddPaymentValidation(t *testing.T) {
	svc, _ := newPaymentFixture()

	_, err := svc.Add(context.Background(), AddPaymentInput{BookingID: 1, AmountCents: 0}, 9)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	_, err = svc.Add(context.Background(), AddPaymentInput{BookingID: 1, AmountCents: -500}, 9)
	require.ErrorAs(t, err, &verrs)

	_, err = svc.Add(context.Background(), AddPaymentInput{AmountCents: 100}, 9)
	require.ErrorAs(t, err, &verrs)
}

func TestAddPaymentGeneratesReference(t *testing.T) {
	svc, _ := newPaymentFixture()

	p, err := svc.Add(context.Background(), AddPaymentInput{BookingID: 1, AmountCents: 100}, 9)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ReferenceNo)

	p2, err := svc.Add(context.Background(), AddPaymentInput{BookingID: 1, AmountCents: 100, ReferenceNo: "RCPT-7"}, 9)
	require.NoError(t, err)
	assert.Equal(t, "RCPT-7", p2.ReferenceNo)
}

func TestAddPaymentUnknownBooking(t *testing.T) {
	svc, _ := newPaymentFixture()
	_, err := svc.Add(context.Background(), AddPaymentInput{BookingID: 42, AmountCents: 100}, 9)
	require.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestAddPaymentInactiveBooking(t *testing.T) {
	svc, ledger := newPaymentFixture()
	ledger.bookings[1].active = false
	_, err := svc.Add(context.Background(), AddPaymentInput{BookingID: 1, AmountCents: 100}, 9)
	require.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestReversePaymentTwice(t *testing.T) {
	svc, _ := newPaymentFixture()

	p, err := svc.Add(context.Background(), AddPaymentInput{BookingID: 1, AmountCents: 100}, 9)
	require.NoError(t, err)
	require.NoError(t, svc.Reverse(context.Background(), p.ID))
	require.ErrorIs(t, svc.Reverse(context.Background(), p.ID), repository.ErrPaymentNotFound)
}

func TestReverseUnknownPayment(t *testing.T) {
	svc, _ := newPaymentFixture()
	require.ErrorIs(t, svc.Reverse(context.Background(), 404), repository.ErrPaymentNotFound)
}

func TestReverseAfterBookingDeleted(t *testing.T) {
	// The payment flips inactive but the frozen booking keeps whatever
	// payment status it had when it was deleted.
	svc, ledger := newPaymentFixture()

	p, err := svc.Add(context.Background(), AddPaymentInput{BookingID: 1, AmountCents: 10000}, 9)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPaid, ledger.bookings[1].paymentStatus)

	ledger.bookings[1].active = false
	require.NoError(t, svc.Reverse(context.Background(), p.ID))
	assert.False(t, ledger.payments[p.ID].IsActive)
	assert.Equal(t, model.PaymentPaid, ledger.bookings[1].paymentStatus)
}
