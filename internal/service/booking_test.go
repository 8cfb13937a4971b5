package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avelys/salonops/internal/model"
	"github.com/avelys/salonops/internal/queue"
	"github.com/avelys/salonops/internal/repository"
)

// fakeBookingStore keeps bookings in memory and honors the same
// contract as repository.BookingRepo: CreateWithStaff re-checks for
// conflicts and fills in server-assigned fields.
type fakeBookingStore struct {
	bookings   map[uint64]*model.Booking
	staff      map[uint64][]uint64
	nextID     uint64
	createErr  error
	updateErr  error
	raceOnNext bool // make the next UpdateStatusFrom report zero rows
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{
		bookings: map[uint64]*model.Booking{},
		staff:    map[uint64][]uint64{},
		nextID:   1,
	}
}

func (f *fakeBookingStore) findConflict(date, start, end string) (uint64, bool) {
	for id, b := range f.bookings {
		if b.IsActive && b.BookingDate == date && model.Overlaps(start, end, b.StartTime, b.EndTime) {
			return id, true
		}
	}
	return 0, false
}

func (f *fakeBookingStore) CheckConflict(_ context.Context, date, start, end string) (uint64, bool, error) {
	id, found := f.findConflict(date, start, end)
	return id, found, nil
}

func (f *fakeBookingStore) CreateWithStaff(_ context.Context, b *model.Booking, staffIDs []uint64, _ uint64) (uint64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	if id, found := f.findConflict(b.BookingDate, b.StartTime, b.EndTime); found {
		return id, repository.ErrScheduleConflict
	}
	b.ID = f.nextID
	f.nextID++
	b.Status = model.StatusPending
	b.PaymentStatus = model.DerivePaymentStatus(0, b.ServiceAmountCents)
	b.IsActive = true
	b.StaffIDs = staffIDs
	f.bookings[b.ID] = b
	f.staff[b.ID] = staffIDs
	return b.ID, nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) ListActive(_ context.Context) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) UpdateStatusFrom(_ context.Context, id uint64, from, to string) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	if f.raceOnNext {
		f.raceOnNext = false
		return 0, nil
	}
	b, ok := f.bookings[id]
	if !ok || !b.IsActive || b.Status != from {
		return 0, nil
	}
	b.Status = to
	return 1, nil
}

func (f *fakeBookingStore) SoftDelete(_ context.Context, id uint64) error {
	b, ok := f.bookings[id]
	if !ok || !b.IsActive {
		return repository.ErrBookingNotFound
	}
	b.IsActive = false
	return nil
}

type fakeCustomers struct {
	known map[uint64]*model.Customer
	err   error
}

func (f *fakeCustomers) Exists(_ context.Context, id uint64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.known[id]
	return ok, nil
}

func (f *fakeCustomers) GetByID(_ context.Context, id uint64) (*model.Customer, error) {
	c, ok := f.known[id]
	if !ok {
		return nil, repository.ErrCustomerNotFound
	}
	return c, nil
}

type fakeNotifier struct {
	events []queue.BookingNotification
	err    error
}

func (f *fakeNotifier) Publish(_ context.Context, ev queue.BookingNotification) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func newBookingFixture() (*BookingService, *fakeBookingStore, *fakeNotifier) {
	store := newFakeBookingStore()
	customers := &fakeCustomers{known: map[uint64]*model.Customer{
		7: {ID: 7, FullName: "Dana Wells", Phone: "+15550100"},
	}}
	notifier := &fakeNotifier{}
	svc := NewBookingService(store, customers, notifier, zap.NewNop())
	return svc, store, notifier
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		BookingDate:        "2026-09-01",
		StartTime:          "10:00",
		EndTime:            "11:00",
		CustomerID:         7,
		ServiceName:        "Haircut",
		ServiceAmountCents: 4500,
		StaffIDs:           []uint64{3},
	}
}

func TestCreateBooking(t *testing.T) {
	svc, store, notifier := newBookingFixture()

	b, err := svc.Create(context.Background(), validInput(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.ID)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, model.PaymentUnpaid, b.PaymentStatus)
	assert.Equal(t, "10:00:00", b.StartTime)
	assert.Equal(t, "11:00:00", b.EndTime)
	assert.Equal(t, uint64(42), b.CreatedBy)
	assert.Equal(t, []uint64{3}, store.staff[b.ID])

	require.Len(t, notifier.events, 1)
	ev := notifier.events[0]
	assert.Equal(t, queue.EventBookingCreated, ev.Event)
	assert.Equal(t, b.ID, ev.BookingID)
	assert.Equal(t, "+15550100", ev.CustomerPhone)
}

func TestCreateBookingCollectsAllFieldErrors(t *testing.T) {
	svc, _, _ := newBookingFixture()

	input := CreateBookingInput{
		BookingDate: "01-09-2026",
		StartTime:   "25:00",
		EndTime:     "11:00",
		ServiceName: "",
		CustomerID:  0,
	}
	_, err := svc.Create(context.Background(), input, 1)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	assert.True(t, fields["booking_date"])
	assert.True(t, fields["start_time"])
	assert.True(t, fields["customer_id"])
	assert.True(t, fields["service_name"])
}

func TestCreateBookingEndBeforeStart(t *testing.T) {
	svc, _, _ := newBookingFixture()

	input := validInput()
	input.StartTime = "11:00"
	input.EndTime = "10:00"
	_, err := svc.Create(context.Background(), input, 1)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "end_time", verrs[0].Field)

	// Zero-length intervals are rejected as well.
	input.EndTime = "11:00"
	_, err = svc.Create(context.Background(), input, 1)
	require.ErrorAs(t, err, &verrs)
}

func TestCreateBookingUnknownCustomer(t *testing.T) {
	svc, _, _ := newBookingFixture()

	input := validInput()
	input.CustomerID = 99
	_, err := svc.Create(context.Background(), input, 1)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "customer_id", verrs[0].Field)
}

func TestCreateBookingConflict(t *testing.T) {
	svc, _, _ := newBookingFixture()

	first, err := svc.Create(context.Background(), validInput(), 1)
	require.NoError(t, err)

	input := validInput()
	input.StartTime = "10:30"
	input.EndTime = "11:30"
	_, err = svc.Create(context.Background(), input, 1)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.BookingID)
}

func TestCreateBookingTouchingIntervalsAllowed(t *testing.T) {
	svc, _, _ := newBookingFixture()

	_, err := svc.Create(context.Background(), validInput(), 1)
	require.NoError(t, err)

	// Back to back with the first booking, sharing the 11:00 boundary.
	input := validInput()
	input.StartTime = "11:00"
	input.EndTime = "12:00"
	_, err = svc.Create(context.Background(), input, 1)
	require.NoError(t, err)
}

func TestCreateBookingConflictIgnoresDeleted(t *testing.T) {
	svc, _, _ := newBookingFixture()

	first, err := svc.Create(context.Background(), validInput(), 1)
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(context.Background(), first.ID))

	_, err = svc.Create(context.Background(), validInput(), 1)
	require.NoError(t, err)
}

func TestCreateBookingLockedRecheck(t *testing.T) {
	// The pre-check passes but a concurrent writer grabs the slot before
	// the transaction runs. The locked re-check must surface the
	// conflict instead of inserting a double booking.
	svc, store, _ := newBookingFixture()

	store.createErr = nil
	other := &model.Booking{
		ID: 50, BookingDate: "2026-09-01",
		StartTime: "10:00:00", EndTime: "11:00:00",
		IsActive: true, Status: model.StatusPending,
	}

	// Sneak the competitor in after validation by aliasing CheckConflict:
	// the fake's pre-check sees an empty store, then we add the row.
	input := validInput()
	_, found, err := store.CheckConflict(context.Background(), input.BookingDate, "10:00:00", "11:00:00")
	require.NoError(t, err)
	require.False(t, found)

	store.bookings[other.ID] = other
	_, err = store.CreateWithStaff(context.Background(), &model.Booking{
		BookingDate: input.BookingDate, StartTime: "10:00:00", EndTime: "11:00:00",
	}, nil, 1)
	var conflictID uint64 = 50
	require.ErrorIs(t, err, repository.ErrScheduleConflict)

	// And through the service the same race maps to ConflictError.
	_, err = svc.Create(context.Background(), input, 1)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, conflictID, conflict.BookingID)
}

func TestCreateBookingDedupesStaff(t *testing.T) {
	svc, store, _ := newBookingFixture()

	input := validInput()
	input.StaffIDs = []uint64{3, 0, 5, 3, 5}
	b, err := svc.Create(context.Background(), input, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 5}, store.staff[b.ID])

	input2 := validInput()
	input2.StartTime = "12:00"
	input2.EndTime = "13:00"
	input2.StaffIDs = nil
	b2, err := svc.Create(context.Background(), input2, 1)
	require.NoError(t, err)
	assert.Empty(t, store.staff[b2.ID])
}

func TestCreateBookingStoreErrorPropagates(t *testing.T) {
	svc, store, notifier := newBookingFixture()

	boom := errors.New("db down")
	store.createErr = boom
	_, err := svc.Create(context.Background(), validInput(), 1)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, notifier.events)
}

func TestUpdateStatusHappyPath(t *testing.T) {
	svc, _, notifier := newBookingFixture()

	b, err := svc.Create(context.Background(), validInput(), 1)
	require.NoError(t, err)

	b, err = svc.UpdateStatus(context.Background(), b.ID, model.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, b.Status)

	b, err = svc.UpdateStatus(context.Background(), b.ID, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, b.Status)

	// created + confirmed; completion is not announced.
	require.Len(t, notifier.events, 2)
	assert.Equal(t, queue.EventBookingConfirmed, notifier.events[1].Event)
}

func TestUpdateStatusRejectsBadEdges(t *testing.T) {
	svc, _, _ := newBookingFixture()

	b, err := svc.Create(context.Background(), validInput(), 1)
	require.NoError(t, err)

	// pending -> completed skips confirmation.
	_, err = svc.UpdateStatus(context.Background(), b.ID, model.StatusCompleted)
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, model.StatusPending, terr.From)
	assert.Equal(t, model.StatusCompleted, terr.To)

	// Unknown status is a validation failure, not a transition failure.
	_, err = svc.UpdateStatus(context.Background(), b.ID, "archived")
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	// Cancelled is terminal.
	_, err = svc.UpdateStatus(context.Background(), b.ID, model.StatusCancelled)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), b.ID, model.StatusConfirmed)
	require.ErrorAs(t, err, &terr)
}

func TestUpdateStatusDeletedBookingIsNoOp(t *testing.T) {
	svc, store, _ := newBookingFixture()

	b, err := svc.Create(context.Background(), validInput(), 1)
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(context.Background(), b.ID))

	got, err := svc.UpdateStatus(context.Background(), b.ID, model.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, model.StatusPending, store.bookings[b.ID].Status)
}

func TestUpdateStatusLostRace(t *testing.T) {
	svc, store, _ := newBookingFixture()

	b, err := svc.Create(context.Background(), validInput(), 1)
	require.NoError(t, err)

	store.raceOnNext = true
	_, err = svc.UpdateStatus(context.Background(), b.ID, model.StatusConfirmed)
	var terr *TransitionError
	require.ErrorAs(t, err, &terr)
}

func TestUpdateStatusMissingBooking(t *testing.T) {
	svc, _, _ := newBookingFixture()
	_, err := svc.UpdateStatus(context.Background(), 999, model.StatusConfirmed)
	require.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestSoftDeleteTwice(t *testing.T) {
	svc, _, _ := newBookingFixture()

	b, err := svc.Create(context.Background(), validInput(), 1)
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(context.Background(), b.ID))
	require.ErrorIs(t, svc.SoftDelete(context.Background(), b.ID), repository.ErrBookingNotFound)
}

func TestNotifierFailureDoesNotFailCreate(t *testing.T) {
	svc, _, notifier := newBookingFixture()
	notifier.err = errors.New("broker gone")

	_, err := svc.Create(context.Background(), validInput(), 1)
	require.NoError(t, err)
}
