package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/avelys/salonops/internal/model"
)

// bookingColumns is the SELECT list shared by every booking query. The
// date and time-of-day columns are formatted in SQL so they scan into
// plain strings regardless of the driver's parseTime setting.
const bookingColumns = `id, DATE_FORMAT(booking_date, '%Y-%m-%d'),
	TIME_FORMAT(start_time, '%H:%i:%s'), TIME_FORMAT(end_time, '%H:%i:%s'),
	customer_id, service_name, service_amount_cents, COALESCE(note, ''),
	status, payment_status, is_active, created_by, created_at, updated_at`

// BookingRepo provides persistence for bookings and owns the
// transactional create path that writes the booking row and its staff
// assignments as a unit.
type BookingRepo struct {
	db    *sql.DB
	staff *StaffAssignmentRepo
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db, staff: NewStaffAssignmentRepo(db)}
}

// DB exposes the underlying pool for callers that need to open their
// own transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CheckConflict looks for an active booking on the given date whose
// [start_time, end_time) interval overlaps the requested one. The test
// is the classic half-open overlap: existing.start < new.end AND
// existing.end > new.start, so intervals that merely touch do not
// conflict. It returns any one conflicting booking ID; which one is
// unspecified when several overlap. Pure read, no locks.
func (r *BookingRepo) CheckConflict(ctx context.Context, date, start, end string) (uint64, bool, error) {
	return r.conflict(ctx, r.db, date, start, end, false)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *BookingRepo) conflict(ctx context.Context, q queryRower, date, start, end string, forUpdate bool) (uint64, bool, error) {
	query := `SELECT id FROM bookings
	          WHERE booking_date = ? AND is_active = 1
	            AND start_time < ? AND end_time > ?
	          LIMIT 1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var id uint64
	err := q.QueryRowContext(ctx, query, date, end, start).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// CreateWithStaff inserts a booking and all of its staff assignments in
// a single transaction. Before inserting it re-runs the conflict check
// with FOR UPDATE so that two concurrent creates for overlapping slots
// cannot both pass the application-level pre-check and commit; the
// loser sees the winner's locked row and fails with ErrScheduleConflict
// (the conflicting ID is the first return value). Any failure rolls the
// whole unit back: callers observe either a fully formed booking with
// its assignments or nothing.
//
// The booking's ID, initial statuses and IsActive flag are populated on
// the passed record. The initial payment status is derived from a zero
// paid total, so a zero-priced service starts out paid.
func (r *BookingRepo) CreateWithStaff(ctx context.Context, b *model.Booking, staffIDs []uint64, assignedBy uint64) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if conflictID, found, err := r.conflict(ctx, tx, b.BookingDate, b.StartTime, b.EndTime, true); err != nil {
		return 0, err
	} else if found {
		return conflictID, ErrScheduleConflict
	}

	b.Status = model.StatusPending
	b.PaymentStatus = model.DerivePaymentStatus(0, b.ServiceAmountCents)
	b.IsActive = true

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings
		   (booking_date, start_time, end_time, customer_id, service_name,
		    service_amount_cents, note, status, payment_status, is_active, created_by)
		 VALUES (?,?,?,?,?,?,?,?,?,1,?)`,
		b.BookingDate, b.StartTime, b.EndTime, b.CustomerID, b.ServiceName,
		b.ServiceAmountCents, nullable(b.Note), b.Status, b.PaymentStatus, b.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	b.ID = uint64(id)

	if err := r.staff.CreateBulkTx(ctx, tx, b.ID, staffIDs, assignedBy); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	b.StaffIDs = staffIDs
	return 0, nil
}

// GetByID returns a booking regardless of its active flag, with its
// staff IDs populated. ErrBookingNotFound is returned when no row
// exists at all.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	ids, err := r.staff.ListIDsByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.StaffIDs = ids
	return b, nil
}

// ListActive returns all active bookings ordered by date and start time
// with their staff IDs populated in one extra query.
func (r *BookingRepo) ListActive(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE is_active = 1
		 ORDER BY booking_date, start_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		b.StaffIDs = []uint64{}
		index[b.ID] = len(bookings)
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	// Populate staff assignments for all bookings in a single IN query.
	ids := make([]interface{}, 0, len(bookings))
	placeholders := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
		placeholders = append(placeholders, "?")
	}
	srows, err := r.db.QueryContext(ctx,
		`SELECT booking_id, staff_id FROM booking_staff
		 WHERE booking_id IN (`+strings.Join(placeholders, ",")+`)
		 ORDER BY booking_id, staff_id`, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var bookingID, staffID uint64
		if err := srows.Scan(&bookingID, &staffID); err != nil {
			return nil, err
		}
		if idx, ok := index[bookingID]; ok {
			bookings[idx].StaffIDs = append(bookings[idx].StaffIDs, staffID)
		}
	}
	return bookings, srows.Err()
}

// UpdateStatusFrom moves an active booking from one status to another.
// The current status is part of the WHERE clause so a stale read cannot
// clobber a concurrent transition. It returns the number of rows
// changed; zero means the booking was missing, inactive, or no longer
// in the expected status.
func (r *BookingRepo) UpdateStatusFrom(ctx context.Context, id uint64, from, to string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ? AND is_active = 1`,
		to, id, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SoftDelete marks a booking inactive. Staff assignments and payments
// are left untouched; the active views exclude them by joining against
// the booking's flag. ErrBookingNotFound is returned when no active row
// was flipped.
func (r *BookingRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET is_active = 0 WHERE id = ? AND is_active = 1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*model.Booking, error) {
	var b model.Booking
	var note string
	err := row.Scan(
		&b.ID, &b.BookingDate, &b.StartTime, &b.EndTime,
		&b.CustomerID, &b.ServiceName, &b.ServiceAmountCents, &note,
		&b.Status, &b.PaymentStatus, &b.IsActive, &b.CreatedBy,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Note = note
	return &b, nil
}

// nullable turns an empty string into a SQL NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
