package repository

import (
	"context"
	"database/sql"

	"github.com/avelys/salonops/internal/model"
)

// PaymentRepo is the payment ledger. It appends payment rows and is the
// only writer of a booking's derived payment_status: every mutation of
// the ledger recomputes the status inside the same transaction, so the
// two can never be observed inconsistent.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

// Create appends a payment against an active booking and reconciles the
// booking's payment status in one transaction. The booking row is
// locked first so concurrent payments serialize their recomputations.
// ErrBookingNotFound is returned when the booking is missing or
// inactive; nothing is written in that case.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var serviceAmount int64
	err = tx.QueryRowContext(ctx,
		`SELECT service_amount_cents FROM bookings WHERE id = ? AND is_active = 1 FOR UPDATE`,
		p.BookingID).Scan(&serviceAmount)
	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (booking_id, amount_cents, method, reference_no, note, is_active, created_by)
		 VALUES (?,?,?,?,?,1,?)`,
		p.BookingID, p.AmountCents, p.Method, p.ReferenceNo, nullable(p.Note), p.CreatedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.IsActive = true

	if err := r.recalcTx(ctx, tx, p.BookingID, serviceAmount); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// SoftDelete marks a payment inactive and reconciles the owning
// booking's payment status in the same transaction. When the owning
// booking has itself been soft-deleted the flag change still commits
// and the recomputation is skipped: the ledger is the audit trail and
// outlives the booking. ErrPaymentNotFound is returned when the payment
// does not exist or was already reversed.
func (r *PaymentRepo) SoftDelete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var bookingID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT booking_id FROM payments WHERE id = ? AND is_active = 1`, id).Scan(&bookingID)
	if err == sql.ErrNoRows {
		return ErrPaymentNotFound
	}
	if err != nil {
		return err
	}

	// Lock the booking before flipping the payment, matching the lock
	// order used by Create.
	var serviceAmount int64
	var bookingActive bool
	err = tx.QueryRowContext(ctx,
		`SELECT service_amount_cents, is_active FROM bookings WHERE id = ? FOR UPDATE`,
		bookingID).Scan(&serviceAmount, &bookingActive)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE payments SET is_active = 0 WHERE id = ?`, id); err != nil {
		return err
	}
	if bookingActive {
		if err := r.recalcTx(ctx, tx, bookingID, serviceAmount); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// recalcTx sums the booking's active payments, derives the payment
// status and writes it back unconditionally, even when unchanged.
func (r *PaymentRepo) recalcTx(ctx context.Context, tx *sql.Tx, bookingID uint64, serviceAmount int64) error {
	var total int64
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE booking_id = ? AND is_active = 1`,
		bookingID).Scan(&total)
	if err != nil {
		return err
	}
	status := model.DerivePaymentStatus(total, serviceAmount)
	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET payment_status = ? WHERE id = ?`, status, bookingID)
	return err
}

// ListByBooking returns every payment ever recorded against a booking,
// reversed ones included, newest first. Payment history persists for
// audit even after the booking is soft-deleted.
func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, amount_cents, method, reference_no, COALESCE(note, ''),
		        is_active, created_by, created_at
		 FROM payments WHERE booking_id = ? ORDER BY created_at DESC, id DESC`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Method, &p.ReferenceNo,
			&p.Note, &p.IsActive, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
