package repository

import (
	"context"
	"database/sql"
	"strings"
)

// StaffAssignmentRepo persists booking_staff junction rows. Assignments
// are owned by their booking: they are written inside the booking's
// create transaction and never updated independently.
type StaffAssignmentRepo struct {
	db *sql.DB
}

// NewStaffAssignmentRepo returns a StaffAssignmentRepo bound to the
// given database.
func NewStaffAssignmentRepo(db *sql.DB) *StaffAssignmentRepo {
	return &StaffAssignmentRepo{db: db}
}

// CreateBulkTx inserts one row per staff ID in a single multi-VALUES
// statement within the provided transaction. An empty slice writes
// nothing and returns nil; a booking with no assigned staff is valid.
// A referential violation on any row fails the statement as a whole, so
// the caller's rollback leaves no partial state.
func (r *StaffAssignmentRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, bookingID uint64, staffIDs []uint64, assignedBy uint64) error {
	if len(staffIDs) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO booking_staff (booking_id, staff_id, assigned_by) VALUES `)
	args := make([]interface{}, 0, len(staffIDs)*3)
	for i, staffID := range staffIDs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?)")
		args = append(args, bookingID, staffID, assignedBy)
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

// ListIDsByBooking returns the staff IDs assigned to a booking in
// ascending order. A booking with no assignments yields an empty slice.
func (r *StaffAssignmentRepo) ListIDsByBooking(ctx context.Context, bookingID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT staff_id FROM booking_staff WHERE booking_id = ? ORDER BY staff_id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
