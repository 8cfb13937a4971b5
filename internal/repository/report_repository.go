package repository

import (
	"context"
	"database/sql"

	"github.com/avelys/salonops/internal/model"
)

// DailySummary aggregates one day of bookings for the dashboard.
// Outstanding counts only what is still collectible: cancelled bookings
// and overpayments do not contribute.
type DailySummary struct {
	Date             string           `json:"date"`
	TotalBookings    int              `json:"total_bookings"`
	ByStatus         map[string]int   `json:"by_status"`
	CollectedCents   int64            `json:"collected_cents"`
	OutstandingCents int64            `json:"outstanding_cents"`
}

// ReportRepo runs the read-only aggregation queries behind the
// dashboard. Results are cached at the HTTP layer.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo returns a ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// Summary builds the daily summary for the given "YYYY-MM-DD" date over
// active bookings and their active payments.
func (r *ReportRepo) Summary(ctx context.Context, date string) (*DailySummary, error) {
	sum := &DailySummary{
		Date:     date,
		ByStatus: map[string]int{},
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.status, b.service_amount_cents,
		        COALESCE(SUM(CASE WHEN p.is_active = 1 THEN p.amount_cents ELSE 0 END), 0)
		 FROM bookings b
		 LEFT JOIN payments p ON p.booking_id = b.id
		 WHERE b.booking_date = ? AND b.is_active = 1
		 GROUP BY b.id, b.status, b.service_amount_cents`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uint64
		var status string
		var serviceAmount, paid int64
		if err := rows.Scan(&id, &status, &serviceAmount, &paid); err != nil {
			return nil, err
		}
		sum.TotalBookings++
		sum.ByStatus[status]++
		sum.CollectedCents += paid
		if status != model.StatusCancelled && paid < serviceAmount {
			sum.OutstandingCents += serviceAmount - paid
		}
	}
	return sum, rows.Err()
}
