package repository

import (
	"context"
	"database/sql"

	"github.com/avelys/salonops/internal/model"
)

// CustomerRepo persists customer records.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// Create inserts a customer and populates the generated ID.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (full_name, phone, email, note, is_active) VALUES (?,?,?,?,1)`,
		c.FullName, c.Phone, c.Email, nullable(c.Note))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	c.IsActive = true
	return nil
}

// GetByID returns an active customer or ErrCustomerNotFound.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	var c model.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, phone, email, COALESCE(note, ''), is_active, created_at
		 FROM customers WHERE id = ? AND is_active = 1`, id).
		Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Note, &c.IsActive, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Exists reports whether an active customer with the given ID exists.
func (r *CustomerRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM customers WHERE id = ? AND is_active = 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListActive returns all active customers ordered by name.
func (r *CustomerRepo) ListActive(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, full_name, phone, email, COALESCE(note, ''), is_active, created_at
		 FROM customers WHERE is_active = 1 ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	customers := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Note, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
