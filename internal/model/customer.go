package model

import "time"

// Customer is a record in the shop's address book. Bookings reference
// customers by ID; customers are soft-deleted like everything else so
// past bookings keep resolving.
type Customer struct {
	ID        uint64    `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Note      string    `json:"note,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
