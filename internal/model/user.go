package model

import "time"

// Console roles. STAFF covers the day-to-day booking and payment work;
// ADMIN additionally manages other user accounts.
const (
	RoleStaff = "STAFF"
	RoleAdmin = "ADMIN"
)

// User represents a staff account as stored in the users table. Only
// the bcrypt hash of the password is persisted.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RefreshToken models a row in the refresh_tokens table. The plain
// token is never stored, only its SHA-256 hex digest.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
