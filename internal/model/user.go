package model

import "time"

// User mirrors the 'users' table. TokenVersion is the per-account counter
// embedded into every issued token; bumping it on the user row invalidates
// all outstanding tokens at once without listing them individually.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash (bcrypt)
	Role         Role      // users.role
	TokenVersion uint32    // users.token_version
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
