package model

import "time"

// Student is a registry record, distinct from a login account: a student row
// may exist without a matching user and vice versa.
type Student struct {
	ID        uint64    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
