package model

import "time"

// Course mirrors the 'courses' table. Code is the short unique identifier
// students enroll against (e.g. "CS101").
type Course struct {
	ID        uint64    `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Credits   uint8     `json:"credits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
