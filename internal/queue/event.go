// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names. Each event type is published to its own durable queue.
const (
	QueueUserRegistered    = "user.registered"
	QueueUserLoggedOut     = "user.logged_out"
	QueueEnrollmentCreated = "enrollment.created"
)

// UserRegisteredEvent is published after an admin creates an account.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	RegisteredAt string `json:"registered_at"`
}

// UserLoggedOutEvent is published after a logout, once the presented tokens
// are denylisted and the account's token version is bumped.
type UserLoggedOutEvent struct {
	UserID      uint64 `json:"user_id"`
	LoggedOutAt string `json:"logged_out_at"`
}

// EnrollmentCreatedEvent is published when a student is enrolled in a
// course. Consumers can notify or recompute rosters without querying the
// primary database.
type EnrollmentCreatedEvent struct {
	EnrollmentID uint64 `json:"enrollment_id"`
	StudentID    uint64 `json:"student_id"`
	CourseID     uint64 `json:"course_id"`
	EnrolledAt   string `json:"enrolled_at"`
}
