package model

import "time"

// Enrollment links a student to a course. The (StudentID, CourseID) pair is
// unique in the table; inserting a duplicate surfaces as a conflict.
type Enrollment struct {
	ID         uint64    `json:"id"`
	StudentID  uint64    `json:"student_id"`
	CourseID   uint64    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}
