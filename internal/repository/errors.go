// Package repository implements persistence over database/sql. Sentinel
// errors defined here let handlers translate storage failures into the typed
// API errors without inspecting driver details.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// such as a taken username or an existing (student, course) enrollment pair.
var ErrDuplicate = errors.New("duplicate")
