package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/student-registry/internal/model"
)

type EnrollmentRepo struct{ DB *sql.DB }

func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{DB: db} }

// EnrollmentFilter narrows List to one student, one course, or both.
// Zero values mean "no filter".
type EnrollmentFilter struct {
	StudentID uint64
	CourseID  uint64
}

// List returns enrollments matching the filter, newest first.
func (r *EnrollmentRepo) List(ctx context.Context, f EnrollmentFilter, p Page) ([]model.Enrollment, int64, error) {
	p = p.Normalize()
	cond := "1=1"
	args := []any{}
	if f.StudentID != 0 {
		cond += " AND student_id=?"
		args = append(args, f.StudentID)
	}
	if f.CourseID != 0 {
		cond += " AND course_id=?"
		args = append(args, f.CourseID)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM enrollments WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := p.limitOffset()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,student_id,course_id,enrolled_at FROM enrollments WHERE "+cond+" ORDER BY enrolled_at DESC, id DESC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.Enrollment{}
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *EnrollmentRepo) GetByID(ctx context.Context, id uint64) (model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,student_id,course_id,enrolled_at FROM enrollments WHERE id=? LIMIT 1", id).
		Scan(&e.ID, &e.StudentID, &e.CourseID, &e.EnrolledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Enrollment{}, ErrNotFound
	}
	return e, err
}

// Create enrolls a student in a course. The table's unique
// (student_id, course_id) index turns double enrollment into ErrDuplicate;
// a missing student or course trips the foreign keys and comes back as
// ErrNotFound.
func (r *EnrollmentRepo) Create(ctx context.Context, studentID, courseID uint64) (model.Enrollment, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO enrollments (student_id, course_id) VALUES (?,?)",
		studentID, courseID)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Enrollment{}, ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return model.Enrollment{}, ErrNotFound
		}
		return model.Enrollment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Enrollment{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

func (r *EnrollmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM enrollments WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
