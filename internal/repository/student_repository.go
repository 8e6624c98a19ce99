package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/student-registry/internal/model"
)

type StudentRepo struct{ DB *sql.DB }

func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{DB: db} }

const studentColumns = "id,first_name,last_name,email,created_at,updated_at"

// Search lists students page by page. A non-empty q filters by substring
// match on first name, last name or email, case-insensitive.
func (r *StudentRepo) Search(ctx context.Context, q string, p Page) ([]model.Student, int64, error) {
	p = p.Normalize()
	cond := "1=1"
	args := []any{}
	if q = strings.TrimSpace(q); q != "" {
		cond = "(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?)"
		like := "%" + strings.ToLower(q) + "%"
		args = append(args, like, like, like)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM students WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := p.limitOffset()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE "+cond+" ORDER BY last_name, first_name, id LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.Student{}
	for rows.Next() {
		var st model.Student
		if err := rows.Scan(&st.ID, &st.FirstName, &st.LastName, &st.Email, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, st)
	}
	return out, total, rows.Err()
}

func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (model.Student, error) {
	var st model.Student
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE id=? LIMIT 1", id).
		Scan(&st.ID, &st.FirstName, &st.LastName, &st.Email, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Student{}, ErrNotFound
	}
	return st, err
}

func (r *StudentRepo) Create(ctx context.Context, firstName, lastName, email string) (model.Student, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO students (first_name, last_name, email) VALUES (?,?,?)",
		firstName, lastName, email)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Student{}, ErrDuplicate
		}
		return model.Student{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Student{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

func (r *StudentRepo) Update(ctx context.Context, id uint64, firstName, lastName, email string) (model.Student, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE students SET first_name=?, last_name=?, email=? WHERE id=?",
		firstName, lastName, email, id)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Student{}, ErrDuplicate
		}
		return model.Student{}, err
	}
	// Zero affected rows is ambiguous (missing row vs unchanged values); the
	// follow-up read settles it and reports ErrNotFound when the row is gone.
	return r.GetByID(ctx, id)
}

func (r *StudentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM students WHERE id=?", id)
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
