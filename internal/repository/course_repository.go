package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/student-registry/internal/model"
)

type CourseRepo struct{ DB *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{DB: db} }

const courseColumns = "id,code,title,credits,created_at,updated_at"

// Search lists courses page by page, optionally filtering by substring match
// on code or title.
func (r *CourseRepo) Search(ctx context.Context, q string, p Page) ([]model.Course, int64, error) {
	p = p.Normalize()
	cond := "1=1"
	args := []any{}
	if q = strings.TrimSpace(q); q != "" {
		cond = "(LOWER(code) LIKE ? OR LOWER(title) LIKE ?)"
		like := "%" + strings.ToLower(q) + "%"
		args = append(args, like, like)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM courses WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset := p.limitOffset()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE "+cond+" ORDER BY code, id LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Title, &c.Credits, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (model.Course, error) {
	var c model.Course
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.Code, &c.Title, &c.Credits, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Course{}, ErrNotFound
	}
	return c, err
}

func (r *CourseRepo) Create(ctx context.Context, code, title string, credits uint8) (model.Course, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO courses (code, title, credits) VALUES (?,?,?)",
		code, title, credits)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Course{}, ErrDuplicate
		}
		return model.Course{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Course{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

func (r *CourseRepo) Update(ctx context.Context, id uint64, code, title string, credits uint8) (model.Course, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	_, err := r.DB.ExecContext(ctx,
		"UPDATE courses SET code=?, title=?, credits=? WHERE id=?",
		code, title, credits, id)
	if err != nil {
		if isDuplicateKey(err) {
			return model.Course{}, ErrDuplicate
		}
		return model.Course{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *CourseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM courses WHERE id=?", id)
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
