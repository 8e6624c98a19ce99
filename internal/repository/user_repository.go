package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/student-registry/internal/model"
)

// UserStore is the narrow interface the auth subsystem consumes. The MySQL
// UserRepo implements it in production; tests substitute an in-memory store.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string, role model.Role) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	BumpTokenVersion(ctx context.Context, id uint64) error
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,role,token_version,created_at,updated_at"

// Create inserts a user with token_version 0 and returns the stored row.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string, role model.Role) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role, token_version) VALUES (?,?,?,?,0)",
		username, email, passwordHash, string(role))
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrDuplicate
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
}

// BumpTokenVersion increments the user's token version in a single UPDATE.
// The increment happens inside the database, so concurrent bumps never lose
// updates and a concurrent read sees either the old or the new value.
func (r *UserRepo) BumpTokenVersion(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET token_version = token_version + 1 WHERE id=?", id)
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

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.TokenVersion, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	parsed, ok := model.ParseRole(role)
	if !ok {
		return model.User{}, errors.New("users row carries unknown role " + role)
	}
	u.Role = parsed
	return u, nil
}

// isDuplicateKey matches MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isForeignKeyViolation matches MySQL errors 1451/1452 (foreign key fails).
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "1452") || strings.Contains(err.Error(), "1451")
}
