package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/ev-station-booking/internal/model"
)

// UserRepo provides account persistence for registration and login.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new account.  A duplicate email surfaces as
// ErrEmailTaken via the unique index on users.email.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `INSERT INTO users (id, email, password_hash, role, nic, phone, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Email, u.PasswordHash, u.Role, u.NIC, u.Phone, u.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		return ErrEmailTaken
	}
	return err
}

// GetByEmail returns the account for a login attempt or ErrUserNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT id, email, password_hash, role, nic, phone, created_at FROM users WHERE email = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.NIC, &u.Phone, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns one account or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT id, email, password_hash, role, nic, phone, created_at FROM users WHERE id = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.NIC, &u.Phone, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
