package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/biblioteca-doacoes/internal/database"
	"github.com/iliyamo/biblioteca-doacoes/internal/model"
)

// AdminRepo wraps the `admins` table.
type AdminRepo struct{ db DBTX }

func NewAdminRepo(db DBTX) *AdminRepo { return &AdminRepo{db: db} }

// GetByUsername fetches an administrator by exact, trimmed username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash, created_at FROM admins WHERE username = ? LIMIT 1",
		strings.TrimSpace(username)).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an administrator with an already hashed password.
func (r *AdminRepo) Create(ctx context.Context, username, hash string, now time.Time) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO admins (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, hash, now)
	if err != nil {
		if database.IsDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.Admin{ID: id, Username: username, PasswordHash: hash, CreatedAt: now}, nil
}

// UpdatePassword replaces the stored hash.  It returns ErrNotFound when the
// username is unknown.
func (r *AdminRepo) UpdatePassword(ctx context.Context, username, hash string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE admins SET password_hash = ? WHERE username = ?", hash, strings.TrimSpace(username))
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
