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

// BookRepo encapsulates all queries against `livros`.
type BookRepo struct {
	db DBTX
}

// NewBookRepo constructs a BookRepo on a pool or a transaction.
func NewBookRepo(db DBTX) *BookRepo { return &BookRepo{db: db} }

const bookCols = "id, titulo, autor, quantidade, created_at, updated_at"

func scanBook(row interface{ Scan(...any) error }) (model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Titulo, &b.Autor, &b.Quantidade, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// List returns every book ordered by title.  A non-empty search keeps only
// books whose title or author contains it, ignoring case.
func (r *BookRepo) List(ctx context.Context, search string) ([]model.Book, error) {
	q := "SELECT " + bookCols + " FROM livros"
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		q += " WHERE LOWER(titulo) LIKE ? OR LOWER(autor) LIKE ?"
		args = append(args, likeArg(s), likeArg(s))
	}
	q += " ORDER BY titulo, id"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// GetByID fetches one book.  It returns ErrNotFound when the id is unknown.
func (r *BookRepo) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx, "SELECT "+bookCols+" FROM livros WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// TitleAuthorTaken reports whether a book other than excludeID already uses
// the (titulo, autor) pair.  Pass 0 to check against every book.
func (r *BookRepo) TitleAuthorTaken(ctx context.Context, titulo, autor string, excludeID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM livros WHERE titulo = ? AND autor = ? AND id <> ?",
		titulo, autor, excludeID).Scan(&n)
	return n > 0, err
}

// Create inserts b and fills in its id.  Both timestamps are set to now.
func (r *BookRepo) Create(ctx context.Context, b *model.Book, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO livros (titulo, autor, quantidade, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		b.Titulo, b.Autor, b.Quantidade, now, now)
	if err != nil {
		if database.IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID, b.CreatedAt, b.UpdatedAt = id, now, now
	return nil
}

// Update rewrites every editable column of b and refreshes updated_at.
func (r *BookRepo) Update(ctx context.Context, b *model.Book, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE livros SET titulo = ?, autor = ?, quantidade = ?, updated_at = ? WHERE id = ?",
		b.Titulo, b.Autor, b.Quantidade, now, b.ID)
	if err != nil {
		if database.IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	b.UpdatedAt = now
	return nil
}

// SetQuantity overwrites the stock of one book.
func (r *BookRepo) SetQuantity(ctx context.Context, id int64, quantidade int, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE livros SET quantidade = ?, updated_at = ? WHERE id = ?", quantidade, now, id)
	return err
}

// DecrementStock takes one copy of the book.  The guard in the WHERE clause
// makes the check and the write a single statement, so it reports false
// instead of going negative when the last copy is already gone.
func (r *BookRepo) DecrementStock(ctx context.Context, id int64, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE livros SET quantidade = quantidade - 1, updated_at = ? WHERE id = ? AND quantidade > 0",
		now, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// IncrementStock returns one copy to the book.  It reports false when the
// book no longer exists.
func (r *BookRepo) IncrementStock(ctx context.Context, id int64, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE livros SET quantidade = quantidade + 1, updated_at = ? WHERE id = ?", now, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Delete removes the book.  It returns ErrNotFound when nothing was deleted.
func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM livros WHERE id = ?", id)
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

// Count returns the number of catalog rows.
func (r *BookRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM livros").Scan(&n)
	return n, err
}
