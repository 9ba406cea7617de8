package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/biblioteca-doacoes/internal/model"
)

// DonationRepo encapsulates all queries against `doacoes`.
type DonationRepo struct {
	db DBTX
}

// NewDonationRepo constructs a DonationRepo on a pool or a transaction.
func NewDonationRepo(db DBTX) *DonationRepo { return &DonationRepo{db: db} }

const donationCols = "id, nome, email, tipo, item, livro_id, created_at"

func scanDonation(row interface{ Scan(...any) error }) (model.Donation, error) {
	var (
		d       model.Donation
		livroID sql.NullInt64
	)
	if err := row.Scan(&d.ID, &d.Nome, &d.Email, &d.Tipo, &d.Item, &livroID, &d.CreatedAt); err != nil {
		return d, err
	}
	if livroID.Valid {
		id := livroID.Int64
		d.LivroID = &id
	}
	return d, nil
}

// List returns donations newest first.  search matches nome, email or item
// as a case-insensitive substring; tipo, when set, must match exactly.
func (r *DonationRepo) List(ctx context.Context, search, tipo string) ([]model.Donation, error) {
	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(search); s != "" {
		where = append(where, "(LOWER(nome) LIKE ? OR LOWER(email) LIKE ? OR LOWER(item) LIKE ?)")
		args = append(args, likeArg(s), likeArg(s), likeArg(s))
	}
	if tipo != "" {
		where = append(where, "tipo = ?")
		args = append(args, tipo)
	}
	q := "SELECT " + donationCols + " FROM doacoes"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID fetches one donation.  It returns ErrNotFound when the id is unknown.
func (r *DonationRepo) GetByID(ctx context.Context, id int64) (*model.Donation, error) {
	d, err := scanDonation(r.db.QueryRowContext(ctx, "SELECT "+donationCols+" FROM doacoes WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create inserts d and fills in its id and created_at.
func (r *DonationRepo) Create(ctx context.Context, d *model.Donation, now time.Time) error {
	var livroID any
	if d.LivroID != nil {
		livroID = *d.LivroID
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO doacoes (nome, email, tipo, item, livro_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		d.Nome, d.Email, d.Tipo, d.Item, livroID, now)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID, d.CreatedAt = id, now
	return nil
}

// Update rewrites the donor fields.  livro_id is left untouched.
func (r *DonationRepo) Update(ctx context.Context, d *model.Donation) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE doacoes SET nome = ?, email = ?, tipo = ?, item = ? WHERE id = ?",
		d.Nome, d.Email, d.Tipo, d.Item, d.ID)
	return err
}

// Delete removes the donation.  It returns ErrNotFound when nothing was deleted.
func (r *DonationRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM doacoes WHERE id = ?", id)
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

// CountByBook returns how many donations reference the book.
func (r *DonationRepo) CountByBook(ctx context.Context, bookID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM doacoes WHERE livro_id = ?", bookID).Scan(&n)
	return n, err
}
