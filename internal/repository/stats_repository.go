package repository

import (
	"context"

	"github.com/iliyamo/biblioteca-doacoes/internal/model"
)

// StatsRepo computes the dashboard counters.
type StatsRepo struct{ db DBTX }

func NewStatsRepo(db DBTX) *StatsRepo { return &StatsRepo{db: db} }

// Summary runs all five aggregates in one round trip.  Every counter is
// zero on an empty database.
func (r *StatsRepo) Summary(ctx context.Context) (model.Stats, error) {
	const q = `SELECT
		(SELECT COUNT(*) FROM livros),
		(SELECT COUNT(*) FROM doacoes),
		(SELECT COUNT(*) FROM doacoes WHERE tipo = 'livro'),
		(SELECT COUNT(*) FROM doacoes WHERE tipo = 'jogo'),
		(SELECT COALESCE(SUM(quantidade), 0) FROM livros)`
	var s model.Stats
	err := r.db.QueryRowContext(ctx, q).Scan(
		&s.TotalLivros, &s.TotalDoacoes, &s.DoacoesLivros, &s.DoacoesJogos, &s.LivrosDisponiveis)
	return s, err
}
