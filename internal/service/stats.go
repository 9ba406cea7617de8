package service

import (
	"context"
	"database/sql"

	"github.com/iliyamo/biblioteca-doacoes/internal/model"
	"github.com/iliyamo/biblioteca-doacoes/internal/repository"
)

// StatsService computes the admin dashboard counters.
type StatsService struct{ db *sql.DB }

func NewStatsService(db *sql.DB) *StatsService { return &StatsService{db: db} }

// Compute reads the current totals.  It never writes.
func (s *StatsService) Compute(ctx context.Context) (model.Stats, error) {
	return repository.NewStatsRepo(s.db).Summary(ctx)
}
