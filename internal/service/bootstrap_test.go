package service

import (
	"context"
	"testing"

	"github.com/iliyamo/biblioteca-doacoes/internal/testutil"
)

func TestSeedBooksOnlyOnEmptyCatalog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	n, err := SeedBooks(ctx, db, SampleBooks)
	if err != nil {
		t.Fatalf("SeedBooks failed: %v", err)
	}
	if n != len(SampleBooks) {
		t.Errorf("Expected %d books, got %d", len(SampleBooks), n)
	}

	n, err = SeedBooks(ctx, db, SampleBooks)
	if err != nil {
		t.Fatalf("second SeedBooks failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected no books on second run, got %d", n)
	}
	if c := testutil.CountRows(t, db, "livros"); c != len(SampleBooks) {
		t.Errorf("Expected %d rows, got %d", len(SampleBooks), c)
	}

	st, err := NewStatsService(db).Compute(ctx)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if st.LivrosDisponiveis != 20 {
		t.Errorf("Expected 20 copies in the sample catalog, got %d", st.LivrosDisponiveis)
	}
}
