package repository

import (
	"context"
	"testing"
	"time"

	"github.com/iliyamo/biblioteca-doacoes/internal/testutil"
)

func TestDecrementStockAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()
	id := testutil.CreateTestBook(t, db, "1984", "George Orwell", 0)
	before, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	ok, err := repo.DecrementStock(ctx, id, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if ok {
		t.Error("Expected false for a book with no copies")
	}
	after, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if after.Quantidade != 0 {
		t.Errorf("Expected quantity 0, got %d", after.Quantidade)
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("Expected updated_at untouched, got %v (was %v)", after.UpdatedAt, before.UpdatedAt)
	}
}

// TestDecrementStockStaleRead decrements on the strength of an earlier read
// that saw one copy, after that copy was already taken.
func TestDecrementStockStaleRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewBookRepo(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	id := testutil.CreateTestBook(t, db, "1984", "George Orwell", 1)

	seen, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if seen.Quantidade != 1 {
		t.Fatalf("Expected quantity 1, got %d", seen.Quantidade)
	}
	if ok, err := repo.DecrementStock(ctx, id, now); err != nil || !ok {
		t.Fatalf("First decrement: ok=%v err=%v", ok, err)
	}

	ok, err := repo.DecrementStock(ctx, id, now)
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if ok {
		t.Error("Expected false once the last copy is gone")
	}
	if q := testutil.BookQuantity(t, db, id); q != 0 {
		t.Errorf("Expected quantity 0, got %d", q)
	}
}

func TestDecrementStockUnknownBook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ok, err := NewBookRepo(db).DecrementStock(context.Background(), 404, time.Now().UTC())
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if ok {
		t.Error("Expected false for a missing book")
	}
}

func TestListFoldsAccents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateTestBook(t, db, "Olhai os Lírios do Campo", "Érico Veríssimo", 2)
	testutil.CreateTestBook(t, db, "Dom Casmurro", "Machado de Assis", 2)

	for _, term := range []string{"érico", "ÉRICO", "lírios", "LÍRIOS"} {
		got, err := NewBookRepo(db).List(context.Background(), term)
		if err != nil {
			t.Fatalf("List(%q) failed: %v", term, err)
		}
		if len(got) != 1 || got[0].Titulo != "Olhai os Lírios do Campo" {
			t.Errorf("List(%q): expected one match, got %+v", term, got)
		}
	}
}
