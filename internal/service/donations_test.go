package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/iliyamo/biblioteca-doacoes/internal/model"
	"github.com/iliyamo/biblioteca-doacoes/internal/testutil"
)

func bookDonation(livroID int64) DonationInput {
	return DonationInput{
		Nome:    "Ana",
		Email:   "ana@x.com",
		Tipo:    "livro",
		Item:    "1984",
		LivroID: &livroID,
		Consent: true,
	}
}

func TestDonationBookTakesOneCopy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	n := &testutil.Notifier{}
	svc := NewDonationService(db, n, nil)
	id := testutil.CreateTestBook(t, db, "1984", "George Orwell", 3)

	d, err := svc.Create(context.Background(), bookDonation(id))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if d.ID == 0 || d.LivroID == nil || *d.LivroID != id || d.Tipo != model.DonationTypeBook {
		t.Errorf("Unexpected donation: %+v", d)
	}
	if q := testutil.BookQuantity(t, db, id); q != 2 {
		t.Errorf("Expected quantity 2, got %d", q)
	}
	calls := n.Calls()
	if len(calls) != 1 || calls[0].Email != "ana@x.com" || calls[0].Item != "1984" {
		t.Errorf("Expected one thank-you for ana@x.com, got %+v", calls)
	}
}

func TestDonationBookOutOfStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	n := &testutil.Notifier{}
	svc := NewDonationService(db, n, nil)
	id := testutil.CreateTestBook(t, db, "1984", "George Orwell", 0)

	_, err := svc.Create(context.Background(), bookDonation(id))
	assertErr(t, err, ErrConflict, msgBookUnavailable)

	if q := testutil.BookQuantity(t, db, id); q != 0 {
		t.Errorf("Expected quantity 0, got %d", q)
	}
	if c := testutil.CountRows(t, db, "doacoes"); c != 0 {
		t.Errorf("Expected no donation rows, got %d", c)
	}
	if calls := n.Calls(); len(calls) != 0 {
		t.Errorf("Expected no thank-you, got %+v", calls)
	}
}

func TestDonationBookNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewDonationService(db, nil, nil)

	_, err := svc.Create(context.Background(), bookDonation(42))
	assertErr(t, err, ErrNotFound, msgBookNotFound)
}

func TestDonationValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	n := &testutil.Notifier{}
	svc := NewDonationService(db, n, nil)

	base := func() DonationInput {
		return DonationInput{Nome: "Ana", Email: "ana@x.com", Tipo: "jogo", Item: "Xadrez", Consent: true}
	}
	tests := []struct {
		name   string
		mutate func(*DonationInput)
		msg    string
	}{
		{"missing name", func(in *DonationInput) { in.Nome = " " }, msgDonationRequired},
		{"missing email", func(in *DonationInput) { in.Email = "" }, msgDonationRequired},
		{"missing type", func(in *DonationInput) { in.Tipo = "" }, msgDonationRequired},
		{"missing item", func(in *DonationInput) { in.Item = "" }, msgDonationRequired},
		{"no consent", func(in *DonationInput) { in.Consent = false }, msgConsentRequired},
		{"bad email", func(in *DonationInput) { in.Email = "ana@x" }, msgInvalidEmail},
		{"bad type", func(in *DonationInput) { in.Tipo = "revista" }, msgInvalidType},
		{"book without id", func(in *DonationInput) { in.Tipo = "livro" }, msgBookIDRequired},
		{"name too long", func(in *DonationInput) { in.Nome = strings.Repeat("a", 256) }, "Nome deve ter no máximo 255 caracteres"},
		{"item too long", func(in *DonationInput) { in.Item = strings.Repeat("x", 501) }, "Item deve ter no máximo 500 caracteres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assertErr(t, err, ErrValidation, tt.msg)
		})
	}
	if c := testutil.CountRows(t, db, "doacoes"); c != 0 {
		t.Errorf("Expected no donation rows, got %d", c)
	}
	if calls := n.Calls(); len(calls) != 0 {
		t.Errorf("Expected no thank-you, got %+v", calls)
	}
}

func TestDonationGameIgnoresBook(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewDonationService(db, &testutil.Notifier{}, nil)
	id := testutil.CreateTestBook(t, db, "1984", "George Orwell", 3)

	in := bookDonation(id)
	in.Tipo = " JOGO "
	in.Item = "Xadrez"
	d, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if d.Tipo != model.DonationTypeGame || d.LivroID != nil {
		t.Errorf("Expected game donation without book, got %+v", d)
	}
	if q := testutil.BookQuantity(t, db, id); q != 3 {
		t.Errorf("Expected quantity 3, got %d", q)
	}
}

func TestDonationCreateThenDeleteRestoresStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewDonationService(db, nil, nil)
	ctx := context.Background()
	id := testutil.CreateTestBook(t, db, "1984", "George Orwell", 3)

	d, err := svc.Create(ctx, bookDonation(id))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := svc.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if q := testutil.BookQuantity(t, db, id); q != 3 {
		t.Errorf("Expected quantity 3 after round trip, got %d", q)
	}
	err = svc.Delete(ctx, d.ID)
	assertErr(t, err, ErrNotFound, msgDonationNotFound)
}

func TestDonationUpdateKeepsStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewDonationService(db, nil, nil)
	ctx := context.Background()
	id := testutil.CreateTestBook(t, db, "1984", "George Orwell", 3)

	d, err := svc.Create(ctx, bookDonation(id))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	up, err := svc.Update(ctx, d.ID, DonationInput{Nome: "Ana Maria", Email: "ana@y.com", Tipo: "jogo", Item: "Xadrez"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if up.Nome != "Ana Maria" || up.Tipo != "jogo" || up.LivroID == nil || *up.LivroID != id {
		t.Errorf("Unexpected updated donation: %+v", up)
	}
	if q := testutil.BookQuantity(t, db, id); q != 2 {
		t.Errorf("Expected quantity 2, got %d", q)
	}

	_, err = svc.Update(ctx, d.ID, DonationInput{Nome: "Ana", Email: "bad", Tipo: "jogo", Item: "X"})
	assertErr(t, err, ErrValidation, msgInvalidEmail)
	_, err = svc.Update(ctx, 999, DonationInput{Nome: "Ana", Email: "ana@x.com", Tipo: "jogo", Item: "X"})
	assertErr(t, err, ErrNotFound, msgDonationNotFound)
}

func TestDonationListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewDonationService(db, nil, nil)
	ctx := context.Background()
	id := testutil.CreateTestBook(t, db, "1984", "George Orwell", 3)

	if _, err := svc.Create(ctx, bookDonation(id)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(ctx, DonationInput{Nome: "Bruno", Email: "bruno@x.com", Tipo: "jogo", Item: "Xadrez", Consent: true}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	all, err := svc.List(ctx, "", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 || all[0].Nome != "Bruno" {
		t.Errorf("Expected newest first, got %+v", all)
	}

	games, err := svc.List(ctx, "", "jogo")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(games) != 1 || games[0].Item != "Xadrez" {
		t.Errorf("Expected only the game, got %+v", games)
	}

	byEmail, err := svc.List(ctx, "ANA@", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(byEmail) != 1 || byEmail[0].Nome != "Ana" {
		t.Errorf("Expected only Ana, got %+v", byEmail)
	}

	none, err := svc.List(ctx, "ana", "jogo")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no match, got %+v", none)
	}

	if _, err := svc.Create(ctx, DonationInput{Nome: "Érica Souza", Email: "erica@x.com", Tipo: "jogo", Item: "Quebra-Cabeça", Consent: true}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, term := range []string{"érica", "ÉRICA", "CABEÇA"} {
		got, err := svc.List(ctx, term, "")
		if err != nil {
			t.Fatalf("List(%q) failed: %v", term, err)
		}
		if len(got) != 1 || got[0].Nome != "Érica Souza" {
			t.Errorf("List(%q): expected only Érica Souza, got %+v", term, got)
		}
	}
}

func TestDonationNotifierFailureIsIgnored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewDonationService(db, &testutil.Notifier{Err: errors.New("queue full")}, nil)
	id := testutil.CreateTestBook(t, db, "1984", "George Orwell", 1)

	if _, err := svc.Create(context.Background(), bookDonation(id)); err != nil {
		t.Fatalf("Expected success despite notifier error, got %v", err)
	}
	if q := testutil.BookQuantity(t, db, id); q != 0 {
		t.Errorf("Expected quantity 0, got %d", q)
	}
}

// TestDonationLongItem accepts an item up to the full column width,
// counted in characters.
func TestDonationLongItem(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewDonationService(db, nil, nil)
	item := strings.Repeat("ç", 500)

	d, err := svc.Create(context.Background(), DonationInput{Nome: "Ana", Email: "ana@x.com", Tipo: "jogo", Item: item, Consent: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if d.Item != item {
		t.Errorf("Item changed on save: %d characters", len([]rune(d.Item)))
	}
	if _, err := svc.Update(context.Background(), d.ID, DonationInput{Nome: "Ana", Email: "ana@x.com", Tipo: "jogo", Item: item + "ç"}); err == nil {
		t.Error("Expected validation error for a 501 character item")
	} else {
		assertErr(t, err, ErrValidation, "Item deve ter no máximo 500 caracteres")
	}
}

// TestConcurrentDonationsNeverOversell races more donors than copies and
// checks that exactly the available copies are handed out.  SQLite runs
// one transaction at a time, so this covers the outcome only; the
// conditional decrement itself is tested in the repository package.
func TestConcurrentDonationsNeverOversell(t *testing.T) {
	db := testutil.SetupTestDB(t)
	n := &testutil.Notifier{}
	svc := NewDonationService(db, n, nil)
	id := testutil.CreateTestBook(t, db, "1984", "George Orwell", 3)

	const donors = 10
	var ok, unavailable atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < donors; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(context.Background(), bookDonation(id))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrConflict):
				unavailable.Add(1)
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 3 || unavailable.Load() != donors-3 {
		t.Errorf("Expected 3 successes and %d conflicts, got %d and %d", donors-3, ok.Load(), unavailable.Load())
	}
	if q := testutil.BookQuantity(t, db, id); q != 0 {
		t.Errorf("Expected quantity 0, got %d", q)
	}
	if c := testutil.CountRows(t, db, "doacoes"); c != 3 {
		t.Errorf("Expected 3 donations, got %d", c)
	}
	if calls := n.Calls(); len(calls) != 3 {
		t.Errorf("Expected 3 thank-yous, got %d", len(calls))
	}
}
