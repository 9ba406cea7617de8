// Package testutil provides a migrated SQLite database and HTTP helpers for
// package tests.
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/biblioteca-doacoes/internal/database"
)

// TestSecret signs tokens in tests.
const TestSecret = "test-secret"

// SetupTestDB creates a fresh SQLite file in t.TempDir with the full schema
// applied through the real migrations.  The handle is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	opts := database.Options{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	ctx := context.Background()
	if err := database.NewMigrator(opts).Up(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db, err := database.Open(ctx, opts)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateTestBook inserts a book and returns its id.
func CreateTestBook(t *testing.T, db *sql.DB, titulo, autor string, quantidade int) int64 {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	res, err := db.Exec(`
		INSERT INTO livros (titulo, autor, quantidade, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, titulo, autor, quantidade, now, now)
	if err != nil {
		t.Fatalf("Failed to create test book: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read test book id: %v", err)
	}
	return id
}

// BookQuantity reads the current stock of a book.
func BookQuantity(t *testing.T, db *sql.DB, id int64) int {
	t.Helper()

	var q int
	if err := db.QueryRow("SELECT quantidade FROM livros WHERE id = ?", id).Scan(&q); err != nil {
		t.Fatalf("Failed to read quantity of book %d: %v", id, err)
	}
	return q
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// ThankYou is one call recorded by Notifier.
type ThankYou struct {
	Email string
	Item  string
}

// Notifier records thank-you requests instead of sending them.  Set Err to
// make every call fail.
type Notifier struct {
	mu    sync.Mutex
	calls []ThankYou
	Err   error
}

func (n *Notifier) SendThankYou(_ context.Context, email, item string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.calls = append(n.calls, ThankYou{Email: email, Item: item})
	return nil
}

// Calls returns a copy of the recorded requests.
func (n *Notifier) Calls() []ThankYou {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ThankYou(nil), n.calls...)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
