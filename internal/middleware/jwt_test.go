package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(token string) (string, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return "", errors.New("Token inválido ou expirado")
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	mw := JWTAuth(stubVerifier{"good": "admin"})
	next := func(c echo.Context) error {
		return c.String(http.StatusOK, Username(c))
	}

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
		{"good token", "Bearer good", http.StatusOK, "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			if err := mw(next)(e.NewContext(req, rec)); err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rec.Code)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("Expected body %q, got %q", tt.body, rec.Body.String())
			}
		})
	}
}

func TestUsernameWithoutAuth(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if Username(c) != "" || actor(c) != "guest" {
		t.Error("Expected anonymous request to have no username")
	}
}
