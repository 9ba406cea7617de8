package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/biblioteca-doacoes/internal/testutil"
	"github.com/iliyamo/biblioteca-doacoes/internal/utils"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	a := NewAuthService(db, testutil.TestSecret, bcrypt.MinCost)
	if created, err := a.EnsureAdmin(context.Background(), "admin", "123456"); err != nil || !created {
		t.Fatalf("EnsureAdmin: created=%v err=%v", created, err)
	}
	return a
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	a := newTestAuth(t)
	created, err := a.EnsureAdmin(context.Background(), "admin", "other")
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if created {
		t.Error("Expected existing admin to be kept")
	}
	// the first password still works
	if _, err := a.Login(context.Background(), "admin", "123456"); err != nil {
		t.Errorf("Login with first password failed: %v", err)
	}
}

func TestLoginAndVerify(t *testing.T) {
	a := newTestAuth(t)

	res, err := a.Login(context.Background(), "admin", "123456")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Token == "" || res.Admin.Username != "admin" || res.Admin.ID == 0 {
		t.Errorf("Unexpected login result: %+v", res)
	}
	if d := time.Until(res.ExpiresAt); d < 23*time.Hour || d > 24*time.Hour+time.Minute {
		t.Errorf("Expected ~24h expiry, got %v", d)
	}

	sub, err := a.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if sub != "admin" {
		t.Errorf("Expected subject admin, got %q", sub)
	}
}

func TestLoginFailuresAreSymmetric(t *testing.T) {
	a := newTestAuth(t)
	ctx := context.Background()

	_, err := a.Login(ctx, "admin", "wrong")
	assertErr(t, err, ErrAuth, msgInvalidCredentials)
	_, err = a.Login(ctx, "ghost", "123456")
	assertErr(t, err, ErrAuth, msgInvalidCredentials)

	_, err = a.Login(ctx, "", "123456")
	assertErr(t, err, ErrValidation, msgLoginRequired)
	_, err = a.Login(ctx, "admin", "")
	assertErr(t, err, ErrValidation, msgLoginRequired)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	a := newTestAuth(t)
	res, err := a.Login(context.Background(), "admin", "123456")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// flip the first character of the signature
	dot := strings.LastIndex(res.Token, ".")
	sig := res.Token[dot+1:]
	flipped := "A"
	if sig[0] == 'A' {
		flipped = "B"
	}
	tampered := res.Token[:dot+1] + flipped + sig[1:]

	foreign, err := utils.NewAccessToken("another-secret", "admin", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}
	expired, err := utils.NewAccessToken(testutil.TestSecret, "admin", -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"tampered", tampered},
		{"other secret", foreign.Token},
		{"expired", expired.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Verify(tt.token)
			assertErr(t, err, ErrAuth, msgInvalidToken)
		})
	}
}

func TestChangePassword(t *testing.T) {
	a := newTestAuth(t)
	ctx := context.Background()

	if err := a.ChangePassword(ctx, "admin", "nova-senha"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	_, err := a.Login(ctx, "admin", "123456")
	assertErr(t, err, ErrAuth, msgInvalidCredentials)
	if _, err := a.Login(ctx, "admin", "nova-senha"); err != nil {
		t.Errorf("Login with new password failed: %v", err)
	}

	err = a.ChangePassword(ctx, "ghost", "x")
	assertErr(t, err, ErrNotFound, msgAdminNotFound)
}
