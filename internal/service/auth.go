package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/biblioteca-doacoes/internal/model"
	"github.com/iliyamo/biblioteca-doacoes/internal/repository"
	"github.com/iliyamo/biblioteca-doacoes/internal/utils"
)

const (
	msgLoginRequired      = "Username e password são obrigatórios"
	msgInvalidCredentials = "Credenciais inválidas"
	msgInvalidToken       = "Token inválido ou expirado"
	msgAdminNotFound      = "Administrador não encontrado"
)

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     *model.Admin
}

// AuthService authenticates administrators and issues bearer tokens.
type AuthService struct {
	db         *sql.DB
	secret     string
	ttl        time.Duration
	bcryptCost int
}

func NewAuthService(db *sql.DB, secret string, bcryptCost int) *AuthService {
	return &AuthService{db: db, secret: secret, ttl: utils.AccessTokenTTL, bcryptCost: bcryptCost}
}

// WithTTL overrides the token lifetime.
func (s *AuthService) WithTTL(ttl time.Duration) *AuthService {
	s.ttl = ttl
	return s
}

// Login checks the credentials and signs a token for the administrator.
// Unknown usernames and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, validation(msgLoginRequired)
	}
	admin, err := repository.NewAdminRepo(s.db).GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(admin.PasswordHash, password) {
		return nil, unauthorized(msgInvalidCredentials)
	}
	tok, err := utils.NewAccessToken(s.secret, admin.Username, s.ttl)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok.Token, ExpiresAt: tok.Exp, Admin: admin}, nil
}

// Verify validates a bearer token and returns its subject.
func (s *AuthService) Verify(token string) (string, error) {
	sub, err := utils.ParseAccessToken(s.secret, token)
	if err != nil {
		return "", unauthorized(msgInvalidToken)
	}
	return sub, nil
}

// EnsureAdmin creates the administrator when the username is not taken.
// It reports whether a row was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	admins := repository.NewAdminRepo(s.db)
	if _, err := admins.GetByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	if _, err := admins.Create(ctx, username, hash, now()); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil // created concurrently
		}
		return false, err
	}
	return true, nil
}

// ChangePassword replaces the password of an existing administrator.
func (s *AuthService) ChangePassword(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return validation(msgLoginRequired)
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	err = repository.NewAdminRepo(s.db).UpdatePassword(ctx, username, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msgAdminNotFound)
	}
	return err
}
