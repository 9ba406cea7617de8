package handler

import (
	"net/http" // HTTP status codes and primitives

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/biblioteca-doacoes/internal/middleware" // identity stored by JWTAuth
	"github.com/iliyamo/biblioteca-doacoes/internal/service"    // auth rules and token issuing
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(a *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminPart struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResp struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	Admin   adminPart `json:"admin"`
}

// Login: verify credentials and return a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgInvalidBody})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, loginResp{
		Success: true,
		Token:   res.Token,
		Admin:   adminPart{ID: res.Admin.ID, Username: res.Admin.Username},
	})
}

// Verify: the JWT middleware already accepted the token; echo back its subject.
func (h *AuthHandler) Verify(c echo.Context) error {
	username := middleware.Username(c)
	if username == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token inválido ou expirado"})
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": true, "username": username})
}
