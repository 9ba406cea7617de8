package router // package router defines how HTTP routes are registered for the API

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/biblioteca-doacoes/internal/handler"    // HTTP handlers
	"github.com/iliyamo/biblioteca-doacoes/internal/middleware" // JWT authentication and request logging
)

// Handlers groups every handler the API serves.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Books     *handler.BookHandler
	Donations *handler.DonationHandler
	Stats     *handler.StatsHandler
}

// Options configures the cross-cutting middleware.
type Options struct {
	AllowOrigins []string
	Logger       *slog.Logger
}

// New builds the Echo instance with global middleware and every route
// registered under /api.
func New(h Handlers, verifier middleware.TokenVerifier, opts Options) *echo.Echo {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler(log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: opts.AllowOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Requested-With"},
		AllowCredentials: true,
	}))

	api := e.Group("/api")
	RegisterPublic(api, h)
	RegisterAdmin(api, h, middleware.JWTAuth(verifier))
	return e
}

// RegisterPublic registers routes that do not require a token: health,
// login, the catalog reads and the donation form.
func RegisterPublic(g *echo.Group, h Handlers) {
	g.GET("/health", h.Health.Health)
	g.POST("/auth/login", h.Auth.Login)

	g.GET("/livros", h.Books.List)
	g.GET("/livros/buscar", h.Books.List)
	g.GET("/livros/:id", h.Books.Get)

	g.POST("/doacoes", h.Donations.Create)
}

// RegisterAdmin registers the routes guarded by auth.
func RegisterAdmin(g *echo.Group, h Handlers, auth echo.MiddlewareFunc) {
	g.GET("/auth/verify", h.Auth.Verify, auth)

	g.POST("/livros", h.Books.Create, auth)
	g.PUT("/livros/:id", h.Books.Update, auth)
	g.PATCH("/livros/:id/quantidade", h.Books.SetQuantity, auth)
	g.DELETE("/livros/:id", h.Books.Delete, auth)

	g.GET("/doacoes", h.Donations.List, auth)
	g.GET("/doacoes/:id", h.Donations.Get, auth)
	g.PUT("/doacoes/:id", h.Donations.Update, auth)
	g.DELETE("/doacoes/:id", h.Donations.Delete, auth)

	g.GET("/stats", h.Stats.Get, auth)
	g.GET("/estatisticas", h.Stats.Get, auth)
}
