package handler // declare the package name; contains HTTP handlers

import (
	"database/sql"
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// HealthHandler reports whether the API and its database are reachable.
type HealthHandler struct {
	DB *sql.DB
}

// Health is a simple health‑check endpoint used by the frontend and by
// monitoring systems.  It returns 200 with {status:"ok"} while the database
// answers a ping and 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
	if h.DB != nil {
		ctx, cancel := reqCtx(c)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "error", "message": "Banco de dados indisponível"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "message": "API funcionando"})
}
