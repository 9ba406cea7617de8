package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/biblioteca-doacoes/internal/service"
)

// StatsHandler serves the dashboard counters.
type StatsHandler struct {
	Stats *service.StatsService
}

func NewStatsHandler(s *service.StatsService) *StatsHandler { return &StatsHandler{Stats: s} }

// Get: GET /stats and GET /estatisticas
func (h *StatsHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.Stats.Compute(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "stats": st})
}
