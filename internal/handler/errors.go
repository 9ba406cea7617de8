package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/biblioteca-doacoes/internal/service"
)

const (
	msgNotFoundRoute = "Recurso não encontrado"
	msgInternal      = "Erro interno do servidor"
	msgInvalidBody   = "Dados inválidos"
	msgInvalidID     = "ID inválido"
)

// statusFor maps a service error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAuth):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as {error: message}.  Errors that are not rule violations
// are logged and hidden behind a generic 500.
func fail(c echo.Context, err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		return c.JSON(statusFor(se), echo.Map{"error": se.Message})
	}
	slog.Error("request failed", "method", c.Request().Method, "path", c.Path(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID), "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgInternal})
}

// HTTPErrorHandler renders errors that escape handlers and middleware
// (unknown routes, wrong methods, panics recovered by echo) in the same
// {error} shape as the handlers.
func HTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := msgInternal
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			switch {
			case code == http.StatusNotFound:
				msg = msgNotFoundRoute
			case code < http.StatusInternalServerError:
				if s, ok := he.Message.(string); ok {
					msg = s
				} else {
					msg = http.StatusText(code)
				}
			}
		}
		if code >= http.StatusInternalServerError {
			log.Error("unhandled error", "method", c.Request().Method, "uri", c.Request().RequestURI, "err", err)
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, echo.Map{"error": msg})
		}
		if werr != nil {
			log.Error("write error response", "err", werr)
		}
	}
}
