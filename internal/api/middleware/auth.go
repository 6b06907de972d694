package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/frotaops/diario-bordo/internal/api/metrics"
	"github.com/frotaops/diario-bordo/internal/core/domain"
	"github.com/frotaops/diario-bordo/internal/core/ports"
)

// Auth resolves the bearer token to an active account through the usuario
// service and injects it into the request context. Verification failures
// keep their error kind: the central error handler maps all of them to 401.
func Auth(usuarios ports.UsuarioService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			u, err := usuarios.VerifyToken(c.Request().Context(), parts[1])
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					metrics.TokenRejectionsTotal.WithLabelValues("expired").Inc()
				case errors.Is(err, domain.ErrAccountNotFound):
					metrics.TokenRejectionsTotal.WithLabelValues("account_missing").Inc()
				case errors.Is(err, domain.ErrInvalidToken):
					metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				}
				return err
			}

			c.Set("usuario", u)
			return next(c)
		}
	}
}
