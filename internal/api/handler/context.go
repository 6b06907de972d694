package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/frotaops/diario-bordo/internal/core/domain"
)

// ctxUsuario extracts the account injected by the Auth middleware. Its
// absence means the middleware did not run on this route — fail closed.
func ctxUsuario(c echo.Context) (*domain.Usuario, error) {
	u, ok := c.Get("usuario").(*domain.Usuario)
	if !ok || u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return u, nil
}
