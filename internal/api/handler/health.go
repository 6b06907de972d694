package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is the slice of the database the readiness probe depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers the liveness and readiness probes.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a HealthHandler probing the given database.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Liveness reports that the process is up. No dependencies are touched.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness pings the database with a short deadline so a stuck pool
// turns the probe red instead of hanging it.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status, word := http.StatusOK, "ok"
	deps := echo.Map{"postgres": "ok"}
	if err := h.db.Ping(ctx); err != nil {
		status, word = http.StatusServiceUnavailable, "degraded"
		deps["postgres"] = err.Error()
	}

	return c.JSON(status, echo.Map{
		"status":       word,
		"dependencies": deps,
	})
}
