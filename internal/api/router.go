// Package api assembles the HTTP surface: routing, middleware, the central
// error handler and the Prometheus exposition endpoint.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/frotaops/diario-bordo/internal/api/handler"
	"github.com/frotaops/diario-bordo/internal/api/middleware"
	"github.com/frotaops/diario-bordo/internal/core/service"
	"github.com/frotaops/diario-bordo/internal/infrastructure/config"
	"github.com/frotaops/diario-bordo/internal/infrastructure/db/postgres"
)

// NewRouter wires repositories, services, handlers and middleware into a
// configured echo instance, ready to be started by the caller.
func NewRouter(db *postgres.DB, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echoprometheus.NewMiddleware("diario"))

	usuarioRepo := postgres.NewUsuarioRepository(db)
	usuarios := service.NewUsuarioService(usuarioRepo, cfg.JWTSecret, cfg.JWTExpiry, log)
	diarioRepo := postgres.NewDiarioRepository(db)
	diarios := service.NewDiarioService(diarioRepo, log)

	authHandler := handler.NewAuthHandler(usuarios)
	diarioHandler := handler.NewDiarioHandler(diarios)
	healthHandler := handler.NewHealthHandler(db)
	authRequired := middleware.Auth(usuarios)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	auth := e.Group("/auth")
	auth.POST("/registro", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/verificar", authHandler.Verify, authRequired)
	auth.GET("/perfil", authHandler.Perfil, authRequired)
	auth.PUT("/perfil", authHandler.UpdatePerfil, authRequired)
	auth.PUT("/senha", authHandler.ChangePassword, authRequired)
	auth.POST("/logout", authHandler.Logout, authRequired)
	auth.DELETE("/conta", authHandler.Deactivate, authRequired)

	d := e.Group("/diarios", authRequired)
	d.POST("", diarioHandler.Create)
	d.GET("", diarioHandler.List)
	d.GET("/stats/resumo", diarioHandler.Estatisticas)
	d.GET("/periodo/:inicio/:fim", diarioHandler.Periodo)
	d.GET("/:id", diarioHandler.Get)
	d.PUT("/:id", diarioHandler.Update)
	d.DELETE("/:id", diarioHandler.Delete)

	return e
}
