package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/frotaops/diario-bordo/internal/api/metrics"
	"github.com/frotaops/diario-bordo/internal/core/domain"
	"github.com/frotaops/diario-bordo/internal/core/ports"
)

// AuthHandler exposes the credential and session endpoints.
type AuthHandler struct {
	usuarios ports.UsuarioService
}

// NewAuthHandler creates an AuthHandler backed by the given service.
func NewAuthHandler(usuarios ports.UsuarioService) *AuthHandler {
	return &AuthHandler{usuarios: usuarios}
}

// Register godoc
// @Summary      Register a new account
// @Description  Creates an active account with a hashed password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body registroRequest true "Account data"
// @Success      201 {object} usuarioEnvelope
// @Failure      400 {object} errorResponse
// @Failure      409 {object} errorResponse
// @Router       /auth/registro [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registroRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := h.usuarios.Register(c.Request().Context(), req.Nome, req.Email, req.Senha)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, usuarioEnvelope{
		Message: "usuario registrado com sucesso",
		Usuario: u,
	})
}

// Login godoc
// @Summary      Authenticate
// @Description  Validates credentials and issues a signed session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Credentials"
// @Success      200 {object} loginResponse
// @Failure      401 {object} errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.usuarios.Authenticate(c.Request().Context(), req.Email, req.Senha)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Message: "login realizado com sucesso",
		Usuario: res.Usuario,
		Token:   res.Token,
	})
}

// Verify godoc
// @Summary      Verify the session token
// @Description  Confirms the bearer token maps to an active account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} usuarioEnvelope
// @Failure      401 {object} errorResponse
// @Router       /auth/verificar [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usuarioEnvelope{
		Message: "token valido",
		Usuario: u,
	})
}

// Perfil godoc
// @Summary      Current profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} usuarioEnvelope
// @Failure      401 {object} errorResponse
// @Router       /auth/perfil [get]
func (h *AuthHandler) Perfil(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usuarioEnvelope{Usuario: u})
}

// UpdatePerfil godoc
// @Summary      Update profile
// @Description  Changes name and/or email of the authenticated account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body perfilRequest true "Fields to change"
// @Success      200 {object} usuarioEnvelope
// @Failure      400 {object} errorResponse
// @Failure      409 {object} errorResponse
// @Router       /auth/perfil [put]
func (h *AuthHandler) UpdatePerfil(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}

	var req perfilRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Nome == nil && req.Email == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	updated, err := h.usuarios.UpdateProfile(c.Request().Context(), u.ID, domain.PerfilPatch{
		Nome:  req.Nome,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	if updated == nil {
		return echo.NewHTTPError(http.StatusNotFound, "usuario not found")
	}

	return c.JSON(http.StatusOK, usuarioEnvelope{
		Message: "perfil atualizado com sucesso",
		Usuario: updated,
	})
}

// ChangePassword godoc
// @Summary      Change password
// @Description  Verifies the current password and stores a new hash
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body senhaRequest true "Current and new password"
// @Success      200 {object} messageResponse
// @Failure      401 {object} errorResponse
// @Router       /auth/senha [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}

	var req senhaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.usuarios.ChangePassword(c.Request().Context(), u.ID, req.SenhaAtual, req.NovaSenha); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "senha alterada com sucesso"})
}

// Logout godoc
// @Summary      Logout
// @Description  Stateless acknowledgment; the client discards its token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxUsuario(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logout realizado com sucesso"})
}

// Deactivate godoc
// @Summary      Deactivate account
// @Description  Soft-deletes the authenticated account; existing diarios survive
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} messageResponse
// @Failure      404 {object} errorResponse
// @Router       /auth/conta [delete]
func (h *AuthHandler) Deactivate(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}

	ok, err := h.usuarios.Deactivate(c.Request().Context(), u.ID)
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "usuario not found")
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "conta desativada com sucesso"})
}
