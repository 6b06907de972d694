package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/frotaops/diario-bordo/internal/api/metrics"
	"github.com/frotaops/diario-bordo/internal/core/domain"
	"github.com/frotaops/diario-bordo/internal/core/ports"
)

const (
	defaultLimite = 50
	maxLimite     = 200
)

// DiarioHandler exposes the logbook endpoints. Every route runs behind the
// Auth middleware; the owning user always comes from the session, never
// from the payload.
type DiarioHandler struct {
	diarios ports.DiarioService
}

// NewDiarioHandler creates a DiarioHandler backed by the given service.
func NewDiarioHandler(diarios ports.DiarioService) *DiarioHandler {
	return &DiarioHandler{diarios: diarios}
}

// Create godoc
// @Summary      Create a diario
// @Description  Persists a logbook record with its atividades in one transaction
// @Tags         diarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body criarDiarioRequest true "Logbook record"
// @Success      201 {object} map[string]any
// @Failure      400 {object} errorResponse
// @Failure      422 {object} errorResponse
// @Router       /diarios [post]
func (h *DiarioHandler) Create(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}

	var req criarDiarioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if *req.KmFinal < *req.KmInicial {
		return echo.NewHTTPError(http.StatusBadRequest, "km_final must be greater than or equal to km_inicial")
	}

	data, err := time.Parse(dateLayout, req.DataRegistro)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "data_registro must match the format 2006-01-02")
	}

	atividades := make([]ports.NovaAtividade, 0, len(req.Atividades))
	for _, a := range req.Atividades {
		atividades = append(atividades, ports.NovaAtividade{
			Descricao:     a.Descricao,
			HorarioInicio: a.HorarioInicio,
			HorarioFim:    a.HorarioFim,
			Local:         a.Local,
			Observacoes:   a.Observacoes,
		})
	}

	d, err := h.diarios.Create(c.Request().Context(), ports.CriarDiarioInput{
		UsuarioID:       u.ID,
		DataRegistro:    data,
		Viatura:         req.Viatura,
		KmInicial:       *req.KmInicial,
		KmFinal:         *req.KmFinal,
		Condutor:        req.Condutor,
		Assistentes:     req.Assistentes,
		LimpezaOK:       req.LimpezaOK,
		ConesQuantidade: req.ConesQuantidade,
		Observacoes:     req.Observacoes,
		Atividades:      atividades,
	})
	if err != nil {
		return err
	}
	metrics.DiariosCreatedTotal.Inc()

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "diario criado com sucesso",
		"diario":  toDiarioResponse(d),
	})
}

// List godoc
// @Summary      List diarios
// @Description  Pages through the authenticated user's records, newest first
// @Tags         diarios
// @Produce      json
// @Security     BearerAuth
// @Param        limite query int false "Page size" default(50)
// @Param        pagina query int false "Page number" default(1)
// @Success      200 {object} map[string]any
// @Router       /diarios [get]
func (h *DiarioHandler) List(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}

	limite := queryInt(c, "limite", defaultLimite)
	if limite < 1 || limite > maxLimite {
		limite = defaultLimite
	}
	pagina := queryInt(c, "pagina", 1)
	if pagina < 1 {
		pagina = 1
	}

	resumos, err := h.diarios.ListByUsuario(c.Request().Context(), u.ID, limite, (pagina-1)*limite)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"diarios": toResumoResponses(resumos),
		"paginacao": echo.Map{
			"pagina": pagina,
			"limite": limite,
			"total":  len(resumos),
		},
	})
}

// Get godoc
// @Summary      Fetch one diario
// @Description  Returns the full aggregate including its atividades
// @Tags         diarios
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Diario ID"
// @Success      200 {object} map[string]any
// @Failure      404 {object} errorResponse
// @Router       /diarios/{id} [get]
func (h *DiarioHandler) Get(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}

	id, err := paramID(c)
	if err != nil {
		return err
	}

	d, err := h.diarios.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if d == nil || d.UsuarioID != u.ID {
		return echo.NewHTTPError(http.StatusNotFound, "diario not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"diario": toDiarioResponse(d)})
}

// Periodo godoc
// @Summary      List diarios in a date range
// @Tags         diarios
// @Produce      json
// @Security     BearerAuth
// @Param        inicio path string true "Start date (2006-01-02)"
// @Param        fim path string true "End date (2006-01-02)"
// @Success      200 {object} map[string]any
// @Failure      400 {object} errorResponse
// @Router       /diarios/periodo/{inicio}/{fim} [get]
func (h *DiarioHandler) Periodo(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}

	inicio, err := time.Parse(dateLayout, c.Param("inicio"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "inicio must match the format 2006-01-02")
	}
	fim, err := time.Parse(dateLayout, c.Param("fim"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "fim must match the format 2006-01-02")
	}
	if fim.Before(inicio) {
		return echo.NewHTTPError(http.StatusBadRequest, "fim must not be before inicio")
	}

	resumos, err := h.diarios.FindByPeriodo(c.Request().Context(), u.ID, inicio, fim)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"diarios": toResumoResponses(resumos),
		"periodo": echo.Map{
			"inicio": inicio.Format(dateLayout),
			"fim":    fim.Format(dateLayout),
		},
		"total": len(resumos),
	})
}

// Update godoc
// @Summary      Update a diario
// @Description  Merges the supplied fields; km_rodados is recomputed by storage
// @Tags         diarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Diario ID"
// @Param        request body atualizarDiarioRequest true "Fields to change"
// @Success      200 {object} map[string]any
// @Failure      400 {object} errorResponse
// @Failure      404 {object} errorResponse
// @Router       /diarios/{id} [put]
func (h *DiarioHandler) Update(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}

	id, err := paramID(c)
	if err != nil {
		return err
	}

	var req atualizarDiarioRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := domain.DiarioPatch{
		Viatura:         req.Viatura,
		KmInicial:       req.KmInicial,
		KmFinal:         req.KmFinal,
		Condutor:        req.Condutor,
		Assistentes:     req.Assistentes,
		LimpezaOK:       req.LimpezaOK,
		ConesQuantidade: req.ConesQuantidade,
		Observacoes:     req.Observacoes,
	}
	if patch.Vazio() {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	existing, err := h.diarios.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if existing == nil || existing.UsuarioID != u.ID {
		return echo.NewHTTPError(http.StatusNotFound, "diario not found")
	}

	// Validate the odometer pair as it will exist after the merge, so a
	// lone km_final is still checked against the stored km_inicial.
	kmInicial, kmFinal := existing.KmInicial, existing.KmFinal
	if req.KmInicial != nil {
		kmInicial = *req.KmInicial
	}
	if req.KmFinal != nil {
		kmFinal = *req.KmFinal
	}
	if kmFinal < kmInicial {
		return echo.NewHTTPError(http.StatusBadRequest, "km_final must be greater than or equal to km_inicial")
	}

	d, err := h.diarios.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	if d == nil {
		return echo.NewHTTPError(http.StatusNotFound, "diario not found")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "diario atualizado com sucesso",
		"diario":  toDiarioResponse(d),
	})
}

// Delete godoc
// @Summary      Delete a diario
// @Description  Removes the record and its atividades by cascade
// @Tags         diarios
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Diario ID"
// @Success      200 {object} messageResponse
// @Failure      404 {object} errorResponse
// @Router       /diarios/{id} [delete]
func (h *DiarioHandler) Delete(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}

	id, err := paramID(c)
	if err != nil {
		return err
	}

	existing, err := h.diarios.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if existing == nil || existing.UsuarioID != u.ID {
		return echo.NewHTTPError(http.StatusNotFound, "diario not found")
	}

	ok, err := h.diarios.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "diario not found")
	}
	metrics.DiariosDeletedTotal.Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "diario removido com sucesso"})
}

// Estatisticas godoc
// @Summary      Aggregate statistics
// @Description  Totals, distance average and date bounds for the user's history
// @Tags         diarios
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Router       /diarios/stats/resumo [get]
func (h *DiarioHandler) Estatisticas(c echo.Context) error {
	u, err := ctxUsuario(c)
	if err != nil {
		return err
	}

	stats, err := h.diarios.Estatisticas(c.Request().Context(), u.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"estatisticas": toEstatisticasResponse(stats)})
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
