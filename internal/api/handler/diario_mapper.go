package handler

import (
	"time"

	"github.com/frotaops/diario-bordo/internal/core/domain"
)

// dateLayout is the wire format for calendar dates: the time component of
// data_registro is meaningless and never serialized.
const dateLayout = "2006-01-02"

type atividadeResponse struct {
	ID            int64     `json:"id"`
	DiarioID      int64     `json:"diario_id"`
	Descricao     string    `json:"descricao"`
	HorarioInicio *string   `json:"horario_inicio"`
	HorarioFim    *string   `json:"horario_fim"`
	Local         *string   `json:"local"`
	Observacoes   *string   `json:"observacoes"`
	CriadoEm      time.Time `json:"criado_em"`
}

type diarioResponse struct {
	ID              int64               `json:"id"`
	UsuarioID       int64               `json:"usuario_id"`
	DataRegistro    string              `json:"data_registro"`
	Viatura         string              `json:"viatura"`
	KmInicial       int                 `json:"km_inicial"`
	KmFinal         int                 `json:"km_final"`
	KmRodados       int                 `json:"km_rodados"`
	Condutor        string              `json:"condutor"`
	Assistentes     []string            `json:"assistentes"`
	LimpezaOK       bool                `json:"limpeza_ok"`
	ConesQuantidade int                 `json:"cones_quantidade"`
	Observacoes     string              `json:"observacoes"`
	CriadoEm        time.Time           `json:"criado_em"`
	AtualizadoEm    time.Time           `json:"atualizado_em"`
	Atividades      []atividadeResponse `json:"atividades,omitempty"`
}

type diarioResumoResponse struct {
	diarioResponse
	TotalAtividades int `json:"total_atividades"`
}

type estatisticasResponse struct {
	TotalDiarios     int64   `json:"total_diarios"`
	TotalKm          int64   `json:"total_km"`
	MediaKm          float64 `json:"media_km"`
	TotalViaturas    int64   `json:"total_viaturas"`
	PrimeiroRegistro *string `json:"primeiro_registro"`
	UltimoRegistro   *string `json:"ultimo_registro"`
}

func toAtividadeResponse(a domain.Atividade) atividadeResponse {
	return atividadeResponse{
		ID:            a.ID,
		DiarioID:      a.DiarioID,
		Descricao:     a.Descricao,
		HorarioInicio: a.HorarioInicio,
		HorarioFim:    a.HorarioFim,
		Local:         a.Local,
		Observacoes:   a.Observacoes,
		CriadoEm:      a.CriadoEm,
	}
}

func toDiarioResponse(d *domain.Diario) diarioResponse {
	resp := diarioResponse{
		ID:              d.ID,
		UsuarioID:       d.UsuarioID,
		DataRegistro:    d.DataRegistro.Format(dateLayout),
		Viatura:         d.Viatura,
		KmInicial:       d.KmInicial,
		KmFinal:         d.KmFinal,
		KmRodados:       d.KmRodados,
		Condutor:        d.Condutor,
		Assistentes:     d.Assistentes,
		LimpezaOK:       d.LimpezaOK,
		ConesQuantidade: d.ConesQuantidade,
		Observacoes:     d.Observacoes,
		CriadoEm:        d.CriadoEm,
		AtualizadoEm:    d.AtualizadoEm,
	}
	if d.Atividades != nil {
		resp.Atividades = make([]atividadeResponse, 0, len(d.Atividades))
		for _, a := range d.Atividades {
			resp.Atividades = append(resp.Atividades, toAtividadeResponse(a))
		}
	}
	return resp
}

func toResumoResponses(resumos []domain.DiarioResumo) []diarioResumoResponse {
	out := make([]diarioResumoResponse, 0, len(resumos))
	for i := range resumos {
		out = append(out, diarioResumoResponse{
			diarioResponse:  toDiarioResponse(&resumos[i].Diario),
			TotalAtividades: resumos[i].TotalAtividades,
		})
	}
	return out
}

func toEstatisticasResponse(e *domain.Estatisticas) estatisticasResponse {
	resp := estatisticasResponse{
		TotalDiarios:  e.TotalDiarios,
		TotalKm:       e.TotalKm,
		MediaKm:       e.MediaKm,
		TotalViaturas: e.TotalViaturas,
	}
	if e.PrimeiroRegistro != nil {
		s := e.PrimeiroRegistro.Format(dateLayout)
		resp.PrimeiroRegistro = &s
	}
	if e.UltimoRegistro != nil {
		s := e.UltimoRegistro.Format(dateLayout)
		resp.UltimoRegistro = &s
	}
	return resp
}
