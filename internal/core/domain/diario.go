package domain

import "time"

// Atividade is a single task entry nested under a Diario. It has no
// independent lifecycle: rows are inserted only inside the creation
// transaction of their parent and removed by cascade with it.
// Times carry no date component and are kept as "HH:MM:SS" strings; nil
// means the field was not reported.
type Atividade struct {
	ID            int64     `json:"id"`
	DiarioID      int64     `json:"diario_id"`
	Descricao     string    `json:"descricao"`
	HorarioInicio *string   `json:"horario_inicio"`
	HorarioFim    *string   `json:"horario_fim"`
	Local         *string   `json:"local"`
	Observacoes   *string   `json:"observacoes"`
	CriadoEm      time.Time `json:"criado_em"`
}

// Diario is one vehicle-usage record for a date, owned by a Usuario.
// Atividades is populated on aggregate reads; KmRodados is derived and
// never accepted from callers.
type Diario struct {
	ID              int64       `json:"id"`
	UsuarioID       int64       `json:"usuario_id"`
	DataRegistro    time.Time   `json:"data_registro"`
	Viatura         string      `json:"viatura"`
	KmInicial       int         `json:"km_inicial"`
	KmFinal         int         `json:"km_final"`
	KmRodados       int         `json:"km_rodados"`
	Condutor        string      `json:"condutor"`
	Assistentes     []string    `json:"assistentes"`
	LimpezaOK       bool        `json:"limpeza_ok"`
	ConesQuantidade int         `json:"cones_quantidade"`
	Observacoes     string      `json:"observacoes"`
	CriadoEm        time.Time   `json:"criado_em"`
	AtualizadoEm    time.Time   `json:"atualizado_em"`
	Atividades      []Atividade `json:"atividades,omitempty"`
}

// RecomputeKmRodados refreshes the derived distance from the odometer pair.
// The write path calls this before every persist so the stored value is the
// same regardless of backing engine.
func (d *Diario) RecomputeKmRodados() {
	d.KmRodados = d.KmFinal - d.KmInicial
}

// DiarioResumo is the list-view projection: the header annotated with its
// activity count, without the activities themselves.
type DiarioResumo struct {
	Diario
	TotalAtividades int `json:"total_atividades"`
}

// DiarioPatch carries the optional fields of a partial update. Nil means
// "leave unchanged"; merging is explicit here rather than via SQL COALESCE
// so the semantics are testable without a database.
type DiarioPatch struct {
	Viatura         *string
	KmInicial       *int
	KmFinal         *int
	Condutor        *string
	Assistentes     *[]string
	LimpezaOK       *bool
	ConesQuantidade *int
	Observacoes     *string
}

// ApplyTo merges the supplied fields into d. The derived distance is NOT
// refreshed here; the store recomputes it when persisting the merged row.
func (p DiarioPatch) ApplyTo(d *Diario) {
	if p.Viatura != nil {
		d.Viatura = *p.Viatura
	}
	if p.KmInicial != nil {
		d.KmInicial = *p.KmInicial
	}
	if p.KmFinal != nil {
		d.KmFinal = *p.KmFinal
	}
	if p.Condutor != nil {
		d.Condutor = *p.Condutor
	}
	if p.Assistentes != nil {
		d.Assistentes = *p.Assistentes
	}
	if p.LimpezaOK != nil {
		d.LimpezaOK = *p.LimpezaOK
	}
	if p.ConesQuantidade != nil {
		d.ConesQuantidade = *p.ConesQuantidade
	}
	if p.Observacoes != nil {
		d.Observacoes = *p.Observacoes
	}
}

// Vazio reports whether the patch carries no fields at all.
func (p DiarioPatch) Vazio() bool {
	return p.Viatura == nil && p.KmInicial == nil && p.KmFinal == nil &&
		p.Condutor == nil && p.Assistentes == nil && p.LimpezaOK == nil &&
		p.ConesQuantidade == nil && p.Observacoes == nil
}

// Estatisticas aggregates a user's logbook history. Numeric fields are
// zero when the user has no diarios; the date bounds stay nil.
type Estatisticas struct {
	TotalDiarios     int64      `json:"total_diarios"`
	TotalKm          int64      `json:"total_km"`
	MediaKm          float64    `json:"media_km"`
	TotalViaturas    int64      `json:"total_viaturas"`
	PrimeiroRegistro *time.Time `json:"primeiro_registro"`
	UltimoRegistro   *time.Time `json:"ultimo_registro"`
}
