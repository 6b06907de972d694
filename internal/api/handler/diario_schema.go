package handler

type atividadeRequest struct {
	Descricao     string  `json:"descricao" validate:"required"`
	HorarioInicio *string `json:"horario_inicio" validate:"omitempty,datetime=15:04"`
	HorarioFim    *string `json:"horario_fim" validate:"omitempty,datetime=15:04"`
	Local         *string `json:"local"`
	Observacoes   *string `json:"observacoes"`
}

type criarDiarioRequest struct {
	DataRegistro    string             `json:"data_registro" validate:"required,datetime=2006-01-02"`
	Viatura         string             `json:"viatura" validate:"required"`
	KmInicial       *int               `json:"km_inicial" validate:"required,gte=0"`
	KmFinal         *int               `json:"km_final" validate:"required,gte=0"`
	Condutor        string             `json:"condutor" validate:"required"`
	Assistentes     []string           `json:"assistentes"`
	LimpezaOK       bool               `json:"limpeza_ok"`
	ConesQuantidade int                `json:"cones_quantidade" validate:"gte=0"`
	Observacoes     string             `json:"observacoes"`
	Atividades      []atividadeRequest `json:"atividades" validate:"dive"`
}

type atualizarDiarioRequest struct {
	Viatura         *string   `json:"viatura" validate:"omitempty,min=1"`
	KmInicial       *int      `json:"km_inicial" validate:"omitempty,gte=0"`
	KmFinal         *int      `json:"km_final" validate:"omitempty,gte=0"`
	Condutor        *string   `json:"condutor" validate:"omitempty,min=1"`
	Assistentes     *[]string `json:"assistentes"`
	LimpezaOK       *bool     `json:"limpeza_ok"`
	ConesQuantidade *int      `json:"cones_quantidade" validate:"omitempty,gte=0"`
	Observacoes     *string   `json:"observacoes"`
}
