package ports

import (
	"context"
	"time"

	"github.com/frotaops/diario-bordo/internal/core/domain"
)

// CriarDiarioInput carries all data needed to create a diario with its
// atividades. UsuarioID comes from the verified session, never from the
// request body. KmRodados is absent on purpose: it is derived by storage.
type CriarDiarioInput struct {
	UsuarioID       int64
	DataRegistro    time.Time
	Viatura         string
	KmInicial       int
	KmFinal         int
	Condutor        string
	Assistentes     []string
	LimpezaOK       bool
	ConesQuantidade int
	Observacoes     string
	Atividades      []NovaAtividade
}

// DiarioService defines use-case operations for logbook records.
type DiarioService interface {
	Create(ctx context.Context, input CriarDiarioInput) (*domain.Diario, error)
	FindByID(ctx context.Context, id int64) (*domain.Diario, error)
	ListByUsuario(ctx context.Context, usuarioID int64, limite, offset int) ([]domain.DiarioResumo, error)
	FindByPeriodo(ctx context.Context, usuarioID int64, inicio, fim time.Time) ([]domain.DiarioResumo, error)
	Update(ctx context.Context, id int64, patch domain.DiarioPatch) (*domain.Diario, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Estatisticas(ctx context.Context, usuarioID int64) (*domain.Estatisticas, error)
}
