package ports

import (
	"context"
	"time"

	"github.com/frotaops/diario-bordo/internal/core/domain"
)

// NovaAtividade carries the caller-supplied fields of one activity inside a
// diario creation. IDs and timestamps are assigned by storage.
type NovaAtividade struct {
	Descricao     string
	HorarioInicio *string
	HorarioFim    *string
	Local         *string
	Observacoes   *string
}

// DiarioRepository defines the persistence interface for logbook records.
//
// Create is the only multi-statement operation: the header and all its
// atividades are inserted in one transaction and either all rows persist or
// none do. A missing record id is a (nil, nil) result everywhere, never an
// error.
type DiarioRepository interface {
	Create(ctx context.Context, d *domain.Diario, atividades []NovaAtividade) (*domain.Diario, error)
	FindByID(ctx context.Context, id int64) (*domain.Diario, error)
	ListByUsuario(ctx context.Context, usuarioID int64, limite, offset int) ([]domain.DiarioResumo, error)
	FindByPeriodo(ctx context.Context, usuarioID int64, inicio, fim time.Time) ([]domain.DiarioResumo, error)
	Update(ctx context.Context, id int64, patch domain.DiarioPatch) (*domain.Diario, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Estatisticas(ctx context.Context, usuarioID int64) (*domain.Estatisticas, error)
}
