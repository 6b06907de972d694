package ports

import (
	"context"

	"github.com/frotaops/diario-bordo/internal/core/domain"
)

// UsuarioRepository defines the persistence interface for accounts. Every
// lookup sees active accounts only; a missing or deactivated account is a
// (nil, nil) result, not an error. Rows returned here still carry the
// password hash — sanitising is the service layer's job.
type UsuarioRepository interface {
	Create(ctx context.Context, u *domain.Usuario) (*domain.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*domain.Usuario, error)
	FindByID(ctx context.Context, id int64) (*domain.Usuario, error)
	UpdateProfile(ctx context.Context, id int64, patch domain.PerfilPatch) (*domain.Usuario, error)
	UpdateSenhaHash(ctx context.Context, id int64, senhaHash string) error
	Deactivate(ctx context.Context, id int64) (bool, error)
}
