package ports

import (
	"context"

	"github.com/frotaops/diario-bordo/internal/core/domain"
)

// AuthResult is returned by Authenticate: the account (without hash) plus a
// signed session token.
type AuthResult struct {
	Usuario *domain.Usuario
	Token   string
}

// UsuarioService defines the credential and session use cases.
type UsuarioService interface {
	Register(ctx context.Context, nome, email, senha string) (*domain.Usuario, error)
	Authenticate(ctx context.Context, email, senha string) (*AuthResult, error)
	// VerifyToken resolves a session token to its active account. It is the
	// single operation the auth middleware depends on.
	VerifyToken(ctx context.Context, token string) (*domain.Usuario, error)
	FindByID(ctx context.Context, id int64) (*domain.Usuario, error)
	UpdateProfile(ctx context.Context, id int64, patch domain.PerfilPatch) (*domain.Usuario, error)
	ChangePassword(ctx context.Context, id int64, senhaAtual, novaSenha string) error
	Deactivate(ctx context.Context, id int64) (bool, error)
}
