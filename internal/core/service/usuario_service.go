package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/frotaops/diario-bordo/internal/core/domain"
	"github.com/frotaops/diario-bordo/internal/core/ports"
)

// bcryptCost is fixed: session security depends on every stored hash having
// the same work factor.
const bcryptCost = 12

// Claims embeds the registered JWT claims plus the account identity the
// token asserts.
type Claims struct {
	jwt.RegisteredClaims
	UsuarioID int64  `json:"id"`
	Email     string `json:"email"`
	Nome      string `json:"nome"`
}

// UsuarioService implements registration, authentication, and profile
// mutation on top of UsuarioRepository.
type UsuarioService struct {
	repo      ports.UsuarioRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewUsuarioService(repo ports.UsuarioRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *UsuarioService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &UsuarioService{repo: repo, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL, logger: logger}
}

// Register creates a new active account. The plaintext password is hashed
// before it reaches the repository and never stored or returned.
func (s *UsuarioService) Register(ctx context.Context, nome, email, senha string) (*domain.Usuario, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcryptCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Usuario{
		Nome:      nome,
		Email:     email,
		SenhaHash: string(hash),
		Ativo:     true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("usuario_id", created.ID).Msg("account registered")
	return sanitize(created), nil
}

// Authenticate verifies the email/password pair and issues a session token.
// Unknown email and wrong password return the same error so responses do
// not reveal which accounts exist.
func (s *UsuarioService) Authenticate(ctx context.Context, email, senha string) (*ports.AuthResult, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte(senha)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(u)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("usuario_id", u.ID).Msg("login")
	return &ports.AuthResult{Usuario: sanitize(u), Token: token}, nil
}

// VerifyToken resolves a session token back to its active account,
// distinguishing a bad token from an expired one from a token whose account
// no longer exists.
func (s *UsuarioService) VerifyToken(ctx context.Context, tokenString string) (*domain.Usuario, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	u, err := s.repo.FindByID(ctx, claims.UsuarioID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrAccountNotFound
	}
	return sanitize(u), nil
}

// FindByID returns the active account without its hash, or nil when absent.
func (s *UsuarioService) FindByID(ctx context.Context, id int64) (*domain.Usuario, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	return sanitize(u), nil
}

// UpdateProfile applies the supplied fields only. A changed email is checked
// for uniqueness among active accounts as a fast path; the unique constraint
// on usuarios.email remains the authoritative guard against the race between
// this check and the write.
func (s *UsuarioService) UpdateProfile(ctx context.Context, id int64, patch domain.PerfilPatch) (*domain.Usuario, error) {
	if patch.Email != nil {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, nil
		}
		if current.Email != *patch.Email {
			taken, err := s.repo.FindByEmail(ctx, *patch.Email)
			if err != nil {
				return nil, err
			}
			if taken != nil {
				return nil, domain.ErrEmailTaken
			}
		}
	}

	updated, err := s.repo.UpdateProfile(ctx, id, patch)
	if err != nil || updated == nil {
		return nil, err
	}
	return sanitize(updated), nil
}

// ChangePassword re-hashes and persists the new password after verifying
// the current one.
func (s *UsuarioService) ChangePassword(ctx context.Context, id int64, senhaAtual, novaSenha string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrAccountNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte(senhaAtual)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(novaSenha), bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateSenhaHash(ctx, id, string(hash)); err != nil {
		return err
	}
	s.logger.Info().Int64("usuario_id", id).Msg("password changed")
	return nil
}

// Deactivate soft-deletes the account. Existing diarios are untouched.
func (s *UsuarioService) Deactivate(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info().Int64("usuario_id", id).Msg("account deactivated")
	}
	return ok, nil
}

func (s *UsuarioService) generateToken(u *domain.Usuario) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UsuarioID: u.ID,
		Email:     u.Email,
		Nome:      u.Nome,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// sanitize returns a copy of u with the password hash blanked.
func sanitize(u *domain.Usuario) *domain.Usuario {
	c := *u
	c.SenhaHash = ""
	return &c
}
