package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/frotaops/diario-bordo/internal/core/domain"
)

const usuarioColumns = "id, nome, email, senha_hash, ativo, criado_em, atualizado_em"

// UsuarioRepository persists accounts. Every lookup filters on ativo = true;
// the unique constraint on email is the authoritative duplicate guard and
// surfaces as domain.ErrEmailTaken.
type UsuarioRepository struct {
	db *DB
}

func NewUsuarioRepository(db *DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

func (r *UsuarioRepository) Create(ctx context.Context, u *domain.Usuario) (*domain.Usuario, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx,
		`INSERT INTO usuarios (nome, email, senha_hash)
		 VALUES ($1, $2, $3)
		 RETURNING `+usuarioColumns,
		u.Nome, u.Email, u.SenhaHash)

	created, err := scanUsuario(row)
	if err != nil {
		return nil, fmt.Errorf("insert usuario: %w", pgErrorKind(err))
	}
	return created, nil
}

func (r *UsuarioRepository) FindByEmail(ctx context.Context, email string) (*domain.Usuario, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx,
		`SELECT `+usuarioColumns+` FROM usuarios WHERE email = $1 AND ativo = true`, email)

	u, err := scanUsuario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find usuario by email: %w", err)
	}
	return u, nil
}

func (r *UsuarioRepository) FindByID(ctx context.Context, id int64) (*domain.Usuario, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx,
		`SELECT `+usuarioColumns+` FROM usuarios WHERE id = $1 AND ativo = true`, id)

	u, err := scanUsuario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find usuario by id: %w", err)
	}
	return u, nil
}

// UpdateProfile merges the patch into the current row and writes the result
// back, bumping atualizado_em. The row is locked for the read-merge-write so
// two concurrent patches cannot overwrite each other's fields with stale
// values. Returns nil when the account is missing or deactivated.
func (r *UsuarioRepository) UpdateProfile(ctx context.Context, id int64, patch domain.PerfilPatch) (*domain.Usuario, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	sctx := context.WithoutCancel(ctx)
	defer tx.Rollback(sctx)

	row := tx.QueryRow(sctx,
		`SELECT `+usuarioColumns+` FROM usuarios WHERE id = $1 AND ativo = true FOR UPDATE`, id)
	current, err := scanUsuario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find usuario: %w", err)
	}
	patch.ApplyTo(current)

	row = tx.QueryRow(sctx,
		`UPDATE usuarios SET
		 nome = $2,
		 email = $3,
		 atualizado_em = CURRENT_TIMESTAMP
		 WHERE id = $1
		 RETURNING `+usuarioColumns,
		id, current.Nome, current.Email)

	updated, err := scanUsuario(row)
	if err != nil {
		return nil, fmt.Errorf("update usuario: %w", pgErrorKind(err))
	}

	if err := tx.Commit(sctx); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return updated, nil
}

func (r *UsuarioRepository) UpdateSenhaHash(ctx context.Context, id int64, senhaHash string) error {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx,
		`UPDATE usuarios SET
		 senha_hash = $2,
		 atualizado_em = CURRENT_TIMESTAMP
		 WHERE id = $1 AND ativo = true`,
		id, senhaHash)
	if err != nil {
		return fmt.Errorf("update senha: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *UsuarioRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx,
		`UPDATE usuarios SET
		 ativo = false,
		 atualizado_em = CURRENT_TIMESTAMP
		 WHERE id = $1 AND ativo = true`, id)
	if err != nil {
		return false, fmt.Errorf("deactivate usuario: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanUsuario(row pgx.Row) (*domain.Usuario, error) {
	var u domain.Usuario
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Ativo, &u.CriadoEm, &u.AtualizadoEm)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
