package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/frotaops/diario-bordo/internal/core/domain"
	"github.com/frotaops/diario-bordo/internal/core/ports"
)

const diarioColumns = `id, usuario_id, data_registro, viatura, km_inicial, km_final, km_rodados,
	condutor, assistentes, limpeza_ok, cones_quantidade, observacoes, criado_em, atualizado_em`

// TIME columns carry no date; they travel as "HH:MM:SS" strings.
const atividadeColumns = `id, diario_id, descricao,
	to_char(horario_inicio, 'HH24:MI:SS'), to_char(horario_fim, 'HH24:MI:SS'),
	local, observacoes, criado_em`

// DiarioRepository persists logbook headers and their atividades.
type DiarioRepository struct {
	db *DB
}

func NewDiarioRepository(db *DB) *DiarioRepository {
	return &DiarioRepository{db: db}
}

// Create inserts the header and all atividades in one transaction. Any
// failure rolls the whole unit back: a header is never observable with a
// subset of its atividades, and an atividade never without its header.
func (r *DiarioRepository) Create(ctx context.Context, d *domain.Diario, atividades []ports.NovaAtividade) (*domain.Diario, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	// Once begun, the transaction runs to commit or rollback on statement
	// outcome alone; caller cancellation no longer interrupts it.
	sctx := context.WithoutCancel(ctx)
	defer tx.Rollback(sctx)

	if d.Assistentes == nil {
		d.Assistentes = []string{}
	}
	d.RecomputeKmRodados()

	var id int64
	err = tx.QueryRow(sctx,
		`INSERT INTO diarios
		 (usuario_id, data_registro, viatura, km_inicial, km_final, km_rodados,
		  condutor, assistentes, limpeza_ok, cones_quantidade, observacoes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		d.UsuarioID, d.DataRegistro, d.Viatura, d.KmInicial, d.KmFinal, d.KmRodados,
		d.Condutor, d.Assistentes, d.LimpezaOK, d.ConesQuantidade, d.Observacoes).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert diario: %w", pgErrorKind(err))
	}

	for _, a := range atividades {
		_, err := tx.Exec(sctx,
			`INSERT INTO atividades (diario_id, descricao, horario_inicio, horario_fim, local, observacoes)
			 VALUES ($1, $2, $3::time, $4::time, $5, $6)`,
			id, a.Descricao, a.HorarioInicio, a.HorarioFim, a.Local, a.Observacoes)
		if err != nil {
			return nil, fmt.Errorf("insert atividade: %w", pgErrorKind(err))
		}
	}

	if err := tx.Commit(sctx); err != nil {
		return nil, fmt.Errorf("commit diario: %w", err)
	}

	// The aggregate is committed at this point; the read-back must not fail
	// on a caller cancellation that arrived meanwhile.
	return r.FindByID(sctx, id)
}

// FindByID reconstructs the aggregate with two reads on one connection: the
// header, then its atividades ordered by start time (unset times last).
func (r *DiarioRepository) FindByID(ctx context.Context, id int64) (*domain.Diario, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+diarioColumns+` FROM diarios WHERE id = $1`, id)
	d, err := scanDiario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find diario: %w", err)
	}

	rows, err := conn.Query(ctx,
		`SELECT `+atividadeColumns+` FROM atividades
		 WHERE diario_id = $1
		 ORDER BY horario_inicio ASC NULLS LAST, id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("find atividades: %w", err)
	}
	defer rows.Close()

	d.Atividades = []domain.Atividade{}
	for rows.Next() {
		var a domain.Atividade
		if err := rows.Scan(&a.ID, &a.DiarioID, &a.Descricao,
			&a.HorarioInicio, &a.HorarioFim, &a.Local, &a.Observacoes, &a.CriadoEm); err != nil {
			return nil, fmt.Errorf("scan atividade: %w", err)
		}
		d.Atividades = append(d.Atividades, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read atividades: %w", err)
	}

	return d, nil
}

func (r *DiarioRepository) ListByUsuario(ctx context.Context, usuarioID int64, limite, offset int) ([]domain.DiarioResumo, error) {
	return r.queryResumos(ctx,
		`SELECT d.id, d.usuario_id, d.data_registro, d.viatura, d.km_inicial, d.km_final, d.km_rodados,
		        d.condutor, d.assistentes, d.limpeza_ok, d.cones_quantidade, d.observacoes,
		        d.criado_em, d.atualizado_em, COUNT(a.id) AS total_atividades
		 FROM diarios d
		 LEFT JOIN atividades a ON a.diario_id = d.id
		 WHERE d.usuario_id = $1
		 GROUP BY d.id
		 ORDER BY d.data_registro DESC, d.criado_em DESC
		 LIMIT $2 OFFSET $3`,
		usuarioID, limite, offset)
}

// FindByPeriodo filters on the inclusive data_registro range. Result size is
// unbounded on purpose.
func (r *DiarioRepository) FindByPeriodo(ctx context.Context, usuarioID int64, inicio, fim time.Time) ([]domain.DiarioResumo, error) {
	return r.queryResumos(ctx,
		`SELECT d.id, d.usuario_id, d.data_registro, d.viatura, d.km_inicial, d.km_final, d.km_rodados,
		        d.condutor, d.assistentes, d.limpeza_ok, d.cones_quantidade, d.observacoes,
		        d.criado_em, d.atualizado_em, COUNT(a.id) AS total_atividades
		 FROM diarios d
		 LEFT JOIN atividades a ON a.diario_id = d.id
		 WHERE d.usuario_id = $1 AND d.data_registro BETWEEN $2 AND $3
		 GROUP BY d.id
		 ORDER BY d.data_registro DESC, d.criado_em DESC`,
		usuarioID, inicio, fim)
}

// Update merges the patch into the current row and writes the full row back
// with a fresh atualizado_em, recomputing the derived distance. The read and
// write run in one transaction with the row locked, so concurrent patches
// serialise: each merge sees the row as the previous writer left it instead
// of a shared stale snapshot. Returns the reconstructed aggregate, or nil
// when the id does not exist.
func (r *DiarioRepository) Update(ctx context.Context, id int64, patch domain.DiarioPatch) (*domain.Diario, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	sctx := context.WithoutCancel(ctx)
	defer tx.Rollback(sctx)

	row := tx.QueryRow(sctx, `SELECT `+diarioColumns+` FROM diarios WHERE id = $1 FOR UPDATE`, id)
	d, err := scanDiario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find diario: %w", err)
	}

	patch.ApplyTo(d)
	d.RecomputeKmRodados()
	if d.Assistentes == nil {
		d.Assistentes = []string{}
	}

	_, err = tx.Exec(sctx,
		`UPDATE diarios SET
		 viatura = $2,
		 km_inicial = $3,
		 km_final = $4,
		 km_rodados = $5,
		 condutor = $6,
		 assistentes = $7,
		 limpeza_ok = $8,
		 cones_quantidade = $9,
		 observacoes = $10,
		 atualizado_em = CURRENT_TIMESTAMP
		 WHERE id = $1`,
		id, d.Viatura, d.KmInicial, d.KmFinal, d.KmRodados,
		d.Condutor, d.Assistentes, d.LimpezaOK, d.ConesQuantidade, d.Observacoes)
	if err != nil {
		return nil, fmt.Errorf("update diario: %w", pgErrorKind(err))
	}

	if err := tx.Commit(sctx); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	return r.FindByID(sctx, id)
}

// Delete removes the header; the FK cascade removes its atividades.
func (r *DiarioRepository) Delete(ctx context.Context, id int64) (bool, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM diarios WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete diario: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Estatisticas aggregates the user's history in one query. COALESCE keeps
// the numeric results zero for users with no diarios; the date bounds stay
// NULL and scan to nil.
func (r *DiarioRepository) Estatisticas(ctx context.Context, usuarioID int64) (*domain.Estatisticas, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var e domain.Estatisticas
	err = conn.QueryRow(ctx,
		`SELECT
		   COUNT(*),
		   COALESCE(SUM(km_rodados), 0),
		   COALESCE(AVG(km_rodados), 0),
		   COUNT(DISTINCT viatura),
		   MIN(data_registro),
		   MAX(data_registro)
		 FROM diarios
		 WHERE usuario_id = $1`, usuarioID).
		Scan(&e.TotalDiarios, &e.TotalKm, &e.MediaKm, &e.TotalViaturas,
			&e.PrimeiroRegistro, &e.UltimoRegistro)
	if err != nil {
		return nil, fmt.Errorf("estatisticas: %w", err)
	}
	return &e, nil
}

func (r *DiarioRepository) queryResumos(ctx context.Context, query string, args ...any) ([]domain.DiarioResumo, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list diarios: %w", err)
	}
	defer rows.Close()

	resumos := []domain.DiarioResumo{}
	for rows.Next() {
		var res domain.DiarioResumo
		if err := rows.Scan(&res.ID, &res.UsuarioID, &res.DataRegistro, &res.Viatura,
			&res.KmInicial, &res.KmFinal, &res.KmRodados, &res.Condutor, &res.Assistentes,
			&res.LimpezaOK, &res.ConesQuantidade, &res.Observacoes,
			&res.CriadoEm, &res.AtualizadoEm, &res.TotalAtividades); err != nil {
			return nil, fmt.Errorf("scan diario: %w", err)
		}
		resumos = append(resumos, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read diarios: %w", err)
	}
	return resumos, nil
}

func scanDiario(row pgx.Row) (*domain.Diario, error) {
	var d domain.Diario
	err := row.Scan(&d.ID, &d.UsuarioID, &d.DataRegistro, &d.Viatura,
		&d.KmInicial, &d.KmFinal, &d.KmRodados, &d.Condutor, &d.Assistentes,
		&d.LimpezaOK, &d.ConesQuantidade, &d.Observacoes, &d.CriadoEm, &d.AtualizadoEm)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
