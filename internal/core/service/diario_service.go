package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/frotaops/diario-bordo/internal/core/domain"
	"github.com/frotaops/diario-bordo/internal/core/ports"
)

// DiarioService exposes logbook use cases over DiarioRepository. Input-shape
// rules (required fields, odometer ordering, date formats) are enforced at
// the HTTP boundary before inputs reach this layer; the service adds logging
// and leaves atomicity and the derived distance to the store.
type DiarioService struct {
	repo   ports.DiarioRepository
	logger zerolog.Logger
}

func NewDiarioService(repo ports.DiarioRepository, logger zerolog.Logger) *DiarioService {
	return &DiarioService{repo: repo, logger: logger}
}

// Create persists the header and its atividades as one atomic unit and
// returns the reconstructed aggregate.
func (s *DiarioService) Create(ctx context.Context, input ports.CriarDiarioInput) (*domain.Diario, error) {
	d := &domain.Diario{
		UsuarioID:       input.UsuarioID,
		DataRegistro:    input.DataRegistro,
		Viatura:         input.Viatura,
		KmInicial:       input.KmInicial,
		KmFinal:         input.KmFinal,
		Condutor:        input.Condutor,
		Assistentes:     input.Assistentes,
		LimpezaOK:       input.LimpezaOK,
		ConesQuantidade: input.ConesQuantidade,
		Observacoes:     input.Observacoes,
	}

	created, err := s.repo.Create(ctx, d, input.Atividades)
	if err != nil {
		s.logger.Error().Err(err).Int64("usuario_id", input.UsuarioID).Msg("failed to create diario")
		return nil, err
	}

	s.logger.Info().
		Int64("diario_id", created.ID).
		Int64("usuario_id", created.UsuarioID).
		Str("viatura", created.Viatura).
		Int("atividades", len(created.Atividades)).
		Msg("diario created")

	return created, nil
}

func (s *DiarioService) FindByID(ctx context.Context, id int64) (*domain.Diario, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *DiarioService) ListByUsuario(ctx context.Context, usuarioID int64, limite, offset int) ([]domain.DiarioResumo, error) {
	return s.repo.ListByUsuario(ctx, usuarioID, limite, offset)
}

func (s *DiarioService) FindByPeriodo(ctx context.Context, usuarioID int64, inicio, fim time.Time) ([]domain.DiarioResumo, error) {
	return s.repo.FindByPeriodo(ctx, usuarioID, inicio, fim)
}

// Update applies the patch and returns the reconstructed aggregate, or nil
// when the id does not exist.
func (s *DiarioService) Update(ctx context.Context, id int64, patch domain.DiarioPatch) (*domain.Diario, error) {
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error().Err(err).Int64("diario_id", id).Msg("failed to update diario")
		return nil, err
	}
	if updated != nil {
		s.logger.Info().Int64("diario_id", id).Msg("diario updated")
	}
	return updated, nil
}

// Delete removes the header; atividades go with it by cascade.
func (s *DiarioService) Delete(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info().Int64("diario_id", id).Msg("diario deleted")
	}
	return ok, nil
}

func (s *DiarioService) Estatisticas(ctx context.Context, usuarioID int64) (*domain.Estatisticas, error) {
	return s.repo.Estatisticas(ctx, usuarioID)
}
