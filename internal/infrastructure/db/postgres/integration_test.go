package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/frotaops/diario-bordo/internal/core/domain"
	"github.com/frotaops/diario-bordo/internal/core/ports"
)

// startDB brings up a disposable postgres container, applies the embedded
// migrations, and returns a connected pool. Skipped when Docker is not
// available, same as in short mode.
func startDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("docker is not available, skipping integration test")
	}

	ctx := context.Background()
	pgc, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("diario_test"),
		tcpostgres.WithUsername("diario"),
		tcpostgres.WithPassword("diario"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { _ = pgc.Terminate(ctx) })

	url, err := pgc.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	if err := RunMigrations(ctx, url); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	db, err := Connect(ctx, Config{URL: url})
	if err != nil {
		t.Fatalf("connecting pool: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

func mustCreateUsuario(t *testing.T, repo *UsuarioRepository, email string) *domain.Usuario {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.Usuario{
		Nome:      "Conta de Teste",
		Email:     email,
		SenhaHash: "$2a$12$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
	})
	if err != nil {
		t.Fatalf("creating usuario: %v", err)
	}
	return u
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestUsuarioRepositoryIntegration(t *testing.T) {
	db := startDB(t)
	ctx := context.Background()
	repo := NewUsuarioRepository(db)

	t.Run("create and lookups", func(t *testing.T) {
		created := mustCreateUsuario(t, repo, "lookup@frota.gov.br")
		if created.ID == 0 || !created.Ativo {
			t.Fatalf("created = %+v, want assigned id and ativo", created)
		}

		byEmail, err := repo.FindByEmail(ctx, "lookup@frota.gov.br")
		if err != nil || byEmail == nil || byEmail.ID != created.ID {
			t.Fatalf("FindByEmail = (%+v, %v)", byEmail, err)
		}
		byID, err := repo.FindByID(ctx, created.ID)
		if err != nil || byID == nil || byID.Email != created.Email {
			t.Fatalf("FindByID = (%+v, %v)", byID, err)
		}
	})

	t.Run("duplicate email maps to the domain kind", func(t *testing.T) {
		mustCreateUsuario(t, repo, "dup@frota.gov.br")

		_, err := repo.Create(ctx, &domain.Usuario{
			Nome: "Outra", Email: "dup@frota.gov.br", SenhaHash: "x",
		})
		if !errors.Is(err, domain.ErrEmailTaken) {
			t.Errorf("second create error = %v, want ErrEmailTaken", err)
		}
	})

	t.Run("deactivated account disappears from every lookup", func(t *testing.T) {
		u := mustCreateUsuario(t, repo, "soft@frota.gov.br")

		ok, err := repo.Deactivate(ctx, u.ID)
		if err != nil || !ok {
			t.Fatalf("Deactivate = (%v, %v)", ok, err)
		}
		if got, _ := repo.FindByID(ctx, u.ID); got != nil {
			t.Error("FindByID still returns a deactivated account")
		}
		if got, _ := repo.FindByEmail(ctx, "soft@frota.gov.br"); got != nil {
			t.Error("FindByEmail still returns a deactivated account")
		}
		if ok, _ := repo.Deactivate(ctx, u.ID); ok {
			t.Error("second Deactivate reported a change")
		}
	})

	t.Run("concurrent patches both survive", func(t *testing.T) {
		u := mustCreateUsuario(t, repo, "race@frota.gov.br")

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = repo.UpdateProfile(ctx, u.ID, domain.PerfilPatch{Nome: strPtr("Nome Novo")})
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = repo.UpdateProfile(ctx, u.ID, domain.PerfilPatch{Email: strPtr("race2@frota.gov.br")})
		}()
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				t.Fatalf("UpdateProfile error = %v", err)
			}
		}

		final, err := repo.FindByID(ctx, u.ID)
		if err != nil || final == nil {
			t.Fatalf("FindByID = (%+v, %v)", final, err)
		}
		if final.Nome != "Nome Novo" || final.Email != "race2@frota.gov.br" {
			t.Errorf("final = {Nome:%q Email:%q}, one patch was lost", final.Nome, final.Email)
		}
	})
}

func TestDiarioRepositoryIntegration(t *testing.T) {
	db := startDB(t)
	ctx := context.Background()
	usuarios := NewUsuarioRepository(db)
	diarios := NewDiarioRepository(db)
	owner := mustCreateUsuario(t, usuarios, "condutor@frota.gov.br")

	newDiario := func(dia int, viatura string) *domain.Diario {
		return &domain.Diario{
			UsuarioID:    owner.ID,
			DataRegistro: time.Date(2026, 3, dia, 0, 0, 0, 0, time.UTC),
			Viatura:      viatura,
			KmInicial:    100,
			KmFinal:      150,
			Condutor:     "Silva",
		}
	}

	t.Run("create round-trip with activity ordering", func(t *testing.T) {
		// Inserted out of order on purpose: one unset time, one late, one early.
		created, err := diarios.Create(ctx, newDiario(10, "VTR-01"), []ports.NovaAtividade{
			{Descricao: "sem horario"},
			{Descricao: "tarde", HorarioInicio: strPtr("14:00")},
			{Descricao: "manha", HorarioInicio: strPtr("08:30"), HorarioFim: strPtr("09:00")},
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if created.KmRodados != 50 {
			t.Errorf("KmRodados = %d, want 50", created.KmRodados)
		}
		if created.Assistentes == nil {
			t.Error("nil Assistentes should come back as an empty slice")
		}

		if len(created.Atividades) != 3 {
			t.Fatalf("Atividades = %d, want 3", len(created.Atividades))
		}
		order := []string{"manha", "tarde", "sem horario"}
		for i, want := range order {
			if created.Atividades[i].Descricao != want {
				t.Errorf("Atividades[%d] = %q, want %q (start-time order, unset last)",
					i, created.Atividades[i].Descricao, want)
			}
		}
		if got := created.Atividades[0].HorarioInicio; got == nil || *got != "08:30:00" {
			t.Errorf("HorarioInicio = %v, want \"08:30:00\"", got)
		}
	})

	t.Run("failed activity insert rolls back the whole aggregate", func(t *testing.T) {
		before, err := diarios.ListByUsuario(ctx, owner.ID, 100, 0)
		if err != nil {
			t.Fatal(err)
		}

		_, err = diarios.Create(ctx, newDiario(11, "VTR-02"), []ports.NovaAtividade{
			{Descricao: "ok", HorarioInicio: strPtr("08:00")},
			{Descricao: "quebrada", HorarioInicio: strPtr("not-a-time")},
		})
		if err == nil {
			t.Fatal("Create() with a malformed time should fail")
		}

		after, err := diarios.ListByUsuario(ctx, owner.ID, 100, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(after) != len(before) {
			t.Errorf("diarios count went %d -> %d, header leaked from a rolled-back create",
				len(before), len(after))
		}
	})

	t.Run("unknown owner maps to constraint violation", func(t *testing.T) {
		bad := newDiario(12, "VTR-03")
		bad.UsuarioID = 99999
		_, err := diarios.Create(ctx, bad, nil)
		if !errors.Is(err, domain.ErrConstraintViolation) {
			t.Errorf("error = %v, want ErrConstraintViolation", err)
		}
	})

	t.Run("concurrent patches both survive", func(t *testing.T) {
		created, err := diarios.Create(ctx, newDiario(13, "VTR-04"), nil)
		if err != nil {
			t.Fatal(err)
		}

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = diarios.Update(ctx, created.ID, domain.DiarioPatch{Condutor: strPtr("Pereira")})
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = diarios.Update(ctx, created.ID, domain.DiarioPatch{KmFinal: intPtr(200)})
		}()
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				t.Fatalf("Update error = %v", err)
			}
		}

		final, err := diarios.FindByID(ctx, created.ID)
		if err != nil || final == nil {
			t.Fatalf("FindByID = (%+v, %v)", final, err)
		}
		if final.Condutor != "Pereira" || final.KmFinal != 200 {
			t.Errorf("final = {Condutor:%q KmFinal:%d}, one patch was lost", final.Condutor, final.KmFinal)
		}
		if final.KmRodados != 100 {
			t.Errorf("KmRodados = %d, want 100 after the km_final patch", final.KmRodados)
		}
	})

	t.Run("missing ids are nil results, not errors", func(t *testing.T) {
		if d, err := diarios.FindByID(ctx, 99999); d != nil || err != nil {
			t.Errorf("FindByID = (%v, %v), want (nil, nil)", d, err)
		}
		if d, err := diarios.Update(ctx, 99999, domain.DiarioPatch{KmFinal: intPtr(1)}); d != nil || err != nil {
			t.Errorf("Update = (%v, %v), want (nil, nil)", d, err)
		}
		if ok, err := diarios.Delete(ctx, 99999); ok || err != nil {
			t.Errorf("Delete = (%v, %v), want (false, nil)", ok, err)
		}
	})

	t.Run("periodo and statistics", func(t *testing.T) {
		stranger := mustCreateUsuario(t, usuarios, "outro@frota.gov.br")

		resumos, err := diarios.FindByPeriodo(ctx, owner.ID,
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("FindByPeriodo error = %v", err)
		}
		if len(resumos) == 0 {
			t.Fatal("FindByPeriodo returned nothing for the populated month")
		}
		for i := 1; i < len(resumos); i++ {
			if resumos[i].DataRegistro.After(resumos[i-1].DataRegistro) {
				t.Error("resumos not ordered by data_registro DESC")
			}
		}

		stats, err := diarios.Estatisticas(ctx, owner.ID)
		if err != nil {
			t.Fatalf("Estatisticas error = %v", err)
		}
		if stats.TotalDiarios == 0 || stats.TotalKm == 0 || stats.TotalViaturas < 2 {
			t.Errorf("stats = %+v", stats)
		}
		if stats.PrimeiroRegistro == nil || stats.UltimoRegistro == nil {
			t.Error("date bounds missing for a populated user")
		}

		empty, err := diarios.Estatisticas(ctx, stranger.ID)
		if err != nil {
			t.Fatalf("Estatisticas (empty) error = %v", err)
		}
		if empty.TotalDiarios != 0 || empty.TotalKm != 0 || empty.MediaKm != 0 {
			t.Errorf("zero-state stats = %+v", empty)
		}
		if empty.PrimeiroRegistro != nil || empty.UltimoRegistro != nil {
			t.Error("date bounds should be nil for a user with no diarios")
		}
	})

	t.Run("delete cascades to atividades", func(t *testing.T) {
		created, err := diarios.Create(ctx, newDiario(20, "VTR-05"), []ports.NovaAtividade{
			{Descricao: "ronda", HorarioInicio: strPtr("07:00")},
		})
		if err != nil {
			t.Fatal(err)
		}

		ok, err := diarios.Delete(ctx, created.ID)
		if err != nil || !ok {
			t.Fatalf("Delete = (%v, %v)", ok, err)
		}
		if d, _ := diarios.FindByID(ctx, created.ID); d != nil {
			t.Error("diario still readable after delete")
		}
	})
}
