package domain

import (
	"errors"
	"time"
)

var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")
var ErrAccountNotFound = errors.New("account not found")
var ErrPoolExhausted = errors.New("connection pool exhausted")
var ErrConstraintViolation = errors.New("storage constraint violated")

// Usuario models an account that owns logbook entries. SenhaHash never
// leaves the process: it is excluded from JSON and blanked by the service
// layer before a Usuario is returned to callers.
type Usuario struct {
	ID           int64     `json:"id"`
	Nome         string    `json:"nome"`
	Email        string    `json:"email"`
	SenhaHash    string    `json:"-"`
	Ativo        bool      `json:"ativo"`
	CriadoEm     time.Time `json:"criado_em"`
	AtualizadoEm time.Time `json:"atualizado_em"`
}

// PerfilPatch carries the optional fields of a profile update. Nil means
// "leave unchanged".
type PerfilPatch struct {
	Nome  *string
	Email *string
}

// ApplyTo merges the supplied fields into u.
func (p PerfilPatch) ApplyTo(u *Usuario) {
	if p.Nome != nil {
		u.Nome = *p.Nome
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}
