package handler

import "github.com/frotaops/diario-bordo/internal/core/domain"

type registroRequest struct {
	Nome  string `json:"nome" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required,min=6"`
}

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type perfilRequest struct {
	Nome  *string `json:"nome" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type senhaRequest struct {
	SenhaAtual string `json:"senha_atual" validate:"required"`
	NovaSenha  string `json:"nova_senha" validate:"required,min=6"`
}

type usuarioEnvelope struct {
	Message string          `json:"message,omitempty"`
	Usuario *domain.Usuario `json:"usuario"`
}

type loginResponse struct {
	Message string          `json:"message"`
	Usuario *domain.Usuario `json:"usuario"`
	Token   string          `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}
