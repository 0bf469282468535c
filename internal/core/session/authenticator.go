package session

import (
	"context"

	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/auth"
	"github.com/rs/zerolog"
)

// Validator は資格情報を検証します。
type Validator interface {
	Validate(ctx context.Context, username, password string) (*auth.Credential, error)
}

// Authenticator はログインからセッション生成までを担います。
type Authenticator struct {
	validator Validator
	svc       Services
	log       zerolog.Logger
}

// NewAuthenticator は Authenticator を生成します。
func NewAuthenticator(validator Validator, svc Services, log zerolog.Logger) *Authenticator {
	return &Authenticator{validator: validator, svc: svc, log: log.With().Str("component", "session").Logger()}
}

// Login は資格情報を検証しセッションを返します。失敗時は auth.ErrInvalidCredentials を返します。
func (a *Authenticator) Login(ctx context.Context, username, password string) (*Session, error) {
	cred, err := a.validator.Validate(ctx, username, password)
	if err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	sess, err := New(cred, a.svc)
	if err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	a.log.Info().
		Str("session_id", sess.ID().String()).
		Str("username", sess.Username()).
		Stringer("kind", sess.Kind()).
		Msg("session started")
	return sess, nil
}
