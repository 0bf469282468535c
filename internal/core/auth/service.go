package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// Service は資格情報の検証を行います。
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService は Service を生成します。
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log.With().Str("component", "auth").Logger()}
}

// Validate はユーザー名とパスワードを検証し、記録されたロールを持つ Credential を返します。
// 失敗時は常に ErrInvalidCredentials を返し、原因を呼び出し側へ開示しません。
func (s *Service) Validate(ctx context.Context, username, password string) (*Credential, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	cred, err := s.repo.ValidateLogin(ctx, username, password)
	if err != nil {
		if !errors.Is(err, ErrCredentialNotFound) {
			s.log.Warn().Err(err).Msg("credential lookup failed")
		}
		return nil, ErrInvalidCredentials
	}
	if cred == nil {
		return nil, ErrInvalidCredentials
	}

	role, ok := ParseRole(string(cred.Role))
	if !ok {
		s.log.Warn().Str("username", cred.Username).Str("role", string(cred.Role)).Msg("unrecognized role")
		return nil, ErrInvalidCredentials
	}

	return &Credential{
		Username:   cred.Username,
		Role:       role,
		EmployeeID: cred.EmployeeID,
	}, nil
}
