package auth

import "context"

// Repository は認証情報の参照を行うインターフェースです。
type Repository interface {
	// ValidateLogin は一致する認証情報を返します。一致しない場合は ErrCredentialNotFound を返します。
	ValidateLogin(ctx context.Context, username, password string) (*Credential, error)
}
