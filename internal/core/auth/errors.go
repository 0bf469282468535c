package auth

import "errors"

var (
	// ErrInvalidCredentials は認証失敗時に返却されます。原因は区別しません。
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
	// ErrCredentialNotFound はユーザー名とパスワードの組が存在しない場合にリポジトリが返却します。
	ErrCredentialNotFound = errors.New("auth: credential not found")
)
