package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/auth"
	pgdb "github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/db/postgres"
	"golang.org/x/crypto/bcrypt"
)

// AuthRepository は users テーブルを利用した認証情報の参照実装です。
// パスワードは bcrypt ハッシュとして保存されています。
type AuthRepository struct {
	pool pgdb.Queryer
}

// NewAuthRepository は AuthRepository を生成します。
func NewAuthRepository(pool pgdb.Queryer) *AuthRepository {
	return &AuthRepository{pool: pool}
}

// ValidateLogin はユーザー名に一致する行のハッシュとパスワードを照合します。
func (r *AuthRepository) ValidateLogin(ctx context.Context, username, password string) (*auth.Credential, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT username, password_hash, role, empid
          FROM users
         WHERE username = $1
         LIMIT 1
    `, username)

	var (
		name  string
		hash  string
		role  string
		empID sql.NullInt64
	)
	if err := row.Scan(&name, &hash, &role, &empID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("postgres: lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("postgres: compare password hash: %w", err)
	}

	return &auth.Credential{Username: name, Role: auth.Role(role), EmployeeID: nullableID(empID)}, nil
}
