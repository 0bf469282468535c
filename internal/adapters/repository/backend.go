// Package repository は起動時にデータストアを一度だけ選択し、各リポジトリを組み立てます。
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/adapters/repository/memory"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/auth"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/payroll"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/config"
	pgdb "github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/db/postgres"
	"github.com/rs/zerolog"
)

// Mode は選択されたデータストアの種類です。
type Mode string

const (
	ModePostgres Mode = "postgres"
	ModeMemory   Mode = "memory"
)

// Pool は PostgreSQL 実装が必要とする接続プールの機能です。
type Pool interface {
	pgdb.Queryer
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Close()
}

// Opener は疎通確認済みの Pool を返します。
type Opener func(ctx context.Context, cfg config.DatabaseConfig) (Pool, error)

// OpenPostgres は pgxpool を使う既定の Opener です。
func OpenPostgres(ctx context.Context, cfg config.DatabaseConfig) (Pool, error) {
	pool, err := pgdb.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// Backend は選択されたデータストア上のリポジトリ一式です。
// 選択は Open 時に一度だけ行われ、プロセスの終了まで変わりません。
type Backend struct {
	Mode      Mode
	Auth      auth.Repository
	Employees employee.Repository
	Payroll   payroll.Repository

	pool Pool
}

// Open は open でデータベースへの接続を試み、到達できない場合はサンプルデータ実装を返します。
// open が nil の場合は OpenPostgres を使います。
func Open(ctx context.Context, cfg config.DatabaseConfig, open Opener, rec payroll.Recorder, log zerolog.Logger) (*Backend, error) {
	if open == nil {
		open = OpenPostgres
	}

	pool, err := open(ctx, cfg)
	if err == nil {
		log.Info().Str("backend", string(ModePostgres)).Str("host", cfg.Host).Msg("database reachable")
		return &Backend{
			Mode:      ModePostgres,
			Auth:      postgres.NewAuthRepository(pool),
			Employees: postgres.NewEmployeeRepository(pool),
			Payroll:   postgres.NewPayrollRepository(pool, pgdb.NewTxManager(pool), rec, log),
			pool:      pool,
		}, nil
	}

	log.Warn().Err(err).Str("backend", string(ModeMemory)).Msg("database unreachable, using sample data")

	ds, dsErr := memory.NewDataset()
	if dsErr != nil {
		return nil, fmt.Errorf("repository: build sample data: %w", dsErr)
	}
	return &Backend{
		Mode:      ModeMemory,
		Auth:      memory.NewAuthRepository(ds),
		Employees: memory.NewEmployeeRepository(ds),
		Payroll:   memory.NewPayrollRepository(ds, rec, log),
	}, nil
}

// Close は保持している接続プールを閉じます。
func (b *Backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}
