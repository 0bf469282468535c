// Package app は設定からサービス一式を組み立て、サーバーを起動します。
package app

import (
	"context"
	"fmt"

	"github.com/ogurasousui/codex-payroll-clean-arch/internal/adapters/repository"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/auth"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/employee"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/payroll"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/core/session"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/config"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/metrics"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/ops"
	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// App は起動済みの依存関係を保持します。
type App struct {
	Backend       *repository.Backend
	Authenticator *session.Authenticator

	cfg      *config.Config
	registry *prometheus.Registry
	log      zerolog.Logger
}

// New はデータストアを選択し、サービスと Authenticator を組み立てます。
// open が nil の場合は PostgreSQL への接続を試みます。
func New(ctx context.Context, cfg *config.Config, open repository.Opener, log zerolog.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	backend, err := repository.Open(ctx, cfg.Database, open, metrics.NewBulk(reg), log)
	if err != nil {
		return nil, fmt.Errorf("app: open backend: %w", err)
	}

	svc := session.Services{
		Employees: employee.NewService(backend.Employees, log),
		Payroll:   payroll.NewService(backend.Payroll, log),
	}

	return &App{
		Backend:       backend,
		Authenticator: session.NewAuthenticator(auth.NewService(backend.Auth, log), svc, log),
		cfg:           cfg,
		registry:      reg,
		log:           log,
	}, nil
}

// Run は gRPC サーバーと運用 HTTP サーバーを起動し、ctx がキャンセルされるまで待ちます。
func (a *App) Run(ctx context.Context) error {
	grpcServer := server.New(a.cfg.Server.ListenAddr, a.Backend.Mode == repository.ModePostgres, a.log)
	opsRouter := ops.NewRouter(string(a.Backend.Mode), a.registry)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info().Str("addr", a.cfg.Server.ListenAddr).Msg("gRPC server listening")
		return grpcServer.Run(gctx)
	})
	g.Go(func() error {
		a.log.Info().Str("addr", a.cfg.Server.OpsAddr).Msg("ops server listening")
		return ops.Run(gctx, opsRouter, a.cfg.Server.OpsAddr)
	})
	return g.Wait()
}

// Close は保持しているリソースを解放します。
func (a *App) Close() {
	a.Backend.Close()
}
