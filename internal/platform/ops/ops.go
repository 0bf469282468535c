// Package ops は運用向けの HTTP エンドポイント (/healthz, /metrics) を提供します。
package ops

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Health は /healthz の応答本文です。
type Health struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// NewRouter は運用エンドポイントを登録した Echo インスタンスを返します。
// gatherer が nil の場合は prometheus.DefaultGatherer を使います。
func NewRouter(backend string, gatherer prometheus.Gatherer) *echo.Echo {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, Health{Status: "ok", Backend: backend})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return e
}

// Run は addr で待ち受け、コンテキストがキャンセルされると停止します。
func Run(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve ops: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown ops: %w", err)
	}
	return <-errCh
}
