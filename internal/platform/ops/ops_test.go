package ops

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	t.Parallel()

	e := NewRouter("memory", prometheus.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "memory", body.Backend)
}

func TestMetricsExposesBulkUpdates(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics.NewBulk(reg).ObserveBulkUpdate("ok", 4, 15*time.Millisecond)

	e := NewRouter("postgres", reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `payroll_bulk_updates_total{result="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "payroll_bulk_update_rows_total 4")
}
