// Package metrics は給与一括改定の Prometheus メトリクスを定義します。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "payroll"

// Bulk は payroll.Recorder の Prometheus 実装です。
type Bulk struct {
	updates  *prometheus.CounterVec
	rows     prometheus.Counter
	duration *prometheus.HistogramVec
}

// NewBulk はメトリクスを reg に登録して Bulk を生成します。
// reg が nil の場合は prometheus.DefaultRegisterer を使います。
func NewBulk(reg prometheus.Registerer) *Bulk {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Bulk{
		updates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bulk_updates_total",
				Help:      "Total number of salary range updates by result.",
			},
			[]string{"result"},
		),
		rows: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bulk_update_rows_total",
				Help:      "Total number of payroll rows changed by committed salary range updates.",
			},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "bulk_update_duration_seconds",
				Help:      "Duration of salary range updates.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"result"},
		),
	}
}

// ObserveBulkUpdate は一括改定 1 回分の結果を記録します。
func (b *Bulk) ObserveBulkUpdate(result string, rows int, elapsed time.Duration) {
	b.updates.WithLabelValues(result).Inc()
	if rows > 0 {
		b.rows.Add(float64(rows))
	}
	b.duration.WithLabelValues(result).Observe(elapsed.Seconds())
}
