package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	SettlementsTotal  *prometheus.CounterVec
	AccrualsTotal     *prometheus.CounterVec
	ReconciliationGap prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lending_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		SettlementsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lending_engine_settlements_total",
				Help: "Total number of settlement attempts by terminal outcome.",
			},
			[]string{"outcome"},
		),
		AccrualsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lending_engine_accruals_total",
				Help: "Total number of per-loan accrual applications by result.",
			},
			[]string{"result"},
		),
		ReconciliationGap: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lending_engine_settlements_pending_reconciliation",
				Help: "Settlements currently stuck in the partially-applied state.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordSettlement(outcome string) {
	Business.SettlementsTotal.WithLabelValues(outcome).Inc()
}

func RecordAccrual(result string) {
	Business.AccrualsTotal.WithLabelValues(result).Inc()
}
