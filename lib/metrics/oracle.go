package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type OracleMetrics struct {
	Pending metrics.Gauge
}

func (m *OracleMetrics) AddPending(delta int) {
	m.Pending.Add(float64(delta))
}

func PromOracleMetrics() *OracleMetrics {
	return &OracleMetrics{
		Pending: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: OracleSubsystem,
			Name:      "pending",
			Help:      "Number of pending randomness requests.",
		}, []string{}),
	}
}

func NopOracleMetrics() *OracleMetrics {
	return &OracleMetrics{
		Pending: discard.NewGauge(),
	}
}
