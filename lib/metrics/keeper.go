package metrics

import (
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type KeeperMetrics struct {
	ChecksTotal     metrics.Counter
	DurationSeconds metrics.Histogram
}

func (k *KeeperMetrics) AddCheck(result string) {
	k.ChecksTotal.With(KeeperResult, result).Add(1)
}

func (k *KeeperMetrics) ObserveDurationSeconds(begin time.Time, result string) {
	k.DurationSeconds.With(KeeperResult, result).Observe(time.Since(begin).Seconds())
}

func PromKeeperMetrics() *KeeperMetrics {
	return &KeeperMetrics{
		ChecksTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: KeeperSubsystem,
			Name:      "checks_total",
			Help:      "Number of upkeep checks.",
		}, []string{KeeperResult}),
		DurationSeconds: prometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: Namespace,
			Subsystem: KeeperSubsystem,
			Name:      "duration_seconds",
			Help:      "Time processing one upkeep.",
		}, []string{KeeperResult}),
	}
}

func NopKeeperMetrics() *KeeperMetrics {
	return &KeeperMetrics{
		ChecksTotal:     discard.NewCounter(),
		DurationSeconds: discard.NewHistogram(),
	}
}
