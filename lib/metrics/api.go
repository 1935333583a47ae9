package metrics

import (
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

var apiLabels = []string{APIRoute, APIMethod, APIStatus}

// APIMetrics are labeled by the route template, not by the requested path, so
// "/raffle/results/{number}" is a single series.
type APIMetrics struct {
	RequestsTotal          metrics.Counter
	RequestErrorsTotal     metrics.Counter
	RequestDurationSeconds metrics.Histogram
	StreamsOpen            metrics.Gauge
}

func (a *APIMetrics) Observe(route, method string, status int, begin time.Time) {
	labels := []string{APIRoute, route, APIMethod, method, APIStatus, strconv.Itoa(status)}

	a.RequestsTotal.With(labels...).Add(1)
	if status >= 400 {
		a.RequestErrorsTotal.With(labels...).Add(1)
	}
	a.RequestDurationSeconds.With(labels...).Observe(time.Since(begin).Seconds())
}

func PromAPIMetrics() *APIMetrics {
	return &APIMetrics{
		RequestsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "requests_total",
			Help:      "Number of requests by route.",
		}, apiLabels),
		RequestErrorsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "request_errors_total",
			Help:      "Number of requests answered with 4xx or 5xx.",
		}, apiLabels),
		RequestDurationSeconds: prometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "request_duration_seconds",
			Help:      "Time serving one request; event streams count until they are closed.",
		}, apiLabels),
		StreamsOpen: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "streams_open",
			Help:      "Number of open event streams.",
		}, []string{}),
	}
}

func NopAPIMetrics() *APIMetrics {
	return &APIMetrics{
		RequestsTotal:          discard.NewCounter(),
		RequestErrorsTotal:     discard.NewCounter(),
		RequestDurationSeconds: discard.NewHistogram(),
		StreamsOpen:            discard.NewGauge(),
	}
}
