package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type RaffleMetrics struct {
	Round       metrics.Gauge
	State       metrics.Gauge
	Entrants    metrics.Gauge
	PoolBalance metrics.Gauge

	EntriesTotal metrics.Counter
	PayoutsTotal metrics.Counter
	PayoutErrors metrics.Counter
}

func (r *RaffleMetrics) SetRound(number uint64) {
	r.Round.Set(float64(number))
}
func (r *RaffleMetrics) SetState(state uint8) {
	r.State.Set(float64(state))
}
func (r *RaffleMetrics) SetEntrants(num int) {
	r.Entrants.Set(float64(num))
}
func (r *RaffleMetrics) SetPoolBalance(balance uint64) {
	r.PoolBalance.Set(float64(balance))
}
func (r *RaffleMetrics) AddEntry() {
	r.EntriesTotal.Add(1)
}
func (r *RaffleMetrics) AddPayout() {
	r.PayoutsTotal.Add(1)
}
func (r *RaffleMetrics) AddPayoutError() {
	r.PayoutErrors.Add(1)
}

func PromRaffleMetrics() *RaffleMetrics {
	return &RaffleMetrics{
		Round: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: RaffleSubsystem,
			Name:      "round",
			Help:      "Number of the current round.",
		}, []string{}),
		State: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: RaffleSubsystem,
			Name:      "state",
			Help:      "State of the raffle, 0 is open and 1 is calculating.",
		}, []string{}),
		Entrants: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: RaffleSubsystem,
			Name:      "entrants",
			Help:      "Number of entrants in the current round.",
		}, []string{}),
		PoolBalance: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: RaffleSubsystem,
			Name:      "pool_balance",
			Help:      "Pooled balance of the current round.",
		}, []string{}),
		EntriesTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: RaffleSubsystem,
			Name:      "entries_total",
			Help:      "Total number of accepted entries.",
		}, []string{}),
		PayoutsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: RaffleSubsystem,
			Name:      "payouts_total",
			Help:      "Total number of paid out rounds.",
		}, []string{}),
		PayoutErrors: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: RaffleSubsystem,
			Name:      "payout_errors_total",
			Help:      "Total number of failed payouts.",
		}, []string{}),
	}
}

func NopRaffleMetrics() *RaffleMetrics {
	return &RaffleMetrics{
		Round:       discard.NewGauge(),
		State:       discard.NewGauge(),
		Entrants:    discard.NewGauge(),
		PoolBalance: discard.NewGauge(),

		EntriesTotal: discard.NewCounter(),
		PayoutsTotal: discard.NewCounter(),
		PayoutErrors: discard.NewCounter(),
	}
}
