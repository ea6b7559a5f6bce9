package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type LendingMetrics struct {
	actions       *prometheus.CounterVec
	actionLatency *prometheus.HistogramVec
	events        *prometheus.CounterVec
	totals        *prometheus.GaugeVec
}

var (
	lendingOnce     sync.Once
	lendingRegistry *LendingMetrics
)

func Lending() *LendingMetrics {
	lendingOnce.Do(func() {
		lendingRegistry = &LendingMetrics{
			actions: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lendpool_actions_total",
				Help: "Count of lending operations by action and result.",
			}, []string{"action", "result"}),
			actionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "lendpool_action_duration_seconds",
				Help:    "Latency of lending operations including the database transaction.",
				Buckets: prometheus.DefBuckets,
			}, []string{"action"}),
			events: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lendpool_events_relayed_total",
				Help: "Number of transaction events relayed by action.",
			}, []string{"action"}),
			totals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "lendpool_market_totals",
				Help: "Market totals by market and field.",
			}, []string{"market", "field"}),
		}
		prometheus.MustRegister(
			lendingRegistry.actions,
			lendingRegistry.actionLatency,
			lendingRegistry.events,
			lendingRegistry.totals,
		)
	})
	return lendingRegistry
}

func (m *LendingMetrics) ObserveAction(action string, err error, d time.Duration) {
	if m == nil {
		return
	}
	if action == "" {
		action = "unknown"
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.actions.WithLabelValues(action, result).Inc()
	m.actionLatency.WithLabelValues(action).Observe(d.Seconds())
}

func (m *LendingMetrics) ObserveEvent(action string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(action).Inc()
}

func (m *LendingMetrics) SetMarketTotal(market, field string, value uint64) {
	if m == nil {
		return
	}
	m.totals.WithLabelValues(market, field).Set(float64(value))
}
