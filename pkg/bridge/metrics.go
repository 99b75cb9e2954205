package bridge

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK        = "ok"
	outcomeError     = "error"
	outcomeBusy      = "busy"
	outcomeTimeout   = "timeout"
	outcomeCancelled = "cancelled"
)

var (
	metricsOnce sync.Once
	sharedCalls *prometheus.CounterVec
	sharedDurs  *prometheus.HistogramVec
)

type callMetrics struct {
	calls *prometheus.CounterVec
	durs  *prometheus.HistogramVec
}

// All bridges share one pair of collectors; registration happens once on the
// default registry.
func newCallMetrics() *callMetrics {
	metricsOnce.Do(func() {
		sharedCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cip30",
			Name:      "wallet_calls_total",
			Help:      "Wallet calls issued through the bridge, by operation and outcome.",
		}, []string{"op", "outcome"})
		sharedDurs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cip30",
			Name:      "wallet_call_duration_seconds",
			Help:      "Duration of wallet calls until resolution or abandonment.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"op"})
		prometheus.MustRegister(sharedCalls, sharedDurs)
	})
	return &callMetrics{calls: sharedCalls, durs: sharedDurs}
}

func (m *callMetrics) observe(op, outcome string, elapsed time.Duration) {
	m.calls.WithLabelValues(op, outcome).Inc()
	if elapsed > 0 {
		m.durs.WithLabelValues(op).Observe(elapsed.Seconds())
	}
}
