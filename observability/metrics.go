package observability

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics records settlement outcome counters. It satisfies the
// engine's Metrics interface.
type SettlementMetrics struct {
	committed *prometheus.CounterVec
	volume    *prometheus.CounterVec
	fees      *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	rewards   prometheus.Counter
}

var (
	settlementMetricsOnce sync.Once
	settlementRegistry    *SettlementMetrics
)

// Settlement returns the lazily-initialised settlement metrics registry.
func Settlement() *SettlementMetrics {
	settlementMetricsOnce.Do(func() {
		settlementRegistry = &SettlementMetrics{
			committed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "stablepay",
				Subsystem: "settlement",
				Name:      "committed_total",
				Help:      "Total settlements committed, segmented by asset.",
			}, []string{"asset"}),
			volume: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "stablepay",
				Subsystem: "settlement",
				Name:      "volume_total",
				Help:      "Total pre-fee volume settled in base units, segmented by asset.",
			}, []string{"asset"}),
			fees: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "stablepay",
				Subsystem: "settlement",
				Name:      "fees_total",
				Help:      "Total fees collected in base units, segmented by asset.",
			}, []string{"asset"}),
			rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "stablepay",
				Subsystem: "settlement",
				Name:      "rejected_total",
				Help:      "Total rejected settlement attempts, segmented by reason.",
			}, []string{"reason"}),
			rewards: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "stablepay",
				Subsystem: "settlement",
				Name:      "reward_credits_total",
				Help:      "Total reward credits issued.",
			}),
		}
		prometheus.MustRegister(
			settlementRegistry.committed,
			settlementRegistry.volume,
			settlementRegistry.fees,
			settlementRegistry.rejected,
			settlementRegistry.rewards,
		)
	})
	return settlementRegistry
}

func bigToFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}

// SettlementCommitted records a committed settlement.
func (m *SettlementMetrics) SettlementCommitted(asset string, amount, fee *big.Int) {
	if m == nil {
		return
	}
	m.committed.WithLabelValues(asset).Inc()
	m.volume.WithLabelValues(asset).Add(bigToFloat(amount))
	m.fees.WithLabelValues(asset).Add(bigToFloat(fee))
}

// SettlementRejected records a rejected settlement attempt.
func (m *SettlementMetrics) SettlementRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

// RewardsIssued records reward credits minted alongside a settlement.
func (m *SettlementMetrics) RewardsIssued(total *big.Int) {
	if m == nil {
		return
	}
	m.rewards.Add(bigToFloat(total))
}
