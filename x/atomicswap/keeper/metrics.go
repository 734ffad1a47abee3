package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SwapMetrics holds all Prometheus metrics for the atomic swap module
type SwapMetrics struct {
	Actions        *prometheus.CounterVec
	PacketsSent    *prometheus.CounterVec
	PacketsRecv    *prometheus.CounterVec
	Acks           *prometheus.CounterVec
	Timeouts       *prometheus.CounterVec
	OrdersArchived *prometheus.CounterVec
	Settlements    *prometheus.CounterVec
}

var (
	swapMetricsOnce sync.Once
	swapMetrics     *SwapMetrics
)

// NewSwapMetrics creates and registers the module metrics (singleton pattern)
func NewSwapMetrics() *SwapMetrics {
	swapMetricsOnce.Do(func() {
		swapMetrics = &SwapMetrics{
			Actions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapbook",
					Subsystem: "atomicswap",
					Name:      "actions_total",
					Help:      "Total number of executed actions by result",
				},
				[]string{"action", "result"},
			),
			PacketsSent: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapbook",
					Subsystem: "atomicswap",
					Name:      "packets_sent_total",
					Help:      "Total number of outbound packets by type",
				},
				[]string{"type"},
			),
			PacketsRecv: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapbook",
					Subsystem: "atomicswap",
					Name:      "packets_received_total",
					Help:      "Total number of inbound packets by type and result",
				},
				[]string{"type", "result"},
			),
			Acks: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapbook",
					Subsystem: "atomicswap",
					Name:      "acknowledgements_total",
					Help:      "Total number of acknowledgements by packet type and result",
				},
				[]string{"type", "result"},
			),
			Timeouts: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapbook",
					Subsystem: "atomicswap",
					Name:      "timeouts_total",
					Help:      "Total number of timed out packets by type",
				},
				[]string{"type"},
			),
			OrdersArchived: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapbook",
					Subsystem: "atomicswap",
					Name:      "orders_archived_total",
					Help:      "Total number of orders moved to the archive by reason",
				},
				[]string{"reason"},
			),
			Settlements: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapbook",
					Subsystem: "atomicswap",
					Name:      "settlements_total",
					Help:      "Total number of escrow releases by kind",
				},
				[]string{"kind"},
			),
		}
	})
	return swapMetrics
}
