package network

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics used in monitoring the peer pool.
var (
	connectedNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Number of nodes in connected state",
			Name:      "connected_nodes",
			Namespace: "iop",
			Subsystem: "p2p",
		},
	)
	commandsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of messages dispatched, by command",
			Name:      "commands_received_total",
			Namespace: "iop",
			Subsystem: "p2p",
		},
		[]string{"command"},
	)

	metricsRegistered sync.Once
)

// initMetrics registers the pool collectors. It is called from group
// setup; groups share one set of collectors.
func initMetrics() {
	metricsRegistered.Do(func() {
		prometheus.MustRegister(
			connectedNodes,
			commandsReceived,
		)
	})
}
