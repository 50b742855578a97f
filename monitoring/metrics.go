package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "anchord"

// ChainSource exposes the chain state that is reported as gauges. Every
// method is called on scrape and must be safe for concurrent use.
type ChainSource interface {
	// TipHeight returns the height of the best chain tip.
	TipHeight() int32

	// SyncCheckpointHeight returns the height of the current sync
	// checkpoint.
	SyncCheckpointHeight() int32

	// LastCheckpointHeight returns the height of the highest hardened
	// checkpoint that is part of the block index, or -1 if there is none.
	LastCheckpointHeight() int32

	// TotalBlocksEstimate returns the highest hardened checkpoint height.
	TotalBlocksEstimate() int32
}

// Metrics holds the collectors exported by anchord.
type Metrics struct {
	registry *prometheus.Registry

	rejectedHeaders *prometheus.CounterVec
}

// NewMetrics creates a registry populated with the chain gauges backed by src
// and the rejected header counter.
func NewMetrics(src ChainSource) (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rejectedHeaders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejected_headers_total",
				Help:      "Number of headers rejected, by reason.",
			},
			[]string{"reason"},
		),
	}

	gauge := func(name, help string, f func() int32) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      name,
				Help:      help,
			},
			func() float64 {
				return float64(f())
			},
		)
	}

	collectors := []prometheus.Collector{
		m.rejectedHeaders,
		gauge(
			"block_height", "Height of the best chain tip.",
			src.TipHeight,
		),
		gauge(
			"sync_checkpoint_height",
			"Height of the current sync checkpoint.",
			src.SyncCheckpointHeight,
		),
		gauge(
			"last_checkpoint_height",
			"Height of the highest indexed hardened checkpoint, "+
				"-1 if none.",
			src.LastCheckpointHeight,
		),
		gauge(
			"checkpoint_estimate",
			"Highest hardened checkpoint height.",
			src.TotalBlocksEstimate,
		),
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// IncrementRejectedHeaders increments the rejected header counter for the
// given reason.
func (m *Metrics) IncrementRejectedHeaders(reason string) {
	m.rejectedHeaders.WithLabelValues(reason).Inc()
}

// Registry returns the registry holding all anchord collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
