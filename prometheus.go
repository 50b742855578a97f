package anchord

import (
	"github.com/anchorchain/anchord/blockindex"
	"github.com/anchorchain/anchord/build"
	"github.com/anchorchain/anchord/chainguard"
	"github.com/anchorchain/anchord/monitoring"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// chainStats reports the state of a guard to the metrics exporter.
type chainStats struct {
	guard *chainguard.Guard
}

// A compile-time check to ensure chainStats implements the
// monitoring.ChainSource interface.
var _ monitoring.ChainSource = (*chainStats)(nil)

func (c *chainStats) TipHeight() int32 {
	return c.guard.Tip().Height()
}

func (c *chainStats) SyncCheckpointHeight() int32 {
	return c.guard.SyncCheckpoint().Height()
}

func (c *chainStats) LastCheckpointHeight() int32 {
	return fn.ElimOption(
		c.guard.LastCheckpoint(),
		func() int32 {
			return -1
		},
		func(n blockindex.Node) int32 {
			return n.Height()
		},
	)
}

func (c *chainStats) TotalBlocksEstimate() int32 {
	return c.guard.TotalBlocksEstimate()
}

// newMetrics creates the metrics of the daemon, adding the static version
// and uptime stats to the chain gauges.
func newMetrics(guard *chainguard.Guard,
	clk clock.Clock) (*monitoring.Metrics, error) {

	metrics, err := monitoring.NewMetrics(&chainStats{guard: guard})
	if err != nil {
		return nil, err
	}

	versionGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "anchord_version",
			Help: "Version of anchord running.",
		},
		[]string{"version", "commit"},
	)
	versionGauge.WithLabelValues(build.Version(), build.Commit).Set(1)

	startTime := clk.Now()
	uptimeGauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "anchord_uptime",
			Help: "Uptime of anchord in seconds.",
		},
		func() float64 {
			return clk.Now().Sub(startTime).Seconds()
		},
	)

	for _, c := range []prometheus.Collector{versionGauge, uptimeGauge} {
		if err := metrics.Registry().Register(c); err != nil {
			return nil, err
		}
	}

	return metrics, nil
}
