package anchord

import (
	"errors"

	"github.com/anchorchain/anchord/blockindex"
	"github.com/anchorchain/anchord/build"
	"github.com/anchorchain/anchord/chainguard"
	"github.com/anchorchain/anchord/chainreg"
	"github.com/anchorchain/anchord/monitoring"
	"github.com/anchorchain/anchord/signal"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
)

// Main is the true entry point for anchord. It accepts a fully populated and
// validated main configuration struct and an interceptor for the shutdown
// signal. This function will block until a shutdown is requested.
func Main(cfg *Config, interceptor signal.Interceptor) error {
	defer func() {
		anchLog.Info("Shutdown complete")
		if err := cfg.LogRotator.Close(); err != nil {
			anchLog.Errorf("Could not close log rotator: %v", err)
		}
	}()

	// Show version at startup.
	anchLog.Infof("Version: %s commit=%s, build=%s, logging=%s, "+
		"debuglevel=%s", build.Version(), build.Commit,
		build.Deployment, build.LoggingType, cfg.DebugLevel)

	anchLog.Infof("Active network: %v", cfg.ActiveNetParams.Name)

	// The metrics are created once the guard exists, rejections can only
	// happen after that.
	var metrics *monitoring.Metrics
	onReject := func(hash chainhash.Hash, code chainguard.ErrorCode) {
		anchLog.Debugf("Header %v rejected: %v", hash, code)

		if metrics != nil {
			metrics.IncrementRejectedHeaders(code.String())
		}
	}

	chainControl, err := chainreg.NewChainControl(&chainreg.Config{
		ActiveNetParams:    cfg.ActiveNetParams,
		AddCheckpoints:     cfg.Checkpoints,
		DisableCheckpoints: cfg.DisableCheckpoints,
		SyncSpan:           cfg.SyncSpan,
		OnReject:           onReject,
	})
	if err != nil {
		anchLog.Errorf("Unable to create chain control: %v", err)
		return err
	}

	metrics, err = newMetrics(chainControl.Guard, clock.NewDefaultClock())
	if err != nil {
		return err
	}

	if cfg.Prometheus.Enabled() {
		exporter, err := monitoring.ExportPrometheusMetrics(
			cfg.Prometheus, metrics,
		)
		if err != nil {
			return err
		}
		defer func() {
			if err := exporter.Stop(); err != nil {
				anchLog.Errorf("Unable to stop Prometheus "+
					"exporter: %v", err)
			}
		}()
	}

	if cfg.HeadersFile != "" {
		_, err := chainControl.ReplayHeadersFile(
			cfg.HeadersFile, interceptor.ShutdownChannel(),
		)
		switch {
		case errors.Is(err, chainreg.ErrReplayInterrupted):
			anchLog.Infof("Header replay interrupted")
			return nil

		case err != nil:
			anchLog.Errorf("Unable to replay headers: %v", err)
			return err
		}
	}

	logChainState(chainControl.Guard)

	if cfg.StatsInterval > 0 {
		statsLog := newStatsLogger(
			chainControl.Guard, ticker.New(cfg.StatsInterval),
		)
		statsLog.Start()
		defer statsLog.Stop()
	}

	livenessMonitor := newLivenessMonitor(cfg.HealthChecks, cfg.LogDir)
	if err := livenessMonitor.Start(); err != nil {
		anchLog.Errorf("Unable to start health checks: %v", err)
		return err
	}
	defer func() {
		if err := livenessMonitor.Stop(); err != nil {
			anchLog.Errorf("Unable to stop health checks: %v", err)
		}
	}()

	notifyReady()
	defer notifyStopping()

	// Wait for shutdown signal from either a graceful server stop or from
	// the interrupt handler.
	<-interceptor.ShutdownChannel()

	return nil
}

// logChainState logs the best chain tip and the checkpoints in effect for it.
func logChainState(guard *chainguard.Guard) {
	anchLog.Infof("Best chain tip: %v", guard.Tip())
	anchLog.Infof("Checkpoint estimate of the chain height: %d",
		guard.TotalBlocksEstimate())

	guard.LastCheckpoint().WhenSome(func(n blockindex.Node) {
		anchLog.Infof("Last known checkpoint: %v", n)
	})
	if guard.LastCheckpoint().IsNone() {
		anchLog.Infof("No checkpoint is part of the chain yet")
	}

	anchLog.Infof("Sync checkpoint: %v", guard.SyncCheckpoint())
}
