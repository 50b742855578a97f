package anchord

import (
	"fmt"

	"github.com/anchorchain/anchord/anchorcfg"
	"github.com/lightningnetwork/lnd/healthcheck"
)

// newLivenessMonitor creates the health checks the daemon runs while it is
// up. A failing check shuts the daemon down through the critical logger.
func newLivenessMonitor(cfg *anchorcfg.HealthCheckConfig,
	logDir string) *healthcheck.Monitor {

	diskCheck := healthcheck.NewObservation(
		"disk space",
		func() error {
			free, err := healthcheck.AvailableDiskSpaceRatio(logDir)
			if err != nil {
				return err
			}

			// If we have more free space than we require, we
			// return a nil error.
			if free > cfg.DiskCheck.RequiredRemaining {
				return nil
			}

			return fmt.Errorf("require: %v free space, got: %v",
				cfg.DiskCheck.RequiredRemaining, free)
		},
		cfg.DiskCheck.Interval,
		cfg.DiskCheck.Timeout,
		cfg.DiskCheck.Backoff,
		cfg.DiskCheck.Attempts,
	)

	var checks []*healthcheck.Observation
	if cfg.DiskCheck.Attempts != 0 {
		checks = append(checks, diskCheck)
	}

	return healthcheck.NewMonitor(&healthcheck.Config{
		Checks:   checks,
		Shutdown: anchLog.Criticalf,
	})
}
