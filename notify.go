package anchord

import (
	"github.com/coreos/go-systemd/daemon"
)

const (
	sdNotifyReady    = "READY=1"
	sdNotifyStopping = "STOPPING=1"
)

// notifyReady tells systemd that the daemon is up, if it runs as a systemd
// service of type notify.
func notifyReady() {
	notified, err := daemon.SdNotify(false, sdNotifyReady)
	switch {
	case err != nil:
		anchLog.Warnf("Unable to notify systemd: %v", err)

	case notified:
		anchLog.Info("Systemd was notified about our readiness")

	default:
		anchLog.Debug("Could not notify systemd, probably running " +
			"outside of systemd")
	}
}

// notifyStopping tells systemd that the daemon is shutting down.
func notifyStopping() {
	if _, err := daemon.SdNotify(false, sdNotifyStopping); err != nil {
		anchLog.Warnf("Unable to notify systemd: %v", err)
	}
}
