package monitoring

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/anchorchain/anchord/anchorcfg"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter serves the metrics of a registry on /metrics.
type Exporter struct {
	server   *http.Server
	listener net.Listener

	stopOnce sync.Once
}

// ExportPrometheusMetrics launches the Prometheus exporter on the configured
// address. The returned exporter must be stopped by the caller.
func ExportPrometheusMetrics(cfg anchorcfg.Prometheus,
	metrics *Metrics) (*Exporter, error) {

	if !cfg.Enabled() {
		return nil, errors.New("prometheus listen address not set")
	}

	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		metrics.Registry(), promhttp.HandlerOpts{},
	))

	e := &Exporter{
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: listener,
	}

	log.Infof("Prometheus exporter started on %v/metrics", listener.Addr())

	go func() {
		err := e.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Prometheus exporter stopped: %v", err)
		}
	}()

	return e, nil
}

// Addr returns the address the exporter is listening on.
func (e *Exporter) Addr() net.Addr {
	return e.listener.Addr()
}

// Stop shuts the exporter down.
func (e *Exporter) Stop() error {
	var err error
	e.stopOnce.Do(func() {
		ctx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()

		log.Infof("Prometheus exporter shutting down")
		err = e.server.Shutdown(ctx)
	})

	return err
}
