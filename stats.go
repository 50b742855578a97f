package anchord

import (
	"sync"

	"github.com/anchorchain/anchord/chainguard"
	"github.com/lightningnetwork/lnd/ticker"
)

// statsLogger periodically logs the state of the best chain.
type statsLogger struct {
	guard  *chainguard.Guard
	ticker ticker.Ticker

	started sync.Once
	stopped sync.Once

	wg   sync.WaitGroup
	quit chan struct{}
}

func newStatsLogger(guard *chainguard.Guard, t ticker.Ticker) *statsLogger {
	return &statsLogger{
		guard:  guard,
		ticker: t,
		quit:   make(chan struct{}),
	}
}

// Start launches the logging goroutine.
func (s *statsLogger) Start() {
	s.started.Do(func() {
		s.ticker.Resume()

		s.wg.Add(1)
		go s.logLoop()
	})
}

// Stop halts the logging goroutine and waits for it to exit.
func (s *statsLogger) Stop() {
	s.stopped.Do(func() {
		close(s.quit)
		s.wg.Wait()
		s.ticker.Stop()
	})
}

func (s *statsLogger) logLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ticker.Ticks():
			logChainState(s.guard)

		case <-s.quit:
			return
		}
	}
}
