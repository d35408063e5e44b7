package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/openhire/jobdesk/pkg/logging"
)

// Stoppable can be shut down with a deadline
type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Graceful blocks until one of signals fires, then shuts every target
// down in order, each under the shared timeout.
func Graceful(signals []os.Signal, timeout time.Duration, log *logging.Logger, targets ...Stoppable) {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, t := range targets {
		if t == nil {
			continue
		}
		if err := t.Shutdown(ctx); err != nil {
			log.Warn("graceful shutdown completed with error", "err", err)
		}
	}
	log.Info("graceful shutdown completed")
}
