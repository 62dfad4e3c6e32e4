package worker

import (
	"context"

	"go.uber.org/zap"
)

// Relay is a long-running event source such as events.RedisDispatcher.
type Relay interface {
	Run(ctx context.Context) error
}

// StartEventRelay runs relay in the background until ctx is cancelled.
// The returned channel is closed when the relay exits.
func StartEventRelay(ctx context.Context, relay Relay, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if relay == nil {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		if err := relay.Run(ctx); err != nil {
			logger.Error("event relay stopped", zap.Error(err))
			return
		}
		logger.Info("event relay stopped")
	}()
	return done
}
