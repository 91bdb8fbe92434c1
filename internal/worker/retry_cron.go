package worker

// retry_cron.go
// Background goroutine that re-drives export jobs parked in the DLQ once the
// SMTP circuit breaker is closed again. Each job is re-driven at most once.

import (
	"context"
	"time"

	"github.com/Tatelord8/nb-preorder-pro-sub002/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10
	maxReenvios       = 1
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB *redis.Client
	CB  *infra.CircuitBreaker
}

// StartRetryCron ticks every five minutes until ctx is cancelled.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				reintentarDLQ(ctx, cfg)
			}
		}
	}()
}

func reintentarDLQ(ctx context.Context, cfg RetryCronConfig) {
	// Don't feed jobs to a relay the breaker still considers down
	if cfg.CB != nil && cfg.CB.Estado() == infra.CBAbierto {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}
	n, err := Reencolar(ctx, cfg.RDB, QueueExportEmail, retryBatchSize, maxReenvios)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to re-drive DLQ")
		return
	}
	if n > 0 {
		log.Info().Int("count", n).Msg("retry_cron: jobs re-enqueued from DLQ")
	}
}
