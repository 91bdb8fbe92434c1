package worker

// dlq.go: Dead Letter Queue
// Jobs that exceed the maximum retry count are moved here for inspection.
// Uses a Redis list per source queue: dlq:{original_queue}

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string `json:"original_queue"`
	Job           Job    `json:"job"`
	Reason        string `json:"reason"`
	FailedAt      string `json:"failed_at"` // ISO 8601
}

// SendToDLQ pushes a failed job to the dead letter queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	entry := DLQEntry{
		OriginalQueue: queue,
		Job:           job,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	if err := rdb.LPush(context.WithoutCancel(ctx), dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("intentos", job.Intentos).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// Reencolar moves up to n of the oldest DLQ entries back to their queue with
// a fresh attempt count. Entries already re-driven maxReenvios times stay.
func Reencolar(ctx context.Context, rdb *redis.Client, queue string, n, maxReenvios int) (int, error) {
	dlqKey := DLQPrefix + queue
	movidos := 0
	for i := 0; i < n; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return movidos, err
		}
		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: dropping unreadable entry")
			continue
		}
		if entry.Job.Reenvios >= maxReenvios {
			// Parked for manual inspection at the head of the list
			if err := rdb.LPush(ctx, dlqKey, raw).Err(); err != nil {
				return movidos, err
			}
			continue
		}
		entry.Job.Intentos = 0
		entry.Job.Reenvios++
		if err := push(ctx, rdb, queue, entry.Job); err != nil {
			return movidos, err
		}
		movidos++
	}
	return movidos, nil
}
