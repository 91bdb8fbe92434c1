package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueExportEmail = "jobs:export_email"

	JobExportEmail = "export_email"

	// MaxIntentos is the number of attempts a job gets before the DLQ.
	MaxIntentos = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Intentos int             `json:"intentos"`
	// Reenvios counts how many times the job came back from the DLQ
	Reenvios int `json:"reenvios,omitempty"`
}

// Handler processes one job payload. A returned error counts as a failed
// attempt.
type Handler func(ctx context.Context, payload json.RawMessage) error

// ErrPermanente marks failures that retrying cannot fix (bad payload).
var ErrPermanente = errors.New("job: fallo permanente")

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueExportEmail pushes a report-by-email job to Redis.
func (d *Dispatcher) EnqueueExportEmail(ctx context.Context, payload ExportEmailPayload) error {
	return d.enqueue(ctx, QueueExportEmail, JobExportEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	if d == nil || d.rdb == nil {
		return errors.New("cola de trabajos no disponible")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the registered queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	colas    map[string]string // job type → queue
	backoff  func(intento int) time.Duration
	wg       sync.WaitGroup
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{
		rdb:      rdb,
		handlers: map[string]Handler{},
		colas:    map[string]string{},
		backoff:  backoffReintento,
	}
}

// Registrar binds a job type to its queue and handler.
func (p *Pool) Registrar(queue, jobType string, h Handler) {
	p.handlers[jobType] = h
	p.colas[jobType] = queue
}

func (p *Pool) queues() []string {
	seen := map[string]bool{}
	var out []string
	for _, q := range p.colas {
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

// Start launches numWorkers goroutines consuming every registered queue.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	queues := p.queues()
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.runWorker(ctx, id, queues)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

// Wait blocks until every worker has returned after ctx is cancelled.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) runWorker(ctx context.Context, id int, queues []string) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.procesar(ctx, result[0], result[1])
		}
	}
}

// procesar runs one job. Failed jobs are pushed back with a backoff delay
// until MaxIntentos, then moved to the DLQ.
func (p *Pool) procesar(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, Job{Type: "desconocido", Payload: json.RawMessage(raw)}, "json inválido: "+err.Error())
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		SendToDLQ(ctx, p.rdb, queue, job, "tipo de job sin handler")
		return
	}

	job.Intentos++
	err := h(ctx, job.Payload)
	if err == nil {
		log.Info().Str("type", job.Type).Int("intento", job.Intentos).Msg("job processed")
		return
	}

	if errors.Is(err, ErrPermanente) || job.Intentos >= MaxIntentos {
		SendToDLQ(ctx, p.rdb, queue, job, fmt.Sprintf("intento %d: %s", job.Intentos, err))
		return
	}

	espera := p.backoff(job.Intentos)
	log.Warn().Err(err).
		Str("type", job.Type).
		Int("intento", job.Intentos).
		Dur("backoff", espera).
		Msg("job failed, re-enqueueing")

	select {
	case <-ctx.Done():
	case <-time.After(espera):
	}
	// Re-enqueue with a fresh context: shutdown must not lose the job
	if err := push(context.WithoutCancel(ctx), p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to re-enqueue job")
	}
}

// backoffReintento grows 2s, 4s, 8s… capped at one minute.
func backoffReintento(intento int) time.Duration {
	d := time.Duration(1<<uint(intento)) * time.Second
	if d > time.Minute {
		return time.Minute
	}
	return d
}
