// Package dispatch runs forced score recomputations in the background.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/monostock/trust/internal/application/dto"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 1024
	DefaultTimeout   = 10 * time.Second
)

// Recalculator recomputes and stores one identity's score.
type Recalculator interface {
	Execute(ctx context.Context, identityID uuid.UUID) (dto.ScoreResponse, error)
}

// Config tunes the worker pool. Zero values select the defaults.
type Config struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

var tracer = otel.Tracer("trust/dispatch")

// job carries the scheduling span so the background run can link back to it.
type job struct {
	origin     trace.SpanContext
	identityID uuid.UUID
}

// Recomputer is a bounded worker pool implementing port.RecomputeScheduler.
// An identity already waiting in the queue is not queued twice.
type Recomputer struct {
	recalc   Recalculator
	logger   *slog.Logger
	queue    chan job
	done     chan struct{}
	outcomes metric.Int64Counter
	pending  map[uuid.UUID]struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	workers  int
	timeout  time.Duration
	started  bool
	stopped  bool
}

// NewRecomputer creates a stopped dispatcher. Call Start to begin processing.
func NewRecomputer(recalc Recalculator, cfg Config, logger *slog.Logger) *Recomputer {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	outcomes, _ := otel.Meter("trust/dispatch").Int64Counter("trust_recompute_jobs_total",
		metric.WithDescription("Background score recomputations by outcome"))

	return &Recomputer{
		recalc:   recalc,
		logger:   logger,
		queue:    make(chan job, cfg.QueueSize),
		done:     make(chan struct{}),
		outcomes: outcomes,
		pending:  make(map[uuid.UUID]struct{}),
		workers:  cfg.Workers,
		timeout:  cfg.Timeout,
	}
}

// Schedule queues a recompute without blocking. When the queue is full the
// request is dropped; the next stale read reconciles the score.
func (r *Recomputer) Schedule(ctx context.Context, identityID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		r.record(ctx, "dropped")
		r.logger.Warn("recompute dropped, dispatcher stopped",
			slog.String("identity_id", identityID.String()),
		)
		return
	}
	if _, ok := r.pending[identityID]; ok {
		r.record(ctx, "coalesced")
		return
	}

	select {
	case r.queue <- job{identityID: identityID, origin: trace.SpanContextFromContext(ctx)}:
		r.pending[identityID] = struct{}{}
	default:
		r.record(ctx, "dropped")
		r.logger.Warn("recompute queue full, dropping request",
			slog.String("identity_id", identityID.String()),
			slog.Int("queue_size", cap(r.queue)),
		)
	}
}

// Start launches the workers. Jobs run on a context detached from ctx's
// cancellation so in-flight recomputes finish during shutdown.
func (r *Recomputer) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.stopped {
		return
	}
	r.started = true

	base := context.WithoutCancel(ctx)
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(base)
	}

	r.logger.Info("recompute dispatcher started",
		slog.Int("workers", r.workers),
		slog.Int("queue_size", cap(r.queue)),
	)
}

// Stop rejects new requests, processes what is already queued and waits for
// the workers to exit.
func (r *Recomputer) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.done)
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Info("recompute dispatcher stopped")
}

func (r *Recomputer) worker(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case j := <-r.queue:
			r.run(ctx, j)
		case <-r.done:
			for {
				select {
				case j := <-r.queue:
					r.run(ctx, j)
				default:
					return
				}
			}
		}
	}
}

func (r *Recomputer) run(ctx context.Context, j job) {
	identityID := j.identityID

	opts := []trace.SpanStartOption{
		trace.WithNewRoot(),
		trace.WithAttributes(attribute.String("identity_id", identityID.String())),
	}
	if j.origin.IsValid() {
		opts = append(opts, trace.WithLinks(trace.Link{SpanContext: j.origin}))
	}
	ctx, span := tracer.Start(ctx, "Recomputer.run", opts...)
	defer span.End()

	r.mu.Lock()
	delete(r.pending, identityID)
	r.mu.Unlock()

	jobCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.recalc.Execute(jobCtx, identityID)
	if err != nil {
		r.record(ctx, "failed")
		r.logger.Error("background recompute failed",
			slog.String("identity_id", identityID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	r.record(ctx, "ok")
	r.logger.Debug("background recompute finished",
		slog.String("identity_id", identityID.String()),
		slog.Int("total", resp.Total),
	)
}

func (r *Recomputer) record(ctx context.Context, outcome string) {
	r.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
