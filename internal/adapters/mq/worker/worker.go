// Package worker defines worker contracts for asynchronous submission
// recording.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/tallyhq/tally/internal/domain/model"
	"github.com/tallyhq/tally/pkg/logger"
	"github.com/tallyhq/tally/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Scorecard abstracts what workers read off the queue.
type Scorecard = model.Scorecard

// Recorder persists a validated scorecard.
type Recorder interface {
	RecordSubmission(ctx context.Context, sub model.ScoreSubmission, scores []model.CriterionScore) error
}

// Queue defines how workers receive scorecards.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Scorecard
}

// Worker drains the intake queue and writes scorecards to the store.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for recording scorecards.
type InMemoryWorker struct {
	queue    Queue
	recorder Recorder
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		recorder: recorder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	cards := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case card, ok := <-cards:
			if !ok {
				// Channel closed, worker should stop
				return
			}
			if err := w.record(ctx, card); err != nil {
				w.logger.Error(ctx, "failed to record submission", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// record persists one scorecard and tracks metrics.
func (w *InMemoryWorker) record(ctx context.Context, card Scorecard) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.recorder.RecordSubmission(ctx, card.Submission, card.Scores); err != nil {
		metrics.RecordSubmissionRejected()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "record_error")
		metrics.RecordErrorByType("record_error", "high")
		w.logger.Error(ctx, "store rejected submission",
			logger.String("submissionID", card.Submission.ID),
			logger.String("teamID", card.Submission.TeamID),
			logger.String("judgeID", card.Submission.JudgeID),
			logger.Error(err),
		)
		return fmt.Errorf("record submission %s: %w", card.Submission.ID, err)
	}

	metrics.RecordSubmissionProcessed()
	w.logger.Debug(ctx, "submission recorded",
		logger.String("submissionID", card.Submission.ID),
		logger.String("teamID", card.Submission.TeamID),
		logger.String("judgeID", card.Submission.JudgeID),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, recorder Recorder) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			recorder,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker did not stop in time", logger.Error(err))
		}
		cancel()
	}
}

// Shutdown closes the queue and waits for all workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := any(p.workers[0].queue).(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
