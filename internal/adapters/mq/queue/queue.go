// Package queue defines the contract for enqueuing and consuming score
// submissions.
//
// Implementations may use channels or more advanced structures; the
// in-memory bounded queue below covers a single-process deployment.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/tallyhq/tally/internal/domain/model"
	"github.com/tallyhq/tally/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10000
)

// Scorecard is the payload type flowing through the queue.
type Scorecard = model.Scorecard

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a scorecard to the queue.
	// Returns false if the queue is full and the scorecard was not enqueued.
	Enqueue(ctx context.Context, c Scorecard) bool

	// Dequeue returns a channel that will receive scorecards as they
	// become available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Scorecard

	// Len returns the current number of queued scorecards.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue. After closing, no new
	// scorecards can be enqueued and the dequeue channel is closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	cards    chan Scorecard
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.cards = make(chan Scorecard, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a scorecard to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, c Scorecard) bool {
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.cards <- c:
		metrics.RecordQueueEnqueue()
		q.publishGauges()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive scorecards as they become
// available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Scorecard {
	out := make(chan Scorecard)
	go func() {
		defer close(out)
		for card := range q.cards {
			select {
			case out <- card:
				metrics.RecordQueueDequeue()
				q.publishGauges()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued scorecards.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.cards)
	q.publishGauges()
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.cards)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// publishGauges pushes the current size and utilization metrics.
func (q *InMemoryQueue) publishGauges() {
	size := len(q.cards)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
