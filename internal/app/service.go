// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/adapters/mq/queue"
	workerpool "github.com/tallyhq/tally/internal/adapters/mq/worker"
	"github.com/tallyhq/tally/internal/adapters/report"
	"github.com/tallyhq/tally/internal/adapters/repository"
	"github.com/tallyhq/tally/internal/domain/dedupe"
	"github.com/tallyhq/tally/internal/domain/leaderboard"
	"github.com/tallyhq/tally/internal/domain/model"
	"github.com/tallyhq/tally/internal/domain/types"
	"github.com/tallyhq/tally/pkg/logger"
	"github.com/tallyhq/tally/pkg/metrics"
)

// Service implements the API dependencies for the judging system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	cardQueue  queue.Queue
	engine     *leaderboard.Engine
	workerPool *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	thresholds  leaderboard.Thresholds

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithThresholds sets the consensus classification thresholds.
func WithThresholds(t leaderboard.Thresholds) Option {
	return func(s *Service) {
		if t.Validate() == nil {
			s.thresholds = t
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10000,
		dedupeSize:  50000,
		thresholds:  leaderboard.DefaultThresholds(),
		stopCh:      make(chan struct{}),
		logger:      nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting judging service...")

	s.store = repository.NewMemStore(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.cardQueue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
	)
	s.engine = leaderboard.New(
		leaderboard.WithThresholds(s.thresholds),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.cardQueue, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "judging service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service, draining queued scorecards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping judging service...")

	if q, ok := s.cardQueue.(*queue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "judging service stopped")
}

// SeenAndRecord atomically checks if a submission id was seen and records it
// if not. Returns true if the submission was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSubmissionDuplicate()
	}
	return seen
}

// Unrecord removes a submission ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// CreateEvent registers a new event and assigns its ID.
func (s *Service) CreateEvent(ctx context.Context, name string) (model.Event, error) {
	ev := model.Event{ID: uuid.NewString(), Name: name}
	if err := s.store.CreateEvent(ctx, ev); err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info(ctx, "event created",
		logger.String("eventID", ev.ID),
		logger.String("name", ev.Name),
	)
	return ev, nil
}

// ListEvents returns all events in creation order.
func (s *Service) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.store.Events(ctx)
}

// AddTeam registers a team under an event.
func (s *Service) AddTeam(ctx context.Context, eventID, name, mentorName string) (model.Team, error) {
	t := model.Team{ID: uuid.NewString(), EventID: eventID, Name: name, MentorName: mentorName}
	if err := s.store.AddTeam(ctx, t); err != nil {
		return model.Team{}, fmt.Errorf("add team: %w", err)
	}
	return t, nil
}

// AddJudge registers a judge profile under an event.
func (s *Service) AddJudge(ctx context.Context, eventID, name string) (model.JudgeProfile, error) {
	j := model.JudgeProfile{ID: uuid.NewString(), EventID: eventID, Name: name}
	if err := s.store.AddJudge(ctx, j); err != nil {
		return model.JudgeProfile{}, fmt.Errorf("add judge: %w", err)
	}
	return j, nil
}

// AddCriterion appends a rubric criterion to an event.
func (s *Service) AddCriterion(ctx context.Context, c model.RubricCriterion) (model.RubricCriterion, error) {
	c.ID = uuid.NewString()
	if err := s.store.AddCriterion(ctx, c); err != nil {
		return model.RubricCriterion{}, fmt.Errorf("add criterion: %w", err)
	}
	return c, nil
}

// AssignAward sets the team holding an award slot.
func (s *Service) AssignAward(ctx context.Context, a model.Award) error {
	if err := s.store.AssignAward(ctx, a); err != nil {
		return fmt.Errorf("assign award: %w", err)
	}
	s.logger.Info(ctx, "award assigned",
		logger.String("eventID", a.EventID),
		logger.String("slot", string(a.Type)),
		logger.String("teamID", a.TeamID),
	)
	return nil
}

// EnqueueScorecard submits a scorecard for asynchronous recording.
func (s *Service) EnqueueScorecard(ctx context.Context, card model.Scorecard) bool {
	ok := s.cardQueue.Enqueue(ctx, card)
	if ok {
		metrics.UpdateQueueSize(s.cardQueue.Len(ctx))
	}
	return ok
}

// Leaderboard computes the ranked standings for an event from a consistent
// store snapshot. The detailed flag keeps the per-judge per-criterion
// breakdown on each standing.
func (s *Service) Leaderboard(ctx context.Context, eventID string, detailed bool) ([]types.Standing, error) {
	snap, err := s.store.Snapshot(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("snapshot event %s: %w", eventID, err)
	}

	start := time.Now()
	standings, err := s.engine.Aggregate(ctx, snap)
	metrics.RecordAggregationLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("aggregate event %s: %w", eventID, err)
	}

	if !detailed {
		for i := range standings {
			standings[i].JudgeScores = nil
		}
	}
	return standings, nil
}

// Awards resolves every award slot for an event.
func (s *Service) Awards(ctx context.Context, eventID string) ([]types.AwardResult, error) {
	snap, err := s.store.Snapshot(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("snapshot event %s: %w", eventID, err)
	}
	awards, err := s.store.Awards(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load awards for event %s: %w", eventID, err)
	}
	results, err := leaderboard.ResolveAwards(awards, snap.Teams)
	if err != nil {
		return nil, fmt.Errorf("resolve awards for event %s: %w", eventID, err)
	}
	return results, nil
}

// Report builds the event's results workbook and streams it to w.
func (s *Service) Report(ctx context.Context, eventID string, w io.Writer) error {
	ev, err := s.store.Event(ctx, eventID)
	if err != nil {
		return fmt.Errorf("load event %s: %w", eventID, err)
	}
	snap, err := s.store.Snapshot(ctx, eventID)
	if err != nil {
		return fmt.Errorf("snapshot event %s: %w", eventID, err)
	}
	standings, err := s.Leaderboard(ctx, eventID, true)
	if err != nil {
		return err
	}
	awards, err := s.Awards(ctx, eventID)
	if err != nil {
		return err
	}

	if err := report.Write(w, report.Input{
		Event:     ev,
		Criteria:  snap.Criteria,
		Teams:     snap.Teams,
		Judges:    snap.Judges,
		Standings: standings,
		Awards:    awards,
	}); err != nil {
		return fmt.Errorf("build report for event %s: %w", eventID, err)
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		counts := s.store.Stats(ctx)
		queueLen := s.cardQueue.Len(ctx)

		stats["queueLength"] = queueLen
		stats["events"] = counts.Events
		stats["teams"] = counts.Teams
		stats["judges"] = counts.Judges
		stats["submissions"] = counts.Submissions

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalEvents(counts.Events)
		metrics.UpdateTotalTeams(counts.Teams)
		metrics.UpdateTotalJudges(counts.Judges)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
