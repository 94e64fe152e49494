package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/tallyhq/tally/internal/domain/leaderboard"
	"github.com/tallyhq/tally/internal/domain/model"
	"github.com/tallyhq/tally/pkg/metrics"
)

// eventState holds every row belonging to one event. Slices keep insertion
// order; the id sets back referential-integrity checks.
type eventState struct {
	event       model.Event
	teams       []model.Team
	judges      []model.JudgeProfile
	criteria    []model.RubricCriterion
	submissions []model.ScoreSubmission
	scores      []model.CriterionScore
	awards      map[model.AwardSlot]model.Award

	teamIDs  map[string]struct{}
	judgeIDs map[string]struct{}
	critByID map[string]model.RubricCriterion
	subIDs   map[string]struct{}
	// scored tracks (team, judge) pairs with a complete submission,
	// standing in for the relational UNIQUE constraint.
	scored map[string]struct{}
}

// MemStore implements Store with mutex-guarded in-memory state.
type MemStore struct {
	mu     sync.RWMutex
	events map[string]*eventState
	order  []string
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore(ctx context.Context) *MemStore {
	return &MemStore{events: make(map[string]*eventState)}
}

// CreateEvent registers a new event.
func (s *MemStore) CreateEvent(ctx context.Context, ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[ev.ID]; exists {
		return fmt.Errorf("%w: event %s", ErrDuplicateID, ev.ID)
	}
	s.events[ev.ID] = &eventState{
		event:    ev,
		awards:   make(map[model.AwardSlot]model.Award),
		teamIDs:  make(map[string]struct{}),
		judgeIDs: make(map[string]struct{}),
		critByID: make(map[string]model.RubricCriterion),
		subIDs:   make(map[string]struct{}),
		scored:   make(map[string]struct{}),
	}
	s.order = append(s.order, ev.ID)
	metrics.UpdateTotalEvents(len(s.events))
	return nil
}

// Event returns a stored event by id.
func (s *MemStore) Event(ctx context.Context, eventID string) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.events[eventID]
	if !ok {
		return model.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	return st.event, nil
}

// Events returns all events in creation order.
func (s *MemStore) Events(ctx context.Context) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Event, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.events[id].event)
	}
	return out, nil
}

// AddTeam registers a team under its event.
func (s *MemStore) AddTeam(ctx context.Context, t model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.events[t.EventID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, t.EventID)
	}
	if _, dup := st.teamIDs[t.ID]; dup {
		return fmt.Errorf("%w: team %s", ErrDuplicateID, t.ID)
	}
	st.teams = append(st.teams, t)
	st.teamIDs[t.ID] = struct{}{}
	metrics.UpdateTotalTeams(s.countTeams())
	return nil
}

// AddJudge registers a judge profile under its event.
func (s *MemStore) AddJudge(ctx context.Context, j model.JudgeProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.events[j.EventID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, j.EventID)
	}
	if _, dup := st.judgeIDs[j.ID]; dup {
		return fmt.Errorf("%w: judge %s", ErrDuplicateID, j.ID)
	}
	st.judges = append(st.judges, j)
	st.judgeIDs[j.ID] = struct{}{}
	metrics.UpdateTotalJudges(s.countJudges())
	return nil
}

// AddCriterion appends a rubric criterion while the rubric is still open.
func (s *MemStore) AddCriterion(ctx context.Context, c model.RubricCriterion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.events[c.EventID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, c.EventID)
	}
	if len(st.submissions) > 0 {
		return fmt.Errorf("%w: event %s", ErrRubricLocked, c.EventID)
	}
	if _, dup := st.critByID[c.ID]; dup {
		return fmt.Errorf("%w: criterion %s", ErrDuplicateID, c.ID)
	}
	st.criteria = append(st.criteria, c)
	st.critByID[c.ID] = c
	return nil
}

// AssignAward sets the team holding an award slot, replacing any previous
// holder.
func (s *MemStore) AssignAward(ctx context.Context, a model.Award) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.events[a.EventID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, a.EventID)
	}
	if _, ok := st.teamIDs[a.TeamID]; !ok {
		return fmt.Errorf("%w: %s", ErrTeamNotFound, a.TeamID)
	}
	st.awards[a.Type] = a
	return nil
}

// RecordSubmission stores one complete scoring pass plus its score rows.
func (s *MemStore) RecordSubmission(ctx context.Context, sub model.ScoreSubmission, scores []model.CriterionScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.events[sub.EventID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEventNotFound, sub.EventID)
	}
	if !sub.Complete() {
		// In-progress passes never reach the store; the mobile client
		// keeps drafts locally until the judge submits.
		return fmt.Errorf("%w: submission %s", ErrIncomplete, sub.ID)
	}
	if _, ok := st.teamIDs[sub.TeamID]; !ok {
		return fmt.Errorf("%w: %s", ErrTeamNotFound, sub.TeamID)
	}
	if _, ok := st.judgeIDs[sub.JudgeID]; !ok {
		return fmt.Errorf("%w: %s", ErrJudgeNotFound, sub.JudgeID)
	}
	if _, dup := st.subIDs[sub.ID]; dup {
		return fmt.Errorf("%w: submission %s", ErrDuplicateID, sub.ID)
	}
	pair := sub.TeamID + "\x00" + sub.JudgeID
	if _, dup := st.scored[pair]; dup {
		return fmt.Errorf("%w: team=%s judge=%s", ErrAlreadyScored, sub.TeamID, sub.JudgeID)
	}

	seen := make(map[string]struct{}, len(scores))
	for _, row := range scores {
		if row.SubmissionID != sub.ID {
			return fmt.Errorf("%w: submission %s", ErrDuplicateID, row.SubmissionID)
		}
		criterion, ok := st.critByID[row.CriteriaID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrCriterionNotFound, row.CriteriaID)
		}
		if row.Score < 0 || row.Score > criterion.MaxScore {
			return fmt.Errorf("%w: criteria=%s score=%v max=%v",
				ErrScoreOutOfRange, row.CriteriaID, row.Score, criterion.MaxScore)
		}
		if _, dup := seen[row.CriteriaID]; dup {
			return fmt.Errorf("%w: criterion %s scored twice", ErrDuplicateID, row.CriteriaID)
		}
		seen[row.CriteriaID] = struct{}{}
	}

	st.submissions = append(st.submissions, sub)
	st.scores = append(st.scores, scores...)
	st.subIDs[sub.ID] = struct{}{}
	st.scored[pair] = struct{}{}
	return nil
}

// Snapshot returns a consistent copy of one event's rows under one lock.
// Teams come back in registration order, which the engine's stable
// tie-break depends on.
func (s *MemStore) Snapshot(ctx context.Context, eventID string) (leaderboard.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.events[eventID]
	if !ok {
		return leaderboard.Snapshot{}, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}

	snap := leaderboard.Snapshot{
		Criteria:    make([]model.RubricCriterion, len(st.criteria)),
		Teams:       make([]model.Team, len(st.teams)),
		Judges:      make([]model.JudgeProfile, len(st.judges)),
		Submissions: make([]model.ScoreSubmission, len(st.submissions)),
		Scores:      make([]model.CriterionScore, len(st.scores)),
	}
	copy(snap.Criteria, st.criteria)
	copy(snap.Teams, st.teams)
	copy(snap.Judges, st.judges)
	copy(snap.Submissions, st.submissions)
	copy(snap.Scores, st.scores)
	return snap, nil
}

// Awards returns the award assignments for an event in fixed slot order.
func (s *MemStore) Awards(ctx context.Context, eventID string) ([]model.Award, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	out := make([]model.Award, 0, len(st.awards))
	for _, slot := range model.AwardSlots() {
		if a, ok := st.awards[slot]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Stats returns row counts across all events.
func (s *MemStore) Stats(ctx context.Context) Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := Counts{Events: len(s.events)}
	for _, st := range s.events {
		c.Teams += len(st.teams)
		c.Judges += len(st.judges)
		c.Submissions += len(st.submissions)
	}
	return c
}

// countTeams sums teams across events. Must hold s.mu.
func (s *MemStore) countTeams() int {
	n := 0
	for _, st := range s.events {
		n += len(st.teams)
	}
	return n
}

// countJudges sums judge profiles across events. Must hold s.mu.
func (s *MemStore) countJudges() int {
	n := 0
	for _, st := range s.events {
		n += len(st.judges)
	}
	return n
}
