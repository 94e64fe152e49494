// Package repository defines the event judging store interface and errors.
package repository

import (
	"context"

	"github.com/tallyhq/tally/internal/domain/leaderboard"
	"github.com/tallyhq/tally/internal/domain/model"
)

// Counts summarizes stored rows for stats reporting.
type Counts struct {
	Events      int
	Teams       int
	Judges      int
	Submissions int
}

// Store provides read/write access to event judging state.
//
// The store enforces the relational-schema invariants the aggregation
// engine assumes: referential integrity of submissions and score rows, the
// unique (team, judge) complete-submission constraint, and rubric
// immutability once judging has started.
type Store interface {
	// CreateEvent registers a new event.
	CreateEvent(ctx context.Context, ev model.Event) error

	// Event returns a stored event by id.
	Event(ctx context.Context, eventID string) (model.Event, error)

	// Events returns all events in creation order.
	Events(ctx context.Context) ([]model.Event, error)

	// AddTeam registers a team under its event. Registration order is
	// preserved and becomes the leaderboard tie-break order.
	AddTeam(ctx context.Context, t model.Team) error

	// AddJudge registers a judge profile under its event.
	AddJudge(ctx context.Context, j model.JudgeProfile) error

	// AddCriterion appends a rubric criterion. Fails once any submission
	// has been recorded for the event; the rubric is immutable during
	// the judging window.
	AddCriterion(ctx context.Context, c model.RubricCriterion) error

	// AssignAward sets the team holding an award slot, replacing any
	// previous holder. At most one team per slot per event.
	AssignAward(ctx context.Context, a model.Award) error

	// RecordSubmission stores one judge's complete scoring pass plus its
	// per-criterion rows, validating referential integrity, score bounds,
	// and the unique (team, judge) constraint.
	RecordSubmission(ctx context.Context, sub model.ScoreSubmission, scores []model.CriterionScore) error

	// Snapshot returns a mutually consistent copy of every row the
	// aggregation engine needs for one event, taken under one lock.
	Snapshot(ctx context.Context, eventID string) (leaderboard.Snapshot, error)

	// Awards returns the award assignments for an event.
	Awards(ctx context.Context, eventID string) ([]model.Award, error)

	// Stats returns row counts across all events.
	Stats(ctx context.Context) Counts
}
