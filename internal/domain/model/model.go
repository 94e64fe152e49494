// Package model contains domain models passed between layers.
package model

import "time"

// Event represents a single judged competition (a hackathon edition).
type Event struct {
	ID   string
	Name string
}

// RubricCriterion is one named, independently scored dimension of the
// judging rubric. Immutable once the event's judging window opens.
type RubricCriterion struct {
	ID           string
	EventID      string
	Name         string
	ShortName    string
	MaxScore     float64
	DisplayOrder int
}

// Team is the unit being ranked.
type Team struct {
	ID         string
	EventID    string
	Name       string
	MentorName string
}

// JudgeProfile is the named judge identity used for attribution. It is
// distinct from any authenticated account; one account may operate several
// profiles across events.
type JudgeProfile struct {
	ID      string
	EventID string
	Name    string
}

// ScoreSubmission is one judge's scoring pass over one team. It counts
// toward aggregation only once SubmittedAt is set.
type ScoreSubmission struct {
	ID               string
	EventID          string
	TeamID           string
	JudgeID          string
	StartedAt        time.Time
	SubmittedAt      *time.Time
	TimeSpentSeconds int
}

// Complete reports whether the submission has been finalized by the judge.
func (s ScoreSubmission) Complete() bool {
	return s.SubmittedAt != nil
}

// CriterionScore is one judge's score for one criterion within a submission.
// Score is bounded by the criterion's MaxScore.
type CriterionScore struct {
	SubmissionID string
	CriteriaID   string
	Score        float64
}

// AwardSlot names one of the fixed prizes assignable per event.
type AwardSlot string

// The full slot set is known in advance; no slot types are invented from data.
const (
	AwardFirstPlace       AwardSlot = "first_place"
	AwardSecondPlace      AwardSlot = "second_place"
	AwardThirdPlace       AwardSlot = "third_place"
	AwardMostFeasible     AwardSlot = "most_feasible"
	AwardBestPrototype    AwardSlot = "best_prototype"
	AwardBestVideo        AwardSlot = "best_video"
	AwardBestPresentation AwardSlot = "best_presentation"
)

// AwardSlots lists every assignable slot in report order.
func AwardSlots() []AwardSlot {
	return []AwardSlot{
		AwardFirstPlace,
		AwardSecondPlace,
		AwardThirdPlace,
		AwardMostFeasible,
		AwardBestPrototype,
		AwardBestVideo,
		AwardBestPresentation,
	}
}

// Valid reports whether the slot belongs to the fixed set.
func (s AwardSlot) Valid() bool {
	for _, known := range AwardSlots() {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable slot name used in reports.
func (s AwardSlot) Label() string {
	switch s {
	case AwardFirstPlace:
		return "First Place"
	case AwardSecondPlace:
		return "Second Place"
	case AwardThirdPlace:
		return "Third Place"
	case AwardMostFeasible:
		return "Most Feasible"
	case AwardBestPrototype:
		return "Best Prototype"
	case AwardBestVideo:
		return "Best Video"
	case AwardBestPresentation:
		return "Best Presentation"
	}
	return string(s)
}

// Award records an admin's assignment of a slot to a team. At most one team
// holds a slot per event.
type Award struct {
	EventID string
	TeamID  string
	Type    AwardSlot
}
