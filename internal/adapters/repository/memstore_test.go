package repository_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tallyhq/tally/internal/adapters/repository"
	"github.com/tallyhq/tally/internal/domain/model"
)

func seedEvent(ctx context.Context, s *repository.MemStore) {
	So(s.CreateEvent(ctx, model.Event{ID: "ev1", Name: "Spring Hack"}), ShouldBeNil)
	So(s.AddTeam(ctx, model.Team{ID: "t1", EventID: "ev1", Name: "Rocket", MentorName: "Sam"}), ShouldBeNil)
	So(s.AddTeam(ctx, model.Team{ID: "t2", EventID: "ev1", Name: "Comet", MentorName: "Alex"}), ShouldBeNil)
	So(s.AddJudge(ctx, model.JudgeProfile{ID: "j1", EventID: "ev1", Name: "Judge One"}), ShouldBeNil)
	So(s.AddCriterion(ctx, model.RubricCriterion{ID: "c1", EventID: "ev1", Name: "Presentation", ShortName: "pres", MaxScore: 25, DisplayOrder: 1}), ShouldBeNil)
	So(s.AddCriterion(ctx, model.RubricCriterion{ID: "c2", EventID: "ev1", Name: "Cohesion", ShortName: "coh", MaxScore: 25, DisplayOrder: 2}), ShouldBeNil)
}

func completeSubmission(id, teamID, judgeID string) model.ScoreSubmission {
	ts := time.Date(2025, 4, 12, 16, 0, 0, 0, time.UTC)
	return model.ScoreSubmission{
		ID:          id,
		EventID:     "ev1",
		TeamID:      teamID,
		JudgeID:     judgeID,
		StartedAt:   ts.Add(-5 * time.Minute),
		SubmittedAt: &ts,
	}
}

func TestMemStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded event", t, func() {
		s := repository.NewMemStore(ctx)
		seedEvent(ctx, s)

		Convey("When recording a valid submission", func() {
			sub := completeSubmission("s1", "t1", "j1")
			rows := []model.CriterionScore{
				{SubmissionID: "s1", CriteriaID: "c1", Score: 20},
				{SubmissionID: "s1", CriteriaID: "c2", Score: 18},
			}
			So(s.RecordSubmission(ctx, sub, rows), ShouldBeNil)

			Convey("Then the snapshot carries all rows consistently", func() {
				snap, err := s.Snapshot(ctx, "ev1")
				So(err, ShouldBeNil)
				So(snap.Teams, ShouldHaveLength, 2)
				So(snap.Teams[0].ID, ShouldEqual, "t1") // registration order
				So(snap.Submissions, ShouldHaveLength, 1)
				So(snap.Scores, ShouldHaveLength, 2)
				So(snap.Criteria, ShouldHaveLength, 2)
			})

			Convey("And the same judge cannot score the same team twice", func() {
				again := completeSubmission("s2", "t1", "j1")
				err := s.RecordSubmission(ctx, again, nil)
				So(err, ShouldWrap, repository.ErrAlreadyScored)
			})

			Convey("And the rubric is locked", func() {
				err := s.AddCriterion(ctx, model.RubricCriterion{ID: "c3", EventID: "ev1", Name: "Extra", MaxScore: 25})
				So(err, ShouldWrap, repository.ErrRubricLocked)
			})

			Convey("And stats reflect the rows", func() {
				c := s.Stats(ctx)
				So(c.Events, ShouldEqual, 1)
				So(c.Teams, ShouldEqual, 2)
				So(c.Judges, ShouldEqual, 1)
				So(c.Submissions, ShouldEqual, 1)
			})
		})

		Convey("When recording invalid submissions", func() {
			Convey("Then an incomplete pass is refused", func() {
				sub := completeSubmission("s1", "t1", "j1")
				sub.SubmittedAt = nil
				So(s.RecordSubmission(ctx, sub, nil), ShouldWrap, repository.ErrIncomplete)
			})

			Convey("Then an unknown team is refused", func() {
				err := s.RecordSubmission(ctx, completeSubmission("s1", "nope", "j1"), nil)
				So(err, ShouldWrap, repository.ErrTeamNotFound)
			})

			Convey("Then an unknown judge is refused", func() {
				err := s.RecordSubmission(ctx, completeSubmission("s1", "t1", "nope"), nil)
				So(err, ShouldWrap, repository.ErrJudgeNotFound)
			})

			Convey("Then an out-of-range score is refused", func() {
				rows := []model.CriterionScore{{SubmissionID: "s1", CriteriaID: "c1", Score: 26}}
				err := s.RecordSubmission(ctx, completeSubmission("s1", "t1", "j1"), rows)
				So(err, ShouldWrap, repository.ErrScoreOutOfRange)
			})

			Convey("Then an unknown criterion is refused", func() {
				rows := []model.CriterionScore{{SubmissionID: "s1", CriteriaID: "c9", Score: 5}}
				err := s.RecordSubmission(ctx, completeSubmission("s1", "t1", "j1"), rows)
				So(err, ShouldWrap, repository.ErrCriterionNotFound)
			})
		})

		Convey("When assigning awards", func() {
			So(s.AssignAward(ctx, model.Award{EventID: "ev1", TeamID: "t1", Type: model.AwardFirstPlace}), ShouldBeNil)

			Convey("Then reassignment replaces the holder", func() {
				So(s.AssignAward(ctx, model.Award{EventID: "ev1", TeamID: "t2", Type: model.AwardFirstPlace}), ShouldBeNil)
				awards, err := s.Awards(ctx, "ev1")
				So(err, ShouldBeNil)
				So(awards, ShouldHaveLength, 1)
				So(awards[0].TeamID, ShouldEqual, "t2")
			})

			Convey("Then an unknown team is refused", func() {
				err := s.AssignAward(ctx, model.Award{EventID: "ev1", TeamID: "nope", Type: model.AwardBestVideo})
				So(err, ShouldWrap, repository.ErrTeamNotFound)
			})
		})

		Convey("When touching an unknown event", func() {
			_, err := s.Snapshot(ctx, "nope")
			So(err, ShouldWrap, repository.ErrEventNotFound)

			So(s.AddTeam(ctx, model.Team{ID: "t9", EventID: "nope"}), ShouldWrap, repository.ErrEventNotFound)
		})

		Convey("When creating a duplicate event id", func() {
			So(s.CreateEvent(ctx, model.Event{ID: "ev1"}), ShouldWrap, repository.ErrDuplicateID)
		})
	})
}
