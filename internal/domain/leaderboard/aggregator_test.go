package leaderboard_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tallyhq/tally/internal/domain/leaderboard"
	"github.com/tallyhq/tally/internal/domain/model"
	"github.com/tallyhq/tally/internal/domain/types"
)

func fourCriteria() []model.RubricCriterion {
	return []model.RubricCriterion{
		{ID: "c1", EventID: "ev1", Name: "Communication", ShortName: "comm", MaxScore: 25, DisplayOrder: 1},
		{ID: "c2", EventID: "ev1", Name: "Funding", ShortName: "fund", MaxScore: 25, DisplayOrder: 2},
		{ID: "c3", EventID: "ev1", Name: "Presentation", ShortName: "pres", MaxScore: 25, DisplayOrder: 3},
		{ID: "c4", EventID: "ev1", Name: "Cohesion", ShortName: "coh", MaxScore: 25, DisplayOrder: 4},
	}
}

func submittedAt() *time.Time {
	ts := time.Date(2025, 4, 12, 15, 30, 0, 0, time.UTC)
	return &ts
}

// submission builds a complete submission plus one score row per criterion.
func submission(id, teamID, judgeID string, values []float64) (model.ScoreSubmission, []model.CriterionScore) {
	sub := model.ScoreSubmission{
		ID:          id,
		EventID:     "ev1",
		TeamID:      teamID,
		JudgeID:     judgeID,
		StartedAt:   submittedAt().Add(-10 * time.Minute),
		SubmittedAt: submittedAt(),
	}
	ids := []string{"c1", "c2", "c3", "c4"}
	rows := make([]model.CriterionScore, 0, len(values))
	for i, v := range values {
		rows = append(rows, model.CriterionScore{SubmissionID: id, CriteriaID: ids[i], Score: v})
	}
	return sub, rows
}

func TestAggregateTwoJudgeScenario(t *testing.T) {
	Convey("Given one team scored by two judges on four 25-point criteria", t, func() {
		engine := leaderboard.New()
		subA, rowsA := submission("s1", "t1", "jA", []float64{20, 22, 18, 24})
		subB, rowsB := submission("s2", "t1", "jB", []float64{25, 25, 20, 25})

		snap := leaderboard.Snapshot{
			Criteria: fourCriteria(),
			Teams:    []model.Team{{ID: "t1", EventID: "ev1", Name: "Rocket"}},
			Judges: []model.JudgeProfile{
				{ID: "jA", EventID: "ev1", Name: "Judge A"},
				{ID: "jB", EventID: "ev1", Name: "Judge B"},
			},
			Submissions: []model.ScoreSubmission{subA, subB},
			Scores:      append(rowsA, rowsB...),
		}

		Convey("When aggregating", func() {
			standings, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldBeNil)
			So(standings, ShouldHaveLength, 1)
			team := standings[0]

			Convey("Then judge totals, average, total, and stddev match", func() {
				So(team.JudgeTotals["jA"], ShouldEqual, 84)
				So(team.JudgeTotals["jB"], ShouldEqual, 95)
				So(team.AvgScore, ShouldEqual, 89.5)
				So(team.TotalScore, ShouldEqual, 179)
				So(team.ScoreStddev, ShouldEqual, 5.5)
				So(team.Consensus, ShouldEqual, types.ConsensusMedium)
				So(team.Rank, ShouldEqual, 1)
			})

			Convey("And the breakdown carries one entry per judge with full criteria vectors", func() {
				So(team.JudgeScores, ShouldHaveLength, 2)
				So(team.JudgeScores[0].JudgeName, ShouldEqual, "Judge A")
				So(team.JudgeScores[0].TotalScore, ShouldEqual, 84)
				So(team.JudgeScores[0].CriteriaScores, ShouldHaveLength, 4)
				So(team.JudgeScores[0].CriteriaScores[0].CriteriaName, ShouldEqual, "Communication")
				So(team.JudgeScores[0].CriteriaScores[3].Score, ShouldEqual, 24)
				So(team.JudgeScores[1].JudgeName, ShouldEqual, "Judge B")
				So(team.JudgeScores[1].TotalScore, ShouldEqual, 95)
			})
		})

		Convey("When aggregating twice with score rows reordered", func() {
			first, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldBeNil)

			reversed := make([]model.CriterionScore, 0, len(snap.Scores))
			for i := len(snap.Scores) - 1; i >= 0; i-- {
				reversed = append(reversed, snap.Scores[i])
			}
			snap.Scores = reversed
			second, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldBeNil)

			Convey("Then the output is identical", func() {
				So(second, ShouldResemble, first)
			})
		})
	})
}

func TestAggregateRanking(t *testing.T) {
	Convey("Given three teams with distinct averages and one tie", t, func() {
		engine := leaderboard.New()
		subs := make([]model.ScoreSubmission, 0, 4)
		rows := make([]model.CriterionScore, 0, 16)
		add := func(id, teamID, judgeID string, values []float64) {
			sub, r := submission(id, teamID, judgeID, values)
			subs = append(subs, sub)
			rows = append(rows, r...)
		}
		add("s1", "alpha", "jA", []float64{20, 20, 20, 20}) // 80
		add("s2", "beta", "jA", []float64{25, 25, 25, 25})  // 100
		add("s3", "gamma", "jA", []float64{20, 20, 20, 20}) // 80, ties alpha
		add("s4", "delta", "jA", []float64{10, 10, 10, 10}) // 40

		snap := leaderboard.Snapshot{
			Criteria: fourCriteria(),
			Teams: []model.Team{
				{ID: "alpha", Name: "Alpha"},
				{ID: "beta", Name: "Beta"},
				{ID: "gamma", Name: "Gamma"},
				{ID: "delta", Name: "Delta"},
			},
			Judges:      []model.JudgeProfile{{ID: "jA", Name: "Judge A"}},
			Submissions: subs,
			Scores:      rows,
		}

		Convey("When aggregating", func() {
			standings, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldBeNil)

			Convey("Then ranks are dense and descending by average", func() {
				So(standings[0].TeamID, ShouldEqual, "beta")
				So(standings[0].Rank, ShouldEqual, 1)
				So(standings[1].Rank, ShouldEqual, 2)
				So(standings[2].Rank, ShouldEqual, 2)
				So(standings[3].TeamID, ShouldEqual, "delta")
				So(standings[3].Rank, ShouldEqual, 3)
			})

			Convey("And tied teams keep their input order", func() {
				So(standings[1].TeamID, ShouldEqual, "alpha")
				So(standings[2].TeamID, ShouldEqual, "gamma")
			})

			Convey("And a higher average always ranks strictly better", func() {
				for i := range standings {
					for j := range standings {
						if standings[i].AvgScore > standings[j].AvgScore {
							So(standings[i].Rank, ShouldBeLessThan, standings[j].Rank)
						}
					}
				}
			})
		})
	})
}

func TestAggregateSparseData(t *testing.T) {
	Convey("Given an event with no teams", t, func() {
		engine := leaderboard.New()
		standings, err := engine.Aggregate(context.Background(), leaderboard.Snapshot{Criteria: fourCriteria()})

		Convey("Then the leaderboard is empty, not an error", func() {
			So(err, ShouldBeNil)
			So(standings, ShouldBeEmpty)
		})
	})

	Convey("Given teams but zero submissions", t, func() {
		engine := leaderboard.New()
		snap := leaderboard.Snapshot{
			Criteria: fourCriteria(),
			Teams: []model.Team{
				{ID: "t1", Name: "First In"},
				{ID: "t2", Name: "Second In"},
			},
		}
		standings, err := engine.Aggregate(context.Background(), snap)

		Convey("Then every team appears at zero, tied at rank 1 in input order", func() {
			So(err, ShouldBeNil)
			So(standings, ShouldHaveLength, 2)
			for _, s := range standings {
				So(s.AvgScore, ShouldEqual, 0)
				So(s.TotalScore, ShouldEqual, 0)
				So(s.ScoreStddev, ShouldEqual, 0)
				So(s.Rank, ShouldEqual, 1)
				So(s.JudgeScores, ShouldBeEmpty)
				So(s.Consensus, ShouldEqual, types.ConsensusHigh)
			}
			So(standings[0].TeamID, ShouldEqual, "t1")
			So(standings[1].TeamID, ShouldEqual, "t2")
		})
	})

	Convey("Given an in-progress submission alongside a complete one", t, func() {
		engine := leaderboard.New()
		done, doneRows := submission("s1", "t1", "jA", []float64{10, 10, 10, 10})
		partial, partialRows := submission("s2", "t1", "jB", []float64{25, 25, 25, 25})
		partial.SubmittedAt = nil

		snap := leaderboard.Snapshot{
			Criteria:    fourCriteria(),
			Teams:       []model.Team{{ID: "t1", Name: "Rocket"}},
			Judges:      []model.JudgeProfile{{ID: "jA", Name: "Judge A"}, {ID: "jB", Name: "Judge B"}},
			Submissions: []model.ScoreSubmission{done, partial},
			Scores:      append(doneRows, partialRows...),
		}
		standings, err := engine.Aggregate(context.Background(), snap)

		Convey("Then the partial pass contributes nothing", func() {
			So(err, ShouldBeNil)
			So(standings[0].AvgScore, ShouldEqual, 40)
			So(standings[0].TotalScore, ShouldEqual, 40)
			So(standings[0].JudgeScores, ShouldHaveLength, 1)
			So(standings[0].JudgeScores[0].JudgeID, ShouldEqual, "jA")
			_, scored := standings[0].JudgeTotals["jB"]
			So(scored, ShouldBeFalse)
		})
	})

	Convey("Given a submission missing one criterion row", t, func() {
		engine := leaderboard.New()
		sub, rows := submission("s1", "t1", "jA", []float64{20, 20, 20})

		snap := leaderboard.Snapshot{
			Criteria:    fourCriteria(),
			Teams:       []model.Team{{ID: "t1", Name: "Rocket"}},
			Judges:      []model.JudgeProfile{{ID: "jA", Name: "Judge A"}},
			Submissions: []model.ScoreSubmission{sub},
			Scores:      rows,
		}
		standings, err := engine.Aggregate(context.Background(), snap)

		Convey("Then the missing criterion defaults to 0 and still appears", func() {
			So(err, ShouldBeNil)
			breakdown := standings[0].JudgeScores[0]
			So(breakdown.CriteriaScores, ShouldHaveLength, 4)
			So(breakdown.CriteriaScores[3].CriteriaID, ShouldEqual, "c4")
			So(breakdown.CriteriaScores[3].Score, ShouldEqual, 0)
			So(breakdown.TotalScore, ShouldEqual, 60)
		})
	})

	Convey("Given a submission whose judge profile is missing", t, func() {
		engine := leaderboard.New()
		sub, rows := submission("s1", "t1", "ghost", []float64{20, 20, 20, 20})

		snap := leaderboard.Snapshot{
			Criteria:    fourCriteria(),
			Teams:       []model.Team{{ID: "t1", Name: "Rocket"}},
			Submissions: []model.ScoreSubmission{sub},
			Scores:      rows,
		}
		standings, err := engine.Aggregate(context.Background(), snap)

		Convey("Then ranking proceeds with an Unknown attribution", func() {
			So(err, ShouldBeNil)
			So(standings[0].JudgeScores[0].JudgeName, ShouldEqual, "Unknown")
			So(standings[0].AvgScore, ShouldEqual, 80)
		})
	})
}

func TestAggregateContractViolations(t *testing.T) {
	Convey("Given a baseline snapshot", t, func() {
		engine := leaderboard.New()
		sub, rows := submission("s1", "t1", "jA", []float64{20, 20, 20, 20})
		snap := leaderboard.Snapshot{
			Criteria:    fourCriteria(),
			Teams:       []model.Team{{ID: "t1", Name: "Rocket"}},
			Judges:      []model.JudgeProfile{{ID: "jA", Name: "Judge A"}},
			Submissions: []model.ScoreSubmission{sub},
			Scores:      rows,
		}

		Convey("When a score references an unknown submission", func() {
			snap.Scores = append(snap.Scores, model.CriterionScore{SubmissionID: "nope", CriteriaID: "c1", Score: 5})
			_, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldWrap, leaderboard.ErrUnknownSubmission)
		})

		Convey("When a score references an unknown criterion", func() {
			snap.Scores = append(snap.Scores, model.CriterionScore{SubmissionID: "s1", CriteriaID: "c9", Score: 5})
			_, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldWrap, leaderboard.ErrUnknownCriterion)
		})

		Convey("When a score exceeds the criterion maximum", func() {
			snap.Scores[0].Score = 26
			_, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldWrap, leaderboard.ErrScoreOutOfRange)
		})

		Convey("When a score is negative", func() {
			snap.Scores[0].Score = -1
			_, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldWrap, leaderboard.ErrScoreOutOfRange)
		})

		Convey("When a criterion is scored twice in one submission", func() {
			snap.Scores = append(snap.Scores, model.CriterionScore{SubmissionID: "s1", CriteriaID: "c1", Score: 5})
			_, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldWrap, leaderboard.ErrDuplicateScore)
		})

		Convey("When two criteria share an id", func() {
			snap.Criteria = append(snap.Criteria, model.RubricCriterion{ID: "c1", Name: "Copy", MaxScore: 25})
			_, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldWrap, leaderboard.ErrDuplicateCriteria)
		})
	})
}

func TestConsensusThresholds(t *testing.T) {
	Convey("Given the default 5/10 thresholds", t, func() {
		thresholds := leaderboard.DefaultThresholds()

		Convey("Then band lower bounds are inclusive for medium and low", func() {
			So(thresholds.Classify(0), ShouldEqual, types.ConsensusHigh)
			So(thresholds.Classify(4.99), ShouldEqual, types.ConsensusHigh)
			So(thresholds.Classify(5), ShouldEqual, types.ConsensusMedium)
			So(thresholds.Classify(9.99), ShouldEqual, types.ConsensusMedium)
			So(thresholds.Classify(10), ShouldEqual, types.ConsensusLow)
			So(thresholds.Classify(42), ShouldEqual, types.ConsensusLow)
		})
	})

	Convey("Given custom thresholds on the engine", t, func() {
		engine := leaderboard.New(leaderboard.WithThresholds(leaderboard.Thresholds{High: 1, Low: 2}))
		subA, rowsA := submission("s1", "t1", "jA", []float64{20, 22, 18, 24})
		subB, rowsB := submission("s2", "t1", "jB", []float64{25, 25, 20, 25})
		snap := leaderboard.Snapshot{
			Criteria:    fourCriteria(),
			Teams:       []model.Team{{ID: "t1", Name: "Rocket"}},
			Judges:      []model.JudgeProfile{{ID: "jA", Name: "Judge A"}, {ID: "jB", Name: "Judge B"}},
			Submissions: []model.ScoreSubmission{subA, subB},
			Scores:      append(rowsA, rowsB...),
		}

		Convey("Then the stddev of 5.5 classifies as low", func() {
			standings, err := engine.Aggregate(context.Background(), snap)
			So(err, ShouldBeNil)
			So(standings[0].Consensus, ShouldEqual, types.ConsensusLow)
		})
	})

	Convey("Given inverted thresholds", t, func() {
		bad := leaderboard.Thresholds{High: 10, Low: 5}

		Convey("Then validation rejects them", func() {
			So(bad.Validate(), ShouldNotBeNil)
		})

		Convey("And the engine option ignores them", func() {
			engine := leaderboard.New(leaderboard.WithThresholds(bad))
			standings, err := engine.Aggregate(context.Background(), leaderboard.Snapshot{
				Criteria: fourCriteria(),
				Teams:    []model.Team{{ID: "t1", Name: "Rocket"}},
			})
			So(err, ShouldBeNil)
			So(standings[0].Consensus, ShouldEqual, types.ConsensusHigh)
		})
	})
}
