// Package leaderboard turns raw per-criterion judge scores into ranked,
// consensus-aware team standings.
//
// The engine is a pure, synchronous computation over rows the caller has
// already fetched as a mutually consistent snapshot. It performs no I/O and
// keeps no state between calls; every invocation recomputes from source rows.
package leaderboard

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/tallyhq/tally/internal/domain/model"
	"github.com/tallyhq/tally/internal/domain/types"
)

// Name used when a submission references a judge profile missing from the
// snapshot. A single missing identity degrades attribution, not ranking.
const unknownJudgeName = "Unknown"

// Snapshot bundles the rows the engine aggregates over. The caller is
// responsible for fetching them consistently (ideally in one read
// transaction); the engine assumes they already agree with each other.
type Snapshot struct {
	Criteria    []model.RubricCriterion
	Teams       []model.Team
	Judges      []model.JudgeProfile
	Submissions []model.ScoreSubmission
	Scores      []model.CriterionScore
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithThresholds overrides the consensus classification policy.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) {
		if t.Validate() == nil {
			e.thresholds = t
		}
	}
}

// Engine computes standings from snapshots.
type Engine struct {
	thresholds Thresholds
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Aggregate computes one standing per team in snap.Teams, ascending rank
// order. Rank is dense (1-based) by average score descending; ties keep the
// relative order of snap.Teams, which makes ranking reproducible for a given
// snapshot regardless of how score rows were ordered.
//
// Only complete submissions count. Score rows belonging to an in-progress
// submission are dropped here rather than trusted to be absent from the
// input. Rows referencing unknown submissions or criteria, out-of-range
// scores, and duplicated criterion rows fail the whole computation.
func (e *Engine) Aggregate(ctx context.Context, snap Snapshot) ([]types.Standing, error) {
	_ = ctx // pure in-memory computation; kept for interface symmetry

	criteria, err := indexCriteria(snap.Criteria)
	if err != nil {
		return nil, err
	}

	judgeNames := make(map[string]string, len(snap.Judges))
	for _, j := range snap.Judges {
		judgeNames[j.ID] = j.Name
	}

	// Split submissions into complete and known-but-incomplete so that a
	// score row can be classified as "drop" vs "contract violation".
	complete := make(map[string]model.ScoreSubmission)
	known := make(map[string]struct{}, len(snap.Submissions))
	for _, sub := range snap.Submissions {
		known[sub.ID] = struct{}{}
		if sub.Complete() {
			complete[sub.ID] = sub
		}
	}

	scores, err := pivotScores(snap.Scores, known, complete, criteria)
	if err != nil {
		return nil, err
	}

	// Submissions grouped per team, preserving input order so the per-judge
	// breakdown is deterministic.
	subsByTeam := make(map[string][]model.ScoreSubmission)
	for _, sub := range snap.Submissions {
		if sub.Complete() {
			subsByTeam[sub.TeamID] = append(subsByTeam[sub.TeamID], sub)
		}
	}

	ordered := orderedCriteria(snap.Criteria)
	standings := make([]types.Standing, 0, len(snap.Teams))
	for _, team := range snap.Teams {
		standings = append(standings, e.teamStanding(team, subsByTeam[team.ID], scores, ordered, judgeNames))
	}

	rankStandings(standings)
	return standings, nil
}

// teamStanding builds one team's aggregate row (rank assigned later).
func (e *Engine) teamStanding(
	team model.Team,
	subs []model.ScoreSubmission,
	scores map[string]map[string]float64,
	criteria []model.RubricCriterion,
	judgeNames map[string]string,
) types.Standing {
	judgeTotals := make(map[string]float64)
	judgeScores := make([]types.JudgeScore, 0, len(subs))

	for _, sub := range subs {
		perCriterion := scores[sub.ID]
		cells := make([]types.CriterionCell, 0, len(criteria))
		var total float64
		for _, c := range criteria {
			// A criterion with no recorded row defaults to 0; the
			// breakdown always carries the full criteria vector.
			v := perCriterion[c.ID]
			total += v
			cells = append(cells, types.CriterionCell{
				CriteriaID:   c.ID,
				CriteriaName: c.Name,
				Score:        v,
				MaxScore:     c.MaxScore,
			})
		}

		name, ok := judgeNames[sub.JudgeID]
		if !ok {
			name = unknownJudgeName
		}
		// A duplicated (team, judge) submission is a data anomaly the
		// schema's unique constraint prevents upstream; all submitted
		// rows still count, merging into the judge's total.
		judgeTotals[sub.JudgeID] += total
		judgeScores = append(judgeScores, types.JudgeScore{
			JudgeID:        sub.JudgeID,
			JudgeName:      name,
			TotalScore:     total,
			CriteriaScores: cells,
		})
	}

	totals := make([]float64, 0, len(judgeTotals))
	var sum float64
	for _, t := range judgeTotals {
		totals = append(totals, t)
		sum += t
	}

	var avg float64
	if len(totals) > 0 {
		avg = round2(sum / float64(len(totals)))
	}
	stddev := round2(populationStddev(totals))

	return types.Standing{
		TeamID:      team.ID,
		TeamName:    team.Name,
		MentorName:  team.MentorName,
		AvgScore:    avg,
		TotalScore:  sum,
		ScoreStddev: stddev,
		Consensus:   e.thresholds.Classify(stddev),
		JudgeTotals: judgeTotals,
		JudgeScores: judgeScores,
	}
}

// indexCriteria validates criterion uniqueness and returns an id lookup.
func indexCriteria(criteria []model.RubricCriterion) (map[string]model.RubricCriterion, error) {
	byID := make(map[string]model.RubricCriterion, len(criteria))
	for _, c := range criteria {
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCriteria, c.ID)
		}
		byID[c.ID] = c
	}
	return byID, nil
}

// orderedCriteria returns criteria sorted by display order, ties by id so
// the pivot stays deterministic even with misconfigured orders.
func orderedCriteria(criteria []model.RubricCriterion) []model.RubricCriterion {
	ordered := make([]model.RubricCriterion, len(criteria))
	copy(ordered, criteria)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DisplayOrder != ordered[j].DisplayOrder {
			return ordered[i].DisplayOrder < ordered[j].DisplayOrder
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// pivotScores validates raw score rows and groups them per submission and
// criterion. Rows for incomplete submissions are dropped; everything else
// that fails the input contract aborts aggregation.
func pivotScores(
	rows []model.CriterionScore,
	known map[string]struct{},
	complete map[string]model.ScoreSubmission,
	criteria map[string]model.RubricCriterion,
) (map[string]map[string]float64, error) {
	out := make(map[string]map[string]float64)
	for _, row := range rows {
		if _, ok := known[row.SubmissionID]; !ok {
			return nil, fmt.Errorf("%w: submission=%s criteria=%s", ErrUnknownSubmission, row.SubmissionID, row.CriteriaID)
		}
		criterion, ok := criteria[row.CriteriaID]
		if !ok {
			return nil, fmt.Errorf("%w: submission=%s criteria=%s", ErrUnknownCriterion, row.SubmissionID, row.CriteriaID)
		}
		if row.Score < 0 || row.Score > criterion.MaxScore {
			return nil, fmt.Errorf("%w: submission=%s criteria=%s score=%v max=%v",
				ErrScoreOutOfRange, row.SubmissionID, row.CriteriaID, row.Score, criterion.MaxScore)
		}
		if _, ok := complete[row.SubmissionID]; !ok {
			// In-progress submission; excluded from aggregation.
			continue
		}
		perCriterion, ok := out[row.SubmissionID]
		if !ok {
			perCriterion = make(map[string]float64)
			out[row.SubmissionID] = perCriterion
		}
		if _, dup := perCriterion[row.CriteriaID]; dup {
			return nil, fmt.Errorf("%w: submission=%s criteria=%s", ErrDuplicateScore, row.SubmissionID, row.CriteriaID)
		}
		perCriterion[row.CriteriaID] = row.Score
	}
	return out, nil
}

// rankStandings sorts standings by average score descending with a stable
// tie-break, then assigns dense 1-based ranks. Equal averages share a rank
// and keep their incoming (registration) order.
func rankStandings(standings []types.Standing) {
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].AvgScore > standings[j].AvgScore
	})
	rank := 0
	prev := math.Inf(1)
	for i := range standings {
		if standings[i].AvgScore != prev {
			rank++
			prev = standings[i].AvgScore
		}
		standings[i].Rank = rank
	}
}

// populationStddev divides by n, not n-1. The consensus thresholds are only
// meaningful relative to this fixed formula.
func populationStddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// round2 rounds half away from zero at two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
