package model

// Scorecard is the intake payload: one judge's complete scoring pass
// bundled with its per-criterion rows. It flows from the API through the
// submission queue to a recording worker.
type Scorecard struct {
	Submission ScoreSubmission
	Scores     []CriterionScore
}
