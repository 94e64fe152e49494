// Package types contains common read-model types used across the application
package types

// Consensus classifies how much judges' totals for a team disagree.
type Consensus string

const (
	// ConsensusHigh means judges largely agree on the team's total.
	ConsensusHigh Consensus = "high"
	// ConsensusMedium means judges show moderate spread.
	ConsensusMedium Consensus = "medium"
	// ConsensusLow means the team's scores need discussion.
	ConsensusLow Consensus = "low"
)

// CriterionCell is a single judge's score for one rubric criterion.
type CriterionCell struct {
	CriteriaID   string  `json:"criteria_id"`
	CriteriaName string  `json:"criteria_name"`
	Score        float64 `json:"score"`
	MaxScore     float64 `json:"max_score"`
}

// JudgeScore is one judge's full scoring pass over a team, criteria in
// rubric display order.
type JudgeScore struct {
	JudgeID        string          `json:"judge_id"`
	JudgeName      string          `json:"judge_name"`
	TotalScore     float64         `json:"total_score"`
	CriteriaScores []CriterionCell `json:"criteria_scores"`
}

// Standing is one team's row in the leaderboard, ascending rank order.
// JudgeScores is populated only for the detailed view.
type Standing struct {
	Rank        int                `json:"rank"`
	TeamID      string             `json:"team_id"`
	TeamName    string             `json:"team_name"`
	MentorName  string             `json:"mentor_name,omitempty"`
	AvgScore    float64            `json:"avg_score"`
	TotalScore  float64            `json:"total_score"`
	ScoreStddev float64            `json:"score_stddev"`
	Consensus   Consensus          `json:"consensus"`
	JudgeTotals map[string]float64 `json:"judge_totals,omitempty"`
	JudgeScores []JudgeScore       `json:"judge_scores,omitempty"`
}

// AwardResult resolves one award slot to the winning team, or the
// NotAssigned sentinel when no assignment exists.
type AwardResult struct {
	Slot     string `json:"slot"`
	Label    string `json:"label"`
	TeamID   string `json:"team_id,omitempty"`
	TeamName string `json:"team_name"`
}

// NotAssigned is the explicit sentinel for an empty award slot. Reports must
// never render an empty cell for an unassigned slot.
const NotAssigned = "(Not Assigned)"
