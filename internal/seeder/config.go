package seeder

import "time"

// Default seeding constants.
const (
	DefaultTeams   = 12
	DefaultJudges  = 4
	DefaultWorkers = 4
	DefaultTimeout = 10 * time.Second

	processingDelay = 500 * time.Millisecond
)

// Config controls a seeding run.
type Config struct {
	// BaseURL is the address of a running service.
	BaseURL string

	// EventName names the demo event. Empty picks a generated name.
	EventName string

	// Teams and Judges size the generated roster.
	Teams  int
	Judges int

	// Workers bounds concurrent scorecard submissions.
	Workers int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Seed makes the generated data reproducible when non-zero.
	Seed uint64
}

// Stats summarizes a completed seeding run.
type Stats struct {
	EventID             string
	TeamsCreated        int
	JudgesCreated       int
	CriteriaCreated     int
	ScorecardsSubmitted int
	ScorecardsDuplicate int
	ScorecardsFailed    int
	LeaderboardRows     int
	Duration            time.Duration
}
