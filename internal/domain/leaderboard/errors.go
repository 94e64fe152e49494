package leaderboard

import "errors"

// Sentinel kinds for input contract violations. These indicate an upstream
// data-fetch bug and are surfaced loudly rather than absorbed into the
// aggregate. Sparse-but-valid data (an unscored team, a single judge) is
// handled by documented defaults and never produces an error.
var (
	ErrUnknownSubmission = errors.New("score references unknown submission")
	ErrUnknownCriterion  = errors.New("score references unknown criterion")
	ErrScoreOutOfRange   = errors.New("score outside criterion bounds")
	ErrDuplicateScore    = errors.New("duplicate criterion score for submission")
	ErrDuplicateCriteria = errors.New("duplicate rubric criterion id")
	ErrUnknownAwardTeam  = errors.New("award references unknown team")
	ErrUnknownAwardSlot  = errors.New("unknown award slot")
	ErrDuplicateAward    = errors.New("award slot assigned more than once")
)
