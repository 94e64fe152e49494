package leaderboard

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/tallyhq/tally/internal/domain/types"
)

// Default consensus thresholds. These are presentation policy, not measured
// constants, and can be overridden through configuration.
const (
	defaultHighStddev = 5.0
	defaultLowStddev  = 10.0
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Thresholds holds the stddev cut points for consensus classification.
// Totals with stddev below High classify as high consensus, below Low as
// medium, and everything else as low ("needs discussion"). The medium and
// low bands include their lower bounds.
type Thresholds struct {
	High float64 `validate:"gt=0"`
	Low  float64 `validate:"gtfield=High"`
}

// DefaultThresholds returns the stock 5/10 policy.
func DefaultThresholds() Thresholds {
	return Thresholds{High: defaultHighStddev, Low: defaultLowStddev}
}

// Validate checks the threshold ordering contract.
func (t Thresholds) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid consensus thresholds: %w", err)
	}
	return nil
}

// Classify maps a population stddev of judge totals to a consensus band.
// Fewer than two judges yields stddev 0, which lands in the high band by
// convention: not enough data to disagree.
func (t Thresholds) Classify(stddev float64) types.Consensus {
	switch {
	case stddev < t.High:
		return types.ConsensusHigh
	case stddev < t.Low:
		return types.ConsensusMedium
	default:
		return types.ConsensusLow
	}
}
