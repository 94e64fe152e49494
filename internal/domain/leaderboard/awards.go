package leaderboard

import (
	"fmt"

	"github.com/tallyhq/tally/internal/domain/model"
	"github.com/tallyhq/tally/internal/domain/types"
)

// ResolveAwards maps every fixed award slot to its assigned team name, in
// report order. Unassigned slots carry the explicit NotAssigned sentinel so
// downstream views never render an empty cell. Award rows are admin
// decisions recorded elsewhere; rows that reference unknown teams or slots,
// or assign a slot twice, are contract violations.
func ResolveAwards(awards []model.Award, teams []model.Team) ([]types.AwardResult, error) {
	teamNames := make(map[string]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}

	assigned := make(map[model.AwardSlot]model.Award, len(awards))
	for _, a := range awards {
		if !a.Type.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAwardSlot, a.Type)
		}
		if _, dup := assigned[a.Type]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAward, a.Type)
		}
		if _, ok := teamNames[a.TeamID]; !ok {
			return nil, fmt.Errorf("%w: slot=%s team=%s", ErrUnknownAwardTeam, a.Type, a.TeamID)
		}
		assigned[a.Type] = a
	}

	results := make([]types.AwardResult, 0, len(model.AwardSlots()))
	for _, slot := range model.AwardSlots() {
		result := types.AwardResult{
			Slot:     string(slot),
			Label:    slot.Label(),
			TeamName: types.NotAssigned,
		}
		if a, ok := assigned[slot]; ok {
			result.TeamID = a.TeamID
			result.TeamName = teamNames[a.TeamID]
		}
		results = append(results, result)
	}
	return results, nil
}
