// Package report renders an event's judging results as an xlsx workbook.
//
// The workbook carries three sheets: the event roster, the per-judge score
// matrix, and the final rankings with award assignments. It is the artifact
// organizers hand to sponsors after judging closes.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/tallyhq/tally/internal/domain/model"
	"github.com/tallyhq/tally/internal/domain/types"
)

// Sheet names in workbook order.
const (
	SheetRoster   = "Roster"
	SheetMatrix   = "Score Matrix"
	SheetRankings = "Final Rankings"
)

// Input bundles everything the workbook needs. Standings must carry the
// detailed per-judge breakdown.
type Input struct {
	Event     model.Event
	Criteria  []model.RubricCriterion
	Teams     []model.Team
	Judges    []model.JudgeProfile
	Standings []types.Standing
	Awards    []types.AwardResult
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, in Input) error {
	f, err := Build(in)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Build assembles the workbook in memory. The caller owns the returned file
// and must Close it.
func Build(in Input) (*excelize.File, error) {
	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeRoster(f, header, in); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeMatrix(f, header, in); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRankings(f, header, in); err != nil {
		f.Close()
		return nil, err
	}

	// The default sheet is replaced by the roster.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(SheetRoster)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("locate roster sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	return f, nil
}

func writeRoster(f *excelize.File, header int, in Input) error {
	if _, err := f.NewSheet(SheetRoster); err != nil {
		return fmt.Errorf("create roster sheet: %w", err)
	}

	rows := [][]interface{}{
		{in.Event.Name},
		nil,
		{"Judges"},
		{"ID", "Name"},
	}
	for _, j := range in.Judges {
		rows = append(rows, []interface{}{j.ID, j.Name})
	}
	rows = append(rows, nil, []interface{}{"Teams"}, []interface{}{"ID", "Name", "Mentor"})
	for _, t := range in.Teams {
		rows = append(rows, []interface{}{t.ID, t.Name, t.MentorName})
	}

	if err := writeRows(f, SheetRoster, 1, rows); err != nil {
		return err
	}
	for _, row := range []int{1, 3, 4, 6 + len(in.Judges), 7 + len(in.Judges)} {
		if err := styleRow(f, SheetRoster, row, 3, header); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetRoster, "A", "C", 24)
}

// writeMatrix lays out one row per team, with a column group per judge:
// each criterion's short name followed by the judge's total.
func writeMatrix(f *excelize.File, header int, in Input) error {
	if _, err := f.NewSheet(SheetMatrix); err != nil {
		return fmt.Errorf("create matrix sheet: %w", err)
	}

	criteria := orderedCriteria(in.Criteria)

	head := []interface{}{"Team"}
	for _, j := range in.Judges {
		for _, c := range criteria {
			head = append(head, fmt.Sprintf("%s / %s", j.Name, c.ShortName))
		}
		head = append(head, fmt.Sprintf("%s / Total", j.Name))
	}
	head = append(head, "Avg", "Total")

	rows := [][]interface{}{head}
	for _, s := range in.Standings {
		row := []interface{}{s.TeamName}
		for _, j := range in.Judges {
			js, scored := judgePass(s, j.ID)
			for _, c := range criteria {
				row = append(row, criterionScore(js, scored, c.ID))
			}
			if scored {
				row = append(row, js.TotalScore)
			} else {
				row = append(row, "")
			}
		}
		row = append(row, s.AvgScore, s.TotalScore)
		rows = append(rows, row)
	}

	if err := writeRows(f, SheetMatrix, 1, rows); err != nil {
		return err
	}
	if err := styleRow(f, SheetMatrix, 1, len(head), header); err != nil {
		return err
	}
	return f.SetColWidth(SheetMatrix, "A", "A", 24)
}

func writeRankings(f *excelize.File, header int, in Input) error {
	if _, err := f.NewSheet(SheetRankings); err != nil {
		return fmt.Errorf("create rankings sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Rank", "Team", "Mentor", "Avg Score", "Total Score", "Std Dev", "Consensus"},
	}
	for _, s := range in.Standings {
		rows = append(rows, []interface{}{
			s.Rank, s.TeamName, s.MentorName, s.AvgScore, s.TotalScore, s.ScoreStddev, string(s.Consensus),
		})
	}

	rows = append(rows, nil, []interface{}{"Awards"}, []interface{}{"Award", "Team"})
	for _, a := range in.Awards {
		rows = append(rows, []interface{}{a.Label, a.TeamName})
	}

	if err := writeRows(f, SheetRankings, 1, rows); err != nil {
		return err
	}
	for _, row := range []int{1, 3 + len(in.Standings), 4 + len(in.Standings)} {
		if err := styleRow(f, SheetRankings, row, 7, header); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetRankings, "A", "G", 18)
}

// judgePass finds one judge's detailed scoring pass within a standing.
func judgePass(s types.Standing, judgeID string) (types.JudgeScore, bool) {
	for _, js := range s.JudgeScores {
		if js.JudgeID == judgeID {
			return js, true
		}
	}
	return types.JudgeScore{}, false
}

// criterionScore returns the cell value for one criterion, or an empty cell
// when the judge never scored the team.
func criterionScore(js types.JudgeScore, scored bool, criterionID string) interface{} {
	if !scored {
		return ""
	}
	for _, cell := range js.CriteriaScores {
		if cell.CriteriaID == criterionID {
			return cell.Score
		}
	}
	return ""
}

func orderedCriteria(criteria []model.RubricCriterion) []model.RubricCriterion {
	out := make([]model.RubricCriterion, len(criteria))
	copy(out, criteria)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// writeRows writes each row at increasing row numbers starting at startRow.
// A nil row leaves a blank spacer line.
func writeRows(f *excelize.File, sheet string, startRow int, rows [][]interface{}) error {
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return fmt.Errorf("resolve cell for row %d: %w", startRow+i, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d on %s: %w", startRow+i, sheet, err)
		}
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, start, end, style); err != nil {
		return fmt.Errorf("style row %d on %s: %w", row, sheet, err)
	}
	return nil
}
