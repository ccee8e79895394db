package excel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/derekprior/doubles/internal/schedule"
	"github.com/xuri/excelize/v2"
)

// ScheduleRow is one parsed line of the Schedule sheet. Rest rows carry
// Resting and no court.
type ScheduleRow struct {
	Row     int
	Round   int
	Rest    bool
	Court   int
	TeamA   []string
	TeamB   []string
	Resting []string
}

// Players returns everyone named on the row.
func (r ScheduleRow) Players() []string {
	out := append([]string{}, r.TeamA...)
	out = append(out, r.TeamB...)
	return append(out, r.Resting...)
}

// ReadSchedule parses the Schedule sheet. Rows without a numeric round are
// skipped; a court cell that is neither a number nor RestLabel is an error.
func ReadSchedule(f *excelize.File) ([]ScheduleRow, error) {
	rows, err := f.GetRows(ScheduleSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ScheduleSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", ScheduleSheet)
	}

	var parsed []ScheduleRow
	for i, row := range rows {
		if i == 0 || len(row) < 2 || row[0] == "" {
			continue
		}
		round, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}

		p := ScheduleRow{Row: i + 1, Round: round}
		courtCell := strings.TrimSpace(row[1])
		if strings.EqualFold(courtCell, RestLabel) {
			p.Rest = true
			p.Resting = cellNames(row, teamACol, len(row))
			parsed = append(parsed, p)
			continue
		}

		court, err := strconv.Atoi(courtCell)
		if err != nil {
			return nil, fmt.Errorf("row %d: court %q is not a number", i+1, row[1])
		}
		p.Court = court
		p.TeamA = cellNames(row, teamACol, teamBCol)
		// anything right of Team B counts toward it so oversized teams show up
		p.TeamB = cellNames(row, teamBCol, len(row))
		parsed = append(parsed, p)
	}
	return parsed, nil
}

// cellNames returns the non-blank names in columns from..to-1 (1-based,
// to exclusive) of a row.
func cellNames(row []string, from, to int) []string {
	var names []string
	for col := from; col < to && col <= len(row); col++ {
		if name := strings.TrimSpace(row[col-1]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Rounds groups parsed rows back into rounds, ordered by round number.
func Rounds(rows []ScheduleRow) []schedule.RoundResult {
	byRound := make(map[int]*schedule.RoundResult)
	var order []int
	for _, r := range rows {
		rr, ok := byRound[r.Round]
		if !ok {
			rr = &schedule.RoundResult{Round: r.Round, Resting: []string{}, Courts: []schedule.CourtAssignment{}}
			byRound[r.Round] = rr
			order = append(order, r.Round)
		}
		if r.Rest {
			rr.Resting = append(rr.Resting, r.Resting...)
			continue
		}
		rr.Courts = append(rr.Courts, schedule.CourtAssignment{
			Court: r.Court,
			TeamA: schedule.Team(r.TeamA),
			TeamB: schedule.Team(r.TeamB),
		})
	}

	sort.Ints(order)
	out := make([]schedule.RoundResult, 0, len(order))
	for _, round := range order {
		out = append(out, *byRound[round])
	}
	return out
}

// UpdatePlayerSheets rebuilds the per-player sheets of a saved workbook from
// its Schedule sheet, so hand edits to the schedule carry through.
func UpdatePlayerSheets(path string, players []string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := ReadSchedule(f)
	if err != nil {
		return err
	}

	for _, sheet := range f.GetSheetList() {
		if sheet == ScheduleSheet || sheet == PlayersSheet {
			continue
		}
		if err := f.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("removing sheet %s: %w", sheet, err)
		}
	}

	report := &schedule.Report{Players: players, Rounds: Rounds(rows)}
	if err := writePlayerSheets(f, report); err != nil {
		return fmt.Errorf("writing player sheets: %w", err)
	}

	idx, err := f.GetSheetIndex(ScheduleSheet)
	if err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f.Save()
}
