package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/derekprior/doubles/internal/schedule"
	"github.com/xuri/excelize/v2"
)

const (
	ScheduleSheet = "Schedule"
	PlayersSheet  = "Players"

	// RestLabel marks the resting row of a round in the Court column.
	RestLabel = "Rest"

	// NameSeparator joins names in cells that are never read back.
	NameSeparator = ", "
)

// Generate creates a workbook with the round-by-round schedule, one sheet
// per player, and a statistics sheet when the report carries stats.
func Generate(report *schedule.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetDefaultFont("Arial")

	if err := writeScheduleSheet(f, report); err != nil {
		return nil, fmt.Errorf("writing schedule sheet: %w", err)
	}

	if len(report.Stats) > 0 {
		if err := writeStatsSheet(f, report.Stats); err != nil {
			return nil, fmt.Errorf("writing stats sheet: %w", err)
		}
	}

	if err := writePlayerSheets(f, report); err != nil {
		return nil, fmt.Errorf("writing player sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 14, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
	}
	if style := headerStyle(f); style != 0 {
		f.SetCellStyle(sheet, cellRef(1, 1), cellRef(len(headers), 1), style)
	}
}

// Schedule sheet columns. Each cell holds one name so names may contain
// commas; rest rows list names from teamACol onward.
const (
	teamACol = 3
	teamBCol = 5
)

func writeScheduleSheet(f *excelize.File, report *schedule.Report) error {
	sheet := ScheduleSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Round", "Court", "Team A", "", "Team B", ""}
	writeHeaders(f, sheet, headers)
	f.MergeCell(sheet, cellRef(teamACol, 1), cellRef(teamACol+1, 1))
	f.MergeCell(sheet, cellRef(teamBCol, 1), cellRef(teamBCol+1, 1))

	restStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Size: 14, Family: "Arial", Color: "#7F7F7F"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 14, Family: "Arial"},
	})

	row := 2
	for _, r := range report.Rounds {
		for _, c := range r.Courts {
			f.SetCellValue(sheet, cellRef(1, row), r.Round)
			f.SetCellValue(sheet, cellRef(2, row), c.Court)
			writeNames(f, sheet, teamACol, row, c.TeamA)
			writeNames(f, sheet, teamBCol, row, c.TeamB)
			if cellStyle != 0 {
				f.SetCellStyle(sheet, cellRef(1, row), cellRef(len(headers), row), cellStyle)
			}
			row++
		}
		if len(r.Resting) > 0 {
			f.SetCellValue(sheet, cellRef(1, row), r.Round)
			f.SetCellValue(sheet, cellRef(2, row), RestLabel)
			writeNames(f, sheet, teamACol, row, r.Resting)
			if restStyle != 0 {
				last := max(len(headers), teamACol+len(r.Resting)-1)
				f.SetCellStyle(sheet, cellRef(1, row), cellRef(last, row), restStyle)
			}
			row++
		}
	}

	f.SetColWidth(sheet, "A", "B", 10)
	f.SetColWidth(sheet, "C", "F", 18)
	return nil
}

func writeNames(f *excelize.File, sheet string, col, row int, names []string) {
	for i, name := range names {
		f.SetCellStr(sheet, cellRef(col+i, row), name)
	}
}

func writeStatsSheet(f *excelize.File, stats []schedule.PlayerStats) error {
	sheet := PlayersSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Player", "Games", "Rested", "Partners", "Opponents", "Courts"}
	writeHeaders(f, sheet, headers)

	for i, s := range stats {
		row := i + 2
		courts := make([]string, len(s.Courts))
		for j, c := range s.Courts {
			courts[j] = fmt.Sprintf("Court %d (%d)", c.Court, c.Count)
		}
		f.SetCellValue(sheet, cellRef(1, row), s.Player)
		f.SetCellValue(sheet, cellRef(2, row), s.Games)
		f.SetCellValue(sheet, cellRef(3, row), s.Rests)
		f.SetCellValue(sheet, cellRef(4, row), formatCounts(s.Partners))
		f.SetCellValue(sheet, cellRef(5, row), formatCounts(s.Opponents))
		f.SetCellValue(sheet, cellRef(6, row), strings.Join(courts, NameSeparator))
	}

	widths := map[string]float64{"A": 18, "B": 8, "C": 8, "D": 48, "E": 64, "F": 36}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func formatCounts(counts []schedule.PlayerCount) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s (%d)", c.Player, c.Count)
	}
	return strings.Join(parts, NameSeparator)
}

// writePlayerSheets gives every player a sheet listing their rounds.
func writePlayerSheets(f *excelize.File, report *schedule.Report) error {
	// keys are lower-cased: Excel sheet names ignore case
	used := map[string]bool{"sheet1": true}
	for _, name := range []string{ScheduleSheet, PlayersSheet} {
		used[strings.ToLower(name)] = true
	}

	for _, player := range report.Players {
		sheet := PlayerSheetName(player, used)
		used[strings.ToLower(sheet)] = true
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("sheet for %s: %w", player, err)
		}

		headers := []string{"Round", "Court", "Partner", "Opponents", ""}
		writeHeaders(f, sheet, headers)
		f.MergeCell(sheet, cellRef(4, 1), cellRef(5, 1))

		for i, r := range report.Rounds {
			row := i + 2
			f.SetCellValue(sheet, cellRef(1, row), r.Round)
			court, partner, opponents, ok := findPlayer(r, player)
			if !ok {
				f.SetCellValue(sheet, cellRef(2, row), RestLabel)
				continue
			}
			f.SetCellValue(sheet, cellRef(2, row), court)
			f.SetCellStr(sheet, cellRef(3, row), partner)
			writeNames(f, sheet, 4, row, opponents)
		}

		widths := map[string]float64{"A": 10, "B": 10, "C": 18, "D": 18, "E": 18}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}
	return nil
}

func findPlayer(r schedule.RoundResult, player string) (court int, partner string, opponents []string, ok bool) {
	for _, c := range r.Courts {
		for _, sides := range [][2]schedule.Team{{c.TeamA, c.TeamB}, {c.TeamB, c.TeamA}} {
			own, other := sides[0], sides[1]
			for _, p := range own {
				if p != player {
					continue
				}
				var partners []string
				for _, q := range own {
					if q != player {
						partners = append(partners, q)
					}
				}
				return c.Court, strings.Join(partners, NameSeparator), other, true
			}
		}
	}
	return 0, "", nil, false
}

// PlayerSheetName turns a player name into a sheet name Excel accepts,
// adding a numeric suffix when it collides with a name in used. Keys of
// used are lower-case.
func PlayerSheetName(player string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, player)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Player"
	}
	base := truncateRunes(name, 31)
	name = base
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := " " + strconv.Itoa(i)
		name = truncateRunes(base, 31-len(suffix)) + suffix
	}
	return name
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
