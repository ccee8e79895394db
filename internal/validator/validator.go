package validator

import (
	"fmt"
	"math"
	"sort"

	"github.com/derekprior/doubles/internal/config"
	"github.com/derekprior/doubles/internal/excel"
	"github.com/derekprior/doubles/internal/roster"
	"github.com/xuri/excelize/v2"
)

// Violation represents a rule or guideline problem found in a schedule.
type Violation struct {
	Row     int
	Type    string // "error" or "warning"
	Message string
	Count   int // for repeated partnerships: times the pair partnered
}

// Validate reads a schedule workbook and checks it against the roster and
// court limit in cfg.
func Validate(cfg *config.Config, path string) ([]Violation, error) {
	r, err := roster.Parse(cfg.Players)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := excel.ReadSchedule(f)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}

	return check(cfg, r.Players, rows), nil
}

func check(cfg *config.Config, players []string, rows []excel.ScheduleRow) []Violation {
	var violations []Violation

	// Hard rules
	violations = append(violations, checkTeamSizes(rows)...)
	violations = append(violations, checkCourtNumbers(cfg, rows)...)
	violations = append(violations, checkDoubleBooking(rows)...)
	violations = append(violations, checkUnknownPlayers(players, rows)...)
	violations = append(violations, checkEveryoneAccounted(players, rows)...)

	// Guidelines
	violations = append(violations, checkRepeatPartnerships(rows)...)
	violations = append(violations, checkBalance(players, rows)...)

	return violations
}

func checkTeamSizes(rows []excel.ScheduleRow) []Violation {
	var violations []Violation
	for _, r := range rows {
		if r.Rest {
			continue
		}
		if len(r.TeamA) != 2 || len(r.TeamB) != 2 {
			violations = append(violations, Violation{
				Row:  r.Row,
				Type: "error",
				Message: fmt.Sprintf("round %d court %d has %d vs %d players (want 2 vs 2)",
					r.Round, r.Court, len(r.TeamA), len(r.TeamB)),
			})
		}
	}
	return violations
}

func checkCourtNumbers(cfg *config.Config, rows []excel.ScheduleRow) []Violation {
	type roundCourt struct{ round, court int }
	seen := make(map[roundCourt]bool)

	var violations []Violation
	for _, r := range rows {
		if r.Rest {
			continue
		}
		if r.Court < 1 || r.Court > cfg.MaxCourts {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("round %d uses court %d (courts 1-%d available)", r.Round, r.Court, cfg.MaxCourts),
			})
		}
		key := roundCourt{r.Round, r.Court}
		if seen[key] {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("round %d lists court %d more than once", r.Round, r.Court),
			})
		}
		seen[key] = true
	}
	return violations
}

func checkDoubleBooking(rows []excel.ScheduleRow) []Violation {
	type roundPlayer struct {
		round  int
		player string
	}
	firstRow := make(map[roundPlayer]int)

	var violations []Violation
	for _, r := range rows {
		for _, p := range r.Players() {
			key := roundPlayer{r.Round, p}
			if prev, ok := firstRow[key]; ok {
				violations = append(violations, Violation{
					Row:     r.Row,
					Type:    "error",
					Message: fmt.Sprintf("%s is placed twice in round %d (rows %d and %d)", p, r.Round, prev, r.Row),
				})
				continue
			}
			firstRow[key] = r.Row
		}
	}
	return violations
}

func checkUnknownPlayers(players []string, rows []excel.ScheduleRow) []Violation {
	known := make(map[string]bool, len(players))
	for _, p := range players {
		known[p] = true
	}

	var violations []Violation
	for _, r := range rows {
		for _, p := range r.Players() {
			if !known[p] {
				violations = append(violations, Violation{
					Row:     r.Row,
					Type:    "error",
					Message: fmt.Sprintf("%s in round %d is not on the roster", p, r.Round),
				})
			}
		}
	}
	return violations
}

func checkEveryoneAccounted(players []string, rows []excel.ScheduleRow) []Violation {
	placed := make(map[int]map[string]bool)
	for _, r := range rows {
		if placed[r.Round] == nil {
			placed[r.Round] = make(map[string]bool)
		}
		for _, p := range r.Players() {
			placed[r.Round][p] = true
		}
	}

	rounds := make([]int, 0, len(placed))
	for round := range placed {
		rounds = append(rounds, round)
	}
	sort.Ints(rounds)

	var violations []Violation
	for _, round := range rounds {
		for _, p := range players {
			if !placed[round][p] {
				violations = append(violations, Violation{
					Type:    "error",
					Message: fmt.Sprintf("%s is neither playing nor resting in round %d", p, round),
				})
			}
		}
	}
	return violations
}

func checkRepeatPartnerships(rows []excel.ScheduleRow) []Violation {
	type pair struct{ a, b string }
	counts := make(map[pair]int)
	for _, r := range rows {
		for _, team := range [][]string{r.TeamA, r.TeamB} {
			for i := 0; i < len(team); i++ {
				for j := i + 1; j < len(team); j++ {
					a, b := team[i], team[j]
					if a > b {
						a, b = b, a
					}
					counts[pair{a, b}]++
				}
			}
		}
	}

	var violations []Violation
	for pr, n := range counts {
		if n > 1 {
			violations = append(violations, Violation{
				Type:    "warning",
				Count:   n,
				Message: fmt.Sprintf("%s and %s partner %d times", pr.a, pr.b, n),
			})
		}
	}
	// Most repeated first
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Count != violations[j].Count {
			return violations[i].Count > violations[j].Count
		}
		return violations[i].Message < violations[j].Message
	})
	return violations
}

func checkBalance(players []string, rows []excel.ScheduleRow) []Violation {
	games := make(map[string]int)
	rests := make(map[string]int)
	for _, p := range players {
		games[p] = 0
		rests[p] = 0
	}
	for _, r := range rows {
		for _, p := range r.Resting {
			if _, ok := rests[p]; ok {
				rests[p]++
			}
		}
		for _, p := range append(append([]string{}, r.TeamA...), r.TeamB...) {
			if _, ok := games[p]; ok {
				games[p]++
			}
		}
	}

	var violations []Violation
	for _, c := range []struct {
		what   string
		counts map[string]int
	}{
		{"games played", games},
		{"rests", rests},
	} {
		lo, hi := spread(c.counts)
		if hi-lo > 1 {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("%s imbalance: min %d, max %d across players", c.what, lo, hi),
			})
		}
	}
	return violations
}

func spread(counts map[string]int) (lo, hi int) {
	if len(counts) == 0 {
		return 0, 0
	}
	lo, hi = math.MaxInt, 0
	for _, n := range counts {
		lo = min(lo, n)
		hi = max(hi, n)
	}
	return lo, hi
}
