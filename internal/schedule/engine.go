package schedule

import (
	"math/rand"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/derekprior/doubles/internal/config"
	"github.com/derekprior/doubles/internal/history"
	"github.com/derekprior/doubles/internal/roster"
)

// Report is the output of a full scheduling run.
type Report struct {
	Players    []string      `json:"players"`
	Duplicates []string      `json:"duplicates,omitempty"`
	Rounds     []RoundResult `json:"rounds"`
	Stats      []PlayerStats `json:"stats,omitempty"`
}

// PlayerCount is a count of games shared with another player.
type PlayerCount struct {
	Player string `json:"player"`
	Count  int    `json:"count"`
}

// CourtCount is a count of games played on one court.
type CourtCount struct {
	Court int `json:"court"`
	Count int `json:"count"`
}

// PlayerStats summarizes one player's run.
type PlayerStats struct {
	Player    string        `json:"player"`
	Games     int           `json:"games_played"`
	Rests     int           `json:"times_rested"`
	Partners  []PlayerCount `json:"partners"`
	Opponents []PlayerCount `json:"opponents"`
	Courts    []CourtCount  `json:"courts"`
}

// NewRand returns the random source for a run. A nil seed seeds from the clock.
func NewRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(*seed))
}

// Run schedules cfg.MaxRounds rounds for the players in rosterText. A roster
// with fewer than four unique players fails with roster.ErrTooFewPlayers
// before any round is planned. A nil rng is replaced by NewRand(cfg.Seed).
func Run(rosterText string, cfg *config.Config, rng *rand.Rand) (*Report, error) {
	r, err := roster.Parse(rosterText)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(cfg.Seed)
	}

	h := history.New()
	p := newPlanner(h, cfg, rng)

	report := &Report{
		Players:    r.Players,
		Duplicates: r.Duplicates,
		Rounds:     make([]RoundResult, 0, max(cfg.MaxRounds, 0)),
	}
	for round := 1; round <= cfg.MaxRounds; round++ {
		report.Rounds = append(report.Rounds, p.plan(round, r.Players))
	}

	if cfg.PrintStats {
		report.Stats = BuildStats(r.Players, h)
	}
	return report, nil
}

// BuildStats derives per-player statistics from a history, players ordered
// by name.
func BuildStats(players []string, h *history.Store) []PlayerStats {
	names := slices.Clone(players)
	sort.Strings(names)

	stats := make([]PlayerStats, 0, len(names))
	for _, name := range names {
		ps := PlayerStats{
			Player:    name,
			Games:     h.Games(name),
			Rests:     h.Rests(name),
			Partners:  sortedCounts(h.PartnerCounts(name)),
			Opponents: sortedCounts(h.OpponentCounts(name)),
			Courts:    []CourtCount{},
		}
		for court, n := range h.CourtCounts(name) {
			ps.Courts = append(ps.Courts, CourtCount{Court: court, Count: n})
		}
		sort.Slice(ps.Courts, func(i, j int) bool {
			return ps.Courts[i].Court < ps.Courts[j].Court
		})
		stats = append(stats, ps)
	}
	return stats
}

// sortedCounts orders non-zero counts highest first, then by name.
func sortedCounts(m map[string]int) []PlayerCount {
	out := []PlayerCount{}
	for name, n := range m {
		if n > 0 {
			out = append(out, PlayerCount{Player: name, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.Compare(out[i].Player, out[j].Player) < 0
	})
	return out
}
