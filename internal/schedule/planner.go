package schedule

import (
	"log/slog"
	"math"
	"math/rand"
	"slices"
	"sort"

	"github.com/derekprior/doubles/internal/config"
	"github.com/derekprior/doubles/internal/history"
	"github.com/derekprior/doubles/internal/scoring"
)

const (
	playersPerCourt = 4

	// Each court draws courtTrials random groups of players and tries
	// splitTrials team splits of each group.
	courtTrials = 50
	splitTrials = 20
)

// Team is one side of a court, names sorted.
type Team []string

// CourtAssignment is one match in a round.
type CourtAssignment struct {
	Court int  `json:"court"`
	TeamA Team `json:"team_a"`
	TeamB Team `json:"team_b"`
}

// Players returns everyone on the court.
func (c CourtAssignment) Players() []string {
	return append(append([]string{}, c.TeamA...), c.TeamB...)
}

// RoundResult is the outcome of planning a single round.
type RoundResult struct {
	Round   int               `json:"round"`
	Resting []string          `json:"resting"`
	Courts  []CourtAssignment `json:"courts"`
}

type planner struct {
	history   *history.Store
	weights   config.Weights
	maxCourts int
	rng       *rand.Rand
}

// PlanRound picks who rests and builds the court assignments for one round.
// The history is updated as each court is settled, so later courts in the
// same round see earlier courts' matches.
func PlanRound(round int, available []string, h *history.Store, cfg *config.Config, rng *rand.Rand) RoundResult {
	return newPlanner(h, cfg, rng).plan(round, available)
}

func newPlanner(h *history.Store, cfg *config.Config, rng *rand.Rand) *planner {
	return &planner{
		history:   h,
		weights:   cfg.Weights,
		maxCourts: max(cfg.MaxCourts, 0),
		rng:       rng,
	}
}

func (p *planner) plan(round int, available []string) RoundResult {
	numCourts := min(len(available)/playersPerCourt, p.maxCourts)
	needed := numCourts * playersPerCourt

	playing := slices.Clone(available)
	var resting []string
	if len(available) > needed {
		playing, resting = p.pickResting(available, len(available)-needed)
		p.history.RecordRest(resting)
	}

	result := RoundResult{
		Round:   round,
		Resting: slices.Clone(resting),
		Courts:  []CourtAssignment{},
	}
	if result.Resting == nil {
		result.Resting = []string{}
	}
	sort.Strings(result.Resting)

	remaining := playing
	for court := 1; court <= numCourts; court++ {
		teamA, teamB := p.bestTeams(remaining, len(playing)/numCourts)
		p.history.RecordMatch(teamA, teamB, court)

		assigned := make(map[string]bool, len(teamA)+len(teamB))
		for _, name := range teamA {
			assigned[name] = true
		}
		for _, name := range teamB {
			assigned[name] = true
		}
		remaining = slices.DeleteFunc(slices.Clone(remaining), func(name string) bool {
			return assigned[name]
		})

		result.Courts = append(result.Courts, CourtAssignment{
			Court: court,
			TeamA: sortedTeam(teamA),
			TeamB: sortedTeam(teamB),
		})
	}

	slog.Debug("planned round", "round", round, "courts", numCourts, "resting", len(resting))
	return result
}

// pickResting orders players by how often they have rested, fewest first,
// with ties broken at random, and rests the first n of them.
func (p *planner) pickResting(available []string, n int) (playing, resting []string) {
	order := shuffled(available, p.rng)
	sort.SliceStable(order, func(i, j int) bool {
		return p.history.Rests(order[i]) < p.history.Rests(order[j])
	})
	return order[n:], order[:n]
}

// bestTeams samples team splits from pool and returns the highest scoring
// one. On equal scores the earliest candidate wins.
func (p *planner) bestTeams(pool []string, size int) (teamA, teamB []string) {
	bestScore := math.Inf(-1)
	for c := 0; c < courtTrials; c++ {
		group := shuffled(pool, p.rng)[:size]
		for s := 0; s < splitTrials; s++ {
			group = shuffled(group, p.rng)
			a, b := group[:size/2], group[size/2:]
			score := scoring.Score(a, b, p.history, p.weights)
			if score > bestScore {
				bestScore = score
				teamA, teamB = a, b
			}
		}
	}
	return teamA, teamB
}

// shuffled returns a randomly permuted copy of players.
func shuffled(players []string, rng *rand.Rand) []string {
	out := slices.Clone(players)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func sortedTeam(players []string) Team {
	t := Team(slices.Clone(players))
	sort.Strings(t)
	return t
}
