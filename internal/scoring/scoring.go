package scoring

import (
	"math"

	"github.com/derekprior/doubles/internal/config"
)

// History is the read side of the interaction counters a score depends on.
type History interface {
	Partners(a, b string) int
	Opponents(a, b string) int
	Games(p string) int
}

// Score rates a proposed match between teamA and teamB; higher is better.
// It is a pure function of its inputs.
func Score(teamA, teamB []string, h History, w config.Weights) float64 {
	score := 0.0

	// Repeat partnerships
	for _, team := range [][]string{teamA, teamB} {
		for i := 0; i < len(team); i++ {
			for j := i + 1; j < len(team); j++ {
				score -= w.Partnership * float64(h.Partners(team[i], team[j]))
			}
		}
	}

	// Repeat oppositions, and a bonus for players who have never faced each
	// other. Partner history does not count toward the bonus.
	for _, a := range teamA {
		for _, b := range teamB {
			n := h.Opponents(a, b)
			score -= w.Opposition * float64(n)
			if n == 0 {
				score += w.NewInteraction
			}
		}
	}

	// Keep experience levels close across the net
	gamesA, gamesB := 0, 0
	for _, p := range teamA {
		gamesA += h.Games(p)
	}
	for _, p := range teamB {
		gamesB += h.Games(p)
	}
	score -= w.GameBalance * math.Abs(float64(gamesA-gamesB))

	return score
}
