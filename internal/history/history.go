package history

import "fmt"

// Store holds the cumulative interaction counters for one scheduling run.
// Lookups of unseen players or pairs return zero. A Store is not safe for
// concurrent use; each run owns its own.
type Store struct {
	partners  map[pairKey]int
	opponents map[pairKey]int
	courts    map[courtKey]int
	games     map[string]int
	rests     map[string]int
}

type pairKey struct {
	a, b string
}

type courtKey struct {
	player string
	court  int
}

// normalizePair orders a pair so (a,b) and (b,a) share one counter.
func normalizePair(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

func New() *Store {
	return &Store{
		partners:  make(map[pairKey]int),
		opponents: make(map[pairKey]int),
		courts:    make(map[courtKey]int),
		games:     make(map[string]int),
		rests:     make(map[string]int),
	}
}

// RecordMatch counts one finished court assignment. It panics if a player
// appears on both teams or twice on one team.
func (s *Store) RecordMatch(teamA, teamB []string, court int) {
	seen := make(map[string]bool, len(teamA)+len(teamB))
	for _, p := range append(append([]string{}, teamA...), teamB...) {
		if seen[p] {
			panic(fmt.Sprintf("history: player %q appears twice in court %d match", p, court))
		}
		seen[p] = true
	}

	for _, team := range [][]string{teamA, teamB} {
		for i := 0; i < len(team); i++ {
			for j := i + 1; j < len(team); j++ {
				s.partners[normalizePair(team[i], team[j])]++
			}
		}
	}

	for _, a := range teamA {
		for _, b := range teamB {
			s.opponents[normalizePair(a, b)]++
		}
	}

	for p := range seen {
		s.courts[courtKey{p, court}]++
		s.games[p]++
	}
}

// RecordRest counts one rest for each player.
func (s *Store) RecordRest(players []string) {
	for _, p := range players {
		s.rests[p]++
	}
}

// Partners returns how many times a and b have been on the same team.
func (s *Store) Partners(a, b string) int {
	return s.partners[normalizePair(a, b)]
}

// Opponents returns how many times a and b have been on opposing teams.
func (s *Store) Opponents(a, b string) int {
	return s.opponents[normalizePair(a, b)]
}

// Court returns how many games p has played on the given court.
func (s *Store) Court(p string, court int) int {
	return s.courts[courtKey{p, court}]
}

func (s *Store) Games(p string) int {
	return s.games[p]
}

func (s *Store) Rests(p string) int {
	return s.rests[p]
}

// PartnerCounts returns every partner of p with a non-zero count.
func (s *Store) PartnerCounts(p string) map[string]int {
	return countsFor(s.partners, p)
}

// OpponentCounts returns every opponent of p with a non-zero count.
func (s *Store) OpponentCounts(p string) map[string]int {
	return countsFor(s.opponents, p)
}

// CourtCounts returns the number of games p played on each court.
func (s *Store) CourtCounts(p string) map[int]int {
	out := make(map[int]int)
	for k, n := range s.courts {
		if k.player == p && n > 0 {
			out[k.court] = n
		}
	}
	return out
}

func countsFor(m map[pairKey]int, p string) map[string]int {
	out := make(map[string]int)
	for k, n := range m {
		if n == 0 {
			continue
		}
		switch p {
		case k.a:
			out[k.b] = n
		case k.b:
			out[k.a] = n
		}
	}
	return out
}
