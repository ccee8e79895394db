package roster

import (
	"errors"
	"fmt"
	"strings"
)

// MinPlayers is the smallest roster that can fill one doubles court.
const MinPlayers = 4

// ErrTooFewPlayers is returned when a roster cannot fill a single court.
var ErrTooFewPlayers = errors.New("need at least 4 players to create games")

// Roster is the deduplicated player list in order of first appearance.
type Roster struct {
	Players []string
	// Duplicates lists names that appeared more than once, in the order
	// their second occurrence was seen.
	Duplicates []string
}

// Parse splits newline-separated roster text into unique, trimmed player
// names. Blank lines are skipped. Fewer than MinPlayers unique names is an
// error wrapping ErrTooFewPlayers; the partial Roster is still returned so
// callers can report duplicates.
func Parse(text string) (*Roster, error) {
	r := &Roster{}
	seen := make(map[string]int)
	for _, line := range strings.Split(text, "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		seen[name]++
		switch seen[name] {
		case 1:
			r.Players = append(r.Players, name)
		case 2:
			r.Duplicates = append(r.Duplicates, name)
		}
	}

	if len(r.Players) < MinPlayers {
		return r, fmt.Errorf("%w (got %d)", ErrTooFewPlayers, len(r.Players))
	}
	return r, nil
}

// FromNames builds roster text from a list of names.
func FromNames(names []string) string {
	return strings.Join(names, "\n")
}
