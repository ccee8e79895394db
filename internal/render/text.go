package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/derekprior/doubles/internal/schedule"
)

var (
	roundDivider = strings.Repeat("-", 50)
	statsDivider = strings.Repeat("=", 50)
)

// Text writes the schedule in the plain-text layout: one block per round
// followed, when present, by the player statistics.
func Text(w io.Writer, report *schedule.Report) error {
	var b strings.Builder

	for _, r := range report.Rounds {
		fmt.Fprintf(&b, "Round %d\n", r.Round)
		fmt.Fprintf(&b, "Resting Players: %s\n", strings.Join(r.Resting, ", "))
		for _, c := range r.Courts {
			fmt.Fprintf(&b, "Court %d: %s\n", c.Court, Matchup(c))
		}
		b.WriteString(roundDivider + "\n")
	}

	if len(report.Stats) > 0 {
		writeStats(&b, report.Stats)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Matchup formats a court as "a, b vs c, d".
func Matchup(c schedule.CourtAssignment) string {
	return strings.Join(c.TeamA, ", ") + " vs " + strings.Join(c.TeamB, ", ")
}

func writeStats(b *strings.Builder, stats []schedule.PlayerStats) {
	b.WriteString("\nPlayer Statistics:\n" + statsDivider + "\n")

	for _, s := range stats {
		fmt.Fprintf(b, "\nPlayer: %s\n%s\n", s.Player, strings.Repeat("-", 20))
		fmt.Fprintf(b, "Games Played: %d\n", s.Games)
		fmt.Fprintf(b, "Times Rested: %d\n\n", s.Rests)

		b.WriteString("Partnership History:\n")
		for _, p := range s.Partners {
			fmt.Fprintf(b, "  - with %s: %d times\n", p.Player, p.Count)
		}

		b.WriteString("\nOpposition History:\n")
		for _, o := range s.Opponents {
			fmt.Fprintf(b, "  - against %s: %d times\n", o.Player, o.Count)
		}

		b.WriteString("\nCourt Distribution:\n")
		for _, c := range s.Courts {
			fmt.Fprintf(b, "  - Court %d: %d times\n", c.Court, c.Count)
		}

		b.WriteString("\n" + statsDivider + "\n")
	}
}
