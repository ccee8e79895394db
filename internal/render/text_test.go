package render

import (
	"strings"
	"testing"

	"github.com/derekprior/doubles/internal/schedule"
)

func testReport() *schedule.Report {
	return &schedule.Report{
		Players: []string{"Appa", "Jeevan", "Koti", "Madhu", "Tarun"},
		Rounds: []schedule.RoundResult{
			{
				Round:   1,
				Resting: []string{"Tarun"},
				Courts: []schedule.CourtAssignment{
					{Court: 1, TeamA: schedule.Team{"Appa", "Koti"}, TeamB: schedule.Team{"Jeevan", "Madhu"}},
				},
			},
			{
				Round:   2,
				Resting: []string{"Appa"},
				Courts: []schedule.CourtAssignment{
					{Court: 1, TeamA: schedule.Team{"Jeevan", "Tarun"}, TeamB: schedule.Team{"Koti", "Madhu"}},
				},
			},
		},
	}
}

func TestText(t *testing.T) {
	var b strings.Builder
	if err := Text(&b, testReport()); err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	out := b.String()

	t.Run("round blocks", func(t *testing.T) {
		want := "Round 1\n" +
			"Resting Players: Tarun\n" +
			"Court 1: Appa, Koti vs Jeevan, Madhu\n" +
			strings.Repeat("-", 50) + "\n" +
			"Round 2\n"
		if !strings.HasPrefix(out, want) {
			t.Errorf("output starts with:\n%s\nwant:\n%s", out[:min(len(out), len(want))], want)
		}
	})

	t.Run("no stats section unless requested", func(t *testing.T) {
		if strings.Contains(out, "Player Statistics") {
			t.Error("stats section rendered without stats")
		}
	})
}

func TestTextEmptyResting(t *testing.T) {
	r := &schedule.Report{Rounds: []schedule.RoundResult{{Round: 1, Resting: []string{}}}}
	var b strings.Builder
	if err := Text(&b, r); err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	if !strings.Contains(b.String(), "Resting Players: \n") {
		t.Errorf("output = %q, want empty resting line", b.String())
	}
}

func TestTextStats(t *testing.T) {
	r := testReport()
	r.Stats = []schedule.PlayerStats{
		{
			Player:    "Appa",
			Games:     1,
			Rests:     1,
			Partners:  []schedule.PlayerCount{{Player: "Koti", Count: 1}},
			Opponents: []schedule.PlayerCount{{Player: "Jeevan", Count: 1}, {Player: "Madhu", Count: 1}},
			Courts:    []schedule.CourtCount{{Court: 1, Count: 1}},
		},
	}

	var b strings.Builder
	if err := Text(&b, r); err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		"Player Statistics:",
		"Player: Appa",
		"Games Played: 1",
		"Times Rested: 1",
		"  - with Koti: 1 times",
		"  - against Jeevan: 1 times\n  - against Madhu: 1 times",
		"  - Court 1: 1 times",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMatchup(t *testing.T) {
	c := schedule.CourtAssignment{Court: 2, TeamA: schedule.Team{"A", "B"}, TeamB: schedule.Team{"C", "D"}}
	if got := Matchup(c); got != "A, B vs C, D" {
		t.Errorf("Matchup = %q, want %q", got, "A, B vs C, D")
	}
}
