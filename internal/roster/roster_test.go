package roster

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	r, err := Parse("  Appa \nJeevan\n\nKoti\n\t\nMadhu\nJeevan\nMurali\nJeevan\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("trims and skips blanks", func(t *testing.T) {
		want := []string{"Appa", "Jeevan", "Koti", "Madhu", "Murali"}
		if len(r.Players) != len(want) {
			t.Fatalf("players = %v, want %v", r.Players, want)
		}
		for i := range want {
			if r.Players[i] != want[i] {
				t.Errorf("player %d = %q, want %q", i, r.Players[i], want[i])
			}
		}
	})

	t.Run("reports each duplicate once", func(t *testing.T) {
		if len(r.Duplicates) != 1 || r.Duplicates[0] != "Jeevan" {
			t.Errorf("duplicates = %v, want [Jeevan]", r.Duplicates)
		}
	})
}

func TestParseTooFewPlayers(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"three players", "A\nB\nC"},
		{"four lines three unique", "A\nB\nC\n B "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, ErrTooFewPlayers) {
				t.Errorf("error = %v, want ErrTooFewPlayers", err)
			}
		})
	}
}

func TestParseExactlyFour(t *testing.T) {
	r, err := Parse(FromNames([]string{"A", "B", "C", "D"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Players) != 4 {
		t.Errorf("players = %d, want 4", len(r.Players))
	}
	if len(r.Duplicates) != 0 {
		t.Errorf("duplicates = %v, want none", r.Duplicates)
	}
}
