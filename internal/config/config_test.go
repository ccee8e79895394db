package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caarlos0/env/v11"
)

const testConfigYAML = `
players: |
  Appa
  Jeevan
  Koti
  Madhu
  Murali

max_courts: 2
max_rounds: 6
print_stats: true
seed: 7

weights:
  partnership: 1500
  opposition: 600
  game_balance: 100
  new_interaction: 300
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("roster text", func(t *testing.T) {
		lines := strings.Split(strings.TrimSpace(cfg.Players), "\n")
		if len(lines) != 5 {
			t.Fatalf("players = %d, want 5", len(lines))
		}
		if lines[0] != "Appa" {
			t.Errorf("first player = %q, want %q", lines[0], "Appa")
		}
	})

	t.Run("courts and rounds", func(t *testing.T) {
		if cfg.MaxCourts != 2 {
			t.Errorf("max courts = %d, want 2", cfg.MaxCourts)
		}
		if cfg.MaxRounds != 6 {
			t.Errorf("max rounds = %d, want 6", cfg.MaxRounds)
		}
		if !cfg.PrintStats {
			t.Error("print stats = false, want true")
		}
	})

	t.Run("seed", func(t *testing.T) {
		if cfg.Seed == nil || *cfg.Seed != 7 {
			t.Errorf("seed = %v, want 7", cfg.Seed)
		}
	})

	t.Run("weights", func(t *testing.T) {
		want := Weights{Partnership: 1500, Opposition: 600, GameBalance: 100, NewInteraction: 300}
		if cfg.Weights != want {
			t.Errorf("weights = %+v, want %+v", cfg.Weights, want)
		}
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("players: |\n  A\n  B\n  C\n  D\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxCourts != 4 {
		t.Errorf("max courts = %d, want 4", cfg.MaxCourts)
	}
	if cfg.MaxRounds != 10 {
		t.Errorf("max rounds = %d, want 10", cfg.MaxRounds)
	}
	if cfg.PrintStats {
		t.Error("print stats = true, want false")
	}
	if cfg.Seed != nil {
		t.Errorf("seed = %d, want unset", *cfg.Seed)
	}
	if cfg.Weights != DefaultWeights() {
		t.Errorf("weights = %+v, want defaults", cfg.Weights)
	}
}

func TestLoadConfigPartialWeights(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("players: A\nweights:\n  opposition: 50\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Weights.Opposition != 50 {
		t.Errorf("opposition = %v, want 50", cfg.Weights.Opposition)
	}
	if cfg.Weights.Partnership != 2000 {
		t.Errorf("partnership = %v, want default 2000", cfg.Weights.Partnership)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "zero courts",
			yaml:    "players: A\nmax_courts: 0\n",
			wantErr: "max_courts",
		},
		{
			name:    "negative rounds",
			yaml:    "players: A\nmax_rounds: -2\n",
			wantErr: "max_rounds",
		},
		{
			name:    "negative weight",
			yaml:    "players: A\nweights:\n  game_balance: -1\n",
			wantErr: "game_balance",
		},
		{
			name:    "infinite weight",
			yaml:    "players: A\nweights:\n  partnership: .inf\n",
			wantErr: "weights.partnership must be a finite number",
		},
		{
			name:    "no roster",
			yaml:    "max_courts: 2\n",
			wantErr: "roster is required",
		},
		{
			name:    "both roster sources",
			yaml:    "players: A\nplayers_file: roster.txt\n",
			wantErr: "cannot both be set",
		},
		{
			name:    "malformed yaml",
			yaml:    "players: [A\n",
			wantErr: "parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFileResolvesPlayersFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "roster.txt"), []byte("Raghu R\nTarun\nSreeni\nVijay\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "doubles.yaml")
	if err := os.WriteFile(cfgPath, []byte("players_file: roster.txt\nmax_rounds: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(cfg.Players, "Raghu R") {
		t.Errorf("players = %q, want roster file contents", cfg.Players)
	}
	if cfg.PlayersFile != "" {
		t.Errorf("players file = %q, want cleared after resolving", cfg.PlayersFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("resolved config no longer validates: %v", err)
	}
}

func TestLoadFromFileMissingPlayersFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "doubles.yaml")
	if err := os.WriteFile(cfgPath, []byte("players_file: nope.txt\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFromFile(cfgPath)
	if err == nil || !strings.Contains(err.Error(), "reading players file") {
		t.Errorf("error = %v, want players file read error", err)
	}
}

func TestLoadServer(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := loadServer(env.Options{Prefix: envPrefix, Environment: map[string]string{}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "3000" {
			t.Errorf("port = %q, want 3000", cfg.Port)
		}
		if cfg.MaxRounds != 100 {
			t.Errorf("max rounds = %d, want 100", cfg.MaxRounds)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := loadServer(env.Options{Prefix: envPrefix, Environment: map[string]string{
			"DOUBLES_PORT":        "8080",
			"DOUBLES_MAX_PLAYERS": "40",
		}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("port = %q, want 8080", cfg.Port)
		}
		if cfg.MaxPlayers != 40 {
			t.Errorf("max players = %d, want 40", cfg.MaxPlayers)
		}
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := loadServer(env.Options{Prefix: envPrefix, Environment: map[string]string{
			"DOUBLES_READ_TIMEOUT": "soon",
		}})
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("too few players allowed", func(t *testing.T) {
		_, err := loadServer(env.Options{Prefix: envPrefix, Environment: map[string]string{
			"DOUBLES_MAX_PLAYERS": "3",
		}})
		if err == nil || !strings.Contains(err.Error(), "MAX_PLAYERS") {
			t.Errorf("error = %v, want MAX_PLAYERS error", err)
		}
	})
}

func TestServerEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "DOUBLES_PORT=9000\nDOUBLES_MAX_ROUNDS=30\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("file fills unset variables", func(t *testing.T) {
		vars, err := serverEnvironment(path, []string{"DOUBLES_PORT=8080"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg, err := loadServer(env.Options{Prefix: envPrefix, Environment: vars})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("port = %q, want 8080 (process env wins)", cfg.Port)
		}
		if cfg.MaxRounds != 30 {
			t.Errorf("max rounds = %d, want 30 from file", cfg.MaxRounds)
		}
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		vars, err := serverEnvironment(filepath.Join(dir, "nope.env"), []string{"DOUBLES_PORT=8080"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if vars["DOUBLES_PORT"] != "8080" {
			t.Errorf("DOUBLES_PORT = %q, want 8080", vars["DOUBLES_PORT"])
		}
	})
}
