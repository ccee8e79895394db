package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Weights are the coefficients of the four team scoring objectives.
type Weights struct {
	Partnership    float64 `yaml:"partnership" json:"partnership" validate:"gte=0"`
	Opposition     float64 `yaml:"opposition" json:"opposition" validate:"gte=0"`
	GameBalance    float64 `yaml:"game_balance" json:"game_balance" validate:"gte=0"`
	NewInteraction float64 `yaml:"new_interaction" json:"new_interaction" validate:"gte=0"`
}

// DefaultWeights returns the stock scoring coefficients.
func DefaultWeights() Weights {
	return Weights{
		Partnership:    2000,
		Opposition:     800,
		GameBalance:    200,
		NewInteraction: 400,
	}
}

// checkFinite rejects .inf and .nan, which would make every team score NaN.
func (w Weights) checkFinite() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"partnership", w.Partnership},
		{"opposition", w.Opposition},
		{"game_balance", w.GameBalance},
		{"new_interaction", w.NewInteraction},
	} {
		if math.IsInf(f.value, 0) || math.IsNaN(f.value) {
			return fmt.Errorf("weights.%s must be a finite number", f.name)
		}
	}
	return nil
}

type Config struct {
	// Players is the raw roster: one name per line.
	Players     string  `yaml:"players"`
	PlayersFile string  `yaml:"players_file"`
	MaxCourts   int     `yaml:"max_courts" validate:"gte=1"`
	MaxRounds   int     `yaml:"max_rounds" validate:"gte=1"`
	PrintStats  bool    `yaml:"print_stats"`
	Seed        *int64  `yaml:"seed"`
	Weights     Weights `yaml:"weights"`
}

// Default returns a Config populated with the stock settings and no roster.
func Default() *Config {
	return &Config{
		MaxCourts: 4,
		MaxRounds: 10,
		Weights:   DefaultWeights(),
	}
}

// LoadFromBytes parses YAML bytes over the defaults and validates the result.
// A players_file reference is left unresolved; see ResolvePlayers.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads and parses a YAML config file. A players_file entry is
// read relative to the directory holding the config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.ResolvePlayers(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePlayers replaces a PlayersFile reference with the file's contents.
func (c *Config) ResolvePlayers(baseDir string) error {
	if c.PlayersFile == "" {
		return nil
	}
	path := c.PlayersFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading players file: %w", err)
	}
	c.Players = string(data)
	c.PlayersFile = ""
	return nil
}

// Validate checks field ranges and the roster source. Roster size is not
// checked here; that belongs to the roster loader.
func (c *Config) Validate() error {
	if err := Check(c); err != nil {
		return err
	}
	if err := c.Weights.checkFinite(); err != nil {
		return err
	}
	if c.Players != "" && c.PlayersFile != "" {
		return fmt.Errorf("players and players_file cannot both be set")
	}
	if c.Players == "" && c.PlayersFile == "" {
		return fmt.Errorf("a roster is required: set players or players_file")
	}
	return nil
}
