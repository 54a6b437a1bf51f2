// Package config handles loading and managing aionscope configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/ledger"
	"github.com/aionscope/aionscope/pkg/scoring"
)

// Config is the top-level configuration for aionscope. Every reference table
// and scoring constant can be overridden; anything left out keeps its
// built-in default.
type Config struct {
	Ledger  ledger.Tables  `yaml:"ledger"`
	Scoring scoring.Tables `yaml:"scoring"`
	Toggles ToggleDefaults `yaml:"toggles"`
}

// ToggleDefaults are the toggles applied when the caller sets none.
type ToggleDefaults struct {
	ExcludeBoardBonuses bool     `yaml:"exclude_board_bonuses"`
	Presets             []string `yaml:"presets"`
}

// Toggles converts the defaults into a toggles value.
func (d ToggleDefaults) Toggles() character.Toggles {
	return character.Toggles{
		ExcludeBoardBonuses: d.ExcludeBoardBonuses,
		Presets:             append([]string(nil), d.Presets...),
	}
}

// DefaultConfig returns a Config with the built-in tables.
func DefaultConfig() *Config {
	return &Config{
		Ledger:  ledger.DefaultTables(),
		Scoring: scoring.Defaults(),
	}
}

// Load reads a config file from the given path and layers it over the
// defaults. If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects tables the engine cannot score with.
func (c *Config) Validate() error {
	s := c.Scoring
	if len(s.Tiers) == 0 {
		return fmt.Errorf("scoring.tiers is empty")
	}
	for name, v := range map[string]float64{
		"rarity_max":    s.RarityMax,
		"board_max":     s.BoardMax,
		"companion_max": s.CompanionMax,
		"ability_max":   s.AbilityMax,
		"title_max":     s.TitleMax,
	} {
		if v < 0 {
			return fmt.Errorf("scoring.%s is negative", name)
		}
	}
	if sum := s.RarityMax + s.BoardMax + s.CompanionMax + s.AbilityMax + s.TitleMax; sum > 100 {
		return fmt.Errorf("dimension maxima sum to %.1f, above 100", sum)
	}
	for i := 1; i < len(s.Grades); i++ {
		if s.Grades[i].Min >= s.Grades[i-1].Min {
			return fmt.Errorf("scoring.grades must be ordered highest first (%s before %s)", s.Grades[i-1].Grade, s.Grades[i].Grade)
		}
	}
	if c.Ledger.UnitGuard < 0 {
		return fmt.Errorf("ledger.unit_guard is negative")
	}
	return nil
}

// FindConfigFile looks for .aionscope/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".aionscope", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the cache directory for one character.
// Uses ~/.cache/aionscope/<server>_<character>/.
func CacheDir(serverID, characterName string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "aionscope", characterSlug(serverID, characterName))
}

// SnapshotDir returns the snapshot storage directory for a character.
func SnapshotDir(serverID, characterName string) string {
	return filepath.Join(CacheDir(serverID, characterName), "snapshots")
}

// ScoreDir returns the report storage directory for a character.
func ScoreDir(serverID, characterName string) string {
	return filepath.Join(CacheDir(serverID, characterName), "scores")
}

// characterSlug creates a filesystem-safe identifier for a character.
func characterSlug(serverID, characterName string) string {
	clean := func(s string) string {
		s = strings.TrimSpace(s)
		if s == "" {
			return "unknown"
		}
		return strings.Map(func(r rune) rune {
			switch r {
			case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
				return '-'
			}
			return r
		}, s)
	}
	return clean(serverID) + "_" + clean(characterName)
}
