package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/config"
	"github.com/aionscope/aionscope/pkg/report"
)

// passOpts are the flags shared by every command that runs a scoring pass.
type passOpts struct {
	configPath    string
	excludeBoards bool
	presets       []string
}

func (o *passOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configPath, "config", "", "Path to config file (default: discover .aionscope/config.yaml)")
	cmd.Flags().BoolVar(&o.excludeBoards, "exclude-boards", false, "Exclude faction-board bonuses from totals and scoring")
	cmd.Flags().StringSliceVar(&o.presets, "preset", nil, "Buff preset to inject (repeatable)")
}

// loadConfig reads an explicit config file, or discovers one upward from the
// working directory. A discovered file that fails to load falls back to
// defaults with a warning; an explicit one is an error.
func loadConfig(explicit string) (*config.Config, error) {
	if explicit != "" {
		cfg, err := config.Load(explicit)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig(), nil
	}
	cfgFile := config.FindConfigFile(wd)
	if cfgFile == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

// mergeToggles layers command-line toggles over the configured defaults.
// Board exclusion is on if either side turns it on; presets are the union.
func mergeToggles(defaults character.Toggles, excludeBoards bool, presets []string) character.Toggles {
	t := character.Toggles{ExcludeBoardBonuses: defaults.ExcludeBoardBonuses || excludeBoards}
	seen := make(map[string]bool)
	for _, p := range append(append([]string{}, defaults.Presets...), presets...) {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		t.Presets = append(t.Presets, p)
	}
	return t
}

// runPass loads the snapshot and config and produces a report.
func runPass(snapshotPath string, opts passOpts) (*report.Report, error) {
	snap, err := character.LoadSnapshot(snapshotPath)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	toggles := mergeToggles(cfg.Toggles.Toggles(), opts.excludeBoards, opts.presets)
	fmt.Fprintf(os.Stderr, "Scoring %s (Lv%d %s)...\n", firstNonEmpty(snap.Profile.Name, snap.Profile.ID, "unknown"), snap.Profile.Level, snap.Profile.Class)

	gen := report.NewGenerator(cfg.Ledger, cfg.Scoring)
	return gen.Generate(snap, toggles)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
