package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aionscope/aionscope/pkg/character"
	"github.com/aionscope/aionscope/pkg/config"
)

func newAdaptCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "adapt <legacy.json>",
		Short: "Convert a legacy snapshot into the canonical schema",
		Long: `Reads a snapshot in one of the older upstream shapes and writes it in the
canonical schema. Without --output the result goes to the character's snapshot
cache directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := runAdapt(args[0], outputPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Snapshot written: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: snapshot cache directory)")

	return cmd
}

// runAdapt converts the input and returns the path written.
func runAdapt(inputPath, outputPath string) (string, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("reading snapshot: %w", err)
	}
	if character.IsCanonical(data) {
		fmt.Fprintf(os.Stderr, "Note: %s is already canonical\n", inputPath)
	}
	snap, err := character.Decode(data)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(os.Stderr, "Adapted %s: %d items, %d boards, %d abilities\n",
		firstNonEmpty(snap.Profile.Name, snap.Profile.ID, "unknown"),
		len(snap.EquippedItems), len(snap.BoardProgress), len(snap.Abilities))

	if outputPath == "" {
		dir := config.SnapshotDir(snap.Profile.ServerID, snap.Profile.Name)
		outputPath = filepath.Join(dir, time.Now().UTC().Format("20060102T150405Z")+".json")
	}
	if err := character.SaveSnapshot(outputPath, snap); err != nil {
		return "", err
	}
	return outputPath, nil
}
