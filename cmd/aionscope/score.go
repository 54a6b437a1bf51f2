package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aionscope/aionscope/pkg/config"
	"github.com/aionscope/aionscope/pkg/report"
	"github.com/aionscope/aionscope/pkg/surface"
)

func newScoreCmd() *cobra.Command {
	var (
		pass      passOpts
		outputFmt string
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "score <snapshot.json>",
		Short: "Score a character snapshot",
		Long:  `Builds the stat ledger and the composite score for a snapshot, then renders the score with improvement suggestions.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.OutOrStdout(), args[0], pass, outputFmt, save)
		},
	}

	pass.register(cmd)
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, json, markdown or ledger")
	cmd.Flags().BoolVar(&save, "save", false, "Save the report to the character's score cache directory")

	return cmd
}

func runScore(w io.Writer, snapshotPath string, pass passOpts, outputFmt string, save bool) error {
	renderer, err := surface.ForFormat(outputFmt)
	if err != nil {
		return err
	}

	rep, err := runPass(snapshotPath, pass)
	if err != nil {
		return err
	}

	if save {
		saveReport(rep)
	}

	if err := renderer.Render(w, rep); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	return nil
}

// saveReport persists a report to the score cache directory.
func saveReport(rep *report.Report) {
	scoreDir := config.ScoreDir(rep.Profile.ServerID, rep.Profile.Name)
	if err := os.MkdirAll(scoreDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create score dir: %v\n", err)
		return
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to marshal report: %v\n", err)
		return
	}

	path := filepath.Join(scoreDir, rep.GeneratedAt.Format("20060102T150405Z")+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save report: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Report saved: %s\n", path)
}
