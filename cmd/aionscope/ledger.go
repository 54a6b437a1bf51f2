package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/aionscope/aionscope/pkg/surface"
)

func newLedgerCmd() *cobra.Command {
	var (
		pass      passOpts
		outputFmt string
		verbose   bool
		lang      string
	)

	cmd := &cobra.Command{
		Use:   "ledger <snapshot.json>",
		Short: "Show the per-stat contribution ledger",
		Long:  `Reconciles every stat contribution in a snapshot by source and compares the totals against the game's official summary.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLedger(cmd.OutOrStdout(), args[0], pass, outputFmt, verbose, lang)
		},
	}

	pass.register(cmd)
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-source detail lines")
	cmd.Flags().StringVar(&lang, "lang", "en", "Locale for number formatting")

	return cmd
}

func runLedger(w io.Writer, snapshotPath string, pass passOpts, outputFmt string, verbose bool, lang string) error {
	if outputFmt != "text" && outputFmt != "json" {
		return fmt.Errorf("unknown output format %q (want text or json)", outputFmt)
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("invalid --lang %q: %w", lang, err)
	}

	rep, err := runPass(snapshotPath, pass)
	if err != nil {
		return err
	}

	if outputFmt == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(rep.Ledger); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	}

	renderer := &surface.LedgerRenderer{Lang: tag, Verbose: verbose}
	if err := renderer.Render(w, rep); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	return nil
}
