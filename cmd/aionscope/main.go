// Package main provides the aionscope CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "aionscope",
		Short: "Explainable capability scoring for game characters",
		Long: `Aionscope reads a character snapshot, reconciles its stat contributions
into a ledger, and scores the character across five progression dimensions.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newLedgerCmd(),
		newAdaptCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
