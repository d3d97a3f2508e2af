package main

import (
	"github.com/spf13/cobra"

	"github.com/wildlabs/taxamatch/internal/api"
	"github.com/wildlabs/taxamatch/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "taxamatch",
	Short: "Match free-form species names against a reference taxonomy",
	Long: `Taxamatch resolves free-form species observations (latin names, common
names, or both) against a reference taxonomy table.

Lines that match the reference table exactly resolve immediately. The
rest are sent to an LLM in a single batch, and the model's candidate
hierarchies are re-verified against the table before being accepted.
Coarse matches claimed by more than one line in a batch are retracted
as ambiguous.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.taxamatch/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "taxamatch home directory (default: ~/.taxamatch)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
