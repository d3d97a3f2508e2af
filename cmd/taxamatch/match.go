package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildlabs/taxamatch/internal/api"
	"github.com/wildlabs/taxamatch/internal/config"
	"github.com/wildlabs/taxamatch/internal/home"
	"github.com/wildlabs/taxamatch/internal/match"
	"github.com/wildlabs/taxamatch/internal/providers"
	"github.com/wildlabs/taxamatch/internal/taxonomy"
)

var (
	matchFile     string
	matchLocation string
	matchAPIKey   string
	matchTaxonomy string
	matchVerbose  bool
)

var matchCmd = &cobra.Command{
	Use:   "match [input]",
	Short: "Match species names locally, without a running server",
	Long: `Match species names against the reference taxonomy using a local
engine instance.

Input is read from the argument, from --file, or from stdin. Lines are
separated by newlines; in the argument form, semicolons also separate
lines. Each line may contain a latin name, a common name, or both
separated by a comma.

Examples:
  taxamatch match "Ursus arctos, Brown Bear; silvertip"
  taxamatch match --file observations.txt --location "Yukon, Canada"
  cat observations.txt | taxamatch match -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readLocalInput(args)
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get()

		taxonomyPath := matchTaxonomy
		if taxonomyPath == "" {
			taxonomyPath = cfg.Taxonomy.Path
		}
		if taxonomyPath == "" {
			h, err := home.New(homeDir)
			if err != nil {
				return err
			}
			taxonomyPath = h.TaxonomyPath()
		}

		store, err := taxonomy.NewStore(taxonomyPath, logger)
		if err != nil {
			return err
		}

		registry := providers.NewRegistry()
		registry.SetLogger(logger)
		registry.Reload(cfg.ToProviderRegistryConfig())
		if name := cfg.Defaults.LLMProvider; name != "" {
			if _, err := registry.Get(name); err == nil {
				registry.SetDefault(name)
			}
		}

		engine := match.NewEngine(store, registry, logger)
		if !engine.Available() && matchAPIKey == "" {
			fmt.Fprintln(os.Stderr, "warning: no LLM provider configured, only exact matches will resolve")
		}

		results := engine.Process(cmd.Context(), input, matchLocation, matchAPIKey)

		if matchVerbose {
			fmt.Print(verboseReport(store.Index(), results))
		}
		if rootCmd.PersistentFlags().Changed("output") {
			return api.Output(results)
		}
		fmt.Println(renderMatchTable(results))
		return nil
	},
}

// readLocalInput resolves input from the positional argument, --file, or
// stdin. Semicolons in the argument form separate lines.
func readLocalInput(args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return strings.ReplaceAll(args[0], ";", "\n"), nil
	}
	if matchFile != "" {
		data, err := os.ReadFile(matchFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no input provided (argument, --file, or stdin)")
	}
	return string(data), nil
}

// verboseReport explains each line's outcome: the parsed originals, the
// match (or lack of one), and for unresolved lines a per-part lookup
// diagnosis against the reference index.
func verboseReport(ix *taxonomy.Index, results []*match.Result) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "Line %d: %q\n", i+1, r.RawInput)
		fmt.Fprintf(&b, "  Original latin:  %q\n", r.OriginalLatin)
		fmt.Fprintf(&b, "  Original common: %q\n", r.OriginalCommon)
		switch {
		case r.MatchLevel == taxonomy.LevelAmbiguous:
			b.WriteString("  Ambiguous: the same coarse match was claimed by another line\n")
		case r.Resolved() && r.MatchLevel == "":
			fmt.Fprintf(&b, "  Exact match: %s (%s)\n", r.Latin, r.Common)
		case r.Resolved():
			fmt.Fprintf(&b, "  Model-assisted match at %s: %s (%s)\n", r.MatchLevel, r.Latin, r.Common)
		default:
			b.WriteString("  No match\n")
			for _, part := range strings.Split(r.RawInput, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if e := ix.LookupLatin(part); e != nil {
					fmt.Fprintf(&b, "    %q found as latin: %s (%s)\n", part, e.Latin, e.Common)
				} else if e := ix.LookupCommon(part); e != nil {
					fmt.Fprintf(&b, "    %q found as common: %s (%s)\n", part, e.Latin, e.Common)
				} else {
					fmt.Fprintf(&b, "    %q not in reference table\n", part)
				}
			}
		}
	}
	return b.String()
}

func renderMatchTable(results []*match.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.RawInput,
			r.Latin,
			r.Common,
			string(r.MatchLevel),
		})
	}
	return renderTable(
		[]string{"Input", "Latin", "Common", "Level"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func init() {
	matchCmd.Flags().StringVarP(&matchFile, "file", "f", "", "Read input lines from file")
	matchCmd.Flags().StringVar(&matchLocation, "location", "", "Location hint for ambiguous names")
	matchCmd.Flags().StringVar(&matchAPIKey, "api-key", "", "Model API key for this run")
	matchCmd.Flags().StringVar(&matchTaxonomy, "taxonomy", "", "Reference table path (default from config)")
	matchCmd.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Explain each line's match outcome")

	rootCmd.AddCommand(matchCmd)
}
