package endpoints

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildlabs/taxamatch/internal/api"
	"github.com/wildlabs/taxamatch/internal/svcctx"
)

// csvHeader is the fixed column order of the CSV export. It is emitted
// even when no line resolves.
var csvHeader = []string{"latin", "common", "original_latin", "original_common"}

// MatchCSVEndpoint handles POST /api/v1/match.csv. It runs the same
// pipeline as the JSON endpoint but replies with a downloadable CSV.
type MatchCSVEndpoint struct{}

func (e *MatchCSVEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/v1/match.csv", e.handler
}

func (e *MatchCSVEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	engine := svcctx.EngineFrom(r.Context())
	if engine == nil {
		writeError(w, http.StatusServiceUnavailable, "match engine not initialized")
		return
	}

	var req MatchRequest
	switch {
	case strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"):
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	default:
		// The embedded web form posts as application/x-www-form-urlencoded.
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body: "+err.Error())
			return
		}
		req.InputText = r.FormValue("input_text")
		req.Location = r.FormValue("location")
		req.APIKey = r.FormValue("api_key")
	}

	if strings.TrimSpace(req.InputText) == "" {
		writeError(w, http.StatusBadRequest, "input_text is required")
		return
	}

	results := engine.Process(r.Context(), req.InputText, req.Location, req.APIKey)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="matched_species.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write(csvHeader)
	for _, res := range results {
		cw.Write([]string{res.Latin, res.Common, res.OriginalLatin, res.OriginalCommon})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
			logger.Error("csv write failed", "error", err)
		}
	}
}

func (e *MatchCSVEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		inputFile  string
		location   string
		apiKey     string
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "match-csv [input]",
		Short: "Match species names and export the results as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readMatchInput(args, inputFile)
			if err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			req := MatchRequest{InputText: input, Location: location, APIKey: apiKey}
			body, err := client.PostRaw(cmd.Context(), "/api/v1/match.csv", req)
			if err != nil {
				return err
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, body, 0o644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				fmt.Printf("Wrote %s\n", outputFile)
				return nil
			}
			fmt.Print(string(body))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read input lines from file")
	cmd.Flags().StringVar(&location, "location", "", "Location hint for ambiguous names")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Override the server's model API key")
	cmd.Flags().StringVarP(&outputFile, "output-file", "O", "", "Write CSV to file instead of stdout")

	return cmd
}
