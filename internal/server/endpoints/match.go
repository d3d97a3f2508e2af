package endpoints

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wildlabs/taxamatch/internal/api"
	"github.com/wildlabs/taxamatch/internal/match"
	"github.com/wildlabs/taxamatch/internal/svcctx"
)

// MatchRequest is the request body for the match endpoints.
type MatchRequest struct {
	// InputText holds newline-separated observation lines, each either a
	// latin name, a common name, or both separated by a comma.
	InputText string `json:"input_text"`
	// Location is an optional free-text hint (e.g. "Yukon, Canada") passed
	// to the model to bias candidate selection.
	Location string `json:"location,omitempty"`
	// APIKey optionally overrides the server's configured model credential
	// for this request only.
	APIKey string `json:"api_key,omitempty"`
}

// MatchResponse is the JSON response for POST /api/v1/match.
type MatchResponse struct {
	Results []*match.Result `json:"results"`
	Count   int             `json:"count"`
}

// MatchEndpoint handles POST /api/v1/match.
type MatchEndpoint struct{}

func (e *MatchEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/v1/match", e.handler
}

func (e *MatchEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	engine := svcctx.EngineFrom(r.Context())
	if engine == nil {
		writeError(w, http.StatusServiceUnavailable, "match engine not initialized")
		return
	}

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.InputText) == "" {
		writeError(w, http.StatusBadRequest, "input_text is required")
		return
	}

	results := engine.Process(r.Context(), req.InputText, req.Location, req.APIKey)
	writeJSON(w, http.StatusOK, MatchResponse{Results: results, Count: len(results)})
}

func (e *MatchEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		inputFile string
		location  string
		apiKey    string
	)

	cmd := &cobra.Command{
		Use:   "match [input]",
		Short: "Match species names against the reference taxonomy",
		Long: `Match newline-separated species names against the reference taxonomy.

Input is read from the argument, or from --file, or from stdin.
Each line may contain a latin name, a common name, or both separated
by a comma.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readMatchInput(args, inputFile)
			if err != nil {
				return err
			}

			client := api.NewClient(getServerURL())
			var resp MatchResponse
			req := MatchRequest{InputText: input, Location: location, APIKey: apiKey}
			if err := client.Post(cmd.Context(), "/api/v1/match", req, &resp); err != nil {
				return err
			}
			return api.Output(resp.Results)
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read input lines from file")
	cmd.Flags().StringVar(&location, "location", "", "Location hint for ambiguous names")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Override the server's model API key")

	return cmd
}

// readMatchInput resolves the input text from the positional argument, an
// input file, or stdin, in that order.
func readMatchInput(args []string, inputFile string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
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
