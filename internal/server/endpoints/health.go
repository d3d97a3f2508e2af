package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/wildlabs/taxamatch/internal/api"
	"github.com/wildlabs/taxamatch/internal/svcctx"
	"github.com/wildlabs/taxamatch/version"
)

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string          `json:"server"`
	Version   string          `json:"version"`
	Taxonomy  TaxonomyStatus  `json:"taxonomy"`
	Providers ProvidersStatus `json:"providers"`
}

// TaxonomyStatus shows the loaded reference table.
type TaxonomyStatus struct {
	Path          string `json:"path"`
	LatinEntries  int    `json:"latin_entries"`
	CommonEntries int    `json:"common_entries"`
}

// ProvidersStatus shows the registered LLM providers.
type ProvidersStatus struct {
	LLM     []string `json:"llm"`
	Default string   `json:"default,omitempty"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server:  "running",
		Version: version.GitRelease,
	}

	if store := svcctx.TaxonomyFrom(r.Context()); store != nil {
		ix := store.Index()
		resp.Taxonomy = TaxonomyStatus{
			Path:          store.Path(),
			LatinEntries:  ix.Len(),
			CommonEntries: ix.CommonLen(),
		}
	}

	if registry := svcctx.RegistryFrom(r.Context()); registry != nil {
		resp.Providers.LLM = registry.List()
		resp.Providers.Default = registry.DefaultName()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server:  %s\n", resp.Server)
			fmt.Printf("Version: %s\n", resp.Version)
			fmt.Printf("Taxonomy:\n")
			fmt.Printf("  Path:           %s\n", resp.Taxonomy.Path)
			fmt.Printf("  Latin entries:  %d\n", resp.Taxonomy.LatinEntries)
			fmt.Printf("  Common entries: %d\n", resp.Taxonomy.CommonEntries)
			fmt.Printf("Providers:\n")
			fmt.Printf("  LLM:     %v\n", resp.Providers.LLM)
			fmt.Printf("  Default: %s\n", resp.Providers.Default)
			return nil
		},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
