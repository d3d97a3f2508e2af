package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/wildlabs/taxamatch/internal/api"
	"github.com/wildlabs/taxamatch/internal/svcctx"
)

// ProvidersResponse lists the registered LLM providers. Available reports
// whether any provider can serve assisted matching; the web form uses it
// to decide whether to show the degraded-mode banner.
type ProvidersResponse struct {
	Providers []string `json:"providers"`
	Default   string   `json:"default,omitempty"`
	Available bool     `json:"available"`
}

// ProvidersEndpoint handles GET /api/v1/providers.
type ProvidersEndpoint struct{}

func (e *ProvidersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/v1/providers", e.handler
}

func (e *ProvidersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := ProvidersResponse{Providers: []string{}}

	if registry := svcctx.RegistryFrom(r.Context()); registry != nil {
		resp.Providers = registry.List()
		resp.Default = registry.DefaultName()
		resp.Available = registry.Default() != nil
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ProvidersEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List registered LLM providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ProvidersResponse
			if err := client.Get(cmd.Context(), "/api/v1/providers", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
