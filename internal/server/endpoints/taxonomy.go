package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/wildlabs/taxamatch/internal/api"
	"github.com/wildlabs/taxamatch/internal/svcctx"
)

// TaxonomyStatsResponse reports the size of the loaded reference index.
type TaxonomyStatsResponse struct {
	Path          string `json:"path"`
	LatinEntries  int    `json:"latin_entries"`
	CommonEntries int    `json:"common_entries"`
}

// TaxonomyStatsEndpoint handles GET /api/v1/taxonomy/stats.
type TaxonomyStatsEndpoint struct{}

func (e *TaxonomyStatsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/v1/taxonomy/stats", e.handler
}

func (e *TaxonomyStatsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.TaxonomyFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "taxonomy not initialized")
		return
	}

	ix := store.Index()
	writeJSON(w, http.StatusOK, TaxonomyStatsResponse{
		Path:          store.Path(),
		LatinEntries:  ix.Len(),
		CommonEntries: ix.CommonLen(),
	})
}

func (e *TaxonomyStatsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy-stats",
		Short: "Show reference index entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp TaxonomyStatsResponse
			if err := client.Get(cmd.Context(), "/api/v1/taxonomy/stats", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// TaxonomyReloadEndpoint handles POST /api/v1/taxonomy/reload. The index
// is rebuilt from the table on disk; the previous snapshot stays in place
// when the rebuild fails.
type TaxonomyReloadEndpoint struct{}

func (e *TaxonomyReloadEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/v1/taxonomy/reload", e.handler
}

func (e *TaxonomyReloadEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.TaxonomyFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "taxonomy not initialized")
		return
	}

	if err := store.Reload(); err != nil {
		writeError(w, http.StatusInternalServerError, "reload failed: "+err.Error())
		return
	}

	ix := store.Index()
	writeJSON(w, http.StatusOK, TaxonomyStatsResponse{
		Path:          store.Path(),
		LatinEntries:  ix.Len(),
		CommonEntries: ix.CommonLen(),
	})
}

func (e *TaxonomyReloadEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "taxonomy-reload",
		Short: "Rebuild the reference index from disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp TaxonomyStatsResponse
			if err := client.Post(cmd.Context(), "/api/v1/taxonomy/reload", nil, &resp); err != nil {
				return err
			}
			fmt.Printf("Reloaded %s: %d latin entries, %d common entries\n",
				resp.Path, resp.LatinEntries, resp.CommonEntries)
			return nil
		},
	}
}
