package endpoints

import (
	"github.com/wildlabs/taxamatch/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Match endpoints
		&MatchEndpoint{},
		&MatchCSVEndpoint{},

		// Taxonomy endpoints
		&TaxonomyStatsEndpoint{},
		&TaxonomyReloadEndpoint{},

		// Provider endpoints
		&ProvidersEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
