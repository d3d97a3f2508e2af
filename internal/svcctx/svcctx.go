// Package svcctx provides service context for dependency injection via
// context. This package is separate from server to avoid import cycles with
// endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/wildlabs/taxamatch/internal/config"
	"github.com/wildlabs/taxamatch/internal/match"
	"github.com/wildlabs/taxamatch/internal/providers"
	"github.com/wildlabs/taxamatch/internal/taxonomy"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Engine    *match.Engine
	Taxonomy  *taxonomy.Store
	Registry  *providers.Registry
	ConfigMgr *config.Manager
	Logger    *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// EngineFrom extracts the match engine from context.
func EngineFrom(ctx context.Context) *match.Engine {
	if s := ServicesFrom(ctx); s != nil {
		return s.Engine
	}
	return nil
}

// TaxonomyFrom extracts the taxonomy store from context.
func TaxonomyFrom(ctx context.Context) *taxonomy.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Taxonomy
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
