package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/wildlabs/taxamatch/internal/api"
	"github.com/wildlabs/taxamatch/internal/config"
	"github.com/wildlabs/taxamatch/internal/home"
	"github.com/wildlabs/taxamatch/internal/match"
	"github.com/wildlabs/taxamatch/internal/providers"
	"github.com/wildlabs/taxamatch/internal/server/endpoints"
	"github.com/wildlabs/taxamatch/internal/svcctx"
	"github.com/wildlabs/taxamatch/internal/taxonomy"
)

// Server is the main taxamatch HTTP server.
type Server struct {
	httpServer *http.Server
	store      *taxonomy.Store
	engine     *match.Engine
	registry   *providers.Registry
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	taxonomyPath string

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// TaxonomyPath is the path to the reference table. When empty, the
	// config's taxonomy.path is used, falling back to the home directory
	// default.
	TaxonomyPath string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	taxonomyPath := cfg.TaxonomyPath
	if taxonomyPath == "" && cfg.ConfigManager != nil {
		taxonomyPath = cfg.ConfigManager.Get().Taxonomy.Path
	}
	if taxonomyPath == "" {
		h, err := home.New("")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		taxonomyPath = h.TaxonomyPath()
	}

	// Create provider registry
	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)

	// If config manager provided, set up providers and hot reload
	if cfg.ConfigManager != nil {
		applyProviderConfig(registry, cfg.ConfigManager.Get())

		// Watch for config changes
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			applyProviderConfig(registry, c)
			cfg.Logger.Info("provider registry reloaded from config")
		})
	}

	s := &Server{
		registry:     registry,
		configMgr:    cfg.ConfigManager,
		logger:       cfg.Logger,
		taxonomyPath: taxonomyPath,
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // Match runs may wait on a model call
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// applyProviderConfig reloads the registry from config and pins the
// configured default provider when it is registered.
func applyProviderConfig(registry *providers.Registry, c *config.Config) {
	registry.Reload(c.ToProviderRegistryConfig())
	if name := c.Defaults.LLMProvider; name != "" {
		if _, err := registry.Get(name); err == nil {
			registry.SetDefault(name)
		}
	}
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Load the reference table
	store, err := taxonomy.NewStore(s.taxonomyPath, s.logger)
	if err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to load taxonomy: %w", err)
	}
	s.store = store
	ix := store.Index()
	s.logger.Info("taxonomy loaded",
		"path", s.taxonomyPath,
		"latin_entries", ix.Len(),
		"common_entries", ix.CommonLen())

	// Create the match engine
	s.engine = match.NewEngine(s.store, s.registry, s.logger)
	if !s.engine.Available() {
		s.logger.Warn("no LLM provider available, only exact matches will resolve")
	}

	// Create services struct for context enrichment
	s.services = &svcctx.Services{
		Engine:    s.engine,
		Taxonomy:  s.store,
		Registry:  s.registry,
		ConfigMgr: s.configMgr,
		Logger:    s.logger,
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Engine returns the match engine.
// Returns nil if the server hasn't started yet.
func (s *Server) Engine() *match.Engine {
	return s.engine
}

// Store returns the taxonomy store.
// Returns nil if the server hasn't started yet.
func (s *Server) Store() *taxonomy.Store {
	return s.store
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
