package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds the configured LLM clients. It supports config-driven
// instantiation, hot-reload, and thread-safe access. Reloading never touches
// a client already handed out to a running request.
type Registry struct {
	mu          sync.RWMutex
	llmClients  map[string]LLMClient
	llmConfigs  map[string]LLMProviderConfig
	defaultName string
	logger      *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llmClients: make(map[string]LLMClient),
		llmConfigs: make(map[string]LLMProviderConfig),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// SetDefault names the provider returned by Default.
func (r *Registry) SetDefault(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultName = name
}

// Register adds an LLM client by name. Used directly in tests; production
// registration goes through Reload.
func (r *Registry) Register(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = client
	if r.defaultName == "" {
		r.defaultName = name
	}
}

// Get returns an LLM client by name.
func (r *Registry) Get(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// Default returns the default LLM client, or nil when no usable provider is
// configured. A nil return is not an error: the engine degrades to
// exact-match-only operation.
func (r *Registry) Default() LLMClient {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.defaultName == "" {
		return nil
	}
	return r.llmClients[r.defaultName]
}

// DefaultName returns the name of the default LLM client, or "" when none
// is configured.
func (r *Registry) DefaultName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName
}

// WithAPIKey builds a one-shot client of the default provider's type using
// the caller-supplied credential instead of the configured one. The
// configured provider shape (type, model, base URL) is kept.
func (r *Registry) WithAPIKey(apiKey string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.llmConfigs[r.defaultName]
	if !ok {
		// No configured provider to mirror; assume the original service's
		// model family for bare caller-supplied keys.
		cfg = LLMProviderConfig{Type: "gemini"}
	}
	cfg.APIKey = apiKey

	client := createLLMClient(cfg)
	if client == nil {
		return nil, fmt.Errorf("cannot build %s client for caller-supplied key", cfg.Type)
	}
	return client, nil
}

// List returns all registered LLM client names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llmClients))
	for name := range r.llmClients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload updates the registry based on new configuration. Providers no
// longer configured are unregistered; providers with changed settings are
// re-created.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)
	for name, provCfg := range cfg.LLMProviders {
		if !provCfg.Enabled || provCfg.APIKey == "" {
			continue
		}
		want[name] = true

		existing, hasExisting := r.llmConfigs[name]
		if hasExisting && existing == provCfg {
			continue
		}
		client := createLLMClient(provCfg)
		if client == nil {
			r.logger.Warn("unknown LLM provider type", "name", name, "type", provCfg.Type)
			continue
		}
		r.llmClients[name] = client
		r.llmConfigs[name] = provCfg
		if hasExisting {
			r.logger.Info("updated LLM client", "name", name, "type", provCfg.Type)
		} else {
			r.logger.Info("registered LLM client", "name", name, "type", provCfg.Type)
		}
	}

	for name := range r.llmClients {
		if !want[name] {
			delete(r.llmClients, name)
			delete(r.llmConfigs, name)
			r.logger.Info("unregistered LLM client", "name", name)
		}
	}
}

// createLLMClient creates an LLM client based on provider type.
func createLLMClient(cfg LLMProviderConfig) LLMClient {
	switch cfg.Type {
	case "gemini":
		return NewGeminiClient(GeminiConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	case "openai":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	case "mock":
		return NewMockClient()
	default:
		return nil
	}
}
