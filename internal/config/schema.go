package config

import "github.com/wildlabs/taxamatch/internal/providers"

// Config holds taxamatch configuration.
// Stored at: ~/.taxamatch/config.yaml (or wherever --config points).
type Config struct {
	Taxonomy     TaxonomyCfg               `mapstructure:"taxonomy" yaml:"taxonomy"`
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
}

// TaxonomyCfg locates the reference table.
type TaxonomyCfg struct {
	// Path to the semicolon-delimited reference table. An empty value falls
	// back to taxonomy.txt in the taxamatch home directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// ServerCfg holds HTTP server settings.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type    string `mapstructure:"type" yaml:"type"`         // "gemini", "openai"
	Model   string `mapstructure:"model" yaml:"model"`       // Model name
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`   // Supports ${ENV_VAR} syntax
	BaseURL string `mapstructure:"base_url" yaml:"base_url"` // OpenAI-compatible gateways
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections.
type DefaultsCfg struct {
	LLMProvider string `mapstructure:"llm_provider" yaml:"llm_provider"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		LLMProviders: map[string]LLMProviderCfg{
			"gemini": {
				Type:    "gemini",
				Model:   "gemini-2.5-flash",
				APIKey:  "${GEMINI_API_KEY}",
				Enabled: true,
			},
			"openai": {
				Type:    "openai",
				Model:   "gpt-4o-mini",
				APIKey:  "${OPENAI_API_KEY}",
				Enabled: false,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider: "gemini",
		},
	}
}

// ToProviderRegistryConfig converts the config to a format suitable for
// providers.Registry, resolving all ${ENV_VAR} references in API keys.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		LLMProviders: make(map[string]providers.LLMProviderConfig),
	}
	for name, llm := range c.LLMProviders {
		cfg.LLMProviders[name] = providers.LLMProviderConfig{
			Type:    llm.Type,
			Model:   llm.Model,
			APIKey:  ResolveEnvVars(llm.APIKey),
			BaseURL: llm.BaseURL,
			Enabled: llm.Enabled,
		}
	}
	return cfg
}
