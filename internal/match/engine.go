package match

import (
	"context"
	"log/slog"
	"strings"

	"github.com/wildlabs/taxamatch/internal/providers"
	"github.com/wildlabs/taxamatch/internal/taxonomy"
)

// Engine orchestrates the three-pass pipeline. It holds no per-request
// state: every Process call builds its own result list against the index
// snapshot current at entry, so concurrent invocations are safe.
type Engine struct {
	store    *taxonomy.Store
	registry *providers.Registry
	logger   *slog.Logger
}

// NewEngine creates an Engine. registry may hold no usable provider, in
// which case the LLM-assisted pass is skipped and unresolved lines stay
// unresolved.
func NewEngine(store *taxonomy.Store, registry *providers.Registry, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, registry: registry, logger: logger}
}

// Available reports whether an LLM capability is configured.
func (e *Engine) Available() bool {
	return e.registry != nil && e.registry.Default() != nil
}

// Store returns the taxonomy store the engine reads from.
func (e *Engine) Store() *taxonomy.Store {
	return e.store
}

// Process runs the full pipeline over a block of input text: exact matching
// per line, one batched LLM call for the misses, then the ambiguity pass
// over the whole batch. Results come back in input order, one per non-blank
// line. apiKey, when non-empty, overrides the configured credential for this
// invocation only.
func (e *Engine) Process(ctx context.Context, inputText, location, apiKey string) []*Result {
	ix := e.store.Index()

	// Pass 1: exact matching.
	results := make([]*Result, 0)
	unresolved := 0
	for _, line := range strings.Split(inputText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result := ParseLine(ix, line)
		if !result.Resolved() {
			unresolved++
		}
		results = append(results, result)
	}

	// Pass 2: batched LLM-assisted resolution.
	if unresolved > 0 {
		if client := e.clientFor(apiKey); client != nil {
			s := &synthesizer{llm: client, logger: e.logger}
			s.resolve(ctx, ix, results, location)
		} else {
			e.logger.Debug("no LLM capability available, skipping assisted pass",
				"unresolved", unresolved)
		}
	}

	// Pass 3: retract ambiguous higher-rank matches.
	resolveAmbiguities(results)

	return results
}

// clientFor picks the LLM client for one invocation. A caller-supplied key
// builds a one-shot client of the configured provider type; if that fails,
// the configured client is used as before.
func (e *Engine) clientFor(apiKey string) providers.LLMClient {
	if e.registry == nil {
		return nil
	}
	if apiKey != "" {
		client, err := e.registry.WithAPIKey(apiKey)
		if err == nil {
			return client
		}
		e.logger.Warn("failed to build client for caller-supplied key", "error", err)
	}
	return e.registry.Default()
}
