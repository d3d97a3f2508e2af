package match

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/wildlabs/taxamatch/internal/providers"
	"github.com/wildlabs/taxamatch/internal/taxonomy"
)

// proposalSchema is the minimal shape contract for the model's response: a
// JSON array of objects. Field-level tolerance is handled during decoding;
// the schema only rejects payloads that cannot possibly be a candidate list.
var proposalSchema = json.RawMessage(`{
	"type": "array",
	"items": {"type": "object"}
}`)

// candidate is one LLM-proposed taxonomic guess. All fields optional.
type candidate struct {
	Class   string `json:"class"`
	Order   string `json:"order"`
	Family  string `json:"family"`
	Genus   string `json:"genus"`
	Species string `json:"species"`
}

// proposal is the per-line item of the model's response. The legacy flat
// shape (candidate_latin_names) is accepted in place of candidates.
type proposal struct {
	InputText           string      `json:"input_text"`
	Candidates          []candidate `json:"candidates"`
	SuggestedCommon     string      `json:"suggested_common"`
	CandidateLatinNames []string    `json:"candidate_latin_names"`
}

// synthesizer runs the LLM-assisted pass: one batched model call for all
// unresolved lines, then hierarchical validation of every proposed
// candidate against the reference table. All failures along the way are
// logged and swallowed; affected lines simply stay unresolved.
type synthesizer struct {
	llm    providers.LLMClient
	logger *slog.Logger
}

// resolve fills in still-unresolved results from one batch model call.
// Results are matched back by exact raw-input equality; lines resolved in
// the exact-match pass are never overwritten.
func (s *synthesizer) resolve(ctx context.Context, ix *taxonomy.Index, results []*Result, location string) {
	var lines []string
	for _, r := range results {
		if !r.Resolved() {
			lines = append(lines, r.RawInput)
		}
	}
	if len(lines) == 0 {
		return
	}

	requestID := uuid.New().String()
	resp, err := s.llm.Generate(ctx, &providers.GenerateRequest{
		Prompt:    buildPrompt(lines, location),
		RequestID: requestID,
	})
	if err != nil {
		s.logger.Warn("model call failed, lines remain unresolved",
			"request_id", requestID, "lines", len(lines), "error", err)
		return
	}

	proposals, err := parseProposals(resp.Content)
	if err != nil {
		s.logger.Warn("unparseable model response, lines remain unresolved",
			"request_id", requestID, "provider", resp.Provider, "error", err)
		return
	}

	for _, p := range proposals {
		if p.InputText == "" {
			continue
		}
		entry, level := s.matchProposal(ix, p)
		if entry == nil {
			continue
		}
		// First still-unresolved result with identical raw text wins.
		for _, r := range results {
			if r.RawInput == p.InputText && !r.Resolved() {
				r.Latin = entry.Latin
				r.Common = entry.Common
				r.MatchLevel = level
				break
			}
		}
	}
}

// matchProposal walks the proposal's candidates in the order given (the
// order encodes the model's confidence ranking) and accepts the first that
// resolves against the table. When none do, the suggested common name is
// tried as a last resort.
func (s *synthesizer) matchProposal(ix *taxonomy.Index, p proposal) (*taxonomy.Entry, taxonomy.Level) {
	for _, c := range p.candidates() {
		entry, level := ix.ResolveHierarchy(taxonomy.Ranks{
			Class:   c.Class,
			Order:   c.Order,
			Family:  c.Family,
			Genus:   c.Genus,
			Species: c.Species,
		})
		if entry != nil {
			return entry, level
		}
	}

	if p.SuggestedCommon != "" {
		if entry := ix.LookupCommon(p.SuggestedCommon); entry != nil {
			return entry, taxonomy.LevelCommonNameFallback
		}
	}
	return nil, ""
}

// candidates returns the proposal's candidate list, reshaping the legacy
// flat Latin-name list into candidate structs when necessary.
func (p proposal) candidates() []candidate {
	if len(p.Candidates) > 0 || len(p.CandidateLatinNames) == 0 {
		return p.Candidates
	}

	reshaped := make([]candidate, 0, len(p.CandidateLatinNames))
	for _, name := range p.CandidateLatinNames {
		words := strings.Fields(name)
		var c candidate
		switch {
		case len(words) >= 2:
			c.Genus = words[0]
			c.Species = words[1]
		default:
			c.Genus = name
		}
		reshaped = append(reshaped, c)
	}
	return reshaped
}

// parseProposals extracts the proposal list from free-form model output.
func parseProposals(content string) ([]proposal, error) {
	payload, err := providers.ParseJSONPayload(content)
	if err != nil {
		return nil, err
	}
	if err := providers.ValidateJSON(proposalSchema, payload); err != nil {
		return nil, err
	}
	var proposals []proposal
	if err := json.Unmarshal(payload, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}
