// Package match implements the three-pass matching engine: exact-match
// parsing of input lines, LLM-assisted candidate resolution for the lines
// that miss, and a batch-wide ambiguity pass that retracts higher-rank
// matches claimed by more than one line.
package match

import "github.com/wildlabs/taxamatch/internal/taxonomy"

// Result is one input line's resolution state, mutated across the three
// passes. Empty Latin/Common means unresolved or rejected. Final state is
// what gets serialized.
type Result struct {
	// RawInput is the original trimmed line text.
	RawInput string `json:"raw_input"`

	// Latin and Common are the canonical output fields from the reference
	// table.
	Latin  string `json:"latin"`
	Common string `json:"common"`

	// OriginalLatin and OriginalCommon echo what the user typed, split by
	// the parser heuristics. Free text, not canonical.
	OriginalLatin  string `json:"original_latin"`
	OriginalCommon string `json:"original_common"`

	// MatchLevel is empty for exact matches; otherwise the hierarchy level
	// the LLM-assisted pass matched at, common_name_fallback, or ambiguous.
	MatchLevel taxonomy.Level `json:"match_level,omitempty"`
}

// Resolved reports whether the line has a canonical match.
func (r *Result) Resolved() bool {
	return r.Latin != ""
}
