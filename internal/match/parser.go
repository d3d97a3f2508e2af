package match

import (
	"strings"

	"github.com/wildlabs/taxamatch/internal/taxonomy"
)

// twoTokenRule is one heuristic for classifying a two-token line. Rules are
// evaluated in order; the first one that applies wins. Keeping them as an
// explicit ordered list keeps the tie-break ladder auditable and testable
// per rule.
type twoTokenRule struct {
	name  string
	apply func(ix *taxonomy.Index, t0, t1 string, r *Result) bool
}

var twoTokenRules = []twoTokenRule{
	{
		// token0 is a known Latin name, token1 is not: token0 maps, token1
		// is assumed to be the accompanying common-name text (unvalidated).
		name: "latin-first",
		apply: func(ix *taxonomy.Index, t0, t1 string, r *Result) bool {
			e0 := ix.LookupLatin(t0)
			if e0 == nil || ix.LookupLatin(t1) != nil {
				return false
			}
			r.OriginalLatin = t0
			r.OriginalCommon = t1
			r.Latin = e0.Latin
			r.Common = e0.Common
			return true
		},
	},
	{
		name: "latin-second",
		apply: func(ix *taxonomy.Index, t0, t1 string, r *Result) bool {
			e1 := ix.LookupLatin(t1)
			if e1 == nil || ix.LookupLatin(t0) != nil {
				return false
			}
			r.OriginalLatin = t1
			r.OriginalCommon = t0
			r.Latin = e1.Latin
			r.Common = e1.Common
			return true
		},
	},
	{
		// token0 is a known common name; token1 is kept as the typed Latin
		// text only if it is Latin-shaped, otherwise discarded as extra info.
		name: "common-first",
		apply: func(ix *taxonomy.Index, t0, t1 string, r *Result) bool {
			e0 := ix.LookupCommon(t0)
			if e0 == nil {
				return false
			}
			r.OriginalCommon = t0
			if likelyLatin(t1) {
				r.OriginalLatin = t1
			}
			r.Latin = e0.Latin
			r.Common = e0.Common
			return true
		},
	},
	{
		name: "common-second",
		apply: func(ix *taxonomy.Index, t0, t1 string, r *Result) bool {
			e1 := ix.LookupCommon(t1)
			if e1 == nil {
				return false
			}
			r.OriginalCommon = t1
			if likelyLatin(t0) {
				r.OriginalLatin = t0
			}
			r.Latin = e1.Latin
			r.Common = e1.Common
			return true
		},
	},
}

// likelyLatin reports whether text is Latin-shaped. Scientific names are
// "Genus" or "Genus species", so two whitespace-separated words at most.
func likelyLatin(text string) bool {
	return len(strings.Fields(text)) <= 2
}

// ParseLine attempts to resolve one trimmed, non-empty line against the
// reference table by exact lookup. The line is split on commas; one token is
// tried as Latin then common, two or more tokens go through the rule ladder
// (only the first two participate). A Result always comes back: when no
// table entry was found its canonical fields are empty and the line is a
// candidate for the LLM-assisted pass.
func ParseLine(ix *taxonomy.Index, line string) *Result {
	result := &Result{RawInput: line}

	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) == 1 {
		parseSingleToken(ix, parts[0], result)
		return result
	}

	t0, t1 := parts[0], parts[1]
	for _, rule := range twoTokenRules {
		if rule.apply(ix, t0, t1, result) {
			return result
		}
	}

	// Last-resort structural guess, not a validated classification: assume
	// "common, latin" ordering and populate only the echo fields.
	result.OriginalCommon = t0
	result.OriginalLatin = t1
	return result
}

func parseSingleToken(ix *taxonomy.Index, token string, r *Result) {
	if entry := ix.LookupLatin(token); entry != nil {
		r.OriginalLatin = token
		r.Latin = entry.Latin
		r.Common = entry.Common
		return
	}
	if entry := ix.LookupCommon(token); entry != nil {
		r.OriginalCommon = token
		r.Latin = entry.Latin
		r.Common = entry.Common
		return
	}
	// Unknown single token: default to a common-name-shaped fragment.
	r.OriginalCommon = token
}
