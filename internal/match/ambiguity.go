package match

import "github.com/wildlabs/taxamatch/internal/taxonomy"

// resolveAmbiguities retracts higher-rank matches claimed by more than one
// line in the batch. Two inputs both resolving only to genus "ursus" cannot
// be disambiguated without more information; accepting either would silently
// misidentify at least one, so the design prefers an explicit miss.
// Species-level and common-name-fallback matches are never retracted.
func resolveAmbiguities(results []*Result) {
	byLatin := make(map[string][]*Result)
	for _, r := range results {
		switch r.MatchLevel {
		case taxonomy.LevelGenus, taxonomy.LevelFamily, taxonomy.LevelOrder, taxonomy.LevelClass:
			if r.Latin != "" {
				byLatin[r.Latin] = append(byLatin[r.Latin], r)
			}
		}
	}

	for _, group := range byLatin {
		if len(group) < 2 {
			continue
		}
		for _, r := range group {
			r.Latin = ""
			r.Common = ""
			r.MatchLevel = taxonomy.LevelAmbiguous
		}
	}
}
