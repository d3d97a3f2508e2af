package match

import (
	"fmt"
	"strings"
)

// buildPrompt constructs the single batch prompt naming every unresolved
// line. The model is asked for ranked candidate identifications so that
// different reference taxonomies still have a chance to hit, and for the
// species epithet separately from the genus so the hierarchy walk can
// compose the binomial itself.
func buildPrompt(lines []string, location string) string {
	var b strings.Builder

	b.WriteString("Map the following biological terms to their standard scientific (Latin) name and Common name.\n")
	if location != "" {
		fmt.Fprintf(&b, "Context: The species are observed in %s.\n", location)
	}
	b.WriteString("For each term, provide multiple candidate identifications in order of likelihood, as different taxonomies may use different names.\n")
	b.WriteString("For each candidate, include the full taxonomic hierarchy (class, order, family, genus, species).\n")
	b.WriteString("Return the result as a JSON list of objects with keys:\n")
	b.WriteString("  - 'input_text': the original input\n")
	b.WriteString("  - 'candidates': array of candidate objects, each with:\n")
	b.WriteString("      - 'class': taxonomic class\n")
	b.WriteString("      - 'order': taxonomic order\n")
	b.WriteString("      - 'family': taxonomic family\n")
	b.WriteString("      - 'genus': taxonomic genus\n")
	b.WriteString("      - 'species': species epithet (not the full binomial, just the species part)\n")
	b.WriteString("  - 'suggested_common': the most common English name\n")
	b.WriteString("If you cannot identify a term, set candidates to an empty array.\n")
	b.WriteString("Items:\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	return b.String()
}
