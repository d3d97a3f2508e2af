package taxonomy

// Ranks is a partially specified taxonomic tuple, as proposed by the model
// for an unresolved input line. Empty strings mean "absent".
type Ranks struct {
	Class   string
	Order   string
	Family  string
	Genus   string
	Species string
}

// ResolveHierarchy finds the most specific entry matching the supplied
// ranks, walking from species up to class and returning on the first table
// hit. A candidate identified only to genus or higher is still usable, just
// less certain; the returned Level carries that uncertainty forward so the
// ambiguity pass can act on it.
func (ix *Index) ResolveHierarchy(r Ranks) (*Entry, Level) {
	r = r.normalized()

	if r.Genus != "" && r.Species != "" {
		if entry := ix.LookupLatin(r.Genus + " " + r.Species); entry != nil {
			return entry, LevelSpecies
		}
	}
	if r.Genus != "" {
		if entry := ix.LookupLatin(r.Genus); entry != nil {
			return entry, LevelGenus
		}
	}
	if r.Family != "" {
		if entry := ix.LookupLatin(r.Family); entry != nil {
			return entry, LevelFamily
		}
	}
	if r.Order != "" {
		if entry := ix.LookupLatin(r.Order); entry != nil {
			return entry, LevelOrder
		}
	}
	if r.Class != "" {
		if entry := ix.LookupLatin(r.Class); entry != nil {
			return entry, LevelClass
		}
	}
	return nil, ""
}

func (r Ranks) normalized() Ranks {
	return Ranks{
		Class:   normalizeKey(r.Class),
		Order:   normalizeKey(r.Order),
		Family:  normalizeKey(r.Family),
		Genus:   normalizeKey(r.Genus),
		Species: normalizeKey(r.Species),
	}
}
