// Package taxonomy loads the taxonomic reference table and answers exact and
// hierarchical lookups against it.
package taxonomy

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Level identifies the taxonomic rank a match was made at. An empty Level on
// a result means the line matched by exact lookup with no hierarchy involved.
type Level string

const (
	LevelSpecies Level = "species"
	LevelGenus   Level = "genus"
	LevelFamily  Level = "family"
	LevelOrder   Level = "order"
	LevelClass   Level = "class"

	// LevelCommonNameFallback marks a match made via the model's suggested
	// common name after every hierarchical candidate missed.
	LevelCommonNameFallback Level = "common_name_fallback"

	// LevelAmbiguous marks a higher-rank match that was retracted because
	// more than one input line claimed the same taxon.
	LevelAmbiguous Level = "ambiguous"
)

// Entry is one row of the reference table.
type Entry struct {
	GUID    string
	Class   string
	Order   string
	Family  string
	Genus   string
	Species string

	// Latin is the canonical lowercase key: "<genus> <species>" when a
	// species epithet is present, otherwise the first non-empty of
	// genus, family, order, class.
	Latin string

	// Common is the canonical common name with its original casing.
	// May be empty.
	Common string
}

// Index holds the reference table in memory. It is immutable after Load;
// rebuilds go through Store.Reload, which swaps in a fresh Index.
type Index struct {
	byLatin  map[string]*Entry
	byCommon map[string]*Entry
}

// fieldCount is the number of semicolon-delimited fields per table row:
// guid;class;order;family;genus;species;common
const fieldCount = 7

// Load reads the semicolon-delimited reference table at path. Rows with
// fewer than seven fields are skipped, as are rows with no usable rank
// field. A missing file is not an error: a warning is logged and an empty
// index is returned, leaving it to the caller to decide whether that is
// fatal.
func Load(path string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}

	idx := &Index{
		byLatin:  make(map[string]*Entry),
		byCommon: make(map[string]*Entry),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("taxonomy file not found, starting with empty index", "path", path)
			return idx, nil
		}
		return nil, fmt.Errorf("failed to open taxonomy file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ";")
		if len(parts) < fieldCount {
			continue
		}
		entry := entryFromFields(parts)
		if entry == nil {
			continue
		}
		idx.add(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file at line %d: %w", lineNo, err)
	}

	logger.Info("taxonomy loaded", "path", path, "entries", len(idx.byLatin))
	return idx, nil
}

// entryFromFields builds an Entry from one table row, deriving the canonical
// Latin key. Returns nil when no rank field is usable.
func entryFromFields(parts []string) *Entry {
	entry := &Entry{
		GUID:    parts[0],
		Class:   parts[1],
		Order:   parts[2],
		Family:  parts[3],
		Genus:   parts[4],
		Species: parts[5],
		Common:  parts[6],
	}

	switch {
	case entry.Species != "":
		entry.Latin = strings.ToLower(entry.Genus + " " + entry.Species)
	case entry.Genus != "":
		entry.Latin = strings.ToLower(entry.Genus)
	case entry.Family != "":
		entry.Latin = strings.ToLower(entry.Family)
	case entry.Order != "":
		entry.Latin = strings.ToLower(entry.Order)
	case entry.Class != "":
		entry.Latin = strings.ToLower(entry.Class)
	default:
		return nil
	}
	return entry
}

// add indexes an entry under its Latin key and, when present, its common
// name. Last one wins on duplicate keys.
func (ix *Index) add(entry *Entry) {
	ix.byLatin[entry.Latin] = entry
	if entry.Common != "" {
		ix.byCommon[normalizeKey(entry.Common)] = entry
	}
}

// normalizeKey lowercases and trims a lookup key.
func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LookupLatin performs a case- and whitespace-insensitive exact lookup by
// Latin name. Returns nil when the name is not in the table.
func (ix *Index) LookupLatin(name string) *Entry {
	return ix.byLatin[normalizeKey(name)]
}

// LookupCommon performs a case- and whitespace-insensitive exact lookup by
// common name. Returns nil when the name is not in the table.
func (ix *Index) LookupCommon(name string) *Entry {
	return ix.byCommon[normalizeKey(name)]
}

// Len returns the number of distinct Latin keys in the index.
func (ix *Index) Len() int {
	return len(ix.byLatin)
}

// CommonLen returns the number of distinct common-name keys in the index.
func (ix *Index) CommonLen() int {
	return len(ix.byCommon)
}
