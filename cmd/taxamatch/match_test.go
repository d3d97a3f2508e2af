package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wildlabs/taxamatch/internal/match"
	"github.com/wildlabs/taxamatch/internal/taxonomy"
)

func testIndex(t *testing.T) *taxonomy.Index {
	t.Helper()
	table := "guid-1;Mammalia;Carnivora;Ursidae;Ursus;arctos;Brown Bear\n" +
		"guid-2;Mammalia;Carnivora;Canidae;Vulpes;vulpes;Red Fox\n"
	path := filepath.Join(t.TempDir(), "taxonomy.txt")
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ix, err := taxonomy.Load(path, logger)
	if err != nil {
		t.Fatalf("failed to load table: %v", err)
	}
	return ix
}

func TestVerboseReport(t *testing.T) {
	ix := testIndex(t)

	t.Run("exact match", func(t *testing.T) {
		results := []*match.Result{{
			RawInput:       "Ursus arctos, Brown Bear",
			Latin:          "ursus arctos",
			Common:         "Brown Bear",
			OriginalLatin:  "Ursus arctos",
			OriginalCommon: "Brown Bear",
		}}
		out := verboseReport(ix, results)
		if !strings.Contains(out, "Exact match: ursus arctos (Brown Bear)") {
			t.Errorf("missing exact match line:\n%s", out)
		}
	})

	t.Run("assisted match shows level", func(t *testing.T) {
		results := []*match.Result{{
			RawInput:   "silvertip",
			Latin:      "ursus arctos",
			Common:     "Brown Bear",
			MatchLevel: taxonomy.LevelSpecies,
		}}
		out := verboseReport(ix, results)
		if !strings.Contains(out, "Model-assisted match at species: ursus arctos (Brown Bear)") {
			t.Errorf("missing assisted match line:\n%s", out)
		}
	})

	t.Run("unresolved line gets per-part diagnosis", func(t *testing.T) {
		results := []*match.Result{{
			RawInput:       "Red Fox, mystery beast",
			OriginalCommon: "Red Fox",
		}}
		out := verboseReport(ix, results)
		if !strings.Contains(out, `"Red Fox" found as common: vulpes vulpes (Red Fox)`) {
			t.Errorf("missing common lookup diagnosis:\n%s", out)
		}
		if !strings.Contains(out, `"mystery beast" not in reference table`) {
			t.Errorf("missing miss diagnosis:\n%s", out)
		}
	})

	t.Run("ambiguous line is called out", func(t *testing.T) {
		results := []*match.Result{{
			RawInput:   "swift fox",
			MatchLevel: taxonomy.LevelAmbiguous,
		}}
		out := verboseReport(ix, results)
		if !strings.Contains(out, "Ambiguous") {
			t.Errorf("missing ambiguity note:\n%s", out)
		}
	})
}
