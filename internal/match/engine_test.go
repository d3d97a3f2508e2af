package match

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/wildlabs/taxamatch/internal/providers"
	"github.com/wildlabs/taxamatch/internal/taxonomy"
)

func testEngine(t *testing.T, mock *providers.MockClient) *Engine {
	t.Helper()
	registry := providers.NewRegistry()
	if mock != nil {
		registry.Register("mock", mock)
		registry.SetDefault("mock")
	}
	return NewEngine(testStore(t), registry, nil)
}

func TestEngineExactPass(t *testing.T) {
	engine := testEngine(t, nil)

	t.Run("exact match needs no LLM capability", func(t *testing.T) {
		results := engine.Process(context.Background(), "Ursus arctos, Brown Bear", "", "")
		if len(results) != 1 {
			t.Fatalf("got %d results, want 1", len(results))
		}
		r := results[0]
		if r.Latin != "ursus arctos" || r.Common != "Brown Bear" {
			t.Errorf("got (%q, %q)", r.Latin, r.Common)
		}
		if r.OriginalLatin != "Ursus arctos" || r.OriginalCommon != "Brown Bear" {
			t.Errorf("originals = (%q, %q)", r.OriginalLatin, r.OriginalCommon)
		}
		if r.MatchLevel != "" {
			t.Errorf("MatchLevel = %q, want empty for exact match", r.MatchLevel)
		}
	})

	t.Run("unknown line stays unresolved without capability", func(t *testing.T) {
		results := engine.Process(context.Background(), "silvertip", "", "")
		if len(results) != 1 {
			t.Fatalf("got %d results, want 1", len(results))
		}
		r := results[0]
		if r.Latin != "" || r.Common != "" {
			t.Errorf("got (%q, %q), want empty", r.Latin, r.Common)
		}
		if r.OriginalCommon != "silvertip" || r.OriginalLatin != "" {
			t.Errorf("originals = (%q, %q)", r.OriginalLatin, r.OriginalCommon)
		}
	})

	t.Run("blank lines produce no output rows", func(t *testing.T) {
		results := engine.Process(context.Background(), "\nBrown Bear\n\n  \nRed Fox\n", "", "")
		if len(results) != 2 {
			t.Fatalf("got %d results, want 2", len(results))
		}
		if results[0].RawInput != "Brown Bear" || results[1].RawInput != "Red Fox" {
			t.Errorf("order = [%q, %q]", results[0].RawInput, results[1].RawInput)
		}
	})
}

func TestEngineAssistedPass(t *testing.T) {
	t.Run("candidate order is the confidence ranking", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = "```json\n" + `[
			{
				"input_text": "silvertip",
				"candidates": [
					{"class": "Mammalia", "order": "Carnivora", "family": "Ursidae", "genus": "Ursus", "species": "horribilis"},
					{"class": "Mammalia", "order": "Carnivora", "family": "Ursidae", "genus": "Ursus", "species": "arctos"}
				],
				"suggested_common": "Grizzly Bear"
			}
		]` + "\n```"
		engine := testEngine(t, mock)

		results := engine.Process(context.Background(), "silvertip", "", "")
		r := results[0]
		// First candidate misses at species, hits at genus; it wins over the
		// second candidate's species-level hit because order encodes rank.
		if r.Latin != "ursus" {
			t.Errorf("Latin = %q, want %q", r.Latin, "ursus")
		}
		if r.MatchLevel != taxonomy.LevelGenus {
			t.Errorf("MatchLevel = %q, want genus", r.MatchLevel)
		}
		if mock.RequestCount() != 1 {
			t.Errorf("RequestCount() = %d, want 1", mock.RequestCount())
		}
	})

	t.Run("one model call per batch regardless of line count", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = "[]"
		engine := testEngine(t, mock)

		engine.Process(context.Background(), "one\ntwo\nthree\nfour", "", "")
		if mock.RequestCount() != 1 {
			t.Errorf("RequestCount() = %d, want 1", mock.RequestCount())
		}
	})

	t.Run("no call at all when every line matched exactly", func(t *testing.T) {
		mock := providers.NewMockClient()
		engine := testEngine(t, mock)

		engine.Process(context.Background(), "Brown Bear\nRed Fox", "", "")
		if mock.RequestCount() != 0 {
			t.Errorf("RequestCount() = %d, want 0", mock.RequestCount())
		}
	})

	t.Run("suggested common name is the fallback", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = `[{
			"input_text": "silvertip",
			"candidates": [{"genus": "Arctodus", "species": "simus"}],
			"suggested_common": "Brown Bear"
		}]`
		engine := testEngine(t, mock)

		r := engine.Process(context.Background(), "silvertip", "", "")[0]
		if r.Latin != "ursus arctos" {
			t.Errorf("Latin = %q", r.Latin)
		}
		if r.MatchLevel != taxonomy.LevelCommonNameFallback {
			t.Errorf("MatchLevel = %q, want common_name_fallback", r.MatchLevel)
		}
	})

	t.Run("legacy candidate_latin_names shape is accepted", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = `[{
			"input_text": "silvertip",
			"candidate_latin_names": ["Ursus horribilis", "Ursus arctos"]
		}]`
		engine := testEngine(t, mock)

		r := engine.Process(context.Background(), "silvertip", "", "")[0]
		if r.Latin != "ursus" {
			t.Errorf("Latin = %q, want genus fallback from first legacy name", r.Latin)
		}
	})

	t.Run("exact matches are never overwritten", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = `[{
			"input_text": "Brown Bear",
			"candidates": [{"genus": "Vulpes", "species": "vulpes"}]
		}]`
		engine := testEngine(t, mock)

		results := engine.Process(context.Background(), "Brown Bear\nsilvertip", "", "")
		if results[0].Latin != "ursus arctos" {
			t.Errorf("exact match overwritten: Latin = %q", results[0].Latin)
		}
	})

	t.Run("duplicate raw text updates only the first unresolved line", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = `[{
			"input_text": "silvertip",
			"candidates": [{"genus": "Ursus", "species": "arctos"}]
		}]`
		engine := testEngine(t, mock)

		results := engine.Process(context.Background(), "silvertip\nsilvertip", "", "")
		if results[0].Latin != "ursus arctos" {
			t.Errorf("first duplicate: Latin = %q", results[0].Latin)
		}
		if results[1].Latin != "" {
			t.Errorf("second duplicate: Latin = %q, want empty", results[1].Latin)
		}
	})

	t.Run("model failure leaves lines unresolved", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ShouldFail = true
		engine := testEngine(t, mock)

		r := engine.Process(context.Background(), "silvertip", "", "")[0]
		if r.Resolved() {
			t.Errorf("Latin = %q, want unresolved", r.Latin)
		}
	})

	t.Run("malformed response degrades to zero candidates", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = "Sorry, I can't produce JSON today."
		engine := testEngine(t, mock)

		r := engine.Process(context.Background(), "silvertip", "", "")[0]
		if r.Resolved() {
			t.Errorf("Latin = %q, want unresolved", r.Latin)
		}
	})

	t.Run("location hint is threaded into the prompt", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.ResponseText = "[]"
		engine := testEngine(t, mock)

		engine.Process(context.Background(), "silvertip", "Alberta, Canada", "")
		prompt := mock.LastPrompt()
		if want := "observed in Alberta, Canada"; !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
		if !strings.Contains(prompt, "- silvertip") {
			t.Errorf("prompt missing item line:\n%s", prompt)
		}
	})
}

func TestEngineAmbiguityPass(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = `[
		{"input_text": "swift fox", "candidates": [{"genus": "Vulpes", "species": "velox"}]},
		{"input_text": "kit fox", "candidates": [{"genus": "Vulpes", "species": "macrotis"}]},
		{"input_text": "european red fox", "candidates": [{"genus": "Vulpes", "species": "vulpes"}]}
	]`
	engine := testEngine(t, mock)

	results := engine.Process(context.Background(), "swift fox\nkit fox\neuropean red fox", "", "")
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Both unlisted species degrade to genus "vulpes" and collide; the
	// species-level match keeps its genus-sharing resolution.
	for _, r := range results[:2] {
		if r.Latin != "" || r.Common != "" {
			t.Errorf("%s: got (%q, %q), want cleared", r.RawInput, r.Latin, r.Common)
		}
		if r.MatchLevel != taxonomy.LevelAmbiguous {
			t.Errorf("%s: MatchLevel = %q, want ambiguous", r.RawInput, r.MatchLevel)
		}
	}
	if results[2].Latin != "vulpes vulpes" || results[2].MatchLevel != taxonomy.LevelSpecies {
		t.Errorf("species line: (%q, %q)", results[2].Latin, results[2].MatchLevel)
	}
}

func TestEngineIdempotence(t *testing.T) {
	input := "Brown Bear\nsilvertip\nswift fox\nkit fox\nVulpes vulpes, Red Fox"
	mock := providers.NewMockClient()
	mock.ResponseText = `[
		{"input_text": "silvertip", "candidates": [{"genus": "Ursus", "species": "arctos"}]},
		{"input_text": "swift fox", "candidates": [{"genus": "Vulpes"}]},
		{"input_text": "kit fox", "candidates": [{"genus": "Vulpes"}]}
	]`
	engine := testEngine(t, mock)

	first := engine.Process(context.Background(), input, "", "")
	second := engine.Process(context.Background(), input, "", "")

	if len(first) != len(second) {
		t.Fatalf("result counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !reflect.DeepEqual(*first[i], *second[i]) {
			t.Errorf("result %d differs:\n%+v\n%+v", i, *first[i], *second[i])
		}
	}
}
