package taxonomy

import "testing"

func hierarchyIndex(t *testing.T) *Index {
	t.Helper()
	rows := "g1;Mammalia;Carnivora;Ursidae;Ursus;arctos;Brown Bear\n" +
		"g2;Mammalia;Carnivora;Ursidae;Ursus;;bears\n" +
		"g3;Mammalia;Carnivora;Mustelidae;;;weasels\n" +
		"g4;Mammalia;Rodentia;;;;rodents\n" +
		"g5;Aves;;;;;birds\n"
	idx, err := Load(writeTable(t, rows), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return idx
}

func TestResolveHierarchy(t *testing.T) {
	idx := hierarchyIndex(t)

	tests := []struct {
		name      string
		ranks     Ranks
		wantLatin string
		wantLevel Level
	}{
		{
			name:      "species level",
			ranks:     Ranks{Genus: "Ursus", Species: "arctos"},
			wantLatin: "ursus arctos",
			wantLevel: LevelSpecies,
		},
		{
			name:      "genus level when species misses",
			ranks:     Ranks{Genus: "Ursus", Species: "nonexistens"},
			wantLatin: "ursus",
			wantLevel: LevelGenus,
		},
		{
			name:      "family level",
			ranks:     Ranks{Family: "Mustelidae", Genus: "Neogale"},
			wantLatin: "mustelidae",
			wantLevel: LevelFamily,
		},
		{
			name:      "order level",
			ranks:     Ranks{Order: "Rodentia"},
			wantLatin: "rodentia",
			wantLevel: LevelOrder,
		},
		{
			name:      "class level",
			ranks:     Ranks{Class: "Aves", Order: "Unknownformes"},
			wantLatin: "aves",
			wantLevel: LevelClass,
		},
		{
			name:      "normalizes case and whitespace",
			ranks:     Ranks{Genus: " URSUS ", Species: " ARCTOS "},
			wantLatin: "ursus arctos",
			wantLevel: LevelSpecies,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, level := idx.ResolveHierarchy(tt.ranks)
			if entry == nil {
				t.Fatal("expected a match")
			}
			if entry.Latin != tt.wantLatin {
				t.Errorf("Latin = %q, want %q", entry.Latin, tt.wantLatin)
			}
			if level != tt.wantLevel {
				t.Errorf("level = %q, want %q", level, tt.wantLevel)
			}
		})
	}

	t.Run("no match returns nil and empty level", func(t *testing.T) {
		entry, level := idx.ResolveHierarchy(Ranks{Class: "Amphibia"})
		if entry != nil || level != "" {
			t.Errorf("got (%v, %q), want (nil, \"\")", entry, level)
		}
	})

	t.Run("empty ranks return nil", func(t *testing.T) {
		entry, level := idx.ResolveHierarchy(Ranks{})
		if entry != nil || level != "" {
			t.Errorf("got (%v, %q), want (nil, \"\")", entry, level)
		}
	})
}
