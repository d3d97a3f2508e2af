package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTable(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.txt")
	if err := os.WriteFile(path, []byte(rows), 0o644); err != nil {
		t.Fatalf("failed to write table: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("derives latin from genus and species", func(t *testing.T) {
		path := writeTable(t, "g1;Mammalia;Carnivora;Ursidae;Ursus;arctos;Brown Bear\n")
		idx, err := Load(path, nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		entry := idx.LookupLatin("ursus arctos")
		if entry == nil {
			t.Fatal("expected entry for ursus arctos")
		}
		if entry.Latin != "ursus arctos" {
			t.Errorf("Latin = %q, want %q", entry.Latin, "ursus arctos")
		}
		if entry.Common != "Brown Bear" {
			t.Errorf("Common = %q, want %q", entry.Common, "Brown Bear")
		}
	})

	t.Run("latin falls back through genus family order class", func(t *testing.T) {
		rows := "g1;Mammalia;Carnivora;Ursidae;Ursus;;bears of a genus\n" +
			"g2;Mammalia;Carnivora;Mustelidae;;;weasel family\n" +
			"g3;Mammalia;Rodentia;;;;rodents\n" +
			"g4;Aves;;;;;birds\n"
		idx, err := Load(writeTable(t, rows), nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		for _, want := range []string{"ursus", "mustelidae", "rodentia", "aves"} {
			if idx.LookupLatin(want) == nil {
				t.Errorf("expected entry for %q", want)
			}
		}
	})

	t.Run("skips short rows and rows with no rank fields", func(t *testing.T) {
		rows := "g1;Mammalia;Carnivora;Ursidae;Ursus;arctos;Brown Bear\n" +
			"g2;too;few;fields\n" +
			"g3;;;;;;Nameless\n" +
			"\n"
		idx, err := Load(writeTable(t, rows), nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if idx.Len() != 1 {
			t.Errorf("Len() = %d, want 1", idx.Len())
		}
	})

	t.Run("last row wins on duplicate latin key", func(t *testing.T) {
		rows := "g1;Mammalia;Carnivora;Ursidae;Ursus;arctos;Old Name\n" +
			"g2;Mammalia;Carnivora;Ursidae;Ursus;arctos;Brown Bear\n"
		idx, err := Load(writeTable(t, rows), nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		entry := idx.LookupLatin("ursus arctos")
		if entry == nil || entry.Common != "Brown Bear" {
			t.Errorf("expected last row to win, got %+v", entry)
		}
	})

	t.Run("missing file yields empty index without error", func(t *testing.T) {
		idx, err := Load(filepath.Join(t.TempDir(), "absent.txt"), nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if idx.Len() != 0 {
			t.Errorf("Len() = %d, want 0", idx.Len())
		}
	})
}

func TestLookup(t *testing.T) {
	path := writeTable(t, "g1;Mammalia;Carnivora;Ursidae;Ursus;arctos;Brown Bear\n")
	idx, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	t.Run("latin lookup is case and whitespace insensitive", func(t *testing.T) {
		a := idx.LookupLatin("  Ursus Arctos ")
		b := idx.LookupLatin("ursus arctos")
		if a == nil || b == nil {
			t.Fatal("expected both lookups to hit")
		}
		if a != b {
			t.Error("expected identical entry from both lookups")
		}
	})

	t.Run("common lookup is case and whitespace insensitive", func(t *testing.T) {
		if idx.LookupCommon(" BROWN BEAR ") == nil {
			t.Error("expected common lookup to hit")
		}
	})

	t.Run("misses return nil", func(t *testing.T) {
		if idx.LookupLatin("vulpes vulpes") != nil {
			t.Error("expected nil for unknown latin name")
		}
		if idx.LookupCommon("silvertip") != nil {
			t.Error("expected nil for unknown common name")
		}
	})
}

func TestStoreReload(t *testing.T) {
	path := writeTable(t, "g1;Mammalia;Carnivora;Ursidae;Ursus;arctos;Brown Bear\n")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	before := store.Index()
	if before.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", before.Len())
	}

	rows := "g1;Mammalia;Carnivora;Ursidae;Ursus;arctos;Brown Bear\n" +
		"g2;Mammalia;Carnivora;Canidae;Vulpes;vulpes;Red Fox\n"
	if err := os.WriteFile(path, []byte(rows), 0o644); err != nil {
		t.Fatalf("failed to rewrite table: %v", err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	// The old snapshot is untouched; the new one sees the added row.
	if before.Len() != 1 {
		t.Errorf("old snapshot Len() = %d, want 1", before.Len())
	}
	if store.Index().Len() != 2 {
		t.Errorf("new snapshot Len() = %d, want 2", store.Index().Len())
	}
}
