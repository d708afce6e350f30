package testsupport

import (
	"context"
	"testing"

	"nomen/internal/config"
	"nomen/internal/namestore"
	"nomen/internal/taxa"
)

// MustOpenStore opens a namestore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *namestore.Store {
	t.Helper()

	store, err := namestore.Open(cfg)
	if err != nil {
		t.Fatalf("namestore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// InsertName inserts a canonical name for tests.
func InsertName(t testing.TB, store *namestore.Store, name taxa.Name) *taxa.Name {
	t.Helper()

	inserted, err := store.InsertName(context.Background(), &name)
	if err != nil {
		t.Fatalf("store.InsertName(%q): %v", name.OriginalName, err)
	}
	return inserted
}

// InsertEntry inserts a classification entry for tests.
func InsertEntry(t testing.TB, store *namestore.Store, entry taxa.ClassificationEntry) *taxa.ClassificationEntry {
	t.Helper()

	inserted, err := store.InsertEntry(context.Background(), &entry)
	if err != nil {
		t.Fatalf("store.InsertEntry(%q): %v", entry.RawName, err)
	}
	return inserted
}

// SpeciesName builds a species-group name with sensible defaults for tests.
func SpeciesName(original, root string, genusID int64, year int) taxa.Name {
	return taxa.Name{
		Group:           taxa.GroupSpecies,
		OriginalName:    original,
		RootName:        root,
		OriginalGenusID: genusID,
		CurrentGenusID:  genusID,
		Availability:    taxa.StatusAvailable,
		Year:            year,
	}
}

// GenusName builds a genus-group name with sensible defaults for tests.
func GenusName(original string, tribeID int64, year int) taxa.Name {
	return taxa.Name{
		Group:        taxa.GroupGenus,
		OriginalName: original,
		RootName:     original,
		TribeID:      tribeID,
		Availability: taxa.StatusAvailable,
		Year:         year,
	}
}
