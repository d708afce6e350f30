package namestore_test

import (
	"context"
	"errors"
	"testing"

	"nomen/internal/namestore"
	"nomen/internal/taxa"
	"nomen/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	health, err := store.CheckHealth(context.Background())
	if err != nil {
		t.Fatalf("CheckHealth: %v", err)
	}
	if !health.DatabaseReadable || !health.IntegrityCheck {
		t.Fatalf("unexpected health: %+v", health)
	}
	if len(health.MissingTables) != 0 {
		t.Fatalf("missing tables: %v", health.MissingTables)
	}
}

func TestInsertNameComputesNormalizedLookups(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	genus := testsupport.InsertName(t, store, testsupport.GenusName("Vampyriscus", 7, 1900))
	species := testsupport.InsertName(t, store, testsupport.SpeciesName("Vampyriscus brockii", "brockii", genus.ID, 1893))

	// Exact normalized root.
	byRoot, err := store.NamesByRoot(ctx, "brockii")
	if err != nil {
		t.Fatalf("NamesByRoot: %v", err)
	}
	if len(byRoot) != 1 || byRoot[0].ID != species.ID {
		t.Fatalf("NamesByRoot = %+v", byRoot)
	}

	// Genus lookup by normalized spelling.
	genera, err := store.GeneraByName(ctx, "vampyriscus")
	if err != nil {
		t.Fatalf("GeneraByName: %v", err)
	}
	if len(genera) != 1 || genera[0].ID != genus.ID {
		t.Fatalf("GeneraByName = %+v", genera)
	}
}

func TestNamesByRootMatchesTaxonValidName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	synonym := testsupport.SpeciesName("Foo barum", "barum", 0, 1900)
	synonym.TaxonValidName = "Foo bazium"
	inserted := testsupport.InsertName(t, store, synonym)

	byValid, err := store.NamesByRoot(ctx, "bazium")
	if err != nil {
		t.Fatalf("NamesByRoot: %v", err)
	}
	if len(byValid) != 1 || byValid[0].ID != inserted.ID {
		t.Fatalf("expected lookup via valid name, got %+v", byValid)
	}
}

func TestSpeciesEverInGenusIncludesReassignments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	origGenus := testsupport.InsertName(t, store, testsupport.GenusName("Vampyressa", 7, 1900))
	currGenus := testsupport.InsertName(t, store, testsupport.GenusName("Vampyriscus", 7, 1901))

	moved := testsupport.SpeciesName("Vampyressa brocki", "brocki", origGenus.ID, 1893)
	moved.CurrentGenusID = currGenus.ID
	inserted := testsupport.InsertName(t, store, moved)

	for _, genusID := range []int64{origGenus.ID, currGenus.ID} {
		species, err := store.SpeciesEverInGenus(ctx, genusID)
		if err != nil {
			t.Fatalf("SpeciesEverInGenus(%d): %v", genusID, err)
		}
		if len(species) != 1 || species[0].ID != inserted.ID {
			t.Fatalf("genus %d species = %+v", genusID, species)
		}
	}
}

func TestSisterGeneraSharesTribe(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a := testsupport.InsertName(t, store, testsupport.GenusName("Vampyressa", 7, 1900))
	b := testsupport.InsertName(t, store, testsupport.GenusName("Vampyriscus", 7, 1901))
	testsupport.InsertName(t, store, testsupport.GenusName("Artibeus", 9, 1821))
	loner := testsupport.InsertName(t, store, testsupport.GenusName("Mops", 0, 1839))

	sisters, err := store.SisterGenera(ctx, a.ID)
	if err != nil {
		t.Fatalf("SisterGenera: %v", err)
	}
	if len(sisters) != 1 || sisters[0].ID != b.ID {
		t.Fatalf("sisters = %+v", sisters)
	}

	none, err := store.SisterGenera(ctx, loner.ID)
	if err != nil {
		t.Fatalf("SisterGenera(loner): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no sisters for tribe-less genus, got %+v", none)
	}
}

func TestSetAutoMappingProtectsManual(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	name := testsupport.InsertName(t, store, testsupport.SpeciesName("Foo barum", "barum", 0, 1900))
	entry := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{
		SourceID: 1,
		RawName:  "Foo barum",
		Rank:     "species",
	})

	if err := store.SetManualMapping(ctx, entry.ID, name.ID, "reviewer", false); err != nil {
		t.Fatalf("SetManualMapping: %v", err)
	}

	err := store.SetAutoMapping(ctx, entry.ID, name.ID, "run-1", "exact", false)
	if !errors.Is(err, namestore.ErrManualMapping) {
		t.Fatalf("expected ErrManualMapping, got %v", err)
	}

	got, err := store.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.MappingState != taxa.MappingManual || got.MappedBy != "reviewer" {
		t.Fatalf("manual mapping was disturbed: %+v", got)
	}

	// Forced re-run may replace the manual decision.
	if err := store.SetAutoMapping(ctx, entry.ID, name.ID, "run-2", "exact", true); err != nil {
		t.Fatalf("forced SetAutoMapping: %v", err)
	}
}

func TestMappingRefusesGroupMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	genus := testsupport.InsertName(t, store, testsupport.GenusName("Vampyressa", 7, 1900))
	entry := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{
		SourceID: 1,
		RawName:  "Vampyressa pusilla",
		Rank:     "species",
	})

	err := store.SetAutoMapping(ctx, entry.ID, genus.ID, "run-1", "exact", false)
	if !errors.Is(err, namestore.ErrGroupMismatch) {
		t.Fatalf("expected ErrGroupMismatch, got %v", err)
	}

	// Same refusal applies to manual mappings without an explicit override.
	err = store.SetManualMapping(ctx, entry.ID, genus.ID, "reviewer", false)
	if !errors.Is(err, namestore.ErrGroupMismatch) {
		t.Fatalf("expected ErrGroupMismatch for manual, got %v", err)
	}

	got, err := store.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.MappedNameID != 0 || got.MappingState != taxa.MappingUnmapped {
		t.Fatalf("mismatched mapping was persisted: %+v", got)
	}
}

func TestEntriesForMatchingSkipsManualUnlessForced(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	name := testsupport.InsertName(t, store, testsupport.SpeciesName("Foo barum", "barum", 0, 1900))
	auto := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{SourceID: 1, RawName: "Foo barum", Rank: "species"})
	manual := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{SourceID: 1, RawName: "Foo barum", Rank: "species"})
	if err := store.SetManualMapping(ctx, manual.ID, name.ID, "reviewer", false); err != nil {
		t.Fatalf("SetManualMapping: %v", err)
	}

	unforced, err := store.EntriesForMatching(ctx, 0, false)
	if err != nil {
		t.Fatalf("EntriesForMatching: %v", err)
	}
	if len(unforced) != 1 || unforced[0].ID != auto.ID {
		t.Fatalf("unforced = %+v", unforced)
	}

	forced, err := store.EntriesForMatching(ctx, 0, true)
	if err != nil {
		t.Fatalf("EntriesForMatching(force): %v", err)
	}
	if len(forced) != 2 {
		t.Fatalf("forced = %+v", forced)
	}
}

func TestParentGenusEntryWalksTree(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	family := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{SourceID: 1, RawName: "Phyllostomidae", Rank: "family"})
	genus := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{SourceID: 1, RawName: "Vampyressa", Rank: "genus", ParentID: family.ID})
	subgenus := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{SourceID: 1, RawName: "Vampyriscus", Rank: "subgenus", ParentID: genus.ID})
	species := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{SourceID: 1, RawName: "Vampyressa brocki", Rank: "species", ParentID: subgenus.ID})

	parent, err := store.ParentGenusEntry(ctx, species)
	if err != nil {
		t.Fatalf("ParentGenusEntry: %v", err)
	}
	if parent == nil || parent.ID != subgenus.ID {
		t.Fatalf("parent = %+v, want nearest genus-group ancestor %d", parent, subgenus.ID)
	}

	root, err := store.ParentGenusEntry(ctx, family)
	if err != nil {
		t.Fatalf("ParentGenusEntry(root): %v", err)
	}
	if root != nil {
		t.Fatalf("expected nil for entry without genus ancestor, got %+v", root)
	}
}

func TestRunRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.CreateRun(ctx, "run-abc"); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := store.FinishRun(ctx, "run-abc", 10, 7, 2, 1, 0); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	latest, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != "run-abc" || latest.Mapped != 7 || latest.FinishedAt == nil {
		t.Fatalf("latest = %+v", latest)
	}
}
