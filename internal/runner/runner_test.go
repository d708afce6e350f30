package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/flock"

	"nomen/internal/match"
	"nomen/internal/runner"
	"nomen/internal/taxa"
	"nomen/internal/testsupport"
)

func TestRunMapsAndDefers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	genus := testsupport.InsertName(t, store, testsupport.GenusName("Foo", 0, 1850))
	clear := testsupport.InsertName(t, store, testsupport.SpeciesName("Foo barum", "barum", genus.ID, 1900))
	testsupport.InsertName(t, store, testsupport.SpeciesName("Foo ambigum", "ambigum", genus.ID, 1900))
	testsupport.InsertName(t, store, testsupport.SpeciesName("Baz ambigum", "ambigum", genus.ID, 1900))

	mapped := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{SourceID: 1, RawName: "Foo barum", Rank: "species"})
	deferred := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{SourceID: 1, RawName: "Foo ambigum", Rank: "species"})

	summary, err := runner.New(store, cfg, nil).Run(ctx, runner.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Total != 2 || summary.Mapped != 1 || summary.Deferred != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	gotMapped, err := store.GetEntry(ctx, mapped.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if gotMapped.MappedNameID != clear.ID || gotMapped.MappingState != taxa.MappingMapped {
		t.Fatalf("mapped entry = %+v", gotMapped)
	}
	if gotMapped.MappedBy != summary.RunID || gotMapped.MatchStage != "exact" {
		t.Fatalf("provenance = %q stage = %q", gotMapped.MappedBy, gotMapped.MatchStage)
	}

	gotDeferred, err := store.GetEntry(ctx, deferred.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if gotDeferred.MappingState != taxa.MappingDeferred {
		t.Fatalf("deferred entry = %+v", gotDeferred)
	}
	reports, err := match.DecodeCandidates(gotDeferred.CandidatesJSON)
	if err != nil {
		t.Fatalf("DecodeCandidates: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("stored candidates = %+v", reports)
	}

	run, err := store.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if run.ID != summary.RunID || run.Mapped != 1 || run.Deferred != 1 || run.FinishedAt == nil {
		t.Fatalf("run record = %+v", run)
	}
}

func TestRerunReproducesDecisions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	genus := testsupport.InsertName(t, store, testsupport.GenusName("Foo", 0, 1850))
	name := testsupport.InsertName(t, store, testsupport.SpeciesName("Foo barum", "barum", genus.ID, 1900))
	entry := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{SourceID: 1, RawName: "Foo barum", Rank: "species"})

	r := runner.New(store, cfg, nil)
	first, err := r.Run(ctx, runner.Options{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := r.Run(ctx, runner.Options{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Total != first.Total || second.Mapped != first.Mapped || second.Deferred != first.Deferred {
		t.Fatalf("runs disagree: %+v vs %+v", first, second)
	}

	got, err := store.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.MappedNameID != name.ID || got.MappingState != taxa.MappingMapped {
		t.Fatalf("entry after rerun = %+v", got)
	}
	if got.MappedBy != second.RunID {
		t.Fatalf("provenance should track the latest run, got %q", got.MappedBy)
	}
}

func TestManualMappingSurvivesUnforcedRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	genus := testsupport.InsertName(t, store, testsupport.GenusName("Foo", 0, 1850))
	auto := testsupport.InsertName(t, store, testsupport.SpeciesName("Foo barum", "barum", genus.ID, 1900))
	chosen := testsupport.InsertName(t, store, testsupport.SpeciesName("Foo bazium", "bazium", genus.ID, 1900))
	entry := testsupport.InsertEntry(t, store, taxa.ClassificationEntry{SourceID: 1, RawName: "Foo barum", Rank: "species"})

	if err := store.SetManualMapping(ctx, entry.ID, chosen.ID, "reviewer", false); err != nil {
		t.Fatalf("SetManualMapping: %v", err)
	}

	summary, err := runner.New(store, cfg, nil).Run(ctx, runner.Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Total != 0 {
		t.Fatalf("manual entry was scheduled: %+v", summary)
	}

	got, err := store.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.MappedNameID != chosen.ID || got.MappingState != taxa.MappingManual || got.MappedBy != "reviewer" {
		t.Fatalf("manual mapping disturbed: %+v", got)
	}

	// A forced run replaces it with the automatic winner.
	forced, err := runner.New(store, cfg, nil).Run(ctx, runner.Options{Force: true})
	if err != nil {
		t.Fatalf("forced run: %v", err)
	}
	if forced.Mapped != 1 {
		t.Fatalf("forced summary = %+v", forced)
	}
	got, err = store.GetEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if got.MappedNameID != auto.ID || got.MappingState != taxa.MappingMapped {
		t.Fatalf("forced run result = %+v", got)
	}
}

func TestRunRefusesWhenLockHeld(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-lock: locked=%v err=%v", locked, err)
	}
	defer lock.Unlock()

	_, err = runner.New(store, cfg, nil).Run(context.Background(), runner.Options{})
	if !errors.Is(err, runner.ErrRunActive) {
		t.Fatalf("expected ErrRunActive, got %v", err)
	}
}
