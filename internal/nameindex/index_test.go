package nameindex

import (
	"context"
	"testing"

	"nomen/internal/taxa"
)

type sliceSource []*taxa.Name

func (s sliceSource) ListNames(ctx context.Context) ([]*taxa.Name, error) {
	return s, nil
}

func buildTestIndex(t *testing.T, names ...*taxa.Name) *Index {
	t.Helper()
	idx, err := Build(context.Background(), sliceSource(names), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

func genus(id, tribeID int64, name string) *taxa.Name {
	return &taxa.Name{ID: id, Group: taxa.GroupGenus, OriginalName: name, RootName: name, TribeID: tribeID, Availability: taxa.StatusAvailable}
}

func species(id, genusID int64, original, root string) *taxa.Name {
	return &taxa.Name{ID: id, Group: taxa.GroupSpecies, OriginalName: original, RootName: root, OriginalGenusID: genusID, CurrentGenusID: genusID, Availability: taxa.StatusAvailable}
}

func TestNamesByRootIncludesValidTaxonRoot(t *testing.T) {
	synonym := species(1, 0, "Foo barum", "barum")
	synonym.TaxonValidName = "Foo bazium"
	idx := buildTestIndex(t, synonym)

	if got := idx.NamesByRoot("barum"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("by own root: %+v", got)
	}
	if got := idx.NamesByRoot("bazium"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("by valid root: %+v", got)
	}
}

func TestNamesByEquivalenceCrossesVariantSpellings(t *testing.T) {
	idx := buildTestIndex(t,
		species(1, 10, "Vampyriscus brocki", "brocki"),
		species(2, 11, "Coelops frithii", "frithii"),
	)

	// Looking up the -ii variant finds the -i name and vice versa.
	if got := idx.NamesByEquivalence("brockii"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("brockii lookup: %+v", got)
	}
	if got := idx.NamesByEquivalence("frithi"); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("frithi lookup: %+v", got)
	}
}

func TestGenusMembershipTracksBothAssignments(t *testing.T) {
	moved := species(3, 10, "Vampyressa brocki", "brocki")
	moved.CurrentGenusID = 11
	idx := buildTestIndex(t, genus(10, 7, "Vampyressa"), genus(11, 7, "Vampyriscus"), moved)

	for _, genusID := range []int64{10, 11} {
		if got := idx.SpeciesInGenus(genusID); len(got) != 1 || got[0].ID != 3 {
			t.Fatalf("genus %d species: %+v", genusID, got)
		}
	}

	genera := idx.GeneraEverContaining("brocki")
	if len(genera) != 2 {
		t.Fatalf("genera ever containing brocki: %+v", genera)
	}
	// Lookup is by exact root; the -ii variant does not reach across
	// genera here.
	if got := idx.GeneraEverContaining("brockii"); got != nil {
		t.Fatalf("variant spelling matched: %+v", got)
	}
}

func TestSistersShareTribe(t *testing.T) {
	idx := buildTestIndex(t,
		genus(10, 7, "Vampyressa"),
		genus(11, 7, "Vampyriscus"),
		genus(12, 9, "Artibeus"),
		genus(13, 0, "Mops"),
	)

	sisters := idx.Sisters(10)
	if len(sisters) != 1 || sisters[0].ID != 11 {
		t.Fatalf("sisters of 10: %+v", sisters)
	}
	if got := idx.Sisters(12); len(got) != 0 {
		t.Fatalf("lone tribe member has sisters: %+v", got)
	}
	if got := idx.Sisters(13); len(got) != 0 {
		t.Fatalf("tribe-less genus has sisters: %+v", got)
	}
}

func TestNamesByGroupName(t *testing.T) {
	idx := buildTestIndex(t,
		genus(10, 7, "Vampyressa"),
		&taxa.Name{ID: 20, Group: taxa.GroupFamily, OriginalName: "Phyllostomidae", RootName: "phyllostomidae", Availability: taxa.StatusAvailable},
	)

	if got := idx.NamesByGroupName(taxa.GroupGenus, "vampyressa"); len(got) != 1 || got[0].ID != 10 {
		t.Fatalf("genus lookup: %+v", got)
	}
	if got := idx.NamesByGroupName(taxa.GroupFamily, "phyllostomidae"); len(got) != 1 || got[0].ID != 20 {
		t.Fatalf("family lookup: %+v", got)
	}
	if got := idx.NamesByGroupName(taxa.GroupFamily, "vampyressa"); got != nil {
		t.Fatalf("cross-group lookup should miss: %+v", got)
	}
}
