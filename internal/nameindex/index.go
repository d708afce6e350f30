package nameindex

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"log/slog"

	"nomen/internal/logging"
	"nomen/internal/normalize"
	"nomen/internal/taxa"
)

// Source is the slice of the storage layer the index is built from.
type Source interface {
	ListNames(ctx context.Context) ([]*taxa.Name, error)
}

// Index holds the immutable per-run lookup structures over the Name corpus.
type Index struct {
	byID map[int64]*taxa.Name

	// byRoot maps a normalized root spelling onto every name whose own
	// root, or whose taxon's current valid root, spells that way.
	byRoot map[string][]int64

	// byEquivKey maps a homonymy equivalence key onto the species-group
	// names in that class.
	byEquivKey map[string][]int64

	// byGroupName maps (group, normalized full spelling) onto name IDs.
	byGroupName map[taxa.Group]map[string][]int64

	// genusSpecies maps a genus ID onto the species ever placed in it.
	genusSpecies map[int64][]int64

	// rootGenera maps an exact normalized root onto the genera that ever
	// contained a species with that root. Used to catch reassignments.
	// Deliberately not equivalence-keyed: variant spellings in other
	// genera are the sister-widening stage's job.
	rootGenera map[string][]int64

	// sisters maps a genus ID onto the other genera in its tribe.
	sisters map[int64][]int64

	// normalizedRoot caches the normalized root per name ID.
	normalizedRoot map[int64]string
}

// Build constructs the index from a corpus snapshot. The result is immutable
// for the run's duration.
func Build(ctx context.Context, source Source, logger *slog.Logger) (*Index, error) {
	if source == nil {
		return nil, errors.New("index source unavailable")
	}
	log := logging.NewComponentLogger(logger, "nameindex")

	names, err := source.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}

	idx := &Index{
		byID:           make(map[int64]*taxa.Name, len(names)),
		byRoot:         make(map[string][]int64),
		byEquivKey:     make(map[string][]int64),
		byGroupName:    make(map[taxa.Group]map[string][]int64),
		genusSpecies:   make(map[int64][]int64),
		rootGenera:     make(map[string][]int64),
		sisters:        make(map[int64][]int64),
		normalizedRoot: make(map[int64]string, len(names)),
	}

	tribeGenera := make(map[int64][]int64)

	for _, name := range names {
		idx.byID[name.ID] = name

		root := normalize.Root(name.RootName)
		if root == "" {
			root = normalize.Root(name.EffectiveName())
		}
		idx.normalizedRoot[name.ID] = root
		if root != "" {
			idx.byRoot[root] = append(idx.byRoot[root], name.ID)
		}
		if validRoot := normalize.Root(name.TaxonValidName); validRoot != "" && validRoot != root {
			idx.byRoot[validRoot] = append(idx.byRoot[validRoot], name.ID)
		}

		if normalized, ok := normalize.Name(name.EffectiveName()); ok {
			perGroup := idx.byGroupName[name.Group]
			if perGroup == nil {
				perGroup = make(map[string][]int64)
				idx.byGroupName[name.Group] = perGroup
			}
			perGroup[normalized] = append(perGroup[normalized], name.ID)
		}

		switch name.Group {
		case taxa.GroupSpecies:
			key := normalize.EquivalenceKey(root)
			if key != "" {
				idx.byEquivKey[key] = append(idx.byEquivKey[key], name.ID)
			}
			for _, genusID := range []int64{name.OriginalGenusID, name.CurrentGenusID} {
				if genusID == 0 {
					continue
				}
				if !containsID(idx.genusSpecies[genusID], name.ID) {
					idx.genusSpecies[genusID] = append(idx.genusSpecies[genusID], name.ID)
				}
				if root != "" && !containsID(idx.rootGenera[root], genusID) {
					idx.rootGenera[root] = append(idx.rootGenera[root], genusID)
				}
			}
		case taxa.GroupGenus:
			if name.TribeID != 0 {
				tribeGenera[name.TribeID] = append(tribeGenera[name.TribeID], name.ID)
			}
		}
	}

	for _, genera := range tribeGenera {
		if len(genera) < 2 {
			continue
		}
		for _, genusID := range genera {
			for _, sisterID := range genera {
				if sisterID != genusID {
					idx.sisters[genusID] = append(idx.sisters[genusID], sisterID)
				}
			}
		}
	}

	// Deterministic iteration order for every adjacency list.
	for _, ids := range idx.byRoot {
		sortIDs(ids)
	}
	for _, ids := range idx.byEquivKey {
		sortIDs(ids)
	}
	for _, perGroup := range idx.byGroupName {
		for _, ids := range perGroup {
			sortIDs(ids)
		}
	}
	for _, ids := range idx.genusSpecies {
		sortIDs(ids)
	}
	for _, ids := range idx.rootGenera {
		sortIDs(ids)
	}
	for _, ids := range idx.sisters {
		sortIDs(ids)
	}

	log.Info("name index built",
		logging.Int("names", len(names)),
		logging.Int("root_spellings", len(idx.byRoot)),
		logging.Int("genera_with_species", len(idx.genusSpecies)),
	)
	return idx, nil
}

// Name resolves a name ID against the arena; nil when unknown.
func (idx *Index) Name(id int64) *taxa.Name {
	return idx.byID[id]
}

// NormalizedRoot returns the cached normalized root for a name ID.
func (idx *Index) NormalizedRoot(id int64) string {
	return idx.normalizedRoot[id]
}

// NamesByRoot returns the names whose root (or valid-taxon root) matches the
// given normalized spelling exactly.
func (idx *Index) NamesByRoot(root string) []*taxa.Name {
	return idx.resolve(idx.byRoot[root])
}

// NamesByEquivalence returns the species-group names in the same homonymy
// equivalence class as the given root.
func (idx *Index) NamesByEquivalence(root string) []*taxa.Name {
	return idx.resolve(idx.byEquivKey[normalize.EquivalenceKey(root)])
}

// NamesByGroupName returns the names of a group matching a normalized full
// spelling.
func (idx *Index) NamesByGroupName(group taxa.Group, normalized string) []*taxa.Name {
	perGroup := idx.byGroupName[group]
	if perGroup == nil {
		return nil
	}
	return idx.resolve(perGroup[normalized])
}

// SpeciesInGenus returns the species-group names ever placed in the genus.
func (idx *Index) SpeciesInGenus(genusID int64) []*taxa.Name {
	return idx.resolve(idx.genusSpecies[genusID])
}

// GeneraEverContaining returns the genera that ever held a species whose
// normalized root matches the given root exactly.
func (idx *Index) GeneraEverContaining(root string) []*taxa.Name {
	return idx.resolve(idx.rootGenera[root])
}

// Sisters returns the other genera in the given genus's tribe.
func (idx *Index) Sisters(genusID int64) []*taxa.Name {
	return idx.resolve(idx.sisters[genusID])
}

func (idx *Index) resolve(ids []int64) []*taxa.Name {
	if len(ids) == 0 {
		return nil
	}
	names := make([]*taxa.Name, 0, len(ids))
	for _, id := range ids {
		if name := idx.byID[id]; name != nil {
			names = append(names, name)
		}
	}
	return names
}

func containsID(ids []int64, id int64) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
