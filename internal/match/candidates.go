package match

import (
	"nomen/internal/nameindex"
	"nomen/internal/normalize"
	"nomen/internal/taxa"
)

// Stage names the candidate-generation stage that surfaced a candidate.
type Stage string

const (
	// StageExact means the root spelling matched the corpus directly.
	StageExact Stage = "exact"
	// StageGenus means the candidate came from searching the stated genus
	// or a genus that historically contained a name with this root.
	StageGenus Stage = "genus"
	// StageSister means the search had to widen to sister genera within
	// the same tribe before anything turned up.
	StageSister Stage = "sister"
)

// Spelling classifies how a candidate's root relates to the entry's root.
type Spelling string

const (
	// SpellingExact is a character-for-character normalized match.
	SpellingExact Spelling = "exact"
	// SpellingEquivalent means the roots differ only by a Code-mandated
	// suffix variant (-i/-ii and friends).
	SpellingEquivalent Spelling = "equivalent"
	// SpellingFuzzy means the roots are within the configured edit
	// distance but not Code-equivalent.
	SpellingFuzzy Spelling = "fuzzy"
)

// Candidate is one corpus name proposed for an entry, tagged with how it
// was found. Scoring happens later; generation records only provenance.
type Candidate struct {
	Name         *taxa.Name
	Stage        Stage
	Spelling     Spelling
	EditDistance int
}

// generator produces the candidate set for one name group. Each group has
// its own search shape, so the dispatch lives behind this interface.
type generator interface {
	generate(entry *taxa.ClassificationEntry) []Candidate
}

func generatorFor(group taxa.Group, idx *nameindex.Index, maxEditDistance int) generator {
	switch group {
	case taxa.GroupSpecies:
		return &speciesGenerator{idx: idx, maxEditDistance: maxEditDistance}
	case taxa.GroupGenus:
		return &uninomialGenerator{idx: idx, group: taxa.GroupGenus}
	case taxa.GroupFamily:
		return &familyGenerator{idx: idx}
	default:
		return &uninomialGenerator{idx: idx, group: taxa.GroupHigh}
	}
}

// speciesGenerator runs the staged species-group search. Each stage is
// attempted only when every earlier stage came up empty, so an exact root
// match short-circuits the genus walk entirely and the sister widening
// never runs against a populated genus stage.
type speciesGenerator struct {
	idx             *nameindex.Index
	maxEditDistance int
}

func (g *speciesGenerator) generate(entry *taxa.ClassificationEntry) []Candidate {
	root := normalize.Root(entry.RawName)
	if root == "" {
		return nil
	}

	if exact := g.exactStage(root); len(exact) > 0 {
		return exact
	}

	genera := g.searchGenera(entry, root)
	if within := g.genusStage(root, genera, StageGenus); len(within) > 0 {
		return within
	}

	return g.genusStage(root, g.sistersOf(genera), StageSister)
}

// exactStage matches the root against every name's own root and against
// the valid binomen of the taxon each name belongs to. Synonyms therefore
// surface under either spelling.
func (g *speciesGenerator) exactStage(root string) []Candidate {
	var out []Candidate
	for _, name := range g.idx.NamesByRoot(root) {
		if name.Group != taxa.GroupSpecies {
			continue
		}
		out = append(out, Candidate{Name: name, Stage: StageExact, Spelling: SpellingExact})
	}
	return out
}

// searchGenera collects the genus IDs worth searching: the genus the entry
// itself states, plus every genus that ever contained a species whose root
// is homonymy-equivalent to the entry's. The second set catches names the
// corpus carries under a later generic placement.
func (g *speciesGenerator) searchGenera(entry *taxa.ClassificationEntry, root string) []int64 {
	seen := make(map[int64]struct{})
	var out []int64
	add := func(id int64) {
		if id == 0 {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	if stated := normalize.GenusOf(entry.RawName); stated != "" {
		for _, genusName := range g.idx.NamesByGroupName(taxa.GroupGenus, stated) {
			add(genusName.ID)
		}
	}
	for _, genusName := range g.idx.GeneraEverContaining(root) {
		add(genusName.ID)
	}
	return out
}

func (g *speciesGenerator) sistersOf(genera []int64) []int64 {
	seen := make(map[int64]struct{}, len(genera))
	for _, id := range genera {
		seen[id] = struct{}{}
	}
	var out []int64
	for _, id := range genera {
		for _, sister := range g.idx.Sisters(id) {
			if _, dup := seen[sister.ID]; dup {
				continue
			}
			seen[sister.ID] = struct{}{}
			out = append(out, sister.ID)
		}
	}
	return out
}

// genusStage compares the entry's root against every species ever placed
// in the given genera. Spelling classification is ordered: an exact match
// is never downgraded to equivalent, nor equivalent to fuzzy, even when a
// species appears through more than one genus.
func (g *speciesGenerator) genusStage(root string, genera []int64, stage Stage) []Candidate {
	best := make(map[int64]int)
	var order []int64
	byID := make(map[int64]Candidate)

	for _, genusID := range genera {
		for _, species := range g.idx.SpeciesInGenus(genusID) {
			candidate, ok := g.classify(root, species, stage)
			if !ok {
				continue
			}
			rank := spellingRank(candidate.Spelling)
			if existing, dup := best[species.ID]; dup {
				if rank >= existing {
					continue
				}
			} else {
				order = append(order, species.ID)
			}
			best[species.ID] = rank
			byID[species.ID] = candidate
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

func (g *speciesGenerator) classify(root string, species *taxa.Name, stage Stage) (Candidate, bool) {
	speciesRoot := g.idx.NormalizedRoot(species.ID)
	if speciesRoot == "" {
		return Candidate{}, false
	}
	switch {
	case speciesRoot == root:
		return Candidate{Name: species, Stage: stage, Spelling: SpellingExact}, true
	case normalize.Equivalent(speciesRoot, root):
		return Candidate{Name: species, Stage: stage, Spelling: SpellingEquivalent}, true
	}
	if g.maxEditDistance > 0 {
		if distance := normalize.EditDistance(speciesRoot, root); distance <= g.maxEditDistance {
			return Candidate{Name: species, Stage: stage, Spelling: SpellingFuzzy, EditDistance: distance}, true
		}
	}
	return Candidate{}, false
}

func spellingRank(spelling Spelling) int {
	switch spelling {
	case SpellingExact:
		return 0
	case SpellingEquivalent:
		return 1
	default:
		return 2
	}
}

// uninomialGenerator serves the genus and high groups, whose names match
// only by exact normalized spelling.
type uninomialGenerator struct {
	idx   *nameindex.Index
	group taxa.Group
}

func (g *uninomialGenerator) generate(entry *taxa.ClassificationEntry) []Candidate {
	normalized, ok := normalize.Name(entry.RawName)
	if !ok {
		return nil
	}
	var out []Candidate
	for _, name := range g.idx.NamesByGroupName(g.group, normalized) {
		out = append(out, Candidate{Name: name, Stage: StageExact, Spelling: SpellingExact})
	}
	return out
}

// familyGenerator matches family-group names across rank endings. A name
// cited as a subfamily still finds its record stored at family rank; the
// non-cited endings count as equivalent spellings rather than exact ones.
type familyGenerator struct {
	idx *nameindex.Index
}

func (g *familyGenerator) generate(entry *taxa.ClassificationEntry) []Candidate {
	variants := normalize.FamilyVariants(entry.RawName)
	if len(variants) == 0 {
		return nil
	}
	seen := make(map[int64]struct{})
	var out []Candidate
	for i, variant := range variants {
		spelling := SpellingExact
		if i > 0 {
			spelling = SpellingEquivalent
		}
		for _, name := range g.idx.NamesByGroupName(taxa.GroupFamily, variant) {
			if _, dup := seen[name.ID]; dup {
				continue
			}
			seen[name.ID] = struct{}{}
			out = append(out, Candidate{Name: name, Stage: StageExact, Spelling: spelling})
		}
	}
	return out
}
