package taxa

import (
	"strings"
	"time"
)

// Group partitions names by the Code's name groups. Each group has its own
// candidate-generation strategy.
type Group string

const (
	GroupSpecies Group = "species"
	GroupGenus   Group = "genus"
	GroupFamily  Group = "family"
	GroupHigh    Group = "high"
)

var allGroups = []Group{GroupSpecies, GroupGenus, GroupFamily, GroupHigh}

var groupSet = func() map[Group]struct{} {
	set := make(map[Group]struct{}, len(allGroups))
	for _, group := range allGroups {
		set[group] = struct{}{}
	}
	return set
}()

// AllGroups returns the ordered list of known name groups.
func AllGroups() []Group {
	cp := make([]Group, len(allGroups))
	copy(cp, allGroups)
	return cp
}

// ParseGroup converts a string into a known Group.
func ParseGroup(value string) (Group, bool) {
	normalized := Group(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := groupSet[normalized]
	return normalized, ok
}

// GroupForRank maps a classification-entry rank onto the name group its
// mapped name must belong to. Unknown ranks fall into the high group.
func GroupForRank(rank string) Group {
	switch strings.ToLower(strings.TrimSpace(rank)) {
	case "species", "subspecies", "variety", "form", "aberratio", "morph":
		return GroupSpecies
	case "genus", "subgenus", "division", "section":
		return GroupGenus
	case "superfamily", "family", "subfamily", "tribe", "subtribe", "infratribe":
		return GroupFamily
	default:
		return GroupHigh
	}
}

// Availability captures whether a name satisfies the Code's publication
// requirements. Unavailable names may still be mapping targets but score
// worse than available ones.
type Availability string

const (
	StatusAvailable   Availability = "available"
	StatusUnavailable Availability = "unavailable"
)

// ParseAvailability converts a string into a known Availability.
func ParseAvailability(value string) (Availability, bool) {
	switch Availability(strings.ToLower(strings.TrimSpace(value))) {
	case StatusAvailable:
		return StatusAvailable, true
	case StatusUnavailable:
		return StatusUnavailable, true
	default:
		return "", false
	}
}

// Name is a canonical nomenclatural record. Identity is immutable; only
// status fields change over the record's life, and never through this
// codebase.
type Name struct {
	ID int64
	// Group the name belongs to under the Code.
	Group Group
	// OriginalName is the spelling as first published.
	OriginalName string
	// CorrectedName is the orthographically corrected spelling, when one
	// has been mandated; empty otherwise.
	CorrectedName string
	// RootName is the terminal matching component: species epithet for the
	// species group, the genus name itself for the genus group, the family
	// stem plus rank ending for the family group.
	RootName string
	// OriginalGenusID is the genus the name was combined with at original
	// publication. Species group only; 0 when unknown.
	OriginalGenusID int64
	// CurrentGenusID is the genus of the name's current placement. Species
	// group only; 0 when unknown.
	CurrentGenusID int64
	// TribeID groups genus-rank names into sister sets. Genus group only;
	// 0 when the genus is not placed in a tribe.
	TribeID int64
	// TaxonValidName is the current valid binomen of the taxon this name
	// applies to, when the name is a synonym; empty otherwise.
	TaxonValidName string
	Availability   Availability
	// Year of original publication; 0 when unknown.
	Year int
	CreatedAt time.Time
}

// EffectiveName returns the corrected spelling when present, else the
// original spelling.
func (n Name) EffectiveName() string {
	if strings.TrimSpace(n.CorrectedName) != "" {
		return n.CorrectedName
	}
	return n.OriginalName
}

// IsAvailable reports whether the name meets the Code's publication
// requirements.
func (n Name) IsAvailable() bool {
	return n.Availability == StatusAvailable
}

// MappingState tracks how far an entry has progressed toward its mapped name.
type MappingState string

const (
	// MappingUnmapped means no matching attempt has recorded an outcome yet.
	MappingUnmapped MappingState = "unmapped"
	// MappingMapped means the decision engine selected a unique winner.
	MappingMapped MappingState = "mapped"
	// MappingDeferred means matching ran but produced no candidates or an
	// ambiguous tie; a human must decide.
	MappingDeferred MappingState = "deferred"
	// MappingManual means a reviewer set the mapping by hand. Automated
	// re-runs must not replace it unless explicitly forced.
	MappingManual MappingState = "manual"
)

var allMappingStates = []MappingState{MappingUnmapped, MappingMapped, MappingDeferred, MappingManual}

// AllMappingStates returns the ordered list of known mapping states.
func AllMappingStates() []MappingState {
	cp := make([]MappingState, len(allMappingStates))
	copy(cp, allMappingStates)
	return cp
}

// ParseMappingState converts a string into a known MappingState.
func ParseMappingState(value string) (MappingState, bool) {
	normalized := MappingState(strings.ToLower(strings.TrimSpace(value)))
	for _, state := range allMappingStates {
		if state == normalized {
			return state, true
		}
	}
	return "", false
}

// ClassificationEntry is a name as it appeared in one historical source.
// Entries form a tree per source via ParentID and are created in bulk when a
// source is digitized; only the mapping fields mutate afterward.
type ClassificationEntry struct {
	ID       int64
	SourceID int64
	// SourceYear is the publication year of the classification source
	// itself, used for temporal plausibility; 0 when unknown.
	SourceYear int
	// RawName is the literal string from the source, diacritics and all.
	RawName   string
	Rank      string
	Page      string
	Authority string
	// Year as stated by the source for this name; 0 when not stated.
	Year int
	// ParentID references the nearest ancestor entry in the source's tree;
	// 0 at the root.
	ParentID int64
	// AllowsLaterNames marks sources known to cite names published after
	// the source date (posthumous editions, retroactive renamings).
	AllowsLaterNames bool

	// Mapping fields, owned by the matching engine or a human reviewer.
	MappedNameID int64
	MappingState MappingState
	// MappedBy records provenance: the run ID for automated mappings, a
	// reviewer handle for manual ones.
	MappedBy string
	// MatchStage is the candidate-generation stage that produced the winner
	// (exact, genus, sister); empty for manual mappings.
	MatchStage string
	// CandidatesJSON holds the serialized candidate breakdown kept for
	// deferred entries so reviewers see the full tied set.
	CandidatesJSON string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Group returns the name group implied by the entry's rank.
func (e ClassificationEntry) Group() Group {
	return GroupForRank(e.Rank)
}

// IsMapped reports whether the entry has a mapped name, automated or manual.
func (e ClassificationEntry) IsMapped() bool {
	return e.MappedNameID != 0 && (e.MappingState == MappingMapped || e.MappingState == MappingManual)
}

// IsManual reports whether a human set the mapping. Manual mappings survive
// unforced re-runs.
func (e ClassificationEntry) IsManual() bool {
	return e.MappingState == MappingManual
}

// NeedsReview reports whether the entry awaits human adjudication.
func (e ClassificationEntry) NeedsReview() bool {
	return e.MappingState == MappingDeferred
}
