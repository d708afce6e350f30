package match

import "sort"

// OutcomeKind is the decision taken for one entry.
type OutcomeKind string

const (
	// OutcomeMapped means a unique lowest-scoring candidate won.
	OutcomeMapped OutcomeKind = "mapped"
	// OutcomeDeferred means no candidate was found, or the lowest score
	// was tied; a human must adjudicate.
	OutcomeDeferred OutcomeKind = "deferred"
)

// Outcome is the decision engine's verdict for one entry.
type Outcome struct {
	Kind OutcomeKind
	// Winner is set only for mapped outcomes.
	Winner *ScoredCandidate
	// Tied holds every candidate sharing the lowest score when the
	// outcome is a tie deferral; empty for no-candidate deferrals.
	Tied []ScoredCandidate
	// Candidates is the full scored set in ascending score order.
	Candidates []ScoredCandidate
}

// Decide sorts candidates by ascending score and settles the outcome. Ties
// on the minimum score always defer; the engine never breaks a tie on its
// own. Sorting falls back to name ID so equal-scored candidates keep a
// stable order across runs.
func Decide(candidates []ScoredCandidate) Outcome {
	if len(candidates) == 0 {
		return Outcome{Kind: OutcomeDeferred}
	}

	sorted := make([]ScoredCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score < sorted[j].Score
		}
		return sorted[i].Name.ID < sorted[j].Name.ID
	})

	tieEnd := 1
	for tieEnd < len(sorted) && sorted[tieEnd].Score == sorted[0].Score {
		tieEnd++
	}
	if tieEnd > 1 {
		return Outcome{Kind: OutcomeDeferred, Tied: sorted[:tieEnd], Candidates: sorted}
	}
	return Outcome{Kind: OutcomeMapped, Winner: &sorted[0], Candidates: sorted}
}
