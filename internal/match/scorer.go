package match

import (
	"nomen/internal/config"
	"nomen/internal/taxa"
)

// Penalty labels one scoring signal in a candidate's breakdown.
type Penalty string

const (
	PenaltySpelling     Penalty = "spelling"
	PenaltyYear         Penalty = "year"
	PenaltyAvailability Penalty = "availability"
	PenaltyTemporal     Penalty = "temporal"
	PenaltyStage        Penalty = "stage"
)

// ScoredCandidate is a candidate with its accumulated penalty score. Lower
// is better; zero means nothing counted against the match.
type ScoredCandidate struct {
	Candidate
	Score float64
	// Breakdown records each non-zero penalty so reviewers can see why a
	// candidate scored the way it did.
	Breakdown map[Penalty]float64
}

// Scorer assigns penalty scores from the configured weights. It holds no
// mutable state; scoring the same entry and candidate always yields the
// same result.
type Scorer struct {
	weights config.Matching
}

// NewScorer builds a scorer over the given weights.
func NewScorer(weights config.Matching) *Scorer {
	return &Scorer{weights: weights}
}

// Score computes the additive penalty total for one candidate against one
// entry.
func (s *Scorer) Score(entry *taxa.ClassificationEntry, candidate Candidate) ScoredCandidate {
	scored := ScoredCandidate{
		Candidate: candidate,
		Breakdown: make(map[Penalty]float64),
	}
	add := func(label Penalty, amount float64) {
		if amount <= 0 {
			return
		}
		scored.Breakdown[label] = amount
		scored.Score += amount
	}

	switch candidate.Spelling {
	case SpellingEquivalent:
		add(PenaltySpelling, s.weights.EquivalentSpellingPenalty)
	case SpellingFuzzy:
		add(PenaltySpelling, s.weights.FuzzySpellingPenalty*float64(candidate.EditDistance))
	}

	switch candidate.Stage {
	case StageGenus:
		add(PenaltyStage, s.weights.GenusStagePenalty)
	case StageSister:
		add(PenaltyStage, s.weights.SisterStagePenalty)
	}

	if entry.Year != 0 && candidate.Name.Year != 0 && entry.Year != candidate.Name.Year {
		add(PenaltyYear, s.weights.YearMismatchPenalty)
	}

	if !candidate.Name.IsAvailable() {
		add(PenaltyAvailability, s.weights.UnavailablePenalty)
	}

	// A name published after the source went to press cannot be what the
	// source meant, unless the source is flagged as citing later names.
	if entry.SourceYear != 0 && candidate.Name.Year > entry.SourceYear && !entry.AllowsLaterNames {
		add(PenaltyTemporal, s.weights.FutureNamePenalty)
	}

	return scored
}

// ScoreAll scores every candidate, preserving generation order.
func (s *Scorer) ScoreAll(entry *taxa.ClassificationEntry, candidates []Candidate) []ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, s.Score(entry, candidate))
	}
	return scored
}
