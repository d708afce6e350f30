package match

import (
	"encoding/json"
	"fmt"
)

// CandidateReport is the serialized form of one scored candidate, persisted
// for deferred entries so the review tooling can show the full tied set
// without rebuilding the index.
type CandidateReport struct {
	NameID       int64              `json:"name_id"`
	Name         string             `json:"name"`
	Year         int                `json:"year,omitempty"`
	Stage        Stage              `json:"stage"`
	Spelling     Spelling           `json:"spelling"`
	EditDistance int                `json:"edit_distance,omitempty"`
	Score        float64            `json:"score"`
	Breakdown    map[Penalty]float64 `json:"breakdown,omitempty"`
}

// EncodeCandidates serializes scored candidates for storage.
func EncodeCandidates(candidates []ScoredCandidate) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	reports := make([]CandidateReport, 0, len(candidates))
	for _, candidate := range candidates {
		reports = append(reports, CandidateReport{
			NameID:       candidate.Name.ID,
			Name:         candidate.Name.EffectiveName(),
			Year:         candidate.Name.Year,
			Stage:        candidate.Stage,
			Spelling:     candidate.Spelling,
			EditDistance: candidate.EditDistance,
			Score:        candidate.Score,
			Breakdown:    candidate.Breakdown,
		})
	}
	encoded, err := json.Marshal(reports)
	if err != nil {
		return "", fmt.Errorf("encode candidates: %w", err)
	}
	return string(encoded), nil
}

// DecodeCandidates parses a stored candidate breakdown. An empty string
// decodes to nil.
func DecodeCandidates(encoded string) ([]CandidateReport, error) {
	if encoded == "" {
		return nil, nil
	}
	var reports []CandidateReport
	if err := json.Unmarshal([]byte(encoded), &reports); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return reports, nil
}
