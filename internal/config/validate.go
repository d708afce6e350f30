package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir must not be empty")
	}
	if c.Workers.Count < 1 {
		problems = append(problems, "workers.count must be at least 1")
	}
	if c.Matching.MaxEditDistance < 0 {
		problems = append(problems, "matching.max_edit_distance must not be negative")
	}
	for _, weight := range []struct {
		name  string
		value float64
	}{
		{"matching.equivalent_spelling_penalty", c.Matching.EquivalentSpellingPenalty},
		{"matching.fuzzy_spelling_penalty", c.Matching.FuzzySpellingPenalty},
		{"matching.year_mismatch_penalty", c.Matching.YearMismatchPenalty},
		{"matching.unavailable_penalty", c.Matching.UnavailablePenalty},
		{"matching.future_name_penalty", c.Matching.FutureNamePenalty},
		{"matching.genus_stage_penalty", c.Matching.GenusStagePenalty},
		{"matching.sister_stage_penalty", c.Matching.SisterStagePenalty},
	} {
		if weight.value < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative", weight.name))
		}
	}
	if c.Matching.SisterStagePenalty <= c.Matching.GenusStagePenalty {
		problems = append(problems, "matching.sister_stage_penalty must exceed matching.genus_stage_penalty")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported (console, json)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
