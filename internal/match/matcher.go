package match

import (
	"log/slog"

	"nomen/internal/config"
	"nomen/internal/logging"
	"nomen/internal/nameindex"
	"nomen/internal/normalize"
	"nomen/internal/taxa"
)

// Result is the full matching product for one entry: the outcome plus the
// provenance the persistence layer records.
type Result struct {
	Entry   *taxa.ClassificationEntry
	Outcome Outcome
	// Unusable is set when the raw name normalizes to nothing; such
	// entries defer without any search.
	Unusable bool
}

// Winner returns the mapped name ID, or 0 when the outcome is a deferral.
func (r Result) Winner() int64 {
	if r.Outcome.Kind != OutcomeMapped || r.Outcome.Winner == nil {
		return 0
	}
	return r.Outcome.Winner.Name.ID
}

// WinnerStage returns the generation stage of the winning candidate.
func (r Result) WinnerStage() Stage {
	if r.Outcome.Kind != OutcomeMapped || r.Outcome.Winner == nil {
		return ""
	}
	return r.Outcome.Winner.Stage
}

// Matcher resolves entries against one immutable index snapshot. Safe for
// concurrent use; workers share a single matcher per run.
type Matcher struct {
	idx    *nameindex.Index
	scorer *Scorer
	// maxEditDistance bounds the fuzzy stage; 0 disables it.
	maxEditDistance int
	logger          *slog.Logger
}

// Option adjusts matcher construction.
type Option func(*Matcher)

// WithLogger attaches a logger; candidate counts and decisions are logged
// at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		m.logger = logging.NewComponentLogger(logger, "match")
	}
}

// NewMatcher builds a matcher over a corpus index with the given weights.
func NewMatcher(idx *nameindex.Index, weights config.Matching, opts ...Option) *Matcher {
	m := &Matcher{
		idx:             idx,
		scorer:          NewScorer(weights),
		maxEditDistance: weights.MaxEditDistance,
		logger:          logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match runs the full pipeline for one entry: generate, score, decide.
func (m *Matcher) Match(entry *taxa.ClassificationEntry) Result {
	group := entry.Group()

	candidates := generatorFor(group, m.idx, m.maxEditDistance).generate(entry)
	if len(candidates) == 0 {
		_, usable := normalize.Name(entry.RawName)
		m.logger.Debug("no candidates",
			logging.Int64("entry_id", entry.ID),
			logging.String("raw_name", entry.RawName),
			logging.String("group", string(group)),
			logging.Bool("unusable", !usable),
		)
		return Result{Entry: entry, Outcome: Outcome{Kind: OutcomeDeferred}, Unusable: !usable}
	}

	outcome := Decide(m.scorer.ScoreAll(entry, candidates))

	switch outcome.Kind {
	case OutcomeMapped:
		m.logger.Debug("entry mapped",
			logging.Int64("entry_id", entry.ID),
			logging.Int64("name_id", outcome.Winner.Name.ID),
			logging.String("stage", string(outcome.Winner.Stage)),
			logging.Float64("score", outcome.Winner.Score),
			logging.Int("candidates", len(outcome.Candidates)),
		)
	default:
		m.logger.Debug("entry deferred",
			logging.Int64("entry_id", entry.ID),
			logging.Int("candidates", len(outcome.Candidates)),
			logging.Int("tied", len(outcome.Tied)),
		)
	}

	return Result{Entry: entry, Outcome: outcome}
}
