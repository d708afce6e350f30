package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nomen/internal/config"
	"nomen/internal/logging"
	"nomen/internal/match"
	"nomen/internal/nameindex"
	"nomen/internal/namestore"
)

// ErrRunActive means another process holds the matching lock.
var ErrRunActive = errors.New("another matching run is active")

// Options selects what a run processes.
type Options struct {
	// SourceID restricts the run to one classification source; 0 means
	// every source.
	SourceID int64
	// Force re-matches entries with manual mappings and allows their
	// replacement.
	Force bool
}

// Summary reports what a finished run did.
type Summary struct {
	RunID    string
	Total    int
	Mapped   int
	Deferred int
	// Unusable counts deferrals whose raw name normalized to nothing.
	Unusable int
	// SkippedManual counts entries whose manual mapping blocked a write
	// mid-run.
	SkippedManual int
	Failed        int
	Duration      time.Duration
}

// Runner executes matching runs against one store.
type Runner struct {
	store  *namestore.Store
	cfg    *config.Config
	logger *slog.Logger
}

// New builds a runner. The logger may be nil.
func New(store *namestore.Store, cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "runner"),
	}
}

// Run executes one full matching run and returns its summary.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	lock := flock.New(r.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrRunActive
	}
	defer lock.Unlock()

	started := time.Now()
	runID := uuid.NewString()
	log := r.logger.With(logging.String("run_id", runID))

	idx, err := nameindex.Build(ctx, r.store, r.logger)
	if err != nil {
		return nil, fmt.Errorf("build name index: %w", err)
	}

	entries, err := r.store.EntriesForMatching(ctx, opts.SourceID, opts.Force)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	if err := r.store.CreateRun(ctx, runID); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	log.Info("matching run started",
		logging.Int("entries", len(entries)),
		logging.Int64("source_id", opts.SourceID),
		logging.Bool("force", opts.Force),
	)

	matcher := match.NewMatcher(idx, r.cfg.Matching, match.WithLogger(r.logger))

	summary := &Summary{RunID: runID, Total: len(entries)}
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.workerCount())
	for _, entry := range entries {
		entry := entry
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			result := matcher.Match(entry)
			outcome, err := r.persist(groupCtx, runID, result, opts.Force)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, namestore.ErrManualMapping):
				summary.SkippedManual++
			case err != nil:
				summary.Failed++
				log.Error("persist outcome",
					logging.Int64("entry_id", entry.ID),
					logging.Error(err),
				)
			case outcome == match.OutcomeMapped:
				summary.Mapped++
			default:
				summary.Deferred++
				if result.Unusable {
					summary.Unusable++
				}
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.store.FinishRun(ctx, runID, summary.Total, summary.Mapped, summary.Deferred, summary.SkippedManual, summary.Failed); err != nil {
		return nil, fmt.Errorf("finish run: %w", err)
	}

	summary.Duration = time.Since(started)
	log.Info("matching run finished",
		logging.Int("mapped", summary.Mapped),
		logging.Int("deferred", summary.Deferred),
		logging.Int("skipped_manual", summary.SkippedManual),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// persist writes one match result and reports which outcome was recorded.
func (r *Runner) persist(ctx context.Context, runID string, result match.Result, force bool) (match.OutcomeKind, error) {
	if result.Outcome.Kind == match.OutcomeMapped {
		err := r.store.SetAutoMapping(ctx, result.Entry.ID, result.Winner(), runID, string(result.WinnerStage()), force)
		return match.OutcomeMapped, err
	}

	encoded, err := match.EncodeCandidates(result.Outcome.Candidates)
	if err != nil {
		return match.OutcomeDeferred, err
	}
	return match.OutcomeDeferred, r.store.SetDeferred(ctx, result.Entry.ID, encoded, runID, force)
}

func (r *Runner) workerCount() int {
	if r.cfg.Workers.Count > 0 {
		return r.cfg.Workers.Count
	}
	return 1
}
