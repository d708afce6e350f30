package lint

import (
	"context"
	"fmt"

	"log/slog"

	"nomen/internal/logging"
	"nomen/internal/taxa"
)

// Severity splits findings into advisory and blocking classes.
type Severity string

const (
	// SeverityWarning marks a finding a reviewer should look at; the
	// mapping stays valid.
	SeverityWarning Severity = "warning"
	// SeverityError marks an inconsistency the corpus must not contain.
	SeverityError Severity = "error"
)

// Check names the validation rule that produced an issue.
type Check string

const (
	CheckYear        Check = "year"
	CheckParentGenus Check = "parent-genus"
	CheckGroup       Check = "group"
	CheckDanglingRef Check = "dangling-name"
)

// Issue is one finding against one mapped entry.
type Issue struct {
	EntryID  int64
	NameID   int64
	RawName  string
	Severity Severity
	Check    Check
	Message  string
}

// Report aggregates a validation pass.
type Report struct {
	// Entries is the number of mapped entries examined.
	Entries int
	Issues  []Issue
}

// Errors counts hard findings.
func (r *Report) Errors() int {
	return r.count(SeverityError)
}

// Warnings counts advisory findings.
func (r *Report) Warnings() int {
	return r.count(SeverityWarning)
}

func (r *Report) count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Storage is the slice of the persistence layer the validator reads.
type Storage interface {
	MappedEntries(ctx context.Context) ([]*taxa.ClassificationEntry, error)
	GetName(ctx context.Context, id int64) (*taxa.Name, error)
	ParentGenusEntry(ctx context.Context, entry *taxa.ClassificationEntry) (*taxa.ClassificationEntry, error)
}

// Validator walks every mapped entry and applies the consistency checks.
type Validator struct {
	store  Storage
	logger *slog.Logger
}

// Option adjusts validator construction.
type Option func(*Validator)

// WithLogger attaches a logger for per-check debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logging.NewComponentLogger(logger, "lint")
	}
}

// New builds a validator over the given storage.
func New(store Storage, opts ...Option) *Validator {
	v := &Validator{store: store, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run validates every mapped entry and returns the aggregate report.
func (v *Validator) Run(ctx context.Context) (*Report, error) {
	entries, err := v.store.MappedEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load mapped entries: %w", err)
	}

	report := &Report{Entries: len(entries)}
	for _, entry := range entries {
		issues, err := v.checkEntry(ctx, entry)
		if err != nil {
			return nil, err
		}
		report.Issues = append(report.Issues, issues...)
	}

	v.logger.Info("validation finished",
		logging.Int("entries", report.Entries),
		logging.Int("warnings", report.Warnings()),
		logging.Int("errors", report.Errors()),
	)
	return report, nil
}

func (v *Validator) checkEntry(ctx context.Context, entry *taxa.ClassificationEntry) ([]Issue, error) {
	name, err := v.store.GetName(ctx, entry.MappedNameID)
	if err != nil {
		return []Issue{{
			EntryID:  entry.ID,
			NameID:   entry.MappedNameID,
			RawName:  entry.RawName,
			Severity: SeverityError,
			Check:    CheckDanglingRef,
			Message:  fmt.Sprintf("mapped name %d cannot be loaded: %v", entry.MappedNameID, err),
		}}, nil
	}

	var issues []Issue
	flag := func(severity Severity, check Check, format string, args ...any) {
		issues = append(issues, Issue{
			EntryID:  entry.ID,
			NameID:   name.ID,
			RawName:  entry.RawName,
			Severity: severity,
			Check:    check,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if group := entry.Group(); name.Group != group {
		flag(SeverityError, CheckGroup, "rank %q requires a %s-group name but %q is %s-group", entry.Rank, group, name.EffectiveName(), name.Group)
	}

	if entry.Year != 0 && name.Year != 0 && entry.Year != name.Year {
		flag(SeverityWarning, CheckYear, "source states %d but %q was published %d", entry.Year, name.EffectiveName(), name.Year)
	}

	if entry.Group() == taxa.GroupSpecies && name.Group == taxa.GroupSpecies {
		issue, err := v.checkParentGenus(ctx, entry, name)
		if err != nil {
			return nil, err
		}
		if issue != nil {
			issues = append(issues, *issue)
		}
	}

	return issues, nil
}

// checkParentGenus verifies that a species entry's mapped name was at some
// point placed in the genus its own source files it under. The check only
// fires when the parent entry is itself mapped to a genus-group name;
// unmapped or absent parents prove nothing either way.
func (v *Validator) checkParentGenus(ctx context.Context, entry *taxa.ClassificationEntry, name *taxa.Name) (*Issue, error) {
	parent, err := v.store.ParentGenusEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("resolve parent genus of entry %d: %w", entry.ID, err)
	}
	if parent == nil || !parent.IsMapped() {
		return nil, nil
	}

	parentName, err := v.store.GetName(ctx, parent.MappedNameID)
	if err != nil {
		return nil, fmt.Errorf("load parent genus name %d: %w", parent.MappedNameID, err)
	}
	if parentName.Group != taxa.GroupGenus {
		return nil, nil
	}

	if name.OriginalGenusID == parentName.ID || name.CurrentGenusID == parentName.ID {
		return nil, nil
	}
	return &Issue{
		EntryID:  entry.ID,
		NameID:   name.ID,
		RawName:  entry.RawName,
		Severity: SeverityWarning,
		Check:    CheckParentGenus,
		Message:  fmt.Sprintf("%q was never placed in %q, the genus the source files it under", name.EffectiveName(), parentName.EffectiveName()),
	}, nil
}
