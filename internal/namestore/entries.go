package namestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nomen/internal/taxa"
)

const entryColumns = "id, source_id, source_year, raw_name, rank, page, authority, year, parent_id, allows_later_names, mapped_name_id, mapping_state, mapped_by, match_stage, candidates_json, created_at, updated_at"

// InsertEntry persists a classification entry. Entries are created in bulk
// when a source is digitized and never deleted afterward.
func (s *Store) InsertEntry(ctx context.Context, entry *taxa.ClassificationEntry) (*taxa.ClassificationEntry, error) {
	if entry == nil {
		return nil, fmt.Errorf("%w: entry is nil", ErrValidation)
	}
	if entry.RawName == "" {
		return nil, fmt.Errorf("%w: entry raw name is empty", ErrValidation)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	state := entry.MappingState
	if state == "" {
		state = taxa.MappingUnmapped
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO entries (
            source_id, source_year, raw_name, rank, page, authority, year,
            parent_id, allows_later_names, mapped_name_id, mapping_state,
            mapped_by, match_stage, candidates_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SourceID,
		entry.SourceYear,
		entry.RawName,
		entry.Rank,
		nullableString(entry.Page),
		nullableString(entry.Authority),
		entry.Year,
		entry.ParentID,
		boolToInt(entry.AllowsLaterNames),
		entry.MappedNameID,
		string(state),
		nullableString(entry.MappedBy),
		nullableString(entry.MatchStage),
		nullableString(entry.CandidatesJSON),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEntry(ctx, id)
}

// GetEntry fetches a classification entry by identifier.
func (s *Store) GetEntry(ctx context.Context, id int64) (*taxa.ClassificationEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// EntriesByState returns entries matching any of the provided mapping
// states, ordered by identifier. No states means all entries.
func (s *Store) EntriesByState(ctx context.Context, states ...taxa.MappingState) ([]*taxa.ClassificationEntry, error) {
	baseQuery := `SELECT ` + entryColumns + ` FROM entries`
	orderClause := ` ORDER BY id`

	var (
		rows *sql.Rows
		err  error
	)
	if len(states) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(states))
		args := make([]any, len(states))
		for i, state := range states {
			args[i] = string(state)
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE mapping_state IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("entries by state: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// EntriesForMatching returns the entries a batch run should process:
// everything except manual mappings, or every entry when force is set.
// A zero sourceID means all sources.
func (s *Store) EntriesForMatching(ctx context.Context, sourceID int64, force bool) ([]*taxa.ClassificationEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries`
	var clauses []string
	var args []any
	if !force {
		clauses = append(clauses, `mapping_state != ?`)
		args = append(args, string(taxa.MappingManual))
	}
	if sourceID != 0 {
		clauses = append(clauses, `source_id = ?`)
		args = append(args, sourceID)
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("entries for matching: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// MappedEntries returns entries carrying a mapped name, automated or manual.
// The validator runs over this set.
func (s *Store) MappedEntries(ctx context.Context) ([]*taxa.ClassificationEntry, error) {
	return s.EntriesByState(ctx, taxa.MappingMapped, taxa.MappingManual)
}

// SetAutoMapping records an automated mapping decision in a single
// transactional write. Manually mapped entries are left untouched and the
// call fails with ErrManualMapping unless force is set. A mapping whose name
// group does not match the entry's rank fails with ErrGroupMismatch and is
// never persisted.
func (s *Store) SetAutoMapping(ctx context.Context, entryID, nameID int64, runID, stage string, force bool) error {
	return s.setMapping(ctx, entryID, nameID, taxa.MappingMapped, runID, stage, "", force, false)
}

// SetDeferred marks an entry as awaiting human review, keeping the
// serialized candidate breakdown for the reviewer. Manual mappings survive
// unless force is set.
func (s *Store) SetDeferred(ctx context.Context, entryID int64, candidatesJSON, runID string, force bool) error {
	return s.setMapping(ctx, entryID, 0, taxa.MappingDeferred, runID, "", candidatesJSON, force, false)
}

// SetManualMapping records a reviewer's decision. Group mismatches are
// refused unless override is set; callers must log overrides.
func (s *Store) SetManualMapping(ctx context.Context, entryID, nameID int64, reviewer string, override bool) error {
	return s.setMapping(ctx, entryID, nameID, taxa.MappingManual, reviewer, "", "", true, override)
}

// ClearMapping resets an entry to the unmapped state.
func (s *Store) ClearMapping(ctx context.Context, entryID int64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE entries
         SET mapped_name_id = 0, mapping_state = ?, mapped_by = NULL,
             match_stage = NULL, candidates_json = NULL, updated_at = ?
         WHERE id = ?`,
		string(taxa.MappingUnmapped), now, entryID,
	)
	if err != nil {
		return fmt.Errorf("clear mapping: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("entry %d: %w", entryID, ErrNotFound)
	}
	return nil
}

func (s *Store) setMapping(ctx context.Context, entryID, nameID int64, state taxa.MappingState, mappedBy, stage, candidatesJSON string, force, overrideGroup bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mapping tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var currentState string
	var rank string
	row := tx.QueryRowContext(ctx, `SELECT mapping_state, rank FROM entries WHERE id = ?`, entryID)
	if err := row.Scan(&currentState, &rank); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("entry %d: %w", entryID, ErrNotFound)
		}
		return fmt.Errorf("read entry state: %w", err)
	}
	if taxa.MappingState(currentState) == taxa.MappingManual && !force {
		return fmt.Errorf("entry %d: %w", entryID, ErrManualMapping)
	}

	if nameID != 0 {
		var group string
		row := tx.QueryRowContext(ctx, `SELECT name_group FROM names WHERE id = ?`, nameID)
		if err := row.Scan(&group); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("name %d: %w", nameID, ErrNotFound)
			}
			return fmt.Errorf("read name group: %w", err)
		}
		if taxa.Group(group) != taxa.GroupForRank(rank) && !overrideGroup {
			return fmt.Errorf("entry %d rank %q vs name %d group %q: %w",
				entryID, rank, nameID, group, ErrGroupMismatch)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE entries
         SET mapped_name_id = ?, mapping_state = ?, mapped_by = ?,
             match_stage = ?, candidates_json = ?, updated_at = ?
         WHERE id = ?`,
		nameID,
		string(state),
		nullableString(mappedBy),
		nullableString(stage),
		nullableString(candidatesJSON),
		now,
		entryID,
	); err != nil {
		return fmt.Errorf("update mapping: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mapping: %w", err)
	}
	return nil
}

// ParentGenusEntry walks up the entry's source tree to the nearest ancestor
// whose rank maps to the genus group. Returns nil when no such ancestor
// exists.
func (s *Store) ParentGenusEntry(ctx context.Context, entry *taxa.ClassificationEntry) (*taxa.ClassificationEntry, error) {
	if entry == nil {
		return nil, errors.New("entry is nil")
	}
	parentID := entry.ParentID
	for depth := 0; parentID != 0 && depth < 64; depth++ {
		parent, err := s.GetEntry(ctx, parentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		if parent.Group() == taxa.GroupGenus {
			return parent, nil
		}
		parentID = parent.ParentID
	}
	return nil, nil
}

// Stats returns a count of entries grouped by mapping state.
func (s *Store) Stats(ctx context.Context) (map[taxa.MappingState]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mapping_state, COUNT(1) FROM entries GROUP BY mapping_state`)
	if err != nil {
		return nil, fmt.Errorf("entry stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[taxa.MappingState]int)
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		stats[taxa.MappingState(state)] = count
	}
	return stats, rows.Err()
}

func collectEntries(rows *sql.Rows) ([]*taxa.ClassificationEntry, error) {
	var entries []*taxa.ClassificationEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*taxa.ClassificationEntry, error) {
	var (
		id             int64
		sourceID       int64
		sourceYear     int
		rawName        string
		rank           string
		page           sql.NullString
		authority      sql.NullString
		year           int
		parentID       int64
		allowsLater    sql.NullInt64
		mappedNameID   int64
		mappingState   string
		mappedBy       sql.NullString
		matchStage     sql.NullString
		candidatesJSON sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sourceID,
		&sourceYear,
		&rawName,
		&rank,
		&page,
		&authority,
		&year,
		&parentID,
		&allowsLater,
		&mappedNameID,
		&mappingState,
		&mappedBy,
		&matchStage,
		&candidatesJSON,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &taxa.ClassificationEntry{
		ID:             id,
		SourceID:       sourceID,
		SourceYear:     sourceYear,
		RawName:        rawName,
		Rank:           rank,
		Page:           page.String,
		Authority:      authority.String,
		Year:           year,
		ParentID:       parentID,
		MappedNameID:   mappedNameID,
		MappingState:   taxa.MappingState(mappingState),
		MappedBy:       mappedBy.String,
		MatchStage:     matchStage.String,
		CandidatesJSON: candidatesJSON.String,
	}
	if allowsLater.Valid {
		entry.AllowsLaterNames = allowsLater.Int64 != 0
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}
