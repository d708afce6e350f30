package namestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nomen/internal/normalize"
	"nomen/internal/taxa"
)

const nameColumns = "id, name_group, original_name, corrected_name, root_name, original_genus_id, current_genus_id, tribe_id, taxon_valid_name, availability, year, created_at"

// InsertName persists a canonical name record, computing the normalized
// lookup columns from its spellings. Used by importers and test fixtures;
// the matching engine itself never creates names.
func (s *Store) InsertName(ctx context.Context, name *taxa.Name) (*taxa.Name, error) {
	if name == nil {
		return nil, fmt.Errorf("%w: name is nil", ErrValidation)
	}
	if _, ok := taxa.ParseGroup(string(name.Group)); !ok {
		return nil, fmt.Errorf("%w: unknown name group %q", ErrValidation, name.Group)
	}
	normalizedName, ok := normalize.Name(name.EffectiveName())
	if !ok {
		return nil, fmt.Errorf("%w: name %q does not normalize", ErrValidation, name.EffectiveName())
	}
	normalizedRoot := normalize.Root(name.RootName)
	if normalizedRoot == "" {
		normalizedRoot = normalize.Root(name.EffectiveName())
	}
	validRoot := ""
	if name.TaxonValidName != "" {
		validRoot = normalize.Root(name.TaxonValidName)
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO names (
            name_group, original_name, corrected_name, root_name,
            normalized_name, normalized_root, equivalence_key, normalized_valid,
            original_genus_id, current_genus_id, tribe_id, taxon_valid_name,
            availability, year, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(name.Group),
		name.OriginalName,
		nullableString(name.CorrectedName),
		name.RootName,
		normalizedName,
		normalizedRoot,
		normalize.EquivalenceKey(normalizedRoot),
		nullableString(validRoot),
		name.OriginalGenusID,
		name.CurrentGenusID,
		name.TribeID,
		nullableString(name.TaxonValidName),
		string(name.Availability),
		name.Year,
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert name: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetName(ctx, id)
}

// GetName fetches a name by identifier.
func (s *Store) GetName(ctx context.Context, id int64) (*taxa.Name, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+nameColumns+` FROM names WHERE id = ?`, id)
	name, err := scanName(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("name %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get name: %w", err)
	}
	return name, nil
}

// ListNames returns the full corpus ordered by identifier. The name index
// builds its arena from this snapshot once per batch run.
func (s *Store) ListNames(ctx context.Context) ([]*taxa.Name, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+nameColumns+` FROM names ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()
	return collectNames(rows)
}

// NamesByRoot returns names whose normalized root, or whose associated
// taxon's current valid root, matches the given normalized root exactly.
func (s *Store) NamesByRoot(ctx context.Context, root string) ([]*taxa.Name, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+nameColumns+` FROM names WHERE normalized_root = ? OR normalized_valid = ? ORDER BY id`,
		root, root,
	)
	if err != nil {
		return nil, fmt.Errorf("names by root: %w", err)
	}
	defer rows.Close()
	return collectNames(rows)
}

// GeneraByName returns genus-group names matching the given normalized
// spelling.
func (s *Store) GeneraByName(ctx context.Context, normalized string) ([]*taxa.Name, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+nameColumns+` FROM names WHERE name_group = ? AND normalized_name = ? ORDER BY id`,
		string(taxa.GroupGenus), normalized,
	)
	if err != nil {
		return nil, fmt.Errorf("genera by name: %w", err)
	}
	defer rows.Close()
	return collectNames(rows)
}

// SpeciesEverInGenus returns the species-group names ever placed in the
// given genus, via original or current assignment.
func (s *Store) SpeciesEverInGenus(ctx context.Context, genusID int64) ([]*taxa.Name, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+nameColumns+` FROM names
         WHERE name_group = ? AND (original_genus_id = ? OR current_genus_id = ?)
         ORDER BY id`,
		string(taxa.GroupSpecies), genusID, genusID,
	)
	if err != nil {
		return nil, fmt.Errorf("species in genus: %w", err)
	}
	defer rows.Close()
	return collectNames(rows)
}

// SisterGenera returns the genus-group names sharing a tribe with the given
// genus, the genus itself excluded. Genera without a tribe have no sisters.
func (s *Store) SisterGenera(ctx context.Context, genusID int64) ([]*taxa.Name, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+nameColumns+` FROM names
         WHERE name_group = ? AND tribe_id != 0 AND id != ?
           AND tribe_id = (SELECT tribe_id FROM names WHERE id = ?)
         ORDER BY id`,
		string(taxa.GroupGenus), genusID, genusID,
	)
	if err != nil {
		return nil, fmt.Errorf("sister genera: %w", err)
	}
	defer rows.Close()
	return collectNames(rows)
}

func collectNames(rows *sql.Rows) ([]*taxa.Name, error) {
	var names []*taxa.Name
	for rows.Next() {
		name, err := scanName(rows)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func scanName(scanner interface{ Scan(dest ...any) error }) (*taxa.Name, error) {
	var (
		id            int64
		group         string
		originalName  string
		correctedName sql.NullString
		rootName      string
		originalGenus int64
		currentGenus  int64
		tribeID       int64
		validName     sql.NullString
		availability  string
		year          int
		createdRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&group,
		&originalName,
		&correctedName,
		&rootName,
		&originalGenus,
		&currentGenus,
		&tribeID,
		&validName,
		&availability,
		&year,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	name := &taxa.Name{
		ID:              id,
		Group:           taxa.Group(group),
		OriginalName:    originalName,
		CorrectedName:   correctedName.String,
		RootName:        rootName,
		OriginalGenusID: originalGenus,
		CurrentGenusID:  currentGenus,
		TribeID:         tribeID,
		TaxonValidName:  validName.String,
		Availability:    taxa.Availability(availability),
		Year:            year,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		name.CreatedAt = created
	}
	return name, nil
}
