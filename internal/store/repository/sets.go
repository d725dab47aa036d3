package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/carddex/internal/store"
)

// SetRepository handles card-set data access
type SetRepository struct {
	db *store.Database
}

// NewSetRepository creates a new set repository
func NewSetRepository(db *store.Database) *SetRepository {
	return &SetRepository{db: db}
}

// GetAll returns all sets, newest first
func (r *SetRepository) GetAll(ctx context.Context) ([]*store.CardSet, error) {
	query := `
		SELECT set_id, sport, name, year, publisher, declared_card_count,
			source, external_id, created_at, updated_at
		FROM card_sets
		ORDER BY created_at DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var sets []*store.CardSet
	for rows.Next() {
		set := &store.CardSet{}
		err := rows.Scan(
			&set.SetID, &set.Sport, &set.Name, &set.Year, &set.Publisher,
			&set.DeclaredCardCount, &set.Source, &set.ExternalID,
			&set.CreatedAt, &set.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		sets = append(sets, set)
	}

	return sets, rows.Err()
}

// GetByID finds a set by ID
func (r *SetRepository) GetByID(ctx context.Context, setID int) (*store.CardSet, error) {
	query := `
		SELECT set_id, sport, name, year, publisher, declared_card_count,
			source, external_id, created_at, updated_at
		FROM card_sets
		WHERE set_id = $1
	`

	set := &store.CardSet{}
	err := r.db.DB().QueryRowContext(ctx, query, setID).Scan(
		&set.SetID, &set.Sport, &set.Name, &set.Year, &set.Publisher,
		&set.DeclaredCardCount, &set.Source, &set.ExternalID,
		&set.CreatedAt, &set.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("set not found: %d", setID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying set: %w", err)
	}

	return set, nil
}

// GetByExternalID finds a set by its external (TCDB) ID
func (r *SetRepository) GetByExternalID(ctx context.Context, externalID string) (*store.CardSet, error) {
	query := `
		SELECT set_id, sport, name, year, publisher, declared_card_count,
			source, external_id, created_at, updated_at
		FROM card_sets
		WHERE external_id = $1
	`

	set := &store.CardSet{}
	err := r.db.DB().QueryRowContext(ctx, query, externalID).Scan(
		&set.SetID, &set.Sport, &set.Name, &set.Year, &set.Publisher,
		&set.DeclaredCardCount, &set.Source, &set.ExternalID,
		&set.CreatedAt, &set.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("set not found with external ID: %s", externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying set: %w", err)
	}

	return set, nil
}

// Upsert inserts or updates a set keyed on (sport, name) and returns its ID.
// Descriptive fields are refreshed on conflict.
func (r *SetRepository) Upsert(ctx context.Context, set *store.CardSet) (int, error) {
	query := `
		INSERT INTO card_sets (sport, name, year, publisher, declared_card_count, source, external_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (sport, name) DO UPDATE SET
			year = COALESCE(EXCLUDED.year, card_sets.year),
			publisher = COALESCE(EXCLUDED.publisher, card_sets.publisher),
			declared_card_count = COALESCE(EXCLUDED.declared_card_count, card_sets.declared_card_count),
			external_id = COALESCE(EXCLUDED.external_id, card_sets.external_id),
			updated_at = NOW()
		RETURNING set_id
	`

	var setID int
	err := r.db.DB().QueryRowContext(ctx, query,
		set.Sport, set.Name, set.Year, set.Publisher,
		set.DeclaredCardCount, set.Source, set.ExternalID,
	).Scan(&setID)
	if err != nil {
		return 0, fmt.Errorf("upserting set: %w", err)
	}

	return setID, nil
}

// Delete removes a set and, via cascade, its sections, parallels, and cards
func (r *SetRepository) Delete(ctx context.Context, setID int) error {
	result, err := r.db.DB().ExecContext(ctx, "DELETE FROM card_sets WHERE set_id = $1", setID)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("set not found: %d", setID)
	}

	return nil
}
