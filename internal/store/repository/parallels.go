package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/carddex/internal/store"
)

// ParallelRepository handles parallel-definition data access
type ParallelRepository struct {
	db *store.Database
}

// NewParallelRepository creates a new parallel repository
func NewParallelRepository(db *store.Database) *ParallelRepository {
	return &ParallelRepository{db: db}
}

// Upsert inserts or updates a parallel keyed on (section_id, name) and
// returns its ID
func (r *ParallelRepository) Upsert(ctx context.Context, par *store.CardParallel) (int, error) {
	query := `
		INSERT INTO card_parallels (section_id, name, raw_name, serial_max, channels, variation_type, exclusive, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (section_id, name) DO UPDATE SET
			raw_name = EXCLUDED.raw_name,
			serial_max = COALESCE(EXCLUDED.serial_max, card_parallels.serial_max),
			channels = COALESCE(EXCLUDED.channels, card_parallels.channels),
			variation_type = EXCLUDED.variation_type,
			exclusive = COALESCE(EXCLUDED.exclusive, card_parallels.exclusive),
			notes = COALESCE(EXCLUDED.notes, card_parallels.notes),
			updated_at = NOW()
		RETURNING parallel_id
	`

	var parallelID int
	err := r.db.DB().QueryRowContext(ctx, query,
		par.SectionID, par.Name, par.RawName, par.SerialMax,
		par.Channels, par.VariationType, par.Exclusive, par.Notes,
	).Scan(&parallelID)
	if err != nil {
		return 0, fmt.Errorf("upserting parallel: %w", err)
	}

	return parallelID, nil
}

// ListBySection returns all parallels of a section in insertion order
func (r *ParallelRepository) ListBySection(ctx context.Context, sectionID int) ([]*store.CardParallel, error) {
	query := `
		SELECT parallel_id, section_id, name, raw_name, serial_max, channels,
			variation_type, exclusive, notes, created_at, updated_at
		FROM card_parallels
		WHERE section_id = $1
		ORDER BY parallel_id
	`

	rows, err := r.db.DB().QueryContext(ctx, query, sectionID)
	if err != nil {
		return nil, fmt.Errorf("querying parallels: %w", err)
	}
	defer rows.Close()

	var parallels []*store.CardParallel
	for rows.Next() {
		par := &store.CardParallel{}
		err := rows.Scan(
			&par.ParallelID, &par.SectionID, &par.Name, &par.RawName,
			&par.SerialMax, &par.Channels, &par.VariationType,
			&par.Exclusive, &par.Notes, &par.CreatedAt, &par.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning parallel: %w", err)
		}
		parallels = append(parallels, par)
	}

	return parallels, rows.Err()
}
