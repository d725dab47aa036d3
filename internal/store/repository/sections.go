package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/carddex/internal/store"
)

// SectionRepository handles checklist-section data access
type SectionRepository struct {
	db *store.Database
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(db *store.Database) *SectionRepository {
	return &SectionRepository{db: db}
}

// Upsert inserts or updates a section keyed on (set_id, name) and returns
// its ID
func (r *SectionRepository) Upsert(ctx context.Context, section *store.CardSection) (int, error) {
	query := `
		INSERT INTO card_sections (set_id, name, section_type, declared_count, odds)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (set_id, name) DO UPDATE SET
			section_type = EXCLUDED.section_type,
			declared_count = COALESCE(EXCLUDED.declared_count, card_sections.declared_count),
			odds = COALESCE(EXCLUDED.odds, card_sections.odds),
			updated_at = NOW()
		RETURNING section_id
	`

	var sectionID int
	err := r.db.DB().QueryRowContext(ctx, query,
		section.SetID, section.Name, section.SectionType,
		section.DeclaredCount, section.Odds,
	).Scan(&sectionID)
	if err != nil {
		return 0, fmt.Errorf("upserting section: %w", err)
	}

	return sectionID, nil
}

// ListBySet returns all sections of a set in insertion order
func (r *SectionRepository) ListBySet(ctx context.Context, setID int) ([]*store.CardSection, error) {
	query := `
		SELECT section_id, set_id, name, section_type, declared_count, odds,
			created_at, updated_at
		FROM card_sections
		WHERE set_id = $1
		ORDER BY section_id
	`

	rows, err := r.db.DB().QueryContext(ctx, query, setID)
	if err != nil {
		return nil, fmt.Errorf("querying sections: %w", err)
	}
	defer rows.Close()

	var sections []*store.CardSection
	for rows.Next() {
		section := &store.CardSection{}
		err := rows.Scan(
			&section.SectionID, &section.SetID, &section.Name,
			&section.SectionType, &section.DeclaredCount, &section.Odds,
			&section.CreatedAt, &section.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning section: %w", err)
		}
		sections = append(sections, section)
	}

	return sections, rows.Err()
}
