package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fortuna/carddex/internal/store"
)

// CardRepository handles card data access. A card's identity within a set
// is (card_number, section, parallel); the base printing carries an empty
// parallel string.
type CardRepository struct {
	db *store.Database
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *store.Database) *CardRepository {
	return &CardRepository{db: db}
}

const cardColumns = `card_id, set_id, card_number, player, team, flags, notes,
		section, parallel, qty, confidence, needs_review, row_id,
		created_at, updated_at`

// Upsert inserts or refreshes a card row. Descriptive fields are updated on
// conflict; qty is never touched, so owned counts survive re-imports. New
// rows start at qty 0.
func (r *CardRepository) Upsert(ctx context.Context, card *store.CatalogCard) (int, error) {
	query := `
		INSERT INTO cards (set_id, card_number, player, team, flags, notes,
			section, parallel, confidence, needs_review, row_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (set_id, card_number, section, parallel) DO UPDATE SET
			player = EXCLUDED.player,
			team = COALESCE(EXCLUDED.team, cards.team),
			flags = COALESCE(EXCLUDED.flags, cards.flags),
			notes = COALESCE(EXCLUDED.notes, cards.notes),
			confidence = EXCLUDED.confidence,
			needs_review = EXCLUDED.needs_review,
			row_id = COALESCE(EXCLUDED.row_id, cards.row_id),
			updated_at = NOW()
		RETURNING card_id
	`

	var cardID int
	err := r.db.DB().QueryRowContext(ctx, query,
		card.SetID, card.CardNumber, card.Player, card.Team, card.Flags,
		card.Notes, card.Section, card.Parallel, card.Confidence,
		card.NeedsReview, card.RowID,
	).Scan(&cardID)
	if err != nil {
		return 0, fmt.Errorf("upserting card: %w", err)
	}

	return cardID, nil
}

// AddWithQty upserts a card and adds the given quantity to its owned count.
// Used by collection endpoints, where adding a card you already own bumps
// the count instead of overwriting it.
func (r *CardRepository) AddWithQty(ctx context.Context, card *store.CatalogCard) (int, error) {
	query := `
		INSERT INTO cards (set_id, card_number, player, team, flags, notes,
			section, parallel, qty, confidence, needs_review, row_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (set_id, card_number, section, parallel) DO UPDATE SET
			player = EXCLUDED.player,
			team = COALESCE(EXCLUDED.team, cards.team),
			flags = COALESCE(EXCLUDED.flags, cards.flags),
			notes = COALESCE(EXCLUDED.notes, cards.notes),
			qty = cards.qty + EXCLUDED.qty,
			confidence = EXCLUDED.confidence,
			needs_review = EXCLUDED.needs_review,
			updated_at = NOW()
		RETURNING card_id
	`

	var cardID int
	err := r.db.DB().QueryRowContext(ctx, query,
		card.SetID, card.CardNumber, card.Player, card.Team, card.Flags,
		card.Notes, card.Section, card.Parallel, card.Qty, card.Confidence,
		card.NeedsReview, card.RowID,
	).Scan(&cardID)
	if err != nil {
		return 0, fmt.Errorf("adding card: %w", err)
	}

	return cardID, nil
}

// UpdateQty sets the owned count of one card to an explicit value
func (r *CardRepository) UpdateQty(ctx context.Context, cardID, qty int) error {
	result, err := r.db.DB().ExecContext(ctx,
		"UPDATE cards SET qty = $1, updated_at = NOW() WHERE card_id = $2", qty, cardID)
	if err != nil {
		return fmt.Errorf("updating card qty: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("card not found: %d", cardID)
	}

	return nil
}

// GetByID finds a card by ID
func (r *CardRepository) GetByID(ctx context.Context, cardID int) (*store.CatalogCard, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_id = $1`

	card := &store.CatalogCard{}
	err := r.db.DB().QueryRowContext(ctx, query, cardID).Scan(
		&card.CardID, &card.SetID, &card.CardNumber, &card.Player,
		&card.Team, &card.Flags, &card.Notes, &card.Section, &card.Parallel,
		&card.Qty, &card.Confidence, &card.NeedsReview, &card.RowID,
		&card.CreatedAt, &card.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("card not found: %d", cardID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying card: %w", err)
	}

	return card, nil
}

// GetByIdentity finds a card by its natural key within a set
func (r *CardRepository) GetByIdentity(ctx context.Context, setID int, number, section, parallel string) (*store.CatalogCard, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
		WHERE set_id = $1 AND card_number = $2 AND section = $3 AND parallel = $4`

	card := &store.CatalogCard{}
	err := r.db.DB().QueryRowContext(ctx, query, setID, number, section, parallel).Scan(
		&card.CardID, &card.SetID, &card.CardNumber, &card.Player,
		&card.Team, &card.Flags, &card.Notes, &card.Section, &card.Parallel,
		&card.Qty, &card.Confidence, &card.NeedsReview, &card.RowID,
		&card.CreatedAt, &card.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("card not found: %s/%s/%s", number, section, parallel)
	}
	if err != nil {
		return nil, fmt.Errorf("querying card: %w", err)
	}

	return card, nil
}

// ListBySet returns all cards of a set ordered by section then card number
func (r *CardRepository) ListBySet(ctx context.Context, setID int) ([]*store.CatalogCard, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
		WHERE set_id = $1
		ORDER BY section, card_number, parallel`

	return r.list(ctx, query, setID)
}

// ListOwned returns the owned cards of a set (qty > 0)
func (r *CardRepository) ListOwned(ctx context.Context, setID int) ([]*store.CatalogCard, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
		WHERE set_id = $1 AND qty > 0
		ORDER BY section, card_number, parallel`

	return r.list(ctx, query, setID)
}

// ListNeedingReview returns the cards of a set flagged for manual review
func (r *CardRepository) ListNeedingReview(ctx context.Context, setID int) ([]*store.CatalogCard, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
		WHERE set_id = $1 AND needs_review
		ORDER BY section, card_number, parallel`

	return r.list(ctx, query, setID)
}

func (r *CardRepository) list(ctx context.Context, query string, args ...interface{}) ([]*store.CatalogCard, error) {
	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	var cards []*store.CatalogCard
	for rows.Next() {
		card := &store.CatalogCard{}
		err := rows.Scan(
			&card.CardID, &card.SetID, &card.CardNumber, &card.Player,
			&card.Team, &card.Flags, &card.Notes, &card.Section, &card.Parallel,
			&card.Qty, &card.Confidence, &card.NeedsReview, &card.RowID,
			&card.CreatedAt, &card.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// Delete removes one card
func (r *CardRepository) Delete(ctx context.Context, cardID int) error {
	result, err := r.db.DB().ExecContext(ctx, "DELETE FROM cards WHERE card_id = $1", cardID)
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("card not found: %d", cardID)
	}

	return nil
}
