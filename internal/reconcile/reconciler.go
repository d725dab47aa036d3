package reconcile

import (
	"context"
	"fmt"
	"log"

	"github.com/fortuna/carddex/internal/ingest/tcdb"
	"github.com/fortuna/carddex/internal/store"
	"github.com/fortuna/carddex/internal/store/repository"
)

// Reconciler applies scraped collection quantities to the catalog.
type Reconciler struct {
	cardRepo *repository.CardRepository
	logger   *log.Logger
}

// NewReconciler constructs a Reconciler.
func NewReconciler(db *store.Database, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.New(log.Writer(), "[reconcile] ", log.LstdFlags)
	}
	return &Reconciler{
		cardRepo: repository.NewCardRepository(db),
		logger:   logger,
	}
}

// Report summarizes one reconciliation run.
type Report struct {
	Matched   int              `json:"matched"`
	Updated   int              `json:"updated"`
	Unmatched []tcdb.OwnedCard `json:"unmatched,omitempty"`
}

// ApplyOwnership sets owned quantities on a set's catalog cards from
// scraped collection rows. The scraped count is authoritative for matched
// rows; unmatched rows are reported, never guessed into the catalog.
func (r *Reconciler) ApplyOwnership(ctx context.Context, setID int, owned []tcdb.OwnedCard) (*Report, error) {
	cards, err := r.cardRepo.ListBySet(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("loading set %d cards: %w", setID, err)
	}

	matched := MatchOwned(cards, owned)

	report := &Report{
		Matched:   len(matched.Matches),
		Unmatched: matched.Unmatched,
	}

	for _, m := range matched.Matches {
		if m.Card.Qty == m.Qty {
			continue
		}
		if err := r.cardRepo.UpdateQty(ctx, m.Card.CardID, m.Qty); err != nil {
			return report, fmt.Errorf("updating qty for card %d: %w", m.Card.CardID, err)
		}
		report.Updated++
	}

	if len(report.Unmatched) > 0 {
		r.logger.Printf("set %d: %d owned rows had no catalog match", setID, len(report.Unmatched))
	}

	return report, nil
}
