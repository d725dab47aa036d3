package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/fortuna/carddex/internal/cache"
	"github.com/fortuna/carddex/internal/checklist"
	"github.com/fortuna/carddex/internal/publisher"
	"github.com/fortuna/carddex/internal/store"
	"github.com/fortuna/carddex/internal/store/repository"
)

// Importer applies parsed checklists to the catalog store: set, then
// sections, then parallels, then cards. Owned quantities are never touched
// by an import; re-importing a checklist refreshes descriptive fields only.
type Importer struct {
	db           *store.Database
	setRepo      *repository.SetRepository
	sectionRepo  *repository.SectionRepository
	parallelRepo *repository.ParallelRepository
	cardRepo     *repository.CardRepository

	cache *cache.RedisCache
	pub   *publisher.RedisStreamPublisher
}

// NewImporter creates a catalog importer. Cache and publisher may be nil;
// the import itself never depends on them.
func NewImporter(db *store.Database, c *cache.RedisCache, pub *publisher.RedisStreamPublisher) *Importer {
	return &Importer{
		db:           db,
		setRepo:      repository.NewSetRepository(db),
		sectionRepo:  repository.NewSectionRepository(db),
		parallelRepo: repository.NewParallelRepository(db),
		cardRepo:     repository.NewCardRepository(db),
		cache:        c,
		pub:          pub,
	}
}

// ImportStats summarizes one import.
type ImportStats struct {
	SetID          int `json:"set_id"`
	Sections       int `json:"sections_upserted"`
	Parallels      int `json:"parallels_upserted"`
	Cards          int `json:"cards_upserted"`
	CardsForReview int `json:"cards_for_review"`
}

// ImportResult writes a ParseResult into an existing set.
func (im *Importer) ImportResult(ctx context.Context, setID int, result *checklist.ParseResult) (*ImportStats, error) {
	set, err := im.setRepo.GetByID(ctx, setID)
	if err != nil {
		return nil, err
	}

	stats := &ImportStats{SetID: setID}

	for _, sec := range result.Sections {
		sectionID, err := im.sectionRepo.Upsert(ctx, &store.CardSection{
			SetID:         setID,
			Name:          sec.Name,
			SectionType:   string(sec.SectionType),
			DeclaredCount: nullInt32(sec.DeclaredCount),
			Odds:          nullString(sec.Odds),
		})
		if err != nil {
			return nil, fmt.Errorf("import section %q: %w", sec.Name, err)
		}
		stats.Sections++

		for _, par := range sec.Parallels {
			_, err := im.parallelRepo.Upsert(ctx, &store.CardParallel{
				SectionID:     sectionID,
				Name:          par.Name,
				RawName:       nullString(par.RawName),
				SerialMax:     nullInt32(par.SerialMax),
				Channels:      nullString(joinChannels(par.Channels)),
				VariationType: string(par.Variation),
				Exclusive:     nullString(par.Exclusive),
				Notes:         nullString(par.Notes),
			})
			if err != nil {
				return nil, fmt.Errorf("import parallel %q: %w", par.Name, err)
			}
			stats.Parallels++
		}

		for _, card := range sec.Cards {
			_, err := im.cardRepo.Upsert(ctx, &store.CatalogCard{
				SetID:       setID,
				CardNumber:  card.CardNumber,
				Player:      card.Player,
				Team:        nullString(card.Team),
				Flags:       nullString(strings.Join(card.Flags, " ")),
				Notes:       nullString(card.Notes),
				Section:     sec.Name,
				Parallel:    "",
				Confidence:  card.Confidence,
				NeedsReview: card.NeedsReview,
				RowID:       nullString(card.RowID),
			})
			if err != nil {
				return nil, fmt.Errorf("import card %q: %w", card.CardNumber, err)
			}
			stats.Cards++
			if card.NeedsReview {
				stats.CardsForReview++
			}
		}
	}

	im.afterImport(ctx, set, result, stats)
	return stats, nil
}

// ImportText parses checklist text and writes it into an existing set.
// Set-level metadata recovered by the parser backfills empty set fields.
func (im *Importer) ImportText(ctx context.Context, setID int, text string) (*ImportStats, *checklist.ParseResult, error) {
	result := checklist.ParseChecklist(text)

	set, err := im.setRepo.GetByID(ctx, setID)
	if err != nil {
		return nil, nil, err
	}
	if meta := result.Metadata; meta.Year > 0 || meta.Publisher != "" || meta.DeclaredCardCount > 0 {
		set.Year = orNullInt32(set.Year, meta.Year)
		set.Publisher = orNullString(set.Publisher, meta.Publisher)
		set.DeclaredCardCount = orNullInt32(set.DeclaredCardCount, meta.DeclaredCardCount)
		if _, err := im.setRepo.Upsert(ctx, set); err != nil {
			return nil, nil, err
		}
	}

	stats, err := im.ImportResult(ctx, setID, result)
	if err != nil {
		return nil, nil, err
	}
	return stats, result, nil
}

// CreateSet registers a new (or existing) set from parsed metadata plus a
// caller-chosen name, returning its ID.
func (im *Importer) CreateSet(ctx context.Context, name, sport, source string, meta checklist.Metadata) (int, error) {
	if name == "" {
		name = meta.SetName
	}
	if name == "" {
		return 0, fmt.Errorf("set name required")
	}
	if sport == "" {
		sport = meta.Sport
	}

	return im.setRepo.Upsert(ctx, &store.CardSet{
		Sport:             sport,
		Name:              name,
		Year:              nullInt32(meta.Year),
		Publisher:         nullString(meta.Publisher),
		DeclaredCardCount: nullInt32(meta.DeclaredCardCount),
		Source:            source,
	})
}

// afterImport caches the parse summary and publishes the import event.
// Both are best effort.
func (im *Importer) afterImport(ctx context.Context, set *store.CardSet, result *checklist.ParseResult, stats *ImportStats) {
	if im.cache != nil {
		if err := im.cache.SetParseSummary(ctx, set.SetID, result.Summary); err != nil {
			log.Printf("[catalog] Failed to cache parse summary for set %d: %v", set.SetID, err)
		}
	}
	if im.pub != nil {
		event := publisher.ImportEvent{
			SetID:           set.SetID,
			SetName:         set.Name,
			Sport:           set.Sport,
			Source:          set.Source,
			SectionsUpsert:  stats.Sections,
			ParallelsUpsert: stats.Parallels,
			CardsUpsert:     stats.Cards,
			CardsForReview:  stats.CardsForReview,
		}
		if err := im.pub.PublishImportEvent(ctx, event); err != nil {
			log.Printf("[catalog] Failed to publish import event for set %d: %v", set.SetID, err)
		}
	}
}

func joinChannels(channels []checklist.Channel) string {
	if len(channels) == 0 {
		return ""
	}
	parts := make([]string, len(channels))
	for i, c := range channels {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt32(n int) sql.NullInt32 {
	if n == 0 {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(n), Valid: true}
}

func orNullString(have sql.NullString, fallback string) sql.NullString {
	if have.Valid || fallback == "" {
		return have
	}
	return nullString(fallback)
}

func orNullInt32(have sql.NullInt32, fallback int) sql.NullInt32 {
	if have.Valid || fallback == 0 {
		return have
	}
	return nullInt32(fallback)
}
