package tcdb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/fortuna/carddex/internal/catalog"
	"github.com/fortuna/carddex/internal/checklist"
	"github.com/fortuna/carddex/internal/store"
	"github.com/fortuna/carddex/internal/store/repository"
)

// maxDetailPages bounds pagination so a bad Next link cannot loop forever.
const maxDetailPages = 25

var (
	reTitleYear   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	titleSuffixes = []string{" - Trading Card Database", " | Trading Card Database", " Checklist"}
)

// Ingester pulls a full set from TCDB and writes it into the catalog
// through the same import path checklist text uses.
type Ingester struct {
	client   *Client
	importer *catalog.Importer
	setRepo  *repository.SetRepository
	logger   *log.Logger
}

// NewIngester creates an ingester with its own browser client. Call Close
// when done.
func NewIngester(db *store.Database, importer *catalog.Importer, logger *log.Logger) (*Ingester, error) {
	client, err := NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create TCDB client: %w", err)
	}

	if logger == nil {
		logger = log.New(log.Writer(), "[tcdb] ", log.LstdFlags)
	}

	return &Ingester{
		client:   client,
		importer: importer,
		setRepo:  repository.NewSetRepository(db),
		logger:   logger,
	}, nil
}

// Close releases the browser.
func (in *Ingester) Close() {
	if in.client != nil {
		in.client.Close()
	}
}

// IngestSet scrapes a set by TCDB ID, registers it in the catalog, and
// imports its cards, insert sections, and parallels. progress may be nil.
func (in *Ingester) IngestSet(ctx context.Context, tcdbID int, sport string, progress func(current, total int, message string)) (*catalog.ImportStats, error) {
	if progress == nil {
		progress = func(int, int, string) {}
	}

	progress(0, 0, fmt.Sprintf("Fetching TCDB set %d", tcdbID))

	detail, err := in.fetchAllPages(ctx, tcdbID, progress)
	if err != nil {
		return nil, err
	}

	result := BuildParseResult(detail)
	name := SetNameFromTitle(detail.Title)
	if name == "" {
		name = fmt.Sprintf("TCDB Set %d", tcdbID)
	}
	if sport == "" {
		sport = "Baseball"
	}

	setID, err := in.setRepo.Upsert(ctx, &store.CardSet{
		Sport:             sport,
		Name:              name,
		Year:              nullInt32(result.Metadata.Year),
		DeclaredCardCount: nullInt32(detail.TotalCards),
		Source:            store.SourceTCDB,
		ExternalID:        nullString(strconv.Itoa(tcdbID)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register set %q: %w", name, err)
	}

	progress(0, len(detail.Cards), fmt.Sprintf("Importing %d cards into %q", len(detail.Cards), name))

	stats, err := in.importer.ImportResult(ctx, setID, result)
	if err != nil {
		return nil, err
	}

	progress(stats.Cards, stats.Cards, "Import complete")
	in.logger.Printf("ingested TCDB set %d as set %d (%d cards, %d sections)",
		tcdbID, setID, stats.Cards, stats.Sections)

	return stats, nil
}

// fetchAllPages fetches the detail page and follows Next links, merging
// card rows into a single SetDetail.
func (in *Ingester) fetchAllPages(ctx context.Context, tcdbID int, progress func(int, int, string)) (*SetDetail, error) {
	html, err := in.client.FetchSetDetail(ctx, tcdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch set %d: %w", tcdbID, err)
	}

	detail, err := ParseSetDetailPage(html)
	if err != nil {
		return nil, err
	}

	visited := map[string]bool{}
	for page := 2; page <= maxDetailPages; page++ {
		next, ok := ParseNextPageURL(html)
		if !ok || visited[next] {
			break
		}
		visited[next] = true

		progress(len(detail.Cards), detail.TotalCards, fmt.Sprintf("Fetching page %d", page))

		html, err = in.client.FetchPage(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d of set %d: %w", page, tcdbID, err)
		}

		more, err := ParseSetDetailPage(html)
		if err != nil {
			return nil, err
		}
		if len(more.Cards) == 0 {
			break
		}
		detail.Cards = append(detail.Cards, more.Cards...)
	}

	return detail, nil
}

// BuildParseResult converts a scraped set into the parser's result shape so
// both import paths share one writer. Scraped rows are structured data, so
// every row carries full confidence.
func BuildParseResult(detail *SetDetail) *checklist.ParseResult {
	result := &checklist.ParseResult{
		Metadata: checklist.Metadata{
			SetName:           SetNameFromTitle(detail.Title),
			DeclaredCardCount: detail.TotalCards,
			Sport:             "Baseball",
		},
	}
	if m := reTitleYear.FindString(detail.Title); m != "" {
		result.Metadata.Year, _ = strconv.Atoi(m)
	}

	base := checklist.Section{
		Name:          "Base",
		SectionType:   checklist.SectionBase,
		DeclaredCount: detail.TotalCards,
	}

	for _, par := range detail.Parallels {
		p := checklist.Parallel{
			Name:       par.Name,
			RawName:    par.Name,
			SerialMax:  par.PrintRun,
			Variation:  checklist.VariationParallel,
			Confidence: checklist.ConfidenceFull,
		}
		if par.Exclusive != "" {
			p.Exclusive = par.Exclusive + " Exclusive"
			switch strings.ToLower(par.Exclusive) {
			case "hobby":
				p.Channels = []checklist.Channel{checklist.ChannelHobby}
			case "retail":
				p.Channels = []checklist.Channel{checklist.ChannelRetail}
			}
		}
		base.Parallels = append(base.Parallels, p)
	}

	for _, card := range detail.Cards {
		if card.CardNumber == "" && card.Player == "" {
			continue
		}
		base.Cards = append(base.Cards, checklist.Card{
			CardNumber: card.CardNumber,
			Player:     card.Player,
			Team:       card.Team,
			Flags:      card.Flags,
			Confidence: checklist.ConfidenceFull,
		})
	}

	result.Sections = append(result.Sections, base)

	for _, ins := range detail.InsertSections {
		result.Sections = append(result.Sections, checklist.Section{
			Name:          ins.Name,
			SectionType:   checklist.SectionInsert,
			DeclaredCount: ins.CardCount,
			Odds:          ins.Odds,
		})
	}

	for _, sec := range result.Sections {
		result.Summary.TotalCards += len(sec.Cards)
		result.Summary.TotalParallels += len(sec.Parallels)
	}

	return result
}

// SetNameFromTitle strips site chrome from a page title
// ("2025 Topps Series 1 - Trading Card Database" → "2025 Topps Series 1").
func SetNameFromTitle(title string) string {
	name := strings.TrimSpace(title)
	for _, suffix := range titleSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	return strings.TrimSpace(name)
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
