package reconcile

import (
	"strings"

	"github.com/fortuna/carddex/internal/ingest/tcdb"
	"github.com/fortuna/carddex/internal/store"
)

// Match pairs one scraped owned-card row with a catalog card.
type Match struct {
	Card *store.CatalogCard
	Qty  int
}

// MatchResult is the outcome of matching a scraped collection against the
// catalog rows of one set.
type MatchResult struct {
	Matches   []Match
	Unmatched []tcdb.OwnedCard
}

// MatchOwned matches scraped owned rows to catalog cards. Matching is by
// normalized card number first, then by normalized player name. Only base
// printings are considered; a collection page does not say which parallel a
// copy is, so quantities land on the base row.
func MatchOwned(cards []*store.CatalogCard, owned []tcdb.OwnedCard) *MatchResult {
	byNumber := make(map[string]*store.CatalogCard)
	byPlayer := make(map[string]*store.CatalogCard)

	for _, card := range cards {
		if card.Parallel != "" {
			continue
		}
		if key := normalizeNumber(card.CardNumber); key != "" {
			if _, exists := byNumber[key]; !exists {
				byNumber[key] = card
			}
		}
		if key := normalizePlayer(card.Player); key != "" {
			if _, exists := byPlayer[key]; !exists {
				byPlayer[key] = card
			}
		}
	}

	result := &MatchResult{}
	for _, row := range owned {
		card := byNumber[normalizeNumber(row.CardNumber)]
		if card == nil {
			card = byPlayer[normalizePlayer(row.Player)]
		}
		if card == nil {
			result.Unmatched = append(result.Unmatched, row)
			continue
		}

		qty := row.Qty
		if qty <= 0 {
			qty = 1
		}
		result.Matches = append(result.Matches, Match{Card: card, Qty: qty})
	}

	return result
}

// normalizeNumber strips a leading "#" and upper-cases for comparison.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	return strings.ToUpper(s)
}

// normalizePlayer lower-cases and keeps only letters, digits, and single
// spaces, so "De La Cruz, Elly" still differs from "Elly De La Cruz" but
// punctuation and casing noise do not.
func normalizePlayer(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
