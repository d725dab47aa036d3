package checklist

import (
	"fmt"
	"strings"
)

// Phase 4: validation gates. These produce data, never errors — the
// collections they return are advisory, surfaced for manual triage.

const suspiciousChars = `;'"\`

// rowDefects scans extracted cards for structural defects. The
// low-confidence check is an internal consistency guard: it should never
// fire if extraction set NeedsReview correctly.
func rowDefects(sections []Section) []ValidationError {
	var errs []ValidationError
	for si := range sections {
		for ci := range sections[si].Cards {
			card := &sections[si].Cards[ci]

			if strings.ContainsAny(card.CardNumber, suspiciousChars) {
				errs = append(errs, ValidationError{
					Code:       ErrCodeSuspiciousChars,
					CardNumber: card.CardNumber,
					Field:      "card_number",
					Message:    fmt.Sprintf("card number %q contains suspicious characters", card.CardNumber),
					LineIndex:  card.LineIndex,
				})
			} else if strings.ContainsAny(card.Player, suspiciousChars) {
				errs = append(errs, ValidationError{
					Code:       ErrCodeSuspiciousChars,
					CardNumber: card.CardNumber,
					Field:      "player",
					Message:    fmt.Sprintf("player %q contains suspicious characters", card.Player),
					LineIndex:  card.LineIndex,
				})
			}

			if card.Confidence < LowConfidenceFloor && !card.NeedsReview {
				errs = append(errs, ValidationError{
					Code:       ErrCodeLowConfidence,
					CardNumber: card.CardNumber,
					Message:    fmt.Sprintf("card %s has confidence %.2f but was not flagged for review", card.CardNumber, card.Confidence),
					LineIndex:  card.LineIndex,
				})
			}
		}
	}
	return errs
}

// detectDuplicateCardNumbers finds card numbers occurring more than once
// within one section, case-insensitively. Every card sharing a duplicated
// number is forced into review; each number is reported once, in
// first-seen order.
func detectDuplicateCardNumbers(cards []Card) []string {
	counts := make(map[string]int, len(cards))
	var order []string
	for i := range cards {
		key := normalizeCardNumber(cards[i].CardNumber)
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	var dups []string
	for _, key := range order {
		if counts[key] > 1 {
			dups = append(dups, key)
		}
	}

	for i := range cards {
		if counts[normalizeCardNumber(cards[i].CardNumber)] > 1 {
			cards[i].NeedsReview = true
		}
	}
	return dups
}

func normalizeCardNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}
