package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowDefectsSuspiciousCardNumber(t *testing.T) {
	sections := []Section{{
		Name: "Base",
		Cards: []Card{
			{CardNumber: "1;2", Player: "Mike Trout", Confidence: 1.0, LineIndex: 3},
		},
	}}

	errs := rowDefects(sections)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeSuspiciousChars, errs[0].Code)
	assert.Equal(t, "card_number", errs[0].Field)
	assert.Equal(t, "1;2", errs[0].CardNumber)
	assert.Equal(t, 3, errs[0].LineIndex)
}

func TestRowDefectsSuspiciousPlayer(t *testing.T) {
	sections := []Section{{
		Cards: []Card{
			{CardNumber: "1", Player: `Mike "Fish" Trout`, Confidence: 1.0},
		},
	}}

	errs := rowDefects(sections)
	require.Len(t, errs, 1)
	assert.Equal(t, "player", errs[0].Field)
}

func TestRowDefectsNumberTakesPrecedenceOverPlayer(t *testing.T) {
	sections := []Section{{
		Cards: []Card{
			{CardNumber: `1"`, Player: `Mike "Fish" Trout`, Confidence: 1.0},
		},
	}}

	errs := rowDefects(sections)
	require.Len(t, errs, 1)
	assert.Equal(t, "card_number", errs[0].Field)
}

func TestRowDefectsLowConfidenceGuard(t *testing.T) {
	sections := []Section{{
		Cards: []Card{
			{CardNumber: "1", Player: "A", Confidence: 0.4, NeedsReview: false},
			{CardNumber: "2", Player: "B", Confidence: 0.4, NeedsReview: true},
			{CardNumber: "3", Player: "C", Confidence: 0.9, NeedsReview: false},
		},
	}}

	errs := rowDefects(sections)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeLowConfidence, errs[0].Code)
	assert.Equal(t, "1", errs[0].CardNumber)
}

func TestDetectDuplicateCardNumbers(t *testing.T) {
	cards := []Card{
		{CardNumber: "1", Confidence: 1.0},
		{CardNumber: "1", Confidence: 1.0},
		{CardNumber: "2", Confidence: 1.0},
	}

	dups := detectDuplicateCardNumbers(cards)
	assert.Equal(t, []string{"1"}, dups)
	assert.True(t, cards[0].NeedsReview)
	assert.True(t, cards[1].NeedsReview)
	assert.False(t, cards[2].NeedsReview)
}

func TestDetectDuplicateCardNumbersCaseInsensitive(t *testing.T) {
	cards := []Card{
		{CardNumber: "us1"},
		{CardNumber: "US1"},
	}

	dups := detectDuplicateCardNumbers(cards)
	assert.Equal(t, []string{"US1"}, dups)
	assert.True(t, cards[0].NeedsReview)
	assert.True(t, cards[1].NeedsReview)
}

func TestDetectDuplicateCardNumbersFirstSeenOrder(t *testing.T) {
	cards := []Card{
		{CardNumber: "5"},
		{CardNumber: "5"},
		{CardNumber: "3"},
		{CardNumber: "3"},
		{CardNumber: "5"},
	}

	assert.Equal(t, []string{"5", "3"}, detectDuplicateCardNumbers(cards))
}

func TestDetectDuplicateCardNumbersNone(t *testing.T) {
	cards := []Card{{CardNumber: "1"}, {CardNumber: "2"}}
	assert.Empty(t, detectDuplicateCardNumbers(cards))
	assert.False(t, cards[0].NeedsReview)
}
