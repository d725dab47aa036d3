package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const titledChecklist = `Base Set Checklist
350 cards.
1 | Mike Trout | Los Angeles Angels
2 | Shohei Ohtani | Los Angeles Dodgers
`

func TestParseChecklistTitledBaseSet(t *testing.T) {
	result := ParseChecklist(titledChecklist)

	require.Len(t, result.Sections, 1)
	sec := result.Sections[0]
	assert.Equal(t, "Base Set", sec.Name)
	assert.Equal(t, SectionBase, sec.SectionType)
	assert.Equal(t, 350, sec.DeclaredCount)

	require.Len(t, sec.Cards, 2)
	assert.Equal(t, "1", sec.Cards[0].CardNumber)
	assert.Equal(t, "Mike Trout", sec.Cards[0].Player)
	assert.Equal(t, "2", sec.Cards[1].CardNumber)
	assert.Equal(t, "Shohei Ohtani", sec.Cards[1].Player)
	for _, c := range sec.Cards {
		assert.Equal(t, ConfidenceFull, c.Confidence)
		assert.False(t, c.NeedsReview)
	}

	assert.Equal(t, 2, result.Summary.TotalCards)
	assert.Equal(t, 0, result.Summary.TotalParallels)
	assert.Equal(t, 0, result.Summary.CardsNeedingReview)
	assert.Empty(t, result.DuplicateCardNumbers)
	assert.Empty(t, result.ValidationErrors)
}

const multiSectionChecklist = `2024 Topps Chrome
Gold /2024
Black /1
1 Mike Trout, Los Angeles Angels
2 Aaron Judge, New York Yankees

Mystical Inserts
Odds 1:8 hobby
M-1 Elly De La Cruz, Cincinnati Reds
`

func TestParseChecklistImplicitBaseAndInsertSection(t *testing.T) {
	result := ParseChecklist(multiSectionChecklist)

	assert.Equal(t, "2024 Topps Chrome", result.Metadata.SetName)
	assert.Equal(t, 2024, result.Metadata.Year)
	assert.Equal(t, "Topps", result.Metadata.Publisher)
	assert.Equal(t, "Baseball", result.Metadata.Sport)

	require.Len(t, result.Sections, 2)

	base := result.Sections[0]
	assert.Equal(t, "Base", base.Name)
	assert.Equal(t, SectionBase, base.SectionType)
	require.Len(t, base.Parallels, 2)
	assert.Equal(t, "Gold", base.Parallels[0].Name)
	assert.Equal(t, 2024, base.Parallels[0].SerialMax)
	assert.Equal(t, "Black", base.Parallels[1].Name)
	assert.Equal(t, 1, base.Parallels[1].SerialMax)
	require.Len(t, base.Cards, 2)
	assert.Equal(t, "Mike Trout", base.Cards[0].Player)
	assert.Equal(t, "Los Angeles Angels", base.Cards[0].Team)

	inserts := result.Sections[1]
	assert.Equal(t, "Mystical Inserts", inserts.Name)
	assert.Equal(t, SectionInsert, inserts.SectionType)
	assert.Equal(t, "Odds 1:8 hobby", inserts.Odds)
	require.Len(t, inserts.Cards, 1)
	assert.Equal(t, "M-1", inserts.Cards[0].CardNumber)
	assert.Equal(t, "Elly De La Cruz", inserts.Cards[0].Player)

	assert.Equal(t, 3, result.Summary.TotalCards)
	assert.Equal(t, 2, result.Summary.TotalParallels)
}

func TestParseChecklistDuplicateNumbersForceReview(t *testing.T) {
	result := ParseChecklist(`1 | Mike Trout | Los Angeles Angels
1 | Aaron Judge | New York Yankees
2 | Juan Soto | New York Mets
`)

	assert.Equal(t, []string{"1"}, result.DuplicateCardNumbers)

	require.Len(t, result.Sections, 1)
	cards := result.Sections[0].Cards
	require.Len(t, cards, 3)
	assert.True(t, cards[0].NeedsReview)
	assert.True(t, cards[1].NeedsReview)
	assert.False(t, cards[2].NeedsReview)
	assert.Equal(t, 2, result.Summary.CardsNeedingReview)
}

func TestParseChecklistEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\n", "\r\n \r\n"} {
		result := ParseChecklist(input)
		require.NotNil(t, result)
		assert.Empty(t, result.Sections)
		assert.Empty(t, result.ValidationErrors)
		assert.Empty(t, result.DuplicateCardNumbers)
		assert.Equal(t, Summary{}, result.Summary)
		assert.Equal(t, "Baseball", result.Metadata.Sport)
	}
}

func TestParseChecklistIdempotent(t *testing.T) {
	first := ParseChecklist(multiSectionChecklist)
	second := ParseChecklist(multiSectionChecklist)

	require.Equal(t, first, second)
	for i := range first.Sections {
		for j := range first.Sections[i].Cards {
			assert.Equal(t,
				first.Sections[i].Cards[j].RowID,
				second.Sections[i].Cards[j].RowID)
		}
	}
}

func TestParseChecklistCRLFInput(t *testing.T) {
	unix := ParseChecklist("Base Set Checklist\n350 cards.\n1 | Mike Trout | Los Angeles Angels\n")
	dos := ParseChecklist("Base Set Checklist\r\n350 cards.\r\n1 | Mike Trout | Los Angeles Angels\r\n")
	assert.Equal(t, unix, dos)
}

func TestParseChecklistSummaryConsistency(t *testing.T) {
	result := ParseChecklist(multiSectionChecklist)

	cards, parallels, cardReview, parReview := 0, 0, 0, 0
	for _, sec := range result.Sections {
		cards += len(sec.Cards)
		parallels += len(sec.Parallels)
		for _, c := range sec.Cards {
			if c.NeedsReview {
				cardReview++
			}
		}
		for _, p := range sec.Parallels {
			if p.NeedsReview {
				parReview++
			}
		}
	}
	assert.Equal(t, cards, result.Summary.TotalCards)
	assert.Equal(t, parallels, result.Summary.TotalParallels)
	assert.Equal(t, cardReview, result.Summary.CardsNeedingReview)
	assert.Equal(t, parReview, result.Summary.ParallelsNeedingReview)
}

func TestParseChecklistConfidenceReviewInvariant(t *testing.T) {
	result := ParseChecklist(multiSectionChecklist + `
CC-9 Mike Trout/Aaron Judge, Los Angeles Angels
`)
	for _, sec := range result.Sections {
		for _, c := range sec.Cards {
			if c.Confidence < ReviewThreshold {
				assert.True(t, c.NeedsReview, "card %s", c.CardNumber)
			}
		}
	}
}

func TestParseChecklistSuspiciousPlayerFlagged(t *testing.T) {
	result := ParseChecklist("1 | Mike \"Big Fish\" Trout | Los Angeles Angels\n")

	require.Len(t, result.ValidationErrors, 1)
	ve := result.ValidationErrors[0]
	assert.Equal(t, ErrCodeSuspiciousChars, ve.Code)
	assert.Equal(t, "player", ve.Field)
	assert.Equal(t, "1", ve.CardNumber)
}

func TestParseChecklistInlineParallelsAttachToSection(t *testing.T) {
	result := ParseChecklist(`Home Run Challenge Inserts
Parallels: Gold /50; Red /10
HRC-1 Pete Alonso, New York Mets
`)

	require.Len(t, result.Sections, 1)
	sec := result.Sections[0]
	assert.Equal(t, "Home Run Challenge Inserts", sec.Name)
	require.Len(t, sec.Parallels, 2)
	assert.Equal(t, "Gold", sec.Parallels[0].Name)
	assert.Equal(t, 50, sec.Parallels[0].SerialMax)
	assert.Equal(t, "Red", sec.Parallels[1].Name)
	assert.Equal(t, 10, sec.Parallels[1].SerialMax)
	require.Len(t, sec.Cards, 1)
}
