package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCardPipeDelimited(t *testing.T) {
	card := extractCard("1 | Mike Trout | Los Angeles Angels", 2)
	require.NotNil(t, card)
	assert.Equal(t, "1", card.CardNumber)
	assert.Equal(t, "Mike Trout", card.Player)
	assert.Equal(t, "Los Angeles Angels", card.Team)
	assert.Equal(t, ConfidenceFull, card.Confidence)
	assert.False(t, card.NeedsReview)
	assert.Equal(t, 2, card.LineIndex)
}

func TestExtractCardTabDelimited(t *testing.T) {
	card := extractCard("42\tShohei Ohtani\tLos Angeles Dodgers", 0)
	require.NotNil(t, card)
	assert.Equal(t, "42", card.CardNumber)
	assert.Equal(t, "Shohei Ohtani", card.Player)
	assert.Equal(t, "Los Angeles Dodgers", card.Team)
}

func TestExtractCardCommaSplit(t *testing.T) {
	card := extractCard("US1 Kristian Campbell, Boston Red Sox RC", 5)
	require.NotNil(t, card)
	assert.Equal(t, "US1", card.CardNumber)
	assert.Equal(t, "Kristian Campbell", card.Player)
	assert.Equal(t, "Boston Red Sox", card.Team)
	assert.Contains(t, card.Flags, "RC")
	assert.Equal(t, ConfidenceFull, card.Confidence)
}

func TestExtractCardDashSplit(t *testing.T) {
	card := extractCard("BSAU-AB Adrian Beltré - Texas Rangers", 0)
	require.NotNil(t, card)
	assert.Equal(t, "BSAU-AB", card.CardNumber)
	assert.Equal(t, "Adrian Beltré", card.Player)
	assert.Equal(t, "Texas Rangers", card.Team)
}

func TestExtractCardGreedyTeamMatch(t *testing.T) {
	// No delimiter between player and team: the team table still splits it.
	card := extractCard("7 Shohei Ohtani Los Angeles Dodgers", 0)
	require.NotNil(t, card)
	assert.Equal(t, "Shohei Ohtani", card.Player)
	assert.Equal(t, "Los Angeles Dodgers", card.Team)
	assert.Equal(t, ConfidenceFull, card.Confidence)
}

func TestExtractCardMissingTeam(t *testing.T) {
	card := extractCard("42 Mike Trout", 0)
	require.NotNil(t, card)
	assert.Equal(t, "Mike Trout", card.Player)
	assert.Equal(t, "", card.Team)
	assert.Equal(t, ConfidenceNoTeam, card.Confidence)
	assert.False(t, card.NeedsReview)
}

func TestExtractCardSlashPlayer(t *testing.T) {
	card := extractCard("CC-3 Mike Trout/Shohei Ohtani, Los Angeles Angels", 0)
	require.NotNil(t, card)
	assert.Equal(t, ConfidenceSlashName, card.Confidence)
	assert.False(t, card.NeedsReview)
}

func TestExtractCardLongPlayerField(t *testing.T) {
	card := extractCard("9 One Two Three Four Five Six Seven, Texas Rangers", 0)
	require.NotNil(t, card)
	assert.Equal(t, ConfidenceMultiName, card.Confidence)
}

func TestExtractCardNotes(t *testing.T) {
	card := extractCard("15 Jackson Holliday, Baltimore Orioles (throwback uniform)", 0)
	require.NotNil(t, card)
	assert.Equal(t, "Jackson Holliday", card.Player)
	assert.Equal(t, "Baltimore Orioles", card.Team)
	assert.Equal(t, "throwback uniform", card.Notes)
}

func TestExtractCardRejectsParallelLines(t *testing.T) {
	assert.Nil(t, extractCard("Gold /2025", 0))
	assert.Nil(t, extractCard("Aqua Holo Foil (Retail Exclusive)", 0))
}

func TestExtractCardRejectsProse(t *testing.T) {
	assert.Nil(t, extractCard("Players featured in this product", 0))
}

func TestExtractParallelSerial(t *testing.T) {
	par := extractParallel("Gold /2025")
	require.NotNil(t, par)
	assert.Equal(t, "Gold", par.Name)
	assert.Equal(t, "Gold /2025", par.RawName)
	assert.Equal(t, 2025, par.SerialMax)
	assert.Equal(t, VariationParallel, par.Variation)
	assert.Equal(t, ConfidenceFull, par.Confidence)
	assert.False(t, par.NeedsReview)
}

func TestExtractParallelChannelsAndExclusive(t *testing.T) {
	par := extractParallel("Aqua Holo Foil (Retail Exclusive)")
	require.NotNil(t, par)
	assert.Equal(t, "Aqua Holo Foil", par.Name)
	assert.Equal(t, 0, par.SerialMax)
	assert.Equal(t, []Channel{ChannelRetail}, par.Channels)
	assert.Equal(t, "Retail Exclusive", par.Exclusive)
	assert.Equal(t, ConfidenceFull, par.Confidence)
}

func TestExtractParallelMultipleChannels(t *testing.T) {
	par := extractParallel("Green Shimmer (Hobby and Retail)")
	require.NotNil(t, par)
	assert.ElementsMatch(t, []Channel{ChannelHobby, ChannelRetail}, par.Channels)
}

func TestExtractParallelVariationPriority(t *testing.T) {
	tests := []struct {
		line string
		want VariationType
	}{
		{"Gold Autograph /10", VariationAutograph},
		{"Silver Relic /25", VariationRelic},
		{"Gold Patch /5", VariationPatch},
		{"Printing Plates Black /1", VariationPrintingPlate},
		{"Sepia Image Variation", VariationImage},
		{"Gold SSP", VariationSSP},
		{"Gold SP", VariationSP},
		{"Gold Refractor /50", VariationParallel},
	}
	for _, tt := range tests {
		par := extractParallel(tt.line)
		require.NotNil(t, par, "line: %q", tt.line)
		assert.Equal(t, tt.want, par.Variation, "line: %q", tt.line)
	}
}

func TestExtractParallelColorOnly(t *testing.T) {
	par := extractParallel("Ruby Red")
	require.NotNil(t, par)
	assert.Equal(t, ConfidenceColorOnly, par.Confidence)
	assert.False(t, par.NeedsReview)
}

func TestExtractParallelRequiresDefinitionLine(t *testing.T) {
	assert.Nil(t, extractParallel("US1 Kristian Campbell, Boston Red Sox RC"))
}

func TestExtractMetadata(t *testing.T) {
	meta := extractMetadata([]string{
		"2024 Topps Chrome",
		"350 cards",
	})
	assert.Equal(t, "2024 Topps Chrome", meta.SetName)
	assert.Equal(t, 2024, meta.Year)
	assert.Equal(t, "Topps", meta.Publisher)
	assert.Equal(t, 350, meta.DeclaredCardCount)
	assert.Equal(t, "Baseball", meta.Sport)
}

func TestExtractMetadataSkipsCountAsName(t *testing.T) {
	meta := extractMetadata([]string{"350 cards", "Bowman Draft"})
	assert.Equal(t, "Bowman Draft", meta.SetName)
	assert.Equal(t, "Bowman", meta.Publisher)
}

func TestRowIDStable(t *testing.T) {
	a := rowID(3, "1 | Mike Trout | Los Angeles Angels")
	b := rowID(3, "1 | Mike Trout | Los Angeles Angels")
	c := rowID(4, "1 | Mike Trout | Los Angeles Angels")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
