package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsParallelDefinitionLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"gold with serial", "Gold /2025", true},
		{"black with serial", "Black /1", true},
		{"color finish with exclusive", "Aqua Holo Foil (Retail Exclusive)", true},
		{"refractor prefix", "Refractor", true},
		{"odds parenthetical", "Sepia (1:24 packs)", true},
		{"color only short remainder", "Purple Shimmer", true},
		{"card with numeric code", "US1 Kristian Campbell, Boston Red Sox RC", false},
		{"card with color in team", "MMU-AB Alex Bregman, Boston Red Sox", false},
		{"card with dashed code", "BSAU-AB Adrian Beltré, Texas Rangers", false},
		{"pipe delimited card", "1 | Mike Trout | Los Angeles Angels", false},
		{"plain sentence", "Players featured in this product", false},
		{"numeric code with finish word", "2024 Topps Chrome", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isParallelDefinitionLine(tt.line), "line: %q", tt.line)
		})
	}
}

func TestIsMetadataLine(t *testing.T) {
	assert.True(t, isMetadataLine("2024 Topps Series 1 Checklist"))
	assert.True(t, isMetadataLine("350 cards"))
	assert.True(t, isMetadataLine("350 cards."))
	assert.True(t, isMetadataLine("2024 Topps Chrome"))
	assert.True(t, isMetadataLine("Topps Heritage High Number"))
	assert.True(t, isMetadataLine("Found in hobby boxes"))

	assert.False(t, isMetadataLine("1 | Mike Trout | Los Angeles Angels"))
	assert.False(t, isMetadataLine("Gold /50"))
}

func TestSectionHeaderClassifiers(t *testing.T) {
	assert.True(t, isParallelSectionHeader("Parallels"))
	assert.True(t, isParallelSectionHeader("Parallels:"))
	assert.True(t, isParallelSectionHeader("variations"))
	assert.False(t, isParallelSectionHeader("Baseball Stars Autographs"))

	assert.True(t, isCardSectionHeader("Base Set"))
	assert.True(t, isCardSectionHeader("Short Prints"))
	assert.False(t, isCardSectionHeader("Parallels"))
}

func TestIsInsertSectionHeader(t *testing.T) {
	tests := []struct {
		line     string
		isHeader bool
		name     string
	}{
		{"Baseball Stars Autographs", true, "Baseball Stars Autographs"},
		{"Home Run Challenge Inserts", true, "Home Run Challenge Inserts"},
		{"City Connect Patches", true, "City Connect Patches"},
		// Generic product words never end a subset name.
		{"2024 Topps Series", false, ""},
		{"Complete Base Set", false, ""},
		// Card lines are not headers.
		{"US1 Kristian Campbell, Boston Red Sox RC", false, ""},
		// Parallel definitions are not headers.
		{"Gold /2025", false, ""},
		// Bare counts and literal dividers are not headers.
		{"150 cards", false, ""},
		{"Parallels", false, ""},
		// Lowercase words fail the capitalization heuristic.
		{"some random autographs", false, ""},
	}

	for _, tt := range tests {
		ok, name := isInsertSectionHeader(tt.line)
		require.Equal(t, tt.isHeader, ok, "line: %q", tt.line)
		assert.Equal(t, tt.name, name, "line: %q", tt.line)
	}
}

func TestExtractCardCountDeclaration(t *testing.T) {
	n, ok := extractCardCountDeclaration("350 cards.")
	require.True(t, ok)
	assert.Equal(t, 350, n)

	n, ok = extractCardCountDeclaration("1 card")
	require.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = extractCardCountDeclaration("350 cards of greatness")
	assert.False(t, ok)
}

func TestChecklistTitle(t *testing.T) {
	name, ok := checklistTitle("Base Set Checklist")
	require.True(t, ok)
	assert.Equal(t, "Base Set", name)

	name, ok = checklistTitle("Checklist")
	require.True(t, ok)
	assert.Equal(t, "", name)

	_, ok = checklistTitle("Checklist of dreams")
	assert.False(t, ok)
}

func TestLooksLikeCardCode(t *testing.T) {
	assert.True(t, looksLikeCardCode("1"))
	assert.True(t, looksLikeCardCode("US1"))
	assert.True(t, looksLikeCardCode("MMU-AB"))
	assert.True(t, looksLikeCardCode("BSAU-AB"))

	assert.False(t, looksLikeCardCode("Gold"))
	assert.False(t, looksLikeCardCode("Baseball"))
	assert.False(t, looksLikeCardCode("not a code"))
}
