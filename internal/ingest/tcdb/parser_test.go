package tcdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/carddex/internal/checklist"
)

func TestParseSetIDFromURL(t *testing.T) {
	tests := []struct {
		url    string
		wantID int
		wantOK bool
	}{
		{"/ViewSet.cfm/sid/482758/2025-Topps-Series-1", 482758, true},
		{"https://www.tcdb.com/ViewSet.cfm/sid/12345", 12345, true},
		{"/ViewSet.cfm/sid/482758?PageIndex=2", 482758, true},
		{"/Checklist.cfm/sid/482758", 0, false},
		{"/ViewSet.cfm/sid/abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		id, ok := ParseSetIDFromURL(tt.url)
		assert.Equal(t, tt.wantOK, ok, tt.url)
		assert.Equal(t, tt.wantID, id, tt.url)
	}
}

func TestParseSetListPage(t *testing.T) {
	html := `<html><body><ul>
		<li><a href="/ViewSet.cfm/sid/482758/2025-Topps-Series-1">2025 Topps Series 1</a> (350 cards)</li>
		<li><a href="/ViewSet.cfm/sid/481002/2025-Topps-Chrome">2025 Topps Chrome</a> (220 cards)</li>
		<li><a href="/Gallery.cfm/sid/482758">Gallery</a></li>
	</ul></body></html>`

	listings, err := ParseSetListPage(html)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, 482758, listings[0].TCDBID)
	assert.Equal(t, "2025 Topps Series 1", listings[0].Name)
	assert.Equal(t, "2025-Topps-Series-1", listings[0].URLSlug)
	assert.Equal(t, 350, listings[0].CardCount)

	assert.Equal(t, 481002, listings[1].TCDBID)
	assert.Equal(t, 220, listings[1].CardCount)
}

func TestParseSetDetailPage(t *testing.T) {
	html := `<html><head><title>2025 Topps Series 1 - Trading Card Database</title></head><body>
		<p>Total Cards: 350</p>
		<table>
			<tr><td valign="top">1</td><td>Mike Trout</td><td>Angels</td></tr>
			<tr><td valign="top">2</td><td>Jackson Holliday</td><td>Orioles</td><td>RC</td></tr>
			<tr><td valign="top">3</td><td>Paul Skenes</td><td>Pirates</td>
				<td><img data-original="https://img.tcdb.com/3.jpg" src="spacer.gif"></td><td>SP</td></tr>
			<tr><td>not a card row</td></tr>
		</table>
		<div><strong>Galactic Inserts</strong> 25 cards 1:4 packs</div>
		<div><b>Gold Parallel</b> #/50 Hobby Exclusive</div>
		<div><b>Gold Parallel</b> #/50 Hobby Exclusive</div>
	</body></html>`

	detail, err := ParseSetDetailPage(html)
	require.NoError(t, err)

	assert.Equal(t, "2025 Topps Series 1 - Trading Card Database", detail.Title)
	assert.Equal(t, 350, detail.TotalCards)

	require.Len(t, detail.Cards, 3)
	assert.Equal(t, "1", detail.Cards[0].CardNumber)
	assert.Equal(t, "Mike Trout", detail.Cards[0].Player)
	assert.Equal(t, "Angels", detail.Cards[0].Team)
	assert.Empty(t, detail.Cards[0].Flags)

	assert.Equal(t, []string{"RC"}, detail.Cards[1].Flags)

	assert.Equal(t, []string{"SP"}, detail.Cards[2].Flags)
	assert.Equal(t, "https://img.tcdb.com/3.jpg", detail.Cards[2].ImageURL)

	require.Len(t, detail.InsertSections, 1)
	assert.Equal(t, "Galactic Inserts", detail.InsertSections[0].Name)
	assert.Equal(t, 25, detail.InsertSections[0].CardCount)
	assert.Equal(t, "1:4", detail.InsertSections[0].Odds)

	require.Len(t, detail.Parallels, 1)
	assert.Equal(t, "Gold Parallel", detail.Parallels[0].Name)
	assert.Equal(t, 50, detail.Parallels[0].PrintRun)
	assert.Equal(t, "Hobby", detail.Parallels[0].Exclusive)
}

func TestParseNextPageURL(t *testing.T) {
	html := `<html><body>
		<a href="/ViewSet.cfm/sid/482758">1</a>
		<a href="/ViewSet.cfm/sid/482758?PageIndex=2">Next &gt;</a>
	</body></html>`

	next, ok := ParseNextPageURL(html)
	require.True(t, ok)
	assert.Equal(t, "/ViewSet.cfm/sid/482758?PageIndex=2", next)

	_, ok = ParseNextPageURL(`<html><body><a href="/x">Previous</a></body></html>`)
	assert.False(t, ok)
}

func TestParseCollectionSets(t *testing.T) {
	html := `<html><body>
		<li><a href="/ViewSet.cfm/sid/482758/2025-Topps-Series-1">2025 Topps Series 1</a> 42 of 350</li>
	</body></html>`

	sets, err := ParseCollectionSets(html)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, 482758, sets[0].TCDBID)
	assert.Equal(t, 42, sets[0].OwnedCount)
}

func TestParseCollectionCards(t *testing.T) {
	html := `<html><body><table>
		<tr><td valign="top">1</td><td>Mike Trout</td><td>Angels</td><td>x3</td></tr>
		<tr><td valign="top">7</td><td>Elly De La Cruz</td><td>Reds</td></tr>
	</table></body></html>`

	cards, err := ParseCollectionCards(html)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, "1", cards[0].CardNumber)
	assert.Equal(t, 3, cards[0].Qty)

	assert.Equal(t, "7", cards[1].CardNumber)
	assert.Equal(t, 1, cards[1].Qty, "missing qty cell defaults to 1")
}

func TestSetNameFromTitle(t *testing.T) {
	assert.Equal(t, "2025 Topps Series 1",
		SetNameFromTitle("2025 Topps Series 1 - Trading Card Database"))
	assert.Equal(t, "2024 Bowman", SetNameFromTitle("  2024 Bowman Checklist "))
	assert.Equal(t, "", SetNameFromTitle(""))
}

func TestBuildParseResult(t *testing.T) {
	detail := &SetDetail{
		Title:      "2025 Topps Series 1 - Trading Card Database",
		TotalCards: 2,
		Cards: []ScrapedCard{
			{CardNumber: "1", Player: "Mike Trout", Team: "Angels", Flags: []string{}},
			{CardNumber: "2", Player: "Jackson Holliday", Team: "Orioles", Flags: []string{"RC"}},
			{},
		},
		InsertSections: []InsertSection{
			{Name: "Galactic Inserts", CardCount: 25, Odds: "1:4"},
		},
		Parallels: []ScrapedParallel{
			{Name: "Gold", PrintRun: 50, Exclusive: "Hobby"},
			{Name: "Black", PrintRun: 1},
		},
	}

	result := BuildParseResult(detail)

	assert.Equal(t, "2025 Topps Series 1", result.Metadata.SetName)
	assert.Equal(t, 2025, result.Metadata.Year)
	assert.Equal(t, 2, result.Metadata.DeclaredCardCount)

	require.Len(t, result.Sections, 2)
	base := result.Sections[0]
	assert.Equal(t, "Base", base.Name)
	assert.Equal(t, checklist.SectionBase, base.SectionType)

	require.Len(t, base.Cards, 2, "empty scraped rows are dropped")
	assert.Equal(t, checklist.ConfidenceFull, base.Cards[0].Confidence)
	assert.Equal(t, []string{"RC"}, base.Cards[1].Flags)

	require.Len(t, base.Parallels, 2)
	assert.Equal(t, 50, base.Parallels[0].SerialMax)
	assert.Equal(t, "Hobby Exclusive", base.Parallels[0].Exclusive)
	assert.Equal(t, []checklist.Channel{checklist.ChannelHobby}, base.Parallels[0].Channels)
	assert.Empty(t, base.Parallels[1].Channels)

	insert := result.Sections[1]
	assert.Equal(t, checklist.SectionInsert, insert.SectionType)
	assert.Equal(t, "1:4", insert.Odds)

	assert.Equal(t, 2, result.Summary.TotalCards)
	assert.Equal(t, 2, result.Summary.TotalParallels)
}
