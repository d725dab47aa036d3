package tcdb

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Best-effort parsers for TCDB HTML pages. Key URL patterns and selectors:
//   - Set links:    a[href*="/ViewSet.cfm/sid/"]
//   - Card rows:    table rows whose cells carry valign="top"
//   - Images:       img[data-original] (lazy-loaded src)
//   - Card counts:  "(150 cards)" text next to set names

var (
	reSetID       = regexp.MustCompile(`/ViewSet\.cfm/sid/(\d+)`)
	reCardCount   = regexp.MustCompile(`(?i)\((\d+)\s+cards?\)`)
	reTotalCards  = regexp.MustCompile(`(?i)Total\s+Cards:\s*(\d+)`)
	reRowCount    = regexp.MustCompile(`(?i)(\d+)\s+cards?`)
	reOdds        = regexp.MustCompile(`1:\d+`)
	rePrintRun    = regexp.MustCompile(`#(?:d|/)\s*(\d+)`)
	rePrintRunAlt = regexp.MustCompile(`(?i)(\d+)\s*(?:copies|print run)`)
	reExclusive   = regexp.MustCompile(`(?i)(Hobby|Retail|Online)\s+Exclusive`)
	reRCFlag      = regexp.MustCompile(`\bRC\b`)
	reSPFlag      = regexp.MustCompile(`\bSP\b`)
	reFirstNumber = regexp.MustCompile(`(\d+)`)
)

// ParseSetIDFromURL extracts the numeric set ID from a ViewSet URL
// ("/ViewSet.cfm/sid/482758/2025-Topps-Series-1" → 482758).
func ParseSetIDFromURL(url string) (int, bool) {
	m := reSetID.FindStringSubmatch(url)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

func newDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseSetListPage parses a page that lists sets, one SetListing per
// ViewSet link found.
func ParseSetListPage(html string) ([]SetListing, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	var listings []SetListing
	doc.Find(`a[href*="/ViewSet.cfm/sid/"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		id, ok := ParseSetIDFromURL(href)
		if !ok {
			return
		}

		listing := SetListing{
			TCDBID: id,
			Name:   strings.TrimSpace(a.Text()),
		}

		marker := fmt.Sprintf("/sid/%d/", id)
		if at := strings.Index(href, marker); at != -1 {
			listing.URLSlug = href[at+len(marker):]
		}

		if parent := a.Parent(); parent.Length() > 0 {
			if m := reCardCount.FindStringSubmatch(parent.Text()); m != nil {
				listing.CardCount, _ = strconv.Atoi(m[1])
			}
		}

		listings = append(listings, listing)
	})

	return listings, nil
}

// ParseSetDetailPage parses a ViewSet page into its title, declared card
// total, card rows, and best-effort insert/parallel entries.
func ParseSetDetailPage(html string) (*SetDetail, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	detail := &SetDetail{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	if m := reTotalCards.FindStringSubmatch(doc.Text()); m != nil {
		detail.TotalCards, _ = strconv.Atoi(m[1])
	}

	detail.Cards = parseCardRows(doc)
	detail.InsertSections = parseInsertSections(doc)
	detail.Parallels = parseParallels(doc)

	return detail, nil
}

// parseCardRows extracts card rows: table rows whose first cells carry
// valign="top", with at least a number and player cell.
func parseCardRows(doc *goquery.Document) []ScrapedCard {
	var cards []ScrapedCard

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Find(`td[valign="top"]`).Length() == 0 {
			return
		}

		tds := tr.Find("td")
		if tds.Length() < 2 {
			return
		}

		card := ScrapedCard{
			CardNumber: strings.TrimSpace(tds.Eq(0).Text()),
			Player:     strings.TrimSpace(tds.Eq(1).Text()),
			Flags:      []string{},
		}
		if tds.Length() > 2 {
			card.Team = strings.TrimSpace(tds.Eq(2).Text())
		}

		// Prefer the lazy-load attribute for images.
		if img := tr.Find("img[data-original]").First(); img.Length() > 0 {
			card.ImageURL, _ = img.Attr("data-original")
		}

		rowText := tr.Text()
		if reRCFlag.MatchString(rowText) {
			card.Flags = append(card.Flags, "RC")
		}
		if reSPFlag.MatchString(rowText) {
			card.Flags = append(card.Flags, "SP")
		}

		cards = append(cards, card)
	})

	return cards
}

// headerTags are the elements scanned for insert/parallel headings.
const headerTags = "a, b, strong, h2, h3, h4, h5"

func parseInsertSections(doc *goquery.Document) []InsertSection {
	var sections []InsertSection
	seen := map[string]bool{}

	doc.Find(headerTags).Each(func(_ int, el *goquery.Selection) {
		name := strings.TrimSpace(el.Text())
		if name == "" || !strings.Contains(strings.ToLower(name), "insert") {
			return
		}
		if seen[name] {
			return
		}
		seen[name] = true

		section := InsertSection{Name: name}

		if parent := el.Parent(); parent.Length() > 0 {
			text := parent.Text()
			if m := reRowCount.FindStringSubmatch(text); m != nil {
				section.CardCount, _ = strconv.Atoi(m[1])
			}
			if m := reOdds.FindString(text); m != "" {
				section.Odds = m
			}
		}

		sections = append(sections, section)
	})

	return sections
}

func parseParallels(doc *goquery.Document) []ScrapedParallel {
	var parallels []ScrapedParallel
	seen := map[string]bool{}

	doc.Find(headerTags).Each(func(_ int, el *goquery.Selection) {
		name := strings.TrimSpace(el.Text())
		if name == "" || !strings.Contains(strings.ToLower(name), "parallel") {
			return
		}
		if seen[name] {
			return
		}
		seen[name] = true

		par := ScrapedParallel{Name: name}

		if parent := el.Parent(); parent.Length() > 0 {
			text := parent.Text()
			if m := rePrintRun.FindStringSubmatch(text); m != nil {
				par.PrintRun, _ = strconv.Atoi(m[1])
			} else if m := rePrintRunAlt.FindStringSubmatch(text); m != nil {
				par.PrintRun, _ = strconv.Atoi(m[1])
			}
			if m := reExclusive.FindStringSubmatch(text); m != nil {
				par.Exclusive = m[1]
			}
		}

		parallels = append(parallels, par)
	})

	return parallels
}

// ParseNextPageURL finds the "Next" pagination link, with ok reporting
// whether one exists.
func ParseNextPageURL(html string) (string, bool) {
	doc, err := newDocument(html)
	if err != nil {
		return "", false
	}

	next := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		switch strings.ToLower(strings.TrimSpace(a.Text())) {
		case "next", "next >", "next >>", ">>", ">":
			next, _ = a.Attr("href")
			return false
		}
		return true
	})

	return next, next != ""
}

// ParseCollectionSets parses a user collection page listing sets they own
// cards from.
func ParseCollectionSets(html string) ([]CollectionSet, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	var results []CollectionSet
	doc.Find(`a[href*="/ViewSet.cfm/sid/"]`).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		id, ok := ParseSetIDFromURL(href)
		if !ok {
			return
		}

		set := CollectionSet{
			TCDBID: id,
			Name:   strings.TrimSpace(a.Text()),
		}

		if parent := a.Parent(); parent.Length() > 0 {
			rest := strings.Replace(parent.Text(), set.Name, "", 1)
			if m := reFirstNumber.FindStringSubmatch(rest); m != nil {
				set.OwnedCount, _ = strconv.Atoi(m[1])
			}
		}

		results = append(results, set)
	})

	return results, nil
}

// ParseCollectionCards parses a collection page showing individual owned
// cards. A missing qty cell defaults to 1.
func ParseCollectionCards(html string) ([]OwnedCard, error) {
	doc, err := newDocument(html)
	if err != nil {
		return nil, err
	}

	var cards []OwnedCard
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Find(`td[valign="top"]`).Length() == 0 {
			return
		}

		tds := tr.Find("td")
		if tds.Length() < 2 {
			return
		}

		card := OwnedCard{
			CardNumber: strings.TrimSpace(tds.Eq(0).Text()),
			Player:     strings.TrimSpace(tds.Eq(1).Text()),
			Qty:        1,
		}
		if tds.Length() > 2 {
			card.Team = strings.TrimSpace(tds.Eq(2).Text())
		}
		if tds.Length() > 3 {
			if m := reFirstNumber.FindStringSubmatch(tds.Eq(3).Text()); m != nil {
				card.Qty, _ = strconv.Atoi(m[1])
			}
		}

		cards = append(cards, card)
	})

	return cards, nil
}
