package tcdb

// SetListing is one entry on a browse/search page that lists sets.
type SetListing struct {
	TCDBID    int    `json:"tcdb_id"`
	Name      string `json:"name"`
	URLSlug   string `json:"url_slug"`
	CardCount int    `json:"card_count,omitempty"`
}

// ScrapedCard is one card row from a set detail page.
type ScrapedCard struct {
	CardNumber string   `json:"card_number"`
	Player     string   `json:"player"`
	Team       string   `json:"team"`
	ImageURL   string   `json:"image_url,omitempty"`
	Flags      []string `json:"flags"`
}

// InsertSection is a best-effort insert-set heading from a detail page.
type InsertSection struct {
	Name      string `json:"name"`
	CardCount int    `json:"card_count,omitempty"`
	Odds      string `json:"odds,omitempty"`
}

// ScrapedParallel is a best-effort parallel entry from a detail page.
type ScrapedParallel struct {
	Name      string `json:"name"`
	PrintRun  int    `json:"print_run,omitempty"`
	Exclusive string `json:"exclusive,omitempty"`
}

// SetDetail is the parsed content of one set detail page.
type SetDetail struct {
	Title          string            `json:"title"`
	TotalCards     int               `json:"total_cards,omitempty"`
	Cards          []ScrapedCard     `json:"cards"`
	InsertSections []InsertSection   `json:"insert_sections"`
	Parallels      []ScrapedParallel `json:"parallels"`
}

// CollectionSet is one set row on a user collection page.
type CollectionSet struct {
	TCDBID     int    `json:"tcdb_id"`
	Name       string `json:"name"`
	OwnedCount int    `json:"owned_count,omitempty"`
}

// OwnedCard is one owned-card row on a user collection page.
type OwnedCard struct {
	CardNumber string `json:"card_number"`
	Player     string `json:"player"`
	Team       string `json:"team"`
	Qty        int    `json:"qty"`
}
