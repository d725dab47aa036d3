package store

import (
	"database/sql"
	"time"
)

// CardSet represents one trading-card product (e.g. "2024 Topps Chrome")
type CardSet struct {
	SetID             int            `json:"set_id" db:"set_id"`
	Sport             string         `json:"sport" db:"sport"`
	Name              string         `json:"name" db:"name"`
	Year              sql.NullInt32  `json:"year,omitempty" db:"year"`
	Publisher         sql.NullString `json:"publisher,omitempty" db:"publisher"`
	DeclaredCardCount sql.NullInt32  `json:"declared_card_count,omitempty" db:"declared_card_count"`
	Source            string         `json:"source" db:"source"`
	ExternalID        sql.NullString `json:"external_id,omitempty" db:"external_id"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

// Set sources.
const (
	SourceManual = "manual"
	SourceTCDB   = "tcdb"
)

// CardSection represents one named section of a set's checklist ("Base",
// "Baseball Stars Autographs")
type CardSection struct {
	SectionID     int            `json:"section_id" db:"section_id"`
	SetID         int            `json:"set_id" db:"set_id"`
	Name          string         `json:"name" db:"name"`
	SectionType   string         `json:"section_type" db:"section_type"`
	DeclaredCount sql.NullInt32  `json:"declared_count,omitempty" db:"declared_count"`
	Odds          sql.NullString `json:"odds,omitempty" db:"odds"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// CardParallel represents one parallel/variant definition attached to a
// section
type CardParallel struct {
	ParallelID    int            `json:"parallel_id" db:"parallel_id"`
	SectionID     int            `json:"section_id" db:"section_id"`
	Name          string         `json:"name" db:"name"`
	RawName       sql.NullString `json:"raw_name,omitempty" db:"raw_name"`
	SerialMax     sql.NullInt32  `json:"serial_max,omitempty" db:"serial_max"`
	Channels      sql.NullString `json:"channels,omitempty" db:"channels"`
	VariationType string         `json:"variation_type" db:"variation_type"`
	Exclusive     sql.NullString `json:"exclusive,omitempty" db:"exclusive"`
	Notes         sql.NullString `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// CatalogCard represents one card row in the catalog. Identity within a set
// is (card_number, section, parallel); the base printing uses an empty
// parallel string. Qty is the owned count and survives re-imports.
type CatalogCard struct {
	CardID      int            `json:"card_id" db:"card_id"`
	SetID       int            `json:"set_id" db:"set_id"`
	CardNumber  string         `json:"card_number" db:"card_number"`
	Player      string         `json:"player" db:"player"`
	Team        sql.NullString `json:"team,omitempty" db:"team"`
	Flags       sql.NullString `json:"flags,omitempty" db:"flags"`
	Notes       sql.NullString `json:"notes,omitempty" db:"notes"`
	Section     string         `json:"section" db:"section"`
	Parallel    string         `json:"parallel" db:"parallel"`
	Qty         int            `json:"qty" db:"qty"`
	Confidence  float64        `json:"confidence" db:"confidence"`
	NeedsReview bool           `json:"needs_review" db:"needs_review"`
	RowID       sql.NullString `json:"row_id,omitempty" db:"row_id"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
