package checklist

// BlockKind identifies the type of a segmented region of checklist text.
type BlockKind string

const (
	BlockMetadata      BlockKind = "metadata"
	BlockParallels     BlockKind = "parallels"
	BlockCards         BlockKind = "cards"
	BlockSectionHeader BlockKind = "section_header"
)

// Micro-block labels attached by the segmenter to metadata fragments that
// belong to a specific section rather than the document as a whole.
const (
	labelDeclaredCount = "declared_count"
	labelOdds          = "odds"
)

// Confidence thresholds used by extraction and review gating.
const (
	// ConfidenceFull is assigned when every expected field was recovered.
	ConfidenceFull = 1.0
	// ConfidenceColorOnly is assigned to parallels recognized only by a
	// leading color word with no serial cap or channel backing it up.
	ConfidenceColorOnly = 0.98
	// ConfidenceNoTeam is assigned when a card row had no team field, or a
	// parallel had neither serial cap nor channel.
	ConfidenceNoTeam = 0.9
	// ConfidenceMultiName is assigned when the player field has more than
	// six words, which usually means a mis-split multi-player row.
	ConfidenceMultiName = 0.75
	// ConfidenceSlashName is assigned when the player field contains a
	// slash (dual-player or player/team bleed-through).
	ConfidenceSlashName = 0.7
	// ReviewThreshold marks rows below it as needing human review.
	ReviewThreshold = 0.7
	// LowConfidenceFloor is the internal consistency guard: extraction
	// should never produce a row under this without flagging it.
	LowConfidenceFloor = 0.5
)

// MaxChecklistBytes is the input ceiling callers must enforce before
// handing text to ParseChecklist. The pipeline itself never checks it.
const MaxChecklistBytes = 500 * 1024

// Block is one typed region of the input, produced by the segmenter and
// consumed only by row extraction. Blocks are never persisted.
type Block struct {
	Kind          BlockKind `json:"kind"`
	StartLine     int       `json:"start_line"`
	EndLine       int       `json:"end_line"`
	Lines         []string  `json:"lines"`
	Label         string    `json:"label,omitempty"`
	ParentSection string    `json:"parent_section,omitempty"`

	// lineNums carries the original index of each entry in Lines; blocks
	// can be non-contiguous because blank lines are skipped.
	lineNums []int
}

// Metadata is the best-effort document header, derived once per parse from
// all untagged metadata blocks. All fields are optional.
type Metadata struct {
	SetName           string `json:"set_name,omitempty"`
	Year              int    `json:"year,omitempty"`
	Publisher         string `json:"publisher,omitempty"`
	DeclaredCardCount int    `json:"declared_card_count,omitempty"`
	Sport             string `json:"sport"`
}

// Card is one extracted card row.
type Card struct {
	RowID       string   `json:"row_id"`
	CardNumber  string   `json:"card_number"`
	Player      string   `json:"player"`
	Team        string   `json:"team"`
	Flags       []string `json:"flags"`
	Notes       string   `json:"notes,omitempty"`
	Confidence  float64  `json:"confidence"`
	NeedsReview bool     `json:"needs_review"`
	RawLine     string   `json:"raw_line"`
	LineIndex   int      `json:"line_index"`
}

// Channel is a distribution-exclusivity tag for a parallel.
type Channel string

const (
	ChannelHobby    Channel = "hobby"
	ChannelRetail   Channel = "retail"
	ChannelHanger   Channel = "hanger"
	ChannelBlaster  Channel = "blaster"
	ChannelMegaBox  Channel = "mega_box"
	ChannelValueBox Channel = "value_box"
	ChannelJumbo    Channel = "jumbo"
	ChannelHTA      Channel = "hta"
)

// VariationType classifies what kind of variant a parallel line declares.
type VariationType string

const (
	VariationParallel      VariationType = "parallel"
	VariationAutograph     VariationType = "autograph"
	VariationRelic         VariationType = "relic"
	VariationPatch         VariationType = "patch"
	VariationPrintingPlate VariationType = "printing_plate"
	VariationImage         VariationType = "image_variation"
	VariationSP            VariationType = "sp"
	VariationSSP           VariationType = "ssp"
)

// Parallel is one extracted parallel/variant definition row.
//
// Name is always RawName with the serial suffix (/NNN) and parenthetical
// content stripped and whitespace collapsed; SerialMax is the integer after
// the final "/" when present.
type Parallel struct {
	Name        string        `json:"name"`
	RawName     string        `json:"raw_name"`
	SerialMax   int           `json:"serial_max,omitempty"`
	Channels    []Channel     `json:"channels"`
	Variation   VariationType `json:"variation_type"`
	Exclusive   string        `json:"exclusive,omitempty"`
	Notes       string        `json:"notes,omitempty"`
	Confidence  float64       `json:"confidence"`
	NeedsReview bool          `json:"needs_review"`
	RawLine     string        `json:"raw_line"`
}

// SectionType classifies a named section of a checklist.
type SectionType string

const (
	SectionBase      SectionType = "base"
	SectionAutograph SectionType = "autograph"
	SectionRelic     SectionType = "relic"
	SectionInsert    SectionType = "insert"
)

// Section groups the cards and parallels under one checklist heading. A
// document has at most one implicit "Base" section plus zero or more named
// sections introduced by headers.
type Section struct {
	Name          string      `json:"name"`
	SectionType   SectionType `json:"section_type"`
	DeclaredCount int         `json:"declared_count,omitempty"`
	Odds          string      `json:"odds,omitempty"`
	Parallels     []Parallel  `json:"parallels"`
	Cards         []Card      `json:"cards"`
}

// ValidationError is an advisory defect surfaced for manual triage. The
// pipeline never fails on one.
type ValidationError struct {
	Code       string `json:"code"`
	CardNumber string `json:"card_number,omitempty"`
	Field      string `json:"field,omitempty"`
	Message    string `json:"message"`
	LineIndex  int    `json:"line_index"`
}

// Validation error codes.
const (
	ErrCodeSuspiciousChars = "suspicious_characters"
	ErrCodeLowConfidence   = "low_confidence"
)

// Summary holds the roll-up counts across every section of a result.
type Summary struct {
	TotalCards             int `json:"total_cards"`
	TotalParallels         int `json:"total_parallels"`
	CardsNeedingReview     int `json:"cards_needing_review"`
	ParallelsNeedingReview int `json:"parallels_needing_review"`
}

// ParseResult is the sole output of ParseChecklist. It is immutable once
// produced; downstream consumers read it to populate the catalog store.
type ParseResult struct {
	Metadata             Metadata          `json:"metadata"`
	Sections             []Section         `json:"sections"`
	ValidationErrors     []ValidationError `json:"validation_errors"`
	DuplicateCardNumbers []string          `json:"duplicate_card_numbers"`
	Summary              Summary           `json:"summary"`
}
