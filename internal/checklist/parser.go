package checklist

import (
	"strconv"
	"strings"
)

// ParseChecklist converts free-form checklist text into a structured
// ParseResult: segment the lines into typed blocks, extract rows per
// block, run validation gates, and assemble per-section groupings plus the
// summary. The computation is pure and synchronous — no I/O, no shared
// state between calls — so callers may run it concurrently per document.
//
// Empty or blank input yields an empty result, not an error. Callers are
// responsible for enforcing MaxChecklistBytes before invoking this; the
// pipeline itself never checks input size and never fails on content.
func ParseChecklist(text string) *ParseResult {
	result := &ParseResult{
		Metadata:             Metadata{Sport: "Baseball"},
		Sections:             []Section{},
		ValidationErrors:     []ValidationError{},
		DuplicateCardNumbers: []string{},
	}

	text = normalizeNewlines(text)
	if strings.TrimSpace(text) == "" {
		return result
	}

	blocks := segmentLines(strings.Split(text, "\n"))

	// Document-level metadata comes from the untagged metadata blocks.
	var metaLines []string
	for _, b := range blocks {
		if b.Kind == BlockMetadata && b.Label == "" {
			metaLines = append(metaLines, b.Lines...)
		}
	}
	if len(metaLines) > 0 {
		result.Metadata = extractMetadata(metaLines)
	}

	asm := newAssembler()
	for _, b := range blocks {
		switch b.Kind {
		case BlockSectionHeader:
			asm.ensure(b.Label)
		case BlockMetadata:
			switch b.Label {
			case labelDeclaredCount:
				if len(b.Lines) == 1 {
					if n := firstInt(b.Lines[0]); n > 0 {
						asm.ensure(b.ParentSection).DeclaredCount = n
					}
				}
			case labelOdds:
				if len(b.Lines) == 1 {
					asm.ensure(b.ParentSection).Odds = b.Lines[0]
				}
			}
		case BlockCards:
			sec := asm.ensure(orBase(b.ParentSection))
			for j, line := range b.Lines {
				idx := b.StartLine + j
				if j < len(b.lineNums) {
					idx = b.lineNums[j]
				}
				if card := extractCard(line, idx); card != nil {
					sec.Cards = append(sec.Cards, *card)
				}
			}
		case BlockParallels:
			sec := asm.ensure(orBase(b.ParentSection))
			for _, line := range b.Lines {
				if par := extractParallel(line); par != nil {
					sec.Parallels = append(sec.Parallels, *par)
				}
			}
		}
	}

	result.Sections = asm.ordered()

	// Duplicate detection runs per section; reported numbers are merged
	// with cross-section de-duplication.
	seen := map[string]bool{}
	for i := range result.Sections {
		for _, dup := range detectDuplicateCardNumbers(result.Sections[i].Cards) {
			if !seen[dup] {
				seen[dup] = true
				result.DuplicateCardNumbers = append(result.DuplicateCardNumbers, dup)
			}
		}
	}

	if errs := rowDefects(result.Sections); errs != nil {
		result.ValidationErrors = errs
	}

	for _, sec := range result.Sections {
		result.Summary.TotalCards += len(sec.Cards)
		result.Summary.TotalParallels += len(sec.Parallels)
		for _, c := range sec.Cards {
			if c.NeedsReview {
				result.Summary.CardsNeedingReview++
			}
		}
		for _, p := range sec.Parallels {
			if p.NeedsReview {
				result.Summary.ParallelsNeedingReview++
			}
		}
	}

	return result
}

func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func orBase(section string) string {
	if section == "" {
		return "Base"
	}
	return section
}

func firstInt(line string) int {
	if m := reCardCountAny.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	for _, f := range strings.Fields(line) {
		if n, err := strconv.Atoi(strings.Trim(f, ".,")); err == nil {
			return n
		}
	}
	return 0
}

// assembler buckets rows into sections, preserving first-seen header
// order with the implicit Base section emitted first.
type assembler struct {
	byName map[string]*Section
	order  []string
}

func newAssembler() *assembler {
	return &assembler{byName: map[string]*Section{}}
}

func (a *assembler) ensure(name string) *Section {
	name = orBase(name)
	if sec, ok := a.byName[name]; ok {
		return sec
	}
	sec := &Section{
		Name:        name,
		SectionType: classifySectionName(name),
		Parallels:   []Parallel{},
		Cards:       []Card{},
	}
	a.byName[name] = sec
	a.order = append(a.order, name)
	return sec
}

func (a *assembler) ordered() []Section {
	sections := make([]Section, 0, len(a.order))

	// Implicit Base comes first, but only when it holds any rows.
	if base, ok := a.byName["Base"]; ok {
		if len(base.Cards) > 0 || len(base.Parallels) > 0 {
			sections = append(sections, *base)
		}
	}
	for _, name := range a.order {
		if name == "Base" {
			continue
		}
		sections = append(sections, *a.byName[name])
	}
	return sections
}

func classifySectionName(name string) SectionType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "autograph") || strings.Contains(lower, "signature"):
		return SectionAutograph
	case strings.Contains(lower, "relic") || strings.Contains(lower, "memorabilia") ||
		strings.Contains(lower, "patch") || strings.Contains(lower, "jersey"):
		return SectionRelic
	case lower == "base" || strings.HasPrefix(lower, "base"):
		return SectionBase
	default:
		return SectionInsert
	}
}
