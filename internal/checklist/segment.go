package checklist

import "strings"

// Phase 1: block segmentation. A single forward pass over the lines emits
// an ordered list of typed blocks carrying section context. Blank lines are
// skipped entirely; they never open or close a block by themselves.

type scanMode int

const (
	modeMetadata scanMode = iota
	modeParallels
	modeCards
)

func (m scanMode) blockKind() BlockKind {
	switch m {
	case modeParallels:
		return BlockParallels
	case modeCards:
		return BlockCards
	default:
		return BlockMetadata
	}
}

// scanState is the full mutable state of the segmenter, threaded through
// the line loop instead of free-floating locals.
type scanState struct {
	mode           scanMode
	currentSection string
	pendingHeader  string
}

type segmenter struct {
	blocks []Block
	cur    *Block
	state  scanState
}

// segmentLines walks the input once and returns the typed blocks. Rule
// priority within the loop follows the documented scanner design; first
// match wins.
func segmentLines(lines []string) []Block {
	s := &segmenter{}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		s.scanLine(i, line)
	}

	s.flush()
	return s.blocks
}

func (s *segmenter) scanLine(i int, line string) {
	// 1. "<name> Checklist" title.
	if name, ok := checklistTitle(line); ok {
		s.flush()
		if name == "" {
			name = "Base"
		}
		s.emit(Block{
			Kind:          BlockSectionHeader,
			StartLine:     i,
			EndLine:       i,
			Lines:         []string{line},
			Label:         name,
			ParentSection: name,
		})
		s.state.currentSection = name
		s.state.pendingHeader = name
		s.state.mode = modeMetadata
		return
	}

	// 2. "N cards." (with period) right after a pending section header.
	if s.state.pendingHeader != "" && strings.HasSuffix(line, ".") {
		if _, ok := extractCardCountDeclaration(line); ok {
			s.emitMicro(i, line, labelDeclaredCount, s.state.pendingHeader)
			return
		}
	}

	// 3. "Odds ..." tagged to the current section.
	if reOddsLine.MatchString(line) {
		s.emitMicro(i, line, labelOdds, s.sectionOrBase())
		return
	}

	// 4. Inline "Parallels: a; b; c".
	if m := reInlinePar.FindStringSubmatch(line); m != nil {
		s.flush()
		var items []string
		for _, item := range strings.Split(m[1], ";") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		s.emit(Block{
			Kind:          BlockParallels,
			StartLine:     i,
			EndLine:       i,
			Lines:         items,
			ParentSection: s.sectionOrBase(),
		})
		return
	}

	// 5. Named insert/subset header.
	if ok, name := isInsertSectionHeader(line); ok {
		s.flush()
		s.emit(Block{
			Kind:          BlockSectionHeader,
			StartLine:     i,
			EndLine:       i,
			Lines:         []string{line},
			Label:         name,
			ParentSection: name,
		})
		s.state.currentSection = name
		s.state.pendingHeader = name
		s.state.mode = modeMetadata
		return
	}

	// 6. Bare card count following a pending header.
	if s.state.pendingHeader != "" {
		if _, ok := extractCardCountDeclaration(line); ok {
			s.emitMicro(i, line, labelDeclaredCount, s.state.pendingHeader)
			s.state.pendingHeader = ""
			return
		}
	}

	// 7/8. Literal section dividers flip the mode.
	if isParallelSectionHeader(line) {
		s.flush()
		s.state.mode = modeParallels
		return
	}
	if isCardSectionHeader(line) {
		s.flush()
		s.state.mode = modeCards
		return
	}

	// 9. Metadata lines pull the scanner back into metadata mode.
	if isMetadataLine(line) {
		if s.state.mode != modeMetadata {
			s.flush()
			s.state.mode = modeMetadata
		}
		s.append(i, line)
		return
	}

	// 10. Otherwise classify by current mode.
	switch s.state.mode {
	case modeMetadata:
		if isParallelDefinitionLine(line) {
			s.flush()
			s.state.mode = modeParallels
		} else if hasCardShape(line) {
			s.flush()
			s.state.mode = modeCards
		}
	case modeParallels:
		if hasCardShape(line) && !isParallelDefinitionLine(line) {
			s.flush()
			s.state.mode = modeCards
		}
	case modeCards:
		if isParallelDefinitionLine(line) {
			s.flush()
			s.state.mode = modeParallels
		}
	}
	s.append(i, line)
}

func (s *segmenter) sectionOrBase() string {
	if s.state.currentSection == "" {
		return "Base"
	}
	return s.state.currentSection
}

func (s *segmenter) append(i int, line string) {
	if s.cur == nil {
		s.cur = &Block{
			Kind:          s.state.mode.blockKind(),
			StartLine:     i,
			ParentSection: s.state.currentSection,
		}
	}
	s.cur.Lines = append(s.cur.Lines, line)
	s.cur.lineNums = append(s.cur.lineNums, i)
	s.cur.EndLine = i
}

func (s *segmenter) flush() {
	if s.cur != nil && len(s.cur.Lines) > 0 {
		s.blocks = append(s.blocks, *s.cur)
	}
	s.cur = nil
}

func (s *segmenter) emit(b Block) {
	s.blocks = append(s.blocks, b)
}

func (s *segmenter) emitMicro(i int, line, label, parent string) {
	s.emit(Block{
		Kind:          BlockMetadata,
		StartLine:     i,
		EndLine:       i,
		Lines:         []string{line},
		Label:         label,
		ParentSection: parent,
	})
}
