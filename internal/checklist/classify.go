package checklist

import (
	"regexp"
	"strconv"
	"strings"
)

// Line classifiers: total, side-effect-free predicates over one trimmed,
// non-empty line. The evaluation order inside each classifier is load
// bearing — several later rules exist to override an earlier, more general
// one on known ambiguous inputs. Do not reorder.

var (
	reChecklistTitle = regexp.MustCompile(`(?i)^(.*?)\s*checklist:?$`)
	reBareCardCount  = regexp.MustCompile(`(?i)^(\d{1,5})\s+cards?\.?$`)
	reCardCountAny   = regexp.MustCompile(`(?i)\b(\d{1,5})\s+cards?\b`)
	reLeadingYear    = regexp.MustCompile(`^(19|20)\d{2}\b`)
	reYearAnywhere   = regexp.MustCompile(`\b((19|20)\d{2})\b`)
	reBoxPhrase      = regexp.MustCompile(`(?i)\b(hobby|retail|hanger|blaster|mega|value|jumbo)\s+box(es)?\b`)
	reOddsLine       = regexp.MustCompile(`(?i)^odds\b`)
	reInlinePar      = regexp.MustCompile(`(?i)^parallels?:\s*(.+)$`)
	reSerialSuffix   = regexp.MustCompile(`/(\d+)\b`)
	reOddsParen      = regexp.MustCompile(`\(\s*1:\d+[^)]*\)`)
	reParenthetical  = regexp.MustCompile(`\(([^)]*)\)`)
	reCardCode       = regexp.MustCompile(`^[A-Za-z0-9]{1,8}(?:-[A-Za-z0-9]{1,8})?$`)
	reTrailingExcl   = regexp.MustCompile(`(?i)\b([a-z][a-z ]*?)\s+(exclusive|only)\.?$`)
)

// curatedHeaderPatterns are checklist dialect header shapes accepted before
// the generic capitalized-words heuristic gets a say.
var curatedHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^.+ short prints?$`),
	regexp.MustCompile(`(?i)^.+ image variations?$`),
	regexp.MustCompile(`(?i)^.+ die-?cuts?$`),
	regexp.MustCompile(`(?i)^.+ future stars?$`),
	regexp.MustCompile(`(?i)^legends of .+$`),
}

// checklistTitle returns the set/section name when the line is a
// "<name> Checklist" title, with ok reporting the match.
func checklistTitle(line string) (string, bool) {
	m := reChecklistTitle.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// extractCardCountDeclaration recognizes a bare "N card(s)" line.
func extractCardCountDeclaration(line string) (int, bool) {
	m := reBareCardCount.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// isMetadataLine reports whether the line keeps the scanner in metadata
// mode: checklist titles, bare counts, year-prefixed product lines,
// publisher-prefixed lines, and box-exclusive phrases.
func isMetadataLine(line string) bool {
	if _, ok := checklistTitle(line); ok {
		return true
	}
	if _, ok := extractCardCountDeclaration(line); ok {
		return true
	}
	if reLeadingYear.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, pub := range knownPublishers {
		if strings.HasPrefix(lower, strings.ToLower(pub)+" ") || lower == strings.ToLower(pub) {
			return true
		}
	}
	return reBoxPhrase.MatchString(line)
}

func normalizeHeader(line string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(line), ":"))
}

// isParallelSectionHeader matches literal parallel-divider phrases.
func isParallelSectionHeader(line string) bool {
	return inSet(parallelSectionHeaders, normalizeHeader(line))
}

// isCardSectionHeader matches literal card-divider phrases.
func isCardSectionHeader(line string) bool {
	return inSet(cardSectionHeaders, normalizeHeader(line))
}

// looksLikeCardCode reports whether a token has card-number shape: short,
// alphanumeric, and anchored by a digit or an internal dash ("1", "US1",
// "MMU-AB"). Plain words do not qualify.
func looksLikeCardCode(tok string) bool {
	tok = strings.TrimSuffix(tok, ",")
	if !reCardCode.MatchString(tok) {
		return false
	}
	return strings.ContainsAny(tok, "0123456789") || strings.Contains(tok, "-")
}

// splitCodeRest splits "<code> <rest>" (or "<code>, <rest>") at the first
// whitespace boundary.
func splitCodeRest(line string) (code, rest string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", "", false
	}
	code = strings.TrimSuffix(fields[0], ",")
	rest = strings.TrimSpace(line[strings.Index(line, fields[0])+len(fields[0]):])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ","))
	return code, rest, true
}

// hasCardStructure reports whether the line reads as "<code>, <rest>" or
// "<code> - <rest>" with a second comma or " - " inside <rest> — the shape
// of a card entry, never a parallel definition.
func hasCardStructure(line string) bool {
	code, rest, ok := splitCodeRest(line)
	if !ok || !looksLikeCardCode(code) {
		return false
	}
	rest = strings.TrimPrefix(rest, "- ")
	return strings.Contains(rest, ",") || strings.Contains(rest, " - ")
}

// hasCardShape is the looser segmenter-side test: delimited rows or a
// card-code token followed by anything.
func hasCardShape(line string) bool {
	if countDelimited(line, "|") >= 2 || countDelimited(line, "\t") >= 2 {
		return true
	}
	code, rest, ok := splitCodeRest(line)
	return ok && looksLikeCardCode(code) && rest != ""
}

func countDelimited(line, sep string) int {
	if !strings.Contains(line, sep) {
		return 0
	}
	n := 0
	for _, f := range strings.Split(line, sep) {
		if strings.TrimSpace(f) != "" {
			n++
		}
	}
	return n
}

func hasExclusiveParen(line string) bool {
	for _, m := range reParenthetical.FindAllStringSubmatch(line, -1) {
		inner := strings.ToLower(m[1])
		if strings.Contains(inner, "exclusive") || strings.Contains(inner, "only") {
			return true
		}
	}
	return false
}

func hasStrongParallelKeyword(line string) bool {
	for _, w := range strings.Fields(strings.ToLower(line)) {
		w = strings.Trim(w, ",.()")
		if inSet(strongParallelKeywords, w) {
			return true
		}
	}
	return false
}

// isParallelDefinitionLine is the critical discriminator between a
// parallel/variant definition and a card entry sharing surface tokens.
// The numbered steps must stay in exactly this order; swapping the card
// structure check and the strong-indicator check changes behavior on card
// codes that end in color words.
func isParallelDefinitionLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(strings.Trim(fields[0], ",.:"))

	// 1. Unambiguous parallel first word (gold, refractor, ...).
	if inSet(parallelPrefixWords, first) {
		return true
	}

	// 2. Odds-style parenthetical "(1:N ...)".
	if reOddsParen.MatchString(line) {
		return true
	}

	// 3. Card structure beats any color word later in the line.
	if hasCardStructure(line) {
		return false
	}

	// 4. Need a strong indicator or a leading color.
	hasSerial := reSerialSuffix.MatchString(line)
	strong := hasSerial || hasExclusiveParen(line) || hasStrongParallelKeyword(line)
	leadColor := inSet(colorWords, first)
	if !strong && !leadColor {
		return false
	}

	// 5. A digit-bearing card code up front wins unless a serial cap or
	// exclusivity marker backs the parallel reading.
	if strong {
		if looksLikeCardCode(fields[0]) && strings.ContainsAny(fields[0], "0123456789") &&
			!hasSerial && !hasExclusiveParen(line) {
			return false
		}
		return true
	}

	// 6. Leading color with a short remainder is enough on its own.
	return len(fields)-1 <= 4
}

// isInsertSectionHeader decides whether the line names an insert/subset
// section ("Baseball Stars Autographs"). The rejection order is fixed.
func isInsertSectionHeader(line string) (bool, string) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(line), ":")
	words := strings.Fields(trimmed)
	if len(words) == 0 {
		return false, ""
	}

	// (a) Generic product words never end a subset name.
	if inSet(genericSetWords, strings.Trim(words[len(words)-1], ".,")) {
		return false, ""
	}

	// (b) A card-number code up front plus a delimited remainder reads as
	// a card line, not a header.
	if looksLikeCardCode(words[0]) {
		rest := strings.TrimSpace(trimmed[len(words[0]):])
		if strings.Contains(rest, ",") || strings.Contains(rest, " - ") {
			return false, ""
		}
	}

	// (c) Parallel definitions are never headers.
	if isParallelDefinitionLine(trimmed) {
		return false, ""
	}

	// (d) Bare card-count declarations are metadata.
	if _, ok := extractCardCountDeclaration(trimmed); ok {
		return false, ""
	}

	// (e) Literal parallel dividers are handled by their own classifier.
	if isParallelSectionHeader(trimmed) {
		return false, ""
	}

	// (f) Curated dialect shapes.
	for _, pat := range curatedHeaderPatterns {
		if pat.MatchString(trimmed) {
			return true, trimmed
		}
	}

	// (g) 2-6 capitalized words ending in a section noun, undelimited.
	if len(words) < 2 || len(words) > 6 {
		return false, ""
	}
	if strings.Contains(trimmed, ",") || strings.Contains(trimmed, " - ") {
		return false, ""
	}
	if !inSet(sectionNouns, strings.Trim(words[len(words)-1], ".,")) {
		return false, ""
	}
	for _, w := range words {
		r := rune(w[0])
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return false, ""
		}
	}
	return true, trimmed
}
