package checklist

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Phase 2: per-line field extraction with confidence scoring. Extractors
// are pure; a nil return means the line is silently dropped from the block
// it sat in (parity with the reference behavior, see DESIGN.md).

type flagPattern struct {
	re        *regexp.Regexp
	canonical string
}

var flagPatterns = buildFlagPatterns()

func buildFlagPatterns() []flagPattern {
	patterns := make([]flagPattern, 0, len(cardFlags))
	for _, phrase := range cardFlags {
		patterns = append(patterns, flagPattern{
			re:        regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`),
			canonical: canonicalFlags[phrase],
		})
	}
	return patterns
}

var variationPatterns = buildVariationPatterns()

func buildVariationPatterns() []flagPattern {
	patterns := make([]flagPattern, 0, len(variationKeywords))
	for _, vk := range variationKeywords {
		patterns = append(patterns, flagPattern{
			re:        regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(vk.phrase) + `s?\b`),
			canonical: string(vk.variation),
		})
	}
	return patterns
}

var reWhitespace = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// stripFlags removes known flag keywords from a field, returning the
// cleaned field and the canonical tags found. Longer phrases are tried
// first so "Rookie Debut" never decays into "RC" + "Debut".
func stripFlags(field string) (string, []string) {
	var flags []string
	for _, fp := range flagPatterns {
		if fp.re.MatchString(field) {
			field = fp.re.ReplaceAllString(field, " ")
			flags = appendUnique(flags, fp.canonical)
		}
	}
	return strings.Trim(collapseWhitespace(field), " ,-"), flags
}

func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}

// stripParentheticals removes all (...) groups and returns the cleaned
// string plus the joined inner content.
func stripParentheticals(s string) (string, string) {
	var notes []string
	for _, m := range reParenthetical.FindAllStringSubmatch(s, -1) {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			notes = append(notes, inner)
		}
	}
	clean := collapseWhitespace(reParenthetical.ReplaceAllString(s, " "))
	return clean, strings.Join(notes, "; ")
}

// extractCard parses one line into a Card. Recognized shapes, in order:
// pipe-delimited, tab-delimited, then the generic "<code><sep><rest>"
// shape split on the first comma or " - ".
func extractCard(line string, lineIndex int) *Card {
	if isParallelDefinitionLine(line) {
		return nil
	}

	if card := extractDelimitedCard(line, "|", lineIndex); card != nil {
		return card
	}
	if card := extractDelimitedCard(line, "\t", lineIndex); card != nil {
		return card
	}

	code, rest, ok := splitCodeRest(line)
	if !ok || !looksLikeCardCode(code) || rest == "" {
		return nil
	}
	rest = strings.TrimPrefix(rest, "- ")
	rest, notes := stripParentheticals(rest)

	var player, team string
	if idx := strings.Index(rest, ","); idx >= 0 {
		player = strings.TrimSpace(rest[:idx])
		team = strings.TrimSpace(rest[idx+1:])
	} else if idx := strings.Index(rest, " - "); idx >= 0 {
		player = strings.TrimSpace(rest[:idx])
		team = strings.TrimSpace(rest[idx+3:])
	} else {
		// No delimiter: greedy team-name suffix match can still split it.
		words := strings.Fields(rest)
		if at := matchTeamSuffix(words); at > 0 {
			player = strings.Join(words[:at], " ")
			team = strings.Join(words[at:], " ")
		} else {
			player = rest
		}
	}

	return buildCard(line, lineIndex, code, player, team, notes)
}

// extractDelimitedCard handles "N | Player | Team" and its tab twin.
func extractDelimitedCard(line, sep string, lineIndex int) *Card {
	if countDelimited(line, sep) < 2 {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(line, sep) {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) < 2 {
		return nil
	}

	number := fields[0]
	player, notes := stripParentheticals(fields[1])
	team := ""
	if len(fields) > 2 {
		var teamNotes string
		team, teamNotes = stripParentheticals(fields[2])
		if teamNotes != "" {
			if notes != "" {
				notes += "; "
			}
			notes += teamNotes
		}
	}
	return buildCard(line, lineIndex, number, player, team, notes)
}

func buildCard(line string, lineIndex int, number, player, team, notes string) *Card {
	player, playerFlags := stripFlags(player)
	team, teamFlags := stripFlags(team)

	flags := playerFlags
	for _, f := range teamFlags {
		flags = appendUnique(flags, f)
	}
	if flags == nil {
		flags = []string{}
	}

	confidence := ConfidenceFull
	if team == "" {
		confidence = ConfidenceNoTeam
	}
	if strings.Contains(player, "/") {
		confidence = math.Min(confidence, ConfidenceSlashName)
	} else if len(strings.Fields(player)) > 6 {
		confidence = math.Min(confidence, ConfidenceMultiName)
	}

	return &Card{
		RowID:       rowID(lineIndex, line),
		CardNumber:  strings.TrimSpace(number),
		Player:      player,
		Team:        team,
		Flags:       flags,
		Notes:       notes,
		Confidence:  confidence,
		NeedsReview: confidence < ReviewThreshold,
		RawLine:     line,
		LineIndex:   lineIndex,
	}
}

// extractParallel parses one parallel/variant definition line.
func extractParallel(line string) *Parallel {
	if !isParallelDefinitionLine(line) {
		return nil
	}
	raw := strings.TrimSpace(line)

	serialMax := 0
	if matches := reSerialSuffix.FindAllStringSubmatch(raw, -1); len(matches) > 0 {
		serialMax, _ = strconv.Atoi(matches[len(matches)-1][1])
	}

	noParens, parenText := stripParentheticals(raw)
	name := collapseWhitespace(reSerialSuffix.ReplaceAllString(noParens, " "))
	name = strings.Trim(name, " ,-/")

	channels := scanChannels(raw)
	if channels == nil {
		channels = []Channel{}
	}

	variation := VariationParallel
	for _, vp := range variationPatterns {
		if vp.re.MatchString(raw) {
			variation = VariationType(vp.canonical)
			break
		}
	}

	exclusive, notes := splitExclusive(parenText)
	if exclusive == "" {
		if m := reTrailingExcl.FindStringSubmatch(noParens); m != nil {
			words := strings.Fields(m[1])
			if len(words) > 0 {
				exclusive = capitalize(words[len(words)-1])
			}
		}
	}

	confidence := ConfidenceNoTeam
	if serialMax > 0 || len(channels) > 0 {
		confidence = ConfidenceFull
	} else if fields := strings.Fields(raw); len(fields) > 0 &&
		inSet(colorWords, strings.ToLower(fields[0])) &&
		!hasStrongParallelKeyword(raw) {
		confidence = ConfidenceColorOnly
	}

	return &Parallel{
		Name:        name,
		RawName:     raw,
		SerialMax:   serialMax,
		Channels:    channels,
		Variation:   variation,
		Exclusive:   exclusive,
		Notes:       notes,
		Confidence:  confidence,
		NeedsReview: confidence < ReviewThreshold,
		RawLine:     line,
	}
}

func scanChannels(line string) []Channel {
	lower := strings.ToLower(line)
	var channels []Channel
	for _, ck := range channelKeywords {
		if strings.Contains(lower, ck.phrase) {
			channels = append(channels, ck.channel)
		}
	}
	return channels
}

// splitExclusive pulls an exclusivity phrase out of parenthetical text,
// leaving the remainder as notes.
func splitExclusive(parenText string) (exclusive, notes string) {
	if parenText == "" {
		return "", ""
	}
	var rest []string
	for _, part := range strings.Split(parenText, "; ") {
		lower := strings.ToLower(part)
		if exclusive == "" && (strings.Contains(lower, "exclusive") || strings.Contains(lower, "only")) {
			exclusive = part
			continue
		}
		rest = append(rest, part)
	}
	return exclusive, strings.Join(rest, "; ")
}

// extractMetadata derives the document header from all untagged metadata
// lines, first match wins per field.
func extractMetadata(lines []string) Metadata {
	meta := Metadata{Sport: "Baseball"}

	for _, line := range lines {
		if meta.Year == 0 {
			if m := reYearAnywhere.FindStringSubmatch(line); m != nil {
				meta.Year, _ = strconv.Atoi(m[1])
			}
		}
		if meta.Publisher == "" {
			lower := strings.ToLower(line)
			for _, pub := range knownPublishers {
				if strings.Contains(lower, strings.ToLower(pub)) {
					meta.Publisher = pub
					break
				}
			}
		}
		if meta.DeclaredCardCount == 0 {
			if m := reCardCountAny.FindStringSubmatch(line); m != nil {
				meta.DeclaredCardCount, _ = strconv.Atoi(m[1])
			}
		}
		if meta.SetName == "" {
			if _, isCount := extractCardCountDeclaration(line); !isCount {
				if name, ok := checklistTitle(line); ok && name != "" {
					meta.SetName = name
				} else {
					meta.SetName = line
				}
			}
		}
	}
	return meta
}
