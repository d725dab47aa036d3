package checklist

import "strings"

// Static lexical tables. Built once at init, never mutated afterwards, so
// concurrent ParseChecklist calls need no synchronization.

// knownTeams supports greedy multi-token team matching when a card row has
// no explicit delimiter between player and team. Lowercased full names plus
// the common short forms collectors actually paste.
var knownTeams = newWordSet(
	// MLB full names
	"arizona diamondbacks", "atlanta braves", "baltimore orioles",
	"boston red sox", "chicago cubs", "chicago white sox",
	"cincinnati reds", "cleveland guardians", "colorado rockies",
	"detroit tigers", "houston astros", "kansas city royals",
	"los angeles angels", "los angeles dodgers", "miami marlins",
	"milwaukee brewers", "minnesota twins", "new york mets",
	"new york yankees", "oakland athletics", "philadelphia phillies",
	"pittsburgh pirates", "san diego padres", "san francisco giants",
	"seattle mariners", "st. louis cardinals", "tampa bay rays",
	"texas rangers", "toronto blue jays", "washington nationals",
	// short forms
	"diamondbacks", "braves", "orioles", "red sox", "cubs", "white sox",
	"reds", "guardians", "rockies", "tigers", "astros", "royals",
	"angels", "dodgers", "marlins", "brewers", "twins", "mets",
	"yankees", "athletics", "phillies", "pirates", "padres", "giants",
	"mariners", "cardinals", "rays", "rangers", "blue jays", "nationals",
)

// maxTeamTokens bounds the greedy suffix scan.
const maxTeamTokens = 4

// cardFlags are short descriptive tags stripped out of player/team fields.
// Multi-word flags are matched before single-word ones.
var cardFlags = []string{
	"rookie debut",
	"rated rookie",
	"all-star",
	"all star",
	"hall of fame",
	"future stars",
	"rookie card",
	"variation",
	"rookie",
	"debut",
	"hof",
	"ssp",
	"sp",
	"rc",
	"1st",
}

// canonicalFlags maps matched flag text to the tag recorded on the card.
var canonicalFlags = map[string]string{
	"rookie debut": "Rookie Debut",
	"rated rookie": "Rated Rookie",
	"all-star":     "All-Star",
	"all star":     "All-Star",
	"hall of fame": "Hall of Fame",
	"future stars": "Future Stars",
	"rookie card":  "RC",
	"variation":    "Variation",
	"rookie":       "RC",
	"debut":        "Debut",
	"hof":          "Hall of Fame",
	"ssp":          "SSP",
	"sp":           "SP",
	"rc":           "RC",
	"1st":          "1st",
}

// colorWords lead parallel names but also appear inside team names
// ("Red Sox"), so they only count when they open the line and the rest of
// the line backs them up.
var colorWords = newWordSet(
	"red", "blue", "green", "black", "white", "purple", "pink", "orange",
	"yellow", "aqua", "teal", "magenta", "fuchsia", "lavender", "maroon",
	"navy", "emerald", "sapphire", "ruby", "amethyst", "onyx", "neon",
	"rainbow", "camo", "tie-dye", "sepia", "cream", "clear",
)

// parallelPrefixWords are first tokens that unambiguously open a parallel
// definition: precious metals and finish names that never start a card row.
var parallelPrefixWords = newWordSet(
	"gold", "silver", "bronze", "platinum", "copper", "titanium",
	"refractor", "superfractor", "x-fractor", "xfractor", "prizm",
	"prism", "chrome", "holo", "holofoil", "foil", "foilboard",
	"mojo", "wave", "shimmer", "sparkle", "atomic", "cracked",
	"galaxy", "cosmic", "nebula", "aurora", "glossy", "matte",
)

// strongParallelKeywords are finish/material words anywhere in a line that
// mark it as a parallel definition even without a leading color.
var strongParallelKeywords = newWordSet(
	"refractor", "superfractor", "x-fractor", "xfractor", "prizm",
	"prism", "foil", "holo", "holofoil", "foilboard", "chrome",
	"mojo", "wave", "shimmer", "sparkle", "laser", "velocity",
	"hyper", "disco", "pulsar", "scope", "mosaic", "ice", "lava",
	"acetate", "vinyl", "canvas", "wood", "die-cut", "diecut",
	"cracked", "atomic", "snakeskin", "shimmer",
)

// channelKeywords maps lowercase phrases to distribution channels. Scanned
// longest-first so "mega box" wins over any later single-word match.
var channelKeywords = []struct {
	phrase  string
	channel Channel
}{
	{"mega box", ChannelMegaBox},
	{"value box", ChannelValueBox},
	{"hobby", ChannelHobby},
	{"retail", ChannelRetail},
	{"hanger", ChannelHanger},
	{"blaster", ChannelBlaster},
	{"jumbo", ChannelJumbo},
	{"hta", ChannelHTA},
}

// variationKeywords is the priority-ordered classification table for
// parallel lines. First match wins.
var variationKeywords = []struct {
	phrase    string
	variation VariationType
}{
	{"autograph", VariationAutograph},
	{"auto", VariationAutograph},
	{"signature", VariationAutograph},
	{"relic", VariationRelic},
	{"memorabilia", VariationRelic},
	{"jersey", VariationRelic},
	{"patch", VariationPatch},
	{"printing plate", VariationPrintingPlate},
	{"plate", VariationPrintingPlate},
	{"image variation", VariationImage},
	{"photo variation", VariationImage},
	{"image", VariationImage},
	{"ssp", VariationSSP},
	{"short print", VariationSP},
	{"sp", VariationSP},
}

// knownPublishers is the fixed brand list used by metadata extraction.
var knownPublishers = []string{
	"Topps", "Bowman", "Panini", "Donruss", "Upper Deck", "Fleer",
	"Leaf", "Score", "Stadium Club", "Select", "Mosaic", "Prizm",
}

// sectionNouns end a heuristic insert-section header ("Baseball Stars
// Autographs").
var sectionNouns = newWordSet(
	"autographs", "autograph", "relics", "relic", "inserts", "insert",
	"parallels", "memorabilia", "patches", "variations",
)

// genericSetWords disqualify a line from being a named insert header when
// they are its last word: they describe the whole product, not a subset.
var genericSetWords = newWordSet(
	"baseball", "football", "basketball", "hockey", "soccer",
	"series", "checklist", "set", "edition", "update", "cards",
)

// parallelSectionHeaders and cardSectionHeaders are literal divider
// phrases, compared after lowercasing and trailing-colon strip.
var parallelSectionHeaders = newWordSet(
	"parallels", "parallel", "variations", "base set parallels",
	"base parallels",
)

var cardSectionHeaders = newWordSet(
	"base set", "base", "base checklist", "inserts", "insert",
	"autographs", "autograph", "relics", "relic",
	"short prints", "short print", "cards",
)

func newWordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, word string) bool {
	_, ok := set[strings.ToLower(word)]
	return ok
}

// matchTeamSuffix scans the trailing tokens of words for the longest known
// team name. It returns the index where the team starts, or -1.
func matchTeamSuffix(words []string) int {
	max := maxTeamTokens
	if len(words) < max {
		max = len(words)
	}
	// Greedy: longest candidate first. Never consume the whole line; a
	// card row still needs a player in front of the team.
	for n := max; n >= 1; n-- {
		if n >= len(words) {
			continue
		}
		candidate := strings.ToLower(strings.Join(words[len(words)-n:], " "))
		if _, ok := knownTeams[candidate]; ok {
			return len(words) - n
		}
	}
	return -1
}
