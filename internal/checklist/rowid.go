package checklist

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// rowID derives a stable content hash from a row's position and raw text.
// Re-parsing unchanged input yields identical IDs, which lets re-imports be
// diffed against the catalog.
func rowID(lineIndex int, rawLine string) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%s", lineIndex, rawLine)
	return fmt.Sprintf("%016x", h.Sum64())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
