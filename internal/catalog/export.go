package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fortuna/carddex/internal/store"
)

// csvHeader matches the column layout older collection exports used.
var csvHeader = []string{"Card #", "Player", "Team", "RC/SP", "Insert Type", "Parallel", "Qty"}

// WriteCSV streams cards as CSV in the legacy export layout.
func WriteCSV(w io.Writer, cards []*store.CatalogCard) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, card := range cards {
		record := []string{
			card.CardNumber,
			card.Player,
			card.Team.String,
			card.Flags.String,
			card.Section,
			card.Parallel,
			strconv.Itoa(card.Qty),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
