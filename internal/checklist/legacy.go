package checklist

import "strings"

// LegacyRow is the flattened row shape older catalog clients consume:
// no confidence/flags split, flags collapsed into a single rc_sp string,
// section name carried as insert_type.
type LegacyRow struct {
	CardNumber string `json:"card_number"`
	Player     string `json:"player"`
	Team       string `json:"team"`
	RcSp       string `json:"rc_sp"`
	InsertType string `json:"insert_type"`
	Parallel   string `json:"parallel"`
	Qty        int    `json:"qty"`
}

// LegacyRows flattens a ParseResult into the legacy import shape: one row
// per card, followed by one zero-quantity variant row per (card, parallel)
// pair in the section, mirroring how the original catalog stored parallel
// variants as separate card rows.
func LegacyRows(result *ParseResult) []LegacyRow {
	if result == nil {
		return nil
	}
	var rows []LegacyRow
	for _, sec := range result.Sections {
		for _, card := range sec.Cards {
			rows = append(rows, LegacyRow{
				CardNumber: card.CardNumber,
				Player:     card.Player,
				Team:       card.Team,
				RcSp:       strings.Join(card.Flags, " "),
				InsertType: sec.Name,
			})
		}
		for _, par := range sec.Parallels {
			for _, card := range sec.Cards {
				rows = append(rows, LegacyRow{
					CardNumber: card.CardNumber,
					Player:     card.Player,
					Team:       card.Team,
					RcSp:       strings.Join(card.Flags, " "),
					InsertType: sec.Name,
					Parallel:   par.Name,
				})
			}
		}
	}
	return rows
}
