package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyRowsFlattensParallels(t *testing.T) {
	result := &ParseResult{
		Sections: []Section{{
			Name: "Base",
			Cards: []Card{
				{CardNumber: "1", Player: "Mike Trout", Team: "Los Angeles Angels", Flags: []string{"RC"}},
				{CardNumber: "2", Player: "Aaron Judge", Team: "New York Yankees", Flags: []string{}},
			},
			Parallels: []Parallel{
				{Name: "Gold", SerialMax: 50},
			},
		}},
	}

	rows := LegacyRows(result)
	require.Len(t, rows, 4)

	assert.Equal(t, LegacyRow{
		CardNumber: "1",
		Player:     "Mike Trout",
		Team:       "Los Angeles Angels",
		RcSp:       "RC",
		InsertType: "Base",
	}, rows[0])
	assert.Equal(t, "", rows[1].Parallel)

	assert.Equal(t, "Gold", rows[2].Parallel)
	assert.Equal(t, "1", rows[2].CardNumber)
	assert.Equal(t, "Gold", rows[3].Parallel)
	assert.Equal(t, "2", rows[3].CardNumber)
	assert.Equal(t, 0, rows[2].Qty)
}

func TestLegacyRowsNil(t *testing.T) {
	assert.Nil(t, LegacyRows(nil))
	assert.Nil(t, LegacyRows(&ParseResult{}))
}
