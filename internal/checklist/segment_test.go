package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockKinds(blocks []Block) []BlockKind {
	kinds := make([]BlockKind, len(blocks))
	for i, b := range blocks {
		kinds[i] = b.Kind
	}
	return kinds
}

func TestSegmentMetadataThenParallelsThenCards(t *testing.T) {
	blocks := segmentLines([]string{
		"2024 Topps Chrome",
		"350 cards",
		"Gold /50",
		"1 Mike Trout, Los Angeles Angels",
	})

	require.Equal(t, []BlockKind{BlockMetadata, BlockParallels, BlockCards}, blockKinds(blocks))
	assert.Equal(t, []string{"2024 Topps Chrome", "350 cards"}, blocks[0].Lines)
	assert.Equal(t, []string{"Gold /50"}, blocks[1].Lines)
	assert.Equal(t, []string{"1 Mike Trout, Los Angeles Angels"}, blocks[2].Lines)
	assert.Equal(t, 3, blocks[2].StartLine)
}

func TestSegmentInsertHeaderSplitsCardRuns(t *testing.T) {
	blocks := segmentLines([]string{
		"1 | Mike Trout | Los Angeles Angels",
		"Baseball Stars Autographs",
		"BSA-1 Juan Soto, New York Yankees",
	})

	require.Equal(t, []BlockKind{BlockCards, BlockSectionHeader, BlockCards}, blockKinds(blocks))
	assert.Equal(t, "", blocks[0].ParentSection)
	assert.Equal(t, "Baseball Stars Autographs", blocks[1].Label)
	assert.Equal(t, "Baseball Stars Autographs", blocks[2].ParentSection)
}

func TestSegmentChecklistTitleAndMicroBlocks(t *testing.T) {
	blocks := segmentLines([]string{
		"Base Set Checklist",
		"350 cards.",
		"Odds 1:4 hobby",
		"Parallels: Gold /50; Black /1",
	})

	require.Len(t, blocks, 4)
	assert.Equal(t, BlockSectionHeader, blocks[0].Kind)
	assert.Equal(t, "Base Set", blocks[0].Label)

	assert.Equal(t, BlockMetadata, blocks[1].Kind)
	assert.Equal(t, labelDeclaredCount, blocks[1].Label)
	assert.Equal(t, "Base Set", blocks[1].ParentSection)

	assert.Equal(t, BlockMetadata, blocks[2].Kind)
	assert.Equal(t, labelOdds, blocks[2].Label)
	assert.Equal(t, "Base Set", blocks[2].ParentSection)

	assert.Equal(t, BlockParallels, blocks[3].Kind)
	assert.Equal(t, []string{"Gold /50", "Black /1"}, blocks[3].Lines)
	assert.Equal(t, "Base Set", blocks[3].ParentSection)
}

func TestSegmentBareCountAfterHeader(t *testing.T) {
	blocks := segmentLines([]string{
		"Mystical Inserts",
		"25 cards",
		"M-1 Elly De La Cruz, Cincinnati Reds",
	})

	require.Equal(t, []BlockKind{BlockSectionHeader, BlockMetadata, BlockCards}, blockKinds(blocks))
	assert.Equal(t, labelDeclaredCount, blocks[1].Label)
	assert.Equal(t, "Mystical Inserts", blocks[1].ParentSection)
	assert.Equal(t, "Mystical Inserts", blocks[2].ParentSection)
}

func TestSegmentLiteralDividersFlipMode(t *testing.T) {
	blocks := segmentLines([]string{
		"Base Set",
		"1 | Mike Trout | Los Angeles Angels",
		"Parallels",
		"Gold /50",
	})

	// Divider lines flip the scanner mode without emitting blocks of
	// their own.
	require.Equal(t, []BlockKind{BlockCards, BlockParallels}, blockKinds(blocks))
	assert.Equal(t, []string{"1 | Mike Trout | Los Angeles Angels"}, blocks[0].Lines)
	assert.Equal(t, []string{"Gold /50"}, blocks[1].Lines)
}

func TestSegmentSkipsBlankLines(t *testing.T) {
	assert.Empty(t, segmentLines([]string{"", "   ", "\t"}))

	blocks := segmentLines([]string{
		"1 | Mike Trout | Los Angeles Angels",
		"",
		"2 | Aaron Judge | New York Yankees",
	})
	require.Len(t, blocks, 1)
	assert.Equal(t, BlockCards, blocks[0].Kind)
	assert.Len(t, blocks[0].Lines, 2)
	// Original line numbers survive the gap.
	assert.Equal(t, []int{0, 2}, blocks[0].lineNums)
}

func TestSegmentCardsModeBackToParallels(t *testing.T) {
	blocks := segmentLines([]string{
		"1 Mike Trout, Los Angeles Angels",
		"Refractor /199",
	})
	require.Equal(t, []BlockKind{BlockCards, BlockParallels}, blockKinds(blocks))
}
