package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocksParsesPipeTable(t *testing.T) {
	t.Parallel()

	body := "Intro line\n| A | B |\n|---|---|\n| 1 | 2 |\nOutro line"
	blocks := Blocks(body)

	require.Len(t, blocks, 3)
	assert.Equal(t, "Intro line", blocks[0].Line)
	require.NotNil(t, blocks[1].Table)
	assert.Equal(t, []string{"A", "B"}, blocks[1].Table.Header)
	require.Len(t, blocks[1].Table.Rows, 1)
	assert.Equal(t, []string{"1", "2"}, blocks[1].Table.Rows[0])
	assert.Equal(t, "Outro line", blocks[2].Line)
}

func TestBlocksStripsEmphasisInCells(t *testing.T) {
	t.Parallel()

	body := "| **Name** | Value |\n|---|---|\n| __x__ | 3 |"
	blocks := Blocks(body)

	require.Len(t, blocks, 1)
	require.NotNil(t, blocks[0].Table)
	assert.Equal(t, []string{"Name", "Value"}, blocks[0].Table.Header)
	assert.Equal(t, []string{"x", "3"}, blocks[0].Table.Rows[0])
}

func TestBlocksRaggedRows(t *testing.T) {
	t.Parallel()

	body := "| A | B | C |\n|---|---|---|\n| 1 | 2 |"
	blocks := Blocks(body)

	require.Len(t, blocks, 1)
	table := blocks[0].Table
	require.NotNil(t, table)
	assert.Equal(t, 3, table.Cols())
}

func TestBlocksTableWithoutSeparatorRow(t *testing.T) {
	t.Parallel()

	body := "| A | B |\n| 1 | 2 |"
	blocks := Blocks(body)

	require.Len(t, blocks, 1)
	table := blocks[0].Table
	require.NotNil(t, table)
	assert.Equal(t, []string{"A", "B"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"1", "2"}, table.Rows[0])
}

func TestBlocksPlainBody(t *testing.T) {
	t.Parallel()

	body := "just a line\nanother line"
	blocks := Blocks(body)

	require.Len(t, blocks, 2)
	assert.Nil(t, blocks[0].Table)
	assert.Nil(t, blocks[1].Table)
}
