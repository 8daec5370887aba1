package output

import (
	"regexp"
	"strings"
)

// Summaries come back from the model as loosely structured markdown that may
// embed pipe-delimited tables. The grammar here is deliberately tolerant:
// anything that does not look like a well-formed table block degrades to
// plain lines instead of failing.

var (
	tableRowRE = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	sepCellRE  = regexp.MustCompile(`^\s*:?-{2,}:?\s*$`)
)

// Table is one parsed pipe table with the separator row removed.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cols returns the widest row length so ragged rows can be normalized.
func (t Table) Cols() int {
	cols := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return cols
}

// Block is one segment of a summary body: either a parsed table or a single
// plain line.
type Block struct {
	Table *Table
	Line  string
}

// Blocks splits a summary body into table blocks and plain lines.
func Blocks(body string) []Block {
	lines := strings.Split(body, "\n")
	var out []Block

	i := 0
	for i < len(lines) {
		if !tableRowRE.MatchString(lines[i]) {
			out = append(out, Block{Line: lines[i]})
			i++
			continue
		}

		j := i
		for j < len(lines) && tableRowRE.MatchString(lines[j]) {
			j++
		}
		table := parseTable(lines[i:j])
		if table == nil {
			// Not table-shaped after all; keep the lines as-is.
			for ; i < j; i++ {
				out = append(out, Block{Line: lines[i]})
			}
			continue
		}
		out = append(out, Block{Table: table})
		i = j
	}
	return out
}

func parseTable(lines []string) *Table {
	if len(lines) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.Trim(strings.TrimSpace(line), "|")
		cells := strings.Split(trimmed, "|")
		for i := range cells {
			cells[i] = StripEmphasis(strings.TrimSpace(cells[i]))
		}
		rows = append(rows, cells)
	}

	table := &Table{Header: rows[0]}
	body := rows[1:]
	if len(body) > 0 && isSeparatorRow(body[0]) {
		body = body[1:]
	}
	table.Rows = body
	return table
}

func isSeparatorRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	for _, cell := range row {
		if !sepCellRE.MatchString(cell) {
			return false
		}
	}
	return true
}

// StripEmphasis removes common bold markers, keeping the content.
func StripEmphasis(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	return strings.ReplaceAll(s, "__", "")
}

// normalizeRow pads a ragged row out to the table's column count.
func normalizeRow(row []string, cols int) []string {
	for len(row) < cols {
		row = append(row, "")
	}
	return row
}
