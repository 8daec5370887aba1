package output

import "strings"

// Plain-text rendering: pipe tables become fixed-width aligned text so they
// stay readable in monospace viewers (including Telegram's file preview).

const (
	maxColWidth  = 48
	cellPadding  = 1
	maxBlankRuns = 2
)

// RenderText converts a summary body into readable plain text. Bodies with
// no pipe table pass through with only emphasis markers stripped.
func RenderText(body string) string {
	var out []string
	for _, block := range Blocks(body) {
		if block.Table != nil {
			out = append(out, renderTextTable(*block.Table)...)
			continue
		}
		out = append(out, strings.TrimRight(StripEmphasis(block.Line), " \t"))
	}
	return strings.TrimSpace(collapseBlanks(out)) + "\n"
}

func renderTextTable(t Table) []string {
	cols := t.Cols()
	header := normalizeRow(t.Header, cols)
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = normalizeRow(r, cols)
	}

	wrappedHeader := wrapRow(header)
	wrappedRows := make([][][]string, len(rows))
	for i, r := range rows {
		wrappedRows[i] = wrapRow(r)
	}

	widths := make([]int, cols)
	measure := func(cells [][]string) {
		for ci, lines := range cells {
			for _, l := range lines {
				if w := displayWidth(l); w > widths[ci] {
					widths[ci] = w
				}
			}
		}
	}
	measure(wrappedHeader)
	for _, r := range wrappedRows {
		measure(r)
	}
	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}

	var out []string
	out = append(out, renderTableRow(wrappedHeader, widths)...)
	out = append(out, separatorLine(widths))
	for _, r := range wrappedRows {
		out = append(out, renderTableRow(r, widths)...)
	}
	return out
}

// renderTableRow renders one logical row, which may span several output
// lines when a cell wrapped.
func renderTableRow(cells [][]string, widths []int) []string {
	height := 1
	for _, lines := range cells {
		if len(lines) > height {
			height = len(lines)
		}
	}

	pad := strings.Repeat(" ", cellPadding)
	out := make([]string, 0, height)
	for i := 0; i < height; i++ {
		parts := make([]string, len(cells))
		for ci, lines := range cells {
			text := ""
			if i < len(lines) {
				text = lines[i]
			}
			parts[ci] = padCell(text, widths[ci])
		}
		out = append(out, "|"+pad+strings.Join(parts, pad+"|"+pad)+pad+"|")
	}
	return out
}

func separatorLine(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2*cellPadding)
	}
	return "|" + strings.Join(parts, "+") + "|"
}

func wrapRow(row []string) [][]string {
	out := make([][]string, len(row))
	for i, cell := range row {
		out[i] = wrapCell(cell, maxColWidth)
	}
	return out
}

// wrapCell wraps by display width, counting non-ASCII runes as double wide,
// which is close enough for CJK summaries.
func wrapCell(s string, width int) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{""}
	}

	var out []string
	var cur strings.Builder
	curWidth := 0
	for _, r := range s {
		rw := runeWidth(r)
		if cur.Len() > 0 && curWidth+rw > width {
			out = append(out, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteRune(r)
		curWidth += rw
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func padCell(s string, width int) string {
	if gap := width - displayWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		w += runeWidth(r)
	}
	return w
}

func runeWidth(r rune) int {
	if r < 128 {
		return 1
	}
	return 2
}

func collapseBlanks(lines []string) string {
	var out []string
	blanks := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			blanks++
			if blanks <= maxBlankRuns {
				out = append(out, "")
			}
			continue
		}
		blanks = 0
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
