package output

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// HTML rendering: pipe tables become structural <table> markup, headings and
// bullet lists get real tags, and everything else is escaped paragraphs. The
// document is self-contained so it opens cleanly from a chat attachment.

var (
	headingRE = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)
	bulletRE  = regexp.MustCompile(`^\s*[-*]\s+(.*)$`)
	boldRE    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	brTagRE   = regexp.MustCompile(`(?i)<br\s*/?>`)
)

const htmlCSS = `body { font-family: -apple-system, BlinkMacSystemFont, "PingFang TC", "PingFang SC", "Microsoft YaHei", Arial, sans-serif; line-height: 1.55; padding: 16px; }
h1,h2,h3 { margin: 16px 0 8px; }
p { margin: 8px 0; white-space: pre-wrap; }
table { border-collapse: collapse; width: 100%; margin: 12px 0; }
th, td { border: 1px solid #333; padding: 6px 8px; vertical-align: top; }
th { background: #f2f2f2; }`

// RenderHTML converts a summary body into a standalone HTML document.
// headerLines appear under the title as metadata (link, channel).
func RenderHTML(body, title string, headerLines []string) string {
	var out []string

	if len(headerLines) > 0 {
		out = append(out, "<div class='meta'>")
		for _, hl := range headerLines {
			out = append(out, "<p>"+inlineHTML(hl)+"</p>")
		}
		out = append(out, "</div>")
	}

	inList := false
	closeList := func() {
		if inList {
			out = append(out, "</ul>")
			inList = false
		}
	}

	for _, block := range Blocks(body) {
		if block.Table != nil {
			closeList()
			out = append(out, tableToHTML(*block.Table))
			continue
		}

		line := strings.TrimRight(block.Line, " \t")
		if m := headingRE.FindStringSubmatch(line); m != nil {
			closeList()
			level := len(m[1])
			out = append(out, fmt.Sprintf("<h%d>%s</h%d>", level, inlineHTML(strings.TrimSpace(m[2])), level))
			continue
		}
		if m := bulletRE.FindStringSubmatch(line); m != nil {
			if !inList {
				out = append(out, "<ul>")
				inList = true
			}
			out = append(out, "<li>"+inlineHTML(strings.TrimSpace(m[1]))+"</li>")
			continue
		}
		if strings.TrimSpace(line) == "" {
			closeList()
			continue
		}
		closeList()
		out = append(out, "<p>"+inlineHTML(line)+"</p>")
	}
	closeList()

	return fmt.Sprintf(`<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>%s</title>
  <style>%s</style>
</head>
<body>
  <h1>%s</h1>
  %s
</body>
</html>
`, html.EscapeString(title), htmlCSS, html.EscapeString(title), strings.Join(out, "\n"))
}

func tableToHTML(t Table) string {
	cols := t.Cols()
	header := normalizeRow(t.Header, cols)

	var sb strings.Builder
	sb.WriteString("<table><thead><tr>")
	for _, cell := range header {
		sb.WriteString("<th>" + inlineHTML(cell) + "</th>")
	}
	sb.WriteString("</tr></thead><tbody>")
	for _, row := range t.Rows {
		sb.WriteString("<tr>")
		for _, cell := range normalizeRow(row, cols) {
			sb.WriteString("<td>" + inlineHTML(cell) + "</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}

// inlineHTML escapes a text fragment, then restores a minimal amount of
// formatting: **bold** and model-produced <br> line breaks.
func inlineHTML(s string) string {
	s = brTagRE.ReplaceAllString(s, "\n")
	esc := html.EscapeString(s)
	esc = boldRE.ReplaceAllString(esc, "<b>$1</b>")
	return strings.ReplaceAll(esc, "\n", "<br/>")
}
