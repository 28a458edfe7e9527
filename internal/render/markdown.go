package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"spineperf/internal/analysis"
	"spineperf/internal/report"
)

// Markdown writes a GitHub-flavored Markdown report.
func Markdown(w io.Writer, r *analysis.AggregateReport) error {
	return writeMarkdown(w, r, false)
}

// writeMarkdown emits meters as text bars, or as raw HTML blocks when the
// output feeds the HTML page.
func writeMarkdown(w io.Writer, r *analysis.AggregateReport, htmlMeters bool) error {
	bw := bufio.NewWriter(w)
	md := &mdWriter{w: bw, htmlMeters: htmlMeters}

	md.printf("# %s\n\n", mdEscape(title(r)))
	md.printf("**Overall: %.0f / 100 (%s)**. %s.\n", r.Overall, r.Rating, headline(r))
	for _, sec := range r.Sections() {
		md.section(sec)
	}
	return bw.Flush()
}

type mdWriter struct {
	w          *bufio.Writer
	htmlMeters bool
}

func (m *mdWriter) printf(format string, args ...any) {
	fmt.Fprintf(m.w, format, args...)
}

func (m *mdWriter) section(sec report.Section) {
	m.printf("\n## %s\n\n", mdEscape(sec.Heading))

	if mt := sec.Meter; mt != nil {
		if m.htmlMeters {
			m.printf("<div class=\"meter\"><span class=\"label\">%s</span>"+
				"<span class=\"track\"><span class=\"fill\" style=\"width:%.1f%%;background:%s\"></span></span>"+
				"<span class=\"value\">%.1f %s</span></div>\n\n",
				htmlEscaper.Replace(mt.Label), mt.Percent, mt.Color, mt.Score, htmlEscaper.Replace(mt.Tier))
		} else {
			m.printf("**%s:** %.1f / 100 `%s` %s\n\n", mdEscape(mt.Label), mt.Score, bar(*mt, 20), mt.Tier)
		}
	}
	for _, n := range sec.Notes {
		m.printf("%s\n\n", mdEscape(n))
	}
	for _, t := range sec.Tables {
		m.table(t)
	}
	if len(sec.Tree) > 0 {
		m.printf("**Bone hierarchy**\n\n")
		for _, n := range sec.Tree {
			m.tree(n, 0)
		}
		m.printf("\n")
	}
	for _, it := range sec.Items {
		text := mdEscape(it.Text)
		switch it.Severity {
		case report.SeverityHigh:
			text = "**High:** " + text
		case report.SeverityMedium:
			text = "**Medium:** " + text
		}
		m.printf("- %s\n", text)
	}
	if len(sec.Items) > 0 {
		m.printf("\n")
	}
}

// table writes a pipe table. Tables with flagged rows get a trailing Flag
// column holding the severity name.
func (m *mdWriter) table(t report.Table) {
	if t.Caption != "" {
		m.printf("**%s**\n\n", mdEscape(t.Caption))
	}
	flag := hasSeverity(t)
	cols := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		cols = append(cols, cellEscape(c))
	}
	if flag {
		cols = append(cols, "Flag")
	}
	m.printf("| %s |\n", strings.Join(cols, " | "))
	m.printf("|%s\n", strings.Repeat(" --- |", len(cols)))

	for _, r := range t.Rows {
		cells := make([]string, 0, len(cols))
		for _, c := range r.Cells {
			cells = append(cells, cellEscape(c))
		}
		if flag {
			f := ""
			if r.Severity != report.SeverityNone {
				f = r.Severity.String()
			}
			cells = append(cells, f)
		}
		m.printf("| %s |\n", strings.Join(cells, " | "))
	}
	m.printf("\n")
}

func (m *mdWriter) tree(n report.TreeNode, depth int) {
	m.printf("%s- %s (%.1f, %.1f)\n", strings.Repeat("  ", depth), mdEscape(n.Label), n.X, n.Y)
	for _, c := range n.Children {
		m.tree(c, depth+1)
	}
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func mdEscape(s string) string {
	return mdEscaper.Replace(s)
}

func cellEscape(s string) string {
	return strings.ReplaceAll(mdEscape(s), "|", `\|`)
}
