package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/text/width"

	"spineperf/internal/analysis"
	"spineperf/internal/report"
)

const meterCells = 24

// Text writes a terminal report. Colors follow the profile; termenv.Ascii
// gives plain text.
func Text(w io.Writer, r *analysis.AggregateReport, profile termenv.Profile) error {
	bw := bufio.NewWriter(w)
	t := &textWriter{w: bw, p: profile}

	head := title(r)
	t.line(t.style(head).Bold().String())
	t.line(strings.Repeat("=", displayWidth(head)))
	t.line(headline(r))

	for _, sec := range r.Sections() {
		t.section(sec)
	}
	return bw.Flush()
}

type textWriter struct {
	w *bufio.Writer
	p termenv.Profile
}

func (t *textWriter) line(s string) {
	t.w.WriteString(s)
	t.w.WriteByte('\n')
}

func (t *textWriter) style(s string) termenv.Style {
	return t.p.String(s)
}

func (t *textWriter) color(s, hex string) string {
	return t.p.String(s).Foreground(t.p.Color(hex)).String()
}

func (t *textWriter) severity(s string, sev report.Severity) string {
	switch sev {
	case report.SeverityHigh:
		return t.color(s, "#e53935")
	case report.SeverityMedium:
		return t.color(s, "#ffb300")
	}
	return s
}

func (t *textWriter) section(sec report.Section) {
	t.line("")
	t.line(t.style(sec.Heading).Bold().String())
	t.line(strings.Repeat("-", displayWidth(sec.Heading)))

	if m := sec.Meter; m != nil {
		t.line(fmt.Sprintf("%s: %.1f / 100  %s  %s",
			m.Label, m.Score, t.color(bar(*m, meterCells), m.Color), t.color(m.Tier, m.Color)))
	}
	for _, n := range sec.Notes {
		t.line(n)
	}
	for _, tbl := range sec.Tables {
		t.line("")
		t.table(tbl)
	}
	if len(sec.Tree) > 0 {
		t.line("")
		t.line("Bone hierarchy:")
		for _, n := range sec.Tree {
			t.tree(n, "")
		}
	}
	if len(sec.Items) > 0 {
		t.line("")
		for _, it := range sec.Items {
			t.line(t.severity(marker(it.Severity)+" "+it.Text, it.Severity))
		}
	}
}

func marker(sev report.Severity) string {
	switch sev {
	case report.SeverityHigh:
		return "!!"
	case report.SeverityMedium:
		return " !"
	}
	return " -"
}

func rowMarker(sev report.Severity) string {
	if sev == report.SeverityNone {
		return "   "
	}
	return marker(sev) + " "
}

func (t *textWriter) table(tbl report.Table) {
	if tbl.Caption != "" {
		t.line(tbl.Caption + ":")
	}
	widths := make([]int, len(tbl.Columns))
	for i, c := range tbl.Columns {
		widths[i] = displayWidth(c)
	}
	for _, r := range tbl.Rows {
		for i, c := range r.Cells {
			if i < len(widths) && displayWidth(c) > widths[i] {
				widths[i] = displayWidth(c)
			}
		}
	}

	flag := hasSeverity(tbl)
	row := func(cells []string) string {
		var sb strings.Builder
		for i, c := range cells {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(c)
			if i < len(cells)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-displayWidth(c)))
			}
		}
		return sb.String()
	}

	indent := "  "
	if flag {
		indent = "     "
	}
	t.line(indent + row(tbl.Columns))
	for _, r := range tbl.Rows {
		prefix := "  "
		if flag {
			prefix += rowMarker(r.Severity)
		}
		t.line(t.severity(prefix+row(r.Cells), r.Severity))
	}
}

func (t *textWriter) tree(n report.TreeNode, indent string) {
	t.line(fmt.Sprintf("  %s%s (%.1f, %.1f)", indent, n.Label, n.X, n.Y))
	for _, c := range n.Children {
		t.tree(c, indent+"  ")
	}
}

// displayWidth counts terminal cells, two for wide East Asian runes.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
