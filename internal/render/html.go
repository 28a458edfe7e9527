package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"spineperf/internal/analysis"
)

const pageStyle = `body{font-family:system-ui,sans-serif;max-width:960px;margin:2em auto;padding:0 1em;color:#222}
table{border-collapse:collapse;margin:.5em 0 1.5em}
th,td{border:1px solid #ddd;padding:4px 10px;text-align:left}
th{background:#f5f5f5}
tr.high{background:#fdecea}
tr.medium{background:#fff8e1}
.meter{display:flex;align-items:center;gap:12px;margin:.5em 0 1em}
.meter .label{min-width:220px;font-weight:600}
.meter .track{flex:1;height:14px;background:#eee;border-radius:7px;overflow:hidden}
.meter .fill{display:block;height:100%;border-radius:7px}
.meter .value{min-width:110px}`

// HTML writes a standalone HTML page. The body is the Markdown report
// converted by gomarkdown; flagged table rows get a severity class.
func HTML(w io.Writer, r *analysis.AggregateReport) error {
	var src bytes.Buffer
	if err := writeMarkdown(&src, r, true); err != nil {
		return err
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags,
		RenderNodeHook: severityRows,
	})
	body := markdown.ToHTML(src.Bytes(), p, renderer)

	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>\n%s\n</style>\n</head>\n<body>\n%s</body>\n</html>\n",
		htmlEscaper.Replace(title(r)), pageStyle, body)
	if err != nil {
		return fmt.Errorf("render: write html: %w", err)
	}
	return nil
}

// severityRows opens a body row with class="high" or class="medium" when
// its trailing Flag cell says so.
func severityRows(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	row, ok := node.(*ast.TableRow)
	if !ok || !entering {
		return ast.GoToNext, false
	}
	if _, header := row.Parent.(*ast.TableHeader); header {
		return ast.GoToNext, false
	}
	cells := row.GetChildren()
	if len(cells) == 0 {
		return ast.GoToNext, false
	}
	switch flag := cellText(cells[len(cells)-1]); flag {
	case "high", "medium":
		io.WriteString(w, `<tr class="`+flag+`">`+"\n")
		return ast.GoToNext, true
	}
	return ast.GoToNext, false
}

func cellText(n ast.Node) string {
	var buf bytes.Buffer
	ast.WalkFunc(n, func(n ast.Node, entering bool) ast.WalkStatus {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Literal)
		}
		return ast.GoToNext
	})
	return buf.String()
}
