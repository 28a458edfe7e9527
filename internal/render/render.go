// Package render turns an analysis report into text, Markdown, HTML, JSON
// or a score-card image.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"spineperf/internal/analysis"
	"spineperf/internal/report"
)

// Write renders r in the named format: text, markdown, html or json.
// The profile only affects text output.
func Write(w io.Writer, r *analysis.AggregateReport, format string, profile termenv.Profile) error {
	switch strings.ToLower(format) {
	case "text", "":
		return Text(w, r, profile)
	case "markdown", "md":
		return Markdown(w, r)
	case "html":
		return HTML(w, r)
	case "json":
		return JSON(w, r)
	}
	return fmt.Errorf("render: unknown format %q", format)
}

// JSON writes the aggregate report and its flat metrics.
func JSON(w io.Writer, r *analysis.AggregateReport) error {
	out := struct {
		*analysis.AggregateReport
		Metrics map[string]float64 `json:"metrics"`
	}{r, r.Metrics()}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("render: encode json: %w", err)
	}
	return nil
}

var printer = message.NewPrinter(language.English)

// headline is the one-line overview shown under the title.
func headline(r *analysis.AggregateReport) string {
	b := r.Bones.Metrics
	m := r.Meshes.Metrics
	o := r.Summary.Metrics.Overview
	return printer.Sprintf("%d bones, %d slots, %d meshes with %d vertices, %d constraints, %d animations",
		b.TotalBones, o.Slots, m.TotalMeshCount, m.TotalVertices, r.Constraints.Metrics.TotalConstraints, o.Animations)
}

func title(r *analysis.AggregateReport) string {
	if r.Skeleton == "" {
		return "Spine Performance Report"
	}
	return "Spine Performance Report: " + r.Skeleton
}

// bar draws a meter as n block cells.
func bar(m report.Meter, n int) string {
	filled := int(m.Percent/100*float64(n) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", n-filled)
}

func hasSeverity(t report.Table) bool {
	for _, r := range t.Rows {
		if r.Severity != report.SeverityNone {
			return true
		}
	}
	return false
}
