// Package report is the structured, presentation-neutral output of an
// analysis. Renderers in internal/render turn it into text, markdown, HTML
// or images.
package report

import "spineperf/internal/score"

// Severity tags a row or list item.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	}
	return "none"
}

// MarshalText lets severities appear by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Meter is a score bar: percentage plus color bucket.
type Meter struct {
	Label   string       `json:"label"`
	Score   float64      `json:"score"`
	Percent float64      `json:"percent"`
	Rating  score.Rating `json:"-"`
	Tier    string       `json:"rating"`
	Color   string       `json:"color"`
}

// NewMeter builds a meter for a 0–100 score.
func NewMeter(label string, s float64, t score.Tuning) Meter {
	r := t.Rate(s)
	pct := s
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return Meter{
		Label:   label,
		Score:   s,
		Percent: pct,
		Rating:  r,
		Tier:    r.String(),
		Color:   r.Color(),
	}
}

// Row is one table row. Cells line up with Table.Columns.
type Row struct {
	Cells    []string `json:"cells"`
	Severity Severity `json:"severity"`
}

// Table is a captioned grid of rows.
type Table struct {
	Caption string   `json:"caption,omitempty"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// AddRow appends a row.
func (t *Table) AddRow(sev Severity, cells ...string) {
	t.Rows = append(t.Rows, Row{Cells: cells, Severity: sev})
}

// TreeNode is one bone in a rendered hierarchy.
type TreeNode struct {
	Label    string     `json:"label"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Children []TreeNode `json:"children,omitempty"`
}

// Item is a list entry such as a recommendation.
type Item struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// Section is one report fragment. Renderers emit its parts in field order.
type Section struct {
	Heading string     `json:"heading"`
	Meter   *Meter     `json:"meter,omitempty"`
	Notes   []string   `json:"notes,omitempty"`
	Tables  []Table    `json:"tables,omitempty"`
	Tree    []TreeNode `json:"tree,omitempty"`
	Items   []Item     `json:"items,omitempty"`
}

// Note appends a paragraph.
func (s *Section) Note(text string) {
	s.Notes = append(s.Notes, text)
}
