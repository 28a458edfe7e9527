package analysis

import (
	"spineperf/internal/report"
	"spineperf/internal/score"
	"spineperf/internal/skeleton"
)

// MaskStatus classifies a clipping polygon by vertex count.
type MaskStatus string

const (
	MaskOptimal         MaskStatus = "Optimal"
	MaskAcceptable      MaskStatus = "Acceptable"
	MaskHighVertexCount MaskStatus = "High Vertex Count"
)

// MaskInfo describes one active clipping attachment.
type MaskInfo struct {
	Slot       string     `json:"slot"`
	Attachment string     `json:"attachment"`
	Vertices   int        `json:"vertices"`
	Status     MaskStatus `json:"status"`
}

// ClippingMetrics summarizes clipping mask usage.
type ClippingMetrics struct {
	MaskCount     int        `json:"maskCount"`
	TotalVertices int        `json:"totalVertices"`
	ComplexMasks  int        `json:"complexMasks"`
	Masks         []MaskInfo `json:"masks"`
	Score         float64    `json:"score"`
}

func maskStatus(vertices int, t score.Tuning) MaskStatus {
	switch {
	case vertices <= t.ComplexMaskVertices:
		return MaskOptimal
	case vertices <= t.ComplexMaskVertices*2:
		return MaskAcceptable
	}
	return MaskHighVertexCount
}

func (s MaskStatus) severity() report.Severity {
	switch s {
	case MaskAcceptable:
		return report.SeverityMedium
	case MaskHighVertexCount:
		return report.SeverityHigh
	}
	return report.SeverityNone
}

// AnalyzeClipping inspects the clipping masks active in the setup pose.
func AnalyzeClipping(s *skeleton.Snapshot, t score.Tuning) (Result[ClippingMetrics], error) {
	var m ClippingMetrics

	for _, slot := range s.Slots {
		switch a := slot.Attachment.(type) {
		case *skeleton.ClippingAttachment:
			v := a.VertexCount()
			m.Masks = append(m.Masks, MaskInfo{
				Slot:       slot.Name,
				Attachment: a.Name,
				Vertices:   v,
				Status:     maskStatus(v, t),
			})
			m.MaskCount++
			m.TotalVertices += v
			if t.IsComplexMask(v) {
				m.ComplexMasks++
			}
		case nil, *skeleton.RegionAttachment, *skeleton.MeshAttachment, *skeleton.LinkedMeshAttachment,
			*skeleton.BoundingBoxAttachment, *skeleton.PathAttachment, *skeleton.PointAttachment:
		default:
			return Result[ClippingMetrics]{}, wrap("clipping", newError(UnknownVariant, "slot %q has attachment of unknown type %T", slot.Name, a))
		}
	}

	m.Score = t.ClippingScore(m.MaskCount, m.TotalVertices, m.ComplexMasks)
	return Result[ClippingMetrics]{Report: clippingSection(m, t), Metrics: m}, nil
}

func clippingSection(m ClippingMetrics, t score.Tuning) report.Section {
	meter := report.NewMeter("Clipping Score", m.Score, t)
	sec := report.Section{Heading: "Clipping Analysis", Meter: &meter}

	sec.Tables = append(sec.Tables, statsTable("Summary",
		"Clipping masks", itoa(m.MaskCount),
		"Total mask vertices", itoa(m.TotalVertices),
		"Complex masks (>"+itoa(t.ComplexMaskVertices)+" vertices)", itoa(m.ComplexMasks),
	))

	if len(m.Masks) == 0 {
		sec.Note("No clipping masks found.")
		return sec
	}

	tbl := report.Table{Caption: "Clipping Masks", Columns: []string{"Slot", "Attachment", "Vertices", "Status"}}
	for _, mask := range m.Masks {
		tbl.AddRow(mask.Status.severity(), mask.Slot, mask.Attachment, itoa(mask.Vertices), string(mask.Status))
	}
	sec.Tables = append(sec.Tables, tbl)
	sec.Note("Each clipping mask forces extra triangle clipping on the CPU. Keep masks to " + itoa(t.ComplexMaskVertices) + " vertices or fewer.")
	return sec
}
