package analysis

import (
	"sort"

	"spineperf/internal/report"
	"spineperf/internal/score"
	"spineperf/internal/skeleton"
)

// MeshInfo describes one slot whose active attachment is a mesh.
type MeshInfo struct {
	Slot          string          `json:"slot"`
	Attachment    string          `json:"attachment"`
	Vertices      int             `json:"vertices"`
	Deformed      bool            `json:"deformed"`
	Weighted      bool            `json:"weighted"`
	HasParentMesh bool            `json:"hasParentMesh"`
	Severity      report.Severity `json:"severity"`
}

// MeshMetrics summarizes mesh usage.
type MeshMetrics struct {
	TotalMeshCount     int        `json:"totalMeshCount"`
	TotalVertices      int        `json:"totalVertices"`
	WeightedMeshCount  int        `json:"weightedMeshCount"`
	DeformedMeshCount  int        `json:"deformedMeshCount"`
	LinkedMeshCount    int        `json:"linkedMeshCount"`
	AvgVerticesPerMesh float64    `json:"avgVerticesPerMesh"`
	HighVertexMeshes   int        `json:"highVertexMeshes"`
	ComplexMeshes      int        `json:"complexMeshes"`
	Meshes             []MeshInfo `json:"meshes"`
	Score              float64    `json:"score"`
}

// meshSeverity tiers a mesh row by size and deformation.
func meshSeverity(vertices int, deformed bool) report.Severity {
	switch {
	case vertices > 100 || (vertices > 50 && deformed):
		return report.SeverityHigh
	case vertices > 50 || (vertices > 20 && deformed):
		return report.SeverityMedium
	}
	return report.SeverityNone
}

// AnalyzeMeshes inspects mesh attachments and deform timelines.
// Meshes are keyed by slot name; slot names are unique within a skeleton.
func AnalyzeMeshes(s *skeleton.Snapshot, t score.Tuning) (Result[MeshMetrics], error) {
	var m MeshMetrics

	for _, slot := range s.Slots {
		var mesh *skeleton.MeshAttachment
		linked := false
		switch a := slot.Attachment.(type) {
		case nil:
			continue
		case *skeleton.MeshAttachment:
			mesh = a
			linked = a.ParentMesh != ""
		case *skeleton.LinkedMeshAttachment:
			mesh = a.Geometry()
			linked = true
		case *skeleton.RegionAttachment, *skeleton.ClippingAttachment, *skeleton.BoundingBoxAttachment,
			*skeleton.PathAttachment, *skeleton.PointAttachment:
			continue
		default:
			return Result[MeshMetrics]{}, wrap("mesh", newError(UnknownVariant, "slot %q has attachment of unknown type %T", slot.Name, a))
		}

		m.Meshes = append(m.Meshes, MeshInfo{
			Slot:          slot.Name,
			Attachment:    slot.Attachment.AttachmentName(),
			Vertices:      mesh.VertexCount(),
			Weighted:      mesh.IsWeighted(),
			HasParentMesh: linked,
		})
	}

	deformed, err := deformedSlots(s)
	if err != nil {
		return Result[MeshMetrics]{}, wrap("mesh", err)
	}

	for i := range m.Meshes {
		info := &m.Meshes[i]
		info.Deformed = deformed[info.Slot]
		info.Severity = meshSeverity(info.Vertices, info.Deformed)

		m.TotalMeshCount++
		m.TotalVertices += info.Vertices
		if info.Weighted {
			m.WeightedMeshCount++
		}
		if info.Deformed {
			m.DeformedMeshCount++
		}
		if info.HasParentMesh {
			m.LinkedMeshCount++
		}
		if info.Vertices > 50 {
			m.HighVertexMeshes++
		}
		if info.Vertices > 20 && (info.Deformed || info.Weighted) {
			m.ComplexMeshes++
		}
	}
	if m.TotalMeshCount > 0 {
		m.AvgVerticesPerMesh = float64(m.TotalVertices) / float64(m.TotalMeshCount)
	}

	sort.SliceStable(m.Meshes, func(i, j int) bool {
		return m.Meshes[i].Vertices > m.Meshes[j].Vertices
	})

	m.Score = t.MeshScore(m.TotalMeshCount, m.TotalVertices, m.DeformedMeshCount, m.WeightedMeshCount)

	return Result[MeshMetrics]{Report: meshSection(m, t), Metrics: m}, nil
}

// deformedSlots returns the names of slots touched by any deform timeline
// whose attachment is a mesh. Any number of animations marks a slot once.
func deformedSlots(s *skeleton.Snapshot) (map[string]bool, error) {
	deformed := make(map[string]bool)
	for _, anim := range s.Animations {
		for ti, tl := range anim.Timelines {
			switch tl := tl.(type) {
			case *skeleton.DeformTimeline:
				if tl.SlotIndex < 0 || tl.SlotIndex >= len(s.Slots) {
					return nil, newError(SlotIndexOutOfRange,
						"animation %q timeline %d references slot index %d, skeleton has %d slots",
						anim.Name, ti, tl.SlotIndex, len(s.Slots)).
						WithDetails(map[string]any{"animation": anim.Name, "timeline": ti, "slotIndex": tl.SlotIndex})
				}
				switch tl.Attachment.(type) {
				case *skeleton.MeshAttachment, *skeleton.LinkedMeshAttachment:
					deformed[s.Slots[tl.SlotIndex].Name] = true
				}
			case *skeleton.PropertyTimeline:
			default:
				return nil, newError(UnknownVariant, "animation %q timeline %d has unknown type %T", anim.Name, ti, tl)
			}
		}
	}
	return deformed, nil
}

func meshSection(m MeshMetrics, t score.Tuning) report.Section {
	meter := report.NewMeter("Mesh Score", m.Score, t)
	sec := report.Section{Heading: "Mesh Analysis", Meter: &meter}

	sec.Tables = append(sec.Tables, statsTable("Summary",
		"Total meshes", itoa(m.TotalMeshCount),
		"Total vertices", itoa(m.TotalVertices),
		"Average vertices per mesh", f1(m.AvgVerticesPerMesh),
		"Meshes with deformation", itoa(m.DeformedMeshCount),
		"Meshes with bone weights", itoa(m.WeightedMeshCount),
		"Linked meshes", itoa(m.LinkedMeshCount),
		"High vertex meshes (>50)", itoa(m.HighVertexMeshes),
		"Complex meshes", itoa(m.ComplexMeshes),
	))

	if len(m.Meshes) == 0 {
		sec.Note("No mesh attachments found.")
		return sec
	}

	tbl := report.Table{
		Caption: "Meshes",
		Columns: []string{"Slot", "Attachment", "Vertices", "Deformed", "Bone Weights", "Linked"},
	}
	for _, info := range m.Meshes {
		tbl.AddRow(info.Severity, info.Slot, info.Attachment, itoa(info.Vertices),
			yesNo(info.Deformed), yesNo(info.Weighted), yesNo(info.HasParentMesh))
	}
	sec.Tables = append(sec.Tables, tbl)
	sec.Note("Meshes above 50 vertices, or above 20 with deformation, are highlighted. Deformed and weighted meshes cost CPU every frame.")
	return sec
}
