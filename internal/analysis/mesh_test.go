package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spineperf/internal/report"
	"spineperf/internal/score"
	"spineperf/internal/skeleton"
)

func TestMeshesNone(t *testing.T) {
	r, err := AnalyzeMeshes(&skeleton.Snapshot{Bones: flatBones(1), Slots: []skeleton.Slot{slot("a", &skeleton.RegionAttachment{Name: "a"})}}, score.Default())
	require.NoError(t, err)
	assert.Equal(t, 100.0, r.Metrics.Score)
	assert.Equal(t, 0, r.Metrics.TotalMeshCount)
	assert.Equal(t, 0.0, r.Metrics.AvgVerticesPerMesh)
	assert.Equal(t, []string{"No mesh attachments found."}, r.Report.Notes)
}

func TestMeshesSortedBySeverity(t *testing.T) {
	big := mesh("big", 120, true)
	s := &skeleton.Snapshot{
		Bones: flatBones(1),
		Slots: []skeleton.Slot{
			slot("degenerate", mesh("degenerate", 0, false)),
			slot("big", big),
		},
		Animations: []skeleton.Animation{{Name: "wave", Timelines: []skeleton.Timeline{deform(1, big)}}},
	}
	r, err := AnalyzeMeshes(s, score.Default())
	require.NoError(t, err)

	m := r.Metrics
	require.Len(t, m.Meshes, 2)
	assert.Equal(t, "big", m.Meshes[0].Slot)
	assert.Equal(t, report.SeverityHigh, m.Meshes[0].Severity)
	assert.True(t, m.Meshes[0].Deformed)
	assert.True(t, m.Meshes[0].Weighted)
	assert.Equal(t, "degenerate", m.Meshes[1].Slot)
	assert.Equal(t, report.SeverityNone, m.Meshes[1].Severity)

	tbl := r.Report.Tables[1]
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "big", tbl.Rows[0].Cells[0])
	assert.Equal(t, "120", tbl.Rows[0].Cells[2])
	assert.Equal(t, report.SeverityHigh, tbl.Rows[0].Severity)
	assert.Equal(t, "0", tbl.Rows[1].Cells[2])

	assert.Equal(t, 120, m.TotalVertices)
	assert.Equal(t, 60.0, m.AvgVerticesPerMesh)
	assert.Equal(t, 1, m.HighVertexMeshes)
	assert.Equal(t, 1, m.ComplexMeshes)
	assert.Equal(t, score.Default().MeshScore(2, 120, 1, 1), m.Score)
}

func TestMeshSeverityTiers(t *testing.T) {
	assert.Equal(t, report.SeverityHigh, meshSeverity(101, false))
	assert.Equal(t, report.SeverityHigh, meshSeverity(51, true))
	assert.Equal(t, report.SeverityMedium, meshSeverity(51, false))
	assert.Equal(t, report.SeverityMedium, meshSeverity(21, true))
	assert.Equal(t, report.SeverityNone, meshSeverity(21, false))
	assert.Equal(t, report.SeverityNone, meshSeverity(20, true))
}

// Deformation is a coarse flag: any number of deform timelines across any
// number of animations marks a mesh once.
func TestDeformedCountedOnce(t *testing.T) {
	arm := mesh("arm", 30, false)
	s := &skeleton.Snapshot{
		Bones: flatBones(1),
		Slots: []skeleton.Slot{slot("arm", arm), slot("leg", mesh("leg", 10, false))},
		Animations: []skeleton.Animation{
			{Name: "walk", Timelines: []skeleton.Timeline{deform(0, arm), deform(0, arm)}},
			{Name: "run", Timelines: []skeleton.Timeline{deform(0, arm)}},
		},
	}
	r, err := AnalyzeMeshes(s, score.Default())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Metrics.DeformedMeshCount)
	assert.Equal(t, report.SeverityMedium, r.Metrics.Meshes[0].Severity)
}

func TestDeformOfNonMeshIgnored(t *testing.T) {
	region := &skeleton.RegionAttachment{Name: "r"}
	s := &skeleton.Snapshot{
		Bones:      flatBones(1),
		Slots:      []skeleton.Slot{slot("r", region)},
		Animations: []skeleton.Animation{{Name: "a", Timelines: []skeleton.Timeline{deform(0, region)}}},
	}
	r, err := AnalyzeMeshes(s, score.Default())
	require.NoError(t, err)
	assert.Equal(t, 0, r.Metrics.DeformedMeshCount)
}

func TestLinkedMeshCounts(t *testing.T) {
	parent := mesh("body", 40, false)
	s := &skeleton.Snapshot{
		Bones: flatBones(1),
		Slots: []skeleton.Slot{
			slot("body", parent),
			slot("body-alt", &skeleton.LinkedMeshAttachment{Name: "body-alt", ParentMesh: "body", Mesh: parent}),
		},
	}
	r, err := AnalyzeMeshes(s, score.Default())
	require.NoError(t, err)
	assert.Equal(t, 2, r.Metrics.TotalMeshCount)
	assert.Equal(t, 80, r.Metrics.TotalVertices)
	assert.Equal(t, 1, r.Metrics.LinkedMeshCount)
}

func TestDeformSlotOutOfRange(t *testing.T) {
	arm := mesh("arm", 30, false)
	s := &skeleton.Snapshot{
		Bones:      flatBones(1),
		Slots:      []skeleton.Slot{slot("arm", arm)},
		Animations: []skeleton.Animation{{Name: "walk", Timelines: []skeleton.Timeline{deform(3, arm)}}},
	}
	_, err := AnalyzeMeshes(s, score.Default())
	require.Error(t, err)
	assert.Equal(t, SlotIndexOutOfRange, CodeOf(err))
	assert.Contains(t, err.Error(), `animation "walk" timeline 0`)
}

type foreignTimeline struct{ skeleton.PropertyTimeline }

func TestUnknownTimelineVariant(t *testing.T) {
	s := &skeleton.Snapshot{
		Animations: []skeleton.Animation{{Name: "x", Timelines: []skeleton.Timeline{&foreignTimeline{}}}},
	}
	_, err := AnalyzeMeshes(s, score.Default())
	assert.Equal(t, UnknownVariant, CodeOf(err))
}
