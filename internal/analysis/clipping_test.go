package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spineperf/internal/report"
	"spineperf/internal/score"
	"spineperf/internal/skeleton"
)

func clip(name string, vertices int) *skeleton.ClippingAttachment {
	return &skeleton.ClippingAttachment{Name: name, WorldVerticesLength: vertices * 2, EndSlot: -1}
}

func TestClippingSingleQuad(t *testing.T) {
	s := &skeleton.Snapshot{Bones: flatBones(1), Slots: []skeleton.Slot{slot("mask", clip("mask", 4))}}
	r, err := AnalyzeClipping(s, score.Default())
	require.NoError(t, err)

	m := r.Metrics
	assert.Equal(t, 1, m.MaskCount)
	assert.Equal(t, 4, m.TotalVertices)
	assert.Equal(t, 0, m.ComplexMasks)
	assert.Equal(t, MaskOptimal, m.Masks[0].Status)
	assert.InDelta(t, 100-math.Log2(1.5)*20-math.Log2(5)*5, m.Score, 1e-9)
	assert.InDelta(t, 76.7, m.Score, 0.05)
}

func TestClippingStatuses(t *testing.T) {
	s := &skeleton.Snapshot{
		Bones: flatBones(1),
		Slots: []skeleton.Slot{
			slot("a", clip("a", 3)),
			slot("b", clip("b", 5)),
			slot("c", clip("c", 8)),
			slot("d", clip("d", 9)),
			slot("e", mesh("e", 10, false)),
		},
	}
	r, err := AnalyzeClipping(s, score.Default())
	require.NoError(t, err)

	var statuses []MaskStatus
	for _, m := range r.Metrics.Masks {
		statuses = append(statuses, m.Status)
	}
	assert.Equal(t, []MaskStatus{MaskOptimal, MaskAcceptable, MaskAcceptable, MaskHighVertexCount}, statuses)
	assert.Equal(t, 3, r.Metrics.ComplexMasks)
	assert.Equal(t, 25, r.Metrics.TotalVertices)

	rows := r.Report.Tables[1].Rows
	assert.Equal(t, report.SeverityNone, rows[0].Severity)
	assert.Equal(t, report.SeverityMedium, rows[1].Severity)
	assert.Equal(t, report.SeverityHigh, rows[3].Severity)
}

func TestClippingNone(t *testing.T) {
	r, err := AnalyzeClipping(&skeleton.Snapshot{}, score.Default())
	require.NoError(t, err)
	assert.Equal(t, 100.0, r.Metrics.Score)
	assert.Len(t, r.Report.Tables, 1)
}
