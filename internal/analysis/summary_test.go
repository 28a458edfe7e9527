package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spineperf/internal/report"
	"spineperf/internal/score"
)

func TestSummaryWeightedCombination(t *testing.T) {
	tu := score.Default()
	in := SummaryInput{
		Bones:       BoneMetrics{Score: 83.5},
		Meshes:      MeshMetrics{Score: 100},
		Clipping:    ClippingMetrics{Score: 76.7},
		BlendModes:  BlendModeMetrics{Score: 100},
		Constraints: ConstraintMetrics{Score: 60},
	}
	r := Summarize(in, tu)

	want := 83.5*0.15 + 100*0.25 + 76.7*0.20 + 100*0.15 + 60*0.25
	assert.InDelta(t, want, r.Metrics.WeightedSum, 1e-9)
	assert.Equal(t, 83.0, r.Metrics.Overall)
	assert.Equal(t, "Good", r.Metrics.Rating)
	assert.Equal(t, "Good", r.Report.Meter.Tier)
}

func TestSummaryFloor(t *testing.T) {
	r := Summarize(SummaryInput{}, score.Default())
	assert.Equal(t, 0.0, r.Metrics.WeightedSum)
	assert.Equal(t, 40.0, r.Metrics.Overall)
	assert.Equal(t, "Poor", r.Metrics.Rating)
}

func TestRecommendationsRankedBySeverity(t *testing.T) {
	in := SummaryInput{
		Bones:      BoneMetrics{TotalBones: 80, MaxDepth: 9},
		Meshes:     MeshMetrics{TotalVertices: 900, WeightedMeshCount: 6},
		BlendModes: BlendModeMetrics{NonNormalCount: 3},
		Constraints: ConstraintMetrics{
			Physics: KindStats{Count: 2},
		},
	}
	recs := Recommend(in, score.Default())

	var ids []string
	for _, r := range recs {
		ids = append(ids, r.Rule)
	}
	assert.Equal(t, []string{
		"total-vertices", "physics-constraints",
		"bone-depth", "total-bones", "weighted-meshes", "non-normal-blends",
	}, ids)
	assert.Equal(t, report.SeverityHigh, recs[0].Severity)
	assert.Equal(t, report.SeverityMedium, recs[len(recs)-1].Severity)
	assert.Contains(t, recs[0].Text, "(900)")
}

func TestRecommendationThresholdsExclusive(t *testing.T) {
	l := score.Default().Limits
	in := SummaryInput{
		Bones:    BoneMetrics{TotalBones: l.TotalBones, MaxDepth: l.MaxDepth},
		Meshes:   MeshMetrics{TotalVertices: l.TotalVertices},
		Clipping: ClippingMetrics{MaskCount: l.ClippingMasks},
	}
	assert.Empty(t, Recommend(in, score.Default()))
}

func TestSummarySection(t *testing.T) {
	r := Summarize(SummaryInput{Overview: Overview{Slots: 3, Animations: 2, Skins: 1}}, score.Default())
	sec := r.Report
	assert.Equal(t, "Performance Summary", sec.Heading)
	require.Len(t, sec.Tables, 3)
	assert.Equal(t, "Component Scores", sec.Tables[0].Caption)
	assert.Len(t, sec.Tables[0].Rows, 5)

	lg := sec.Tables[2]
	require.Len(t, lg.Rows, 5)
	assert.Equal(t, []string{"85-100", "Excellent"}, lg.Rows[0].Cells[:2])
	assert.Equal(t, []string{"70-<85", "Good"}, lg.Rows[1].Cells[:2])
	assert.Equal(t, []string{"0-<40", "Very Poor"}, lg.Rows[4].Cells[:2])

	require.Len(t, sec.Items, 1)
	assert.Contains(t, sec.Items[0].Text, "No optimization needed")
}

func TestComplexMaskAdviceUsesTunedThreshold(t *testing.T) {
	tu := score.Default()
	tu.ComplexMaskVertices = 6
	recs := Recommend(SummaryInput{Clipping: ClippingMetrics{MaskCount: 2, ComplexMasks: 2}}, tu)

	var text string
	for _, r := range recs {
		if r.Rule == "complex-masks" {
			text = r.Text
		}
	}
	assert.Equal(t, "Simplify 2 complex clipping masks to 6 vertices or fewer.", text)
}
