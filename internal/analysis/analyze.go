// Package analysis scores a skeleton snapshot. Each analyzer is a pure
// function of the snapshot and a score.Tuning table; Analyze runs them all
// and combines the results.
package analysis

import (
	"spineperf/internal/report"
	"spineperf/internal/score"
	"spineperf/internal/skeleton"
)

// Result pairs a report fragment with the metrics behind it.
type Result[M any] struct {
	Report  report.Section `json:"report"`
	Metrics M              `json:"metrics"`
}

// AggregateReport is the complete outcome of one analysis pass.
type AggregateReport struct {
	Skeleton    string                    `json:"skeleton"`
	Overall     float64                   `json:"overall"`
	Rating      string                    `json:"rating"`
	Components  score.ComponentScores     `json:"components"`
	Summary     Result[SummaryMetrics]    `json:"summary"`
	Bones       Result[BoneMetrics]       `json:"bones"`
	Meshes      Result[MeshMetrics]       `json:"meshes"`
	Clipping    Result[ClippingMetrics]   `json:"clipping"`
	BlendModes  Result[BlendModeMetrics]  `json:"blendModes"`
	Constraints Result[ConstraintMetrics] `json:"constraints"`
}

// Analyze runs every analyzer once and the summary generator over their
// metrics. It never mutates s and returns either a complete report or an
// error.
func Analyze(s *skeleton.Snapshot, t score.Tuning) (*AggregateReport, error) {
	if s == nil {
		return nil, newError(InvalidSnapshot, "snapshot is nil")
	}

	bones, err := AnalyzeBones(s, t)
	if err != nil {
		return nil, err
	}
	meshes, err := AnalyzeMeshes(s, t)
	if err != nil {
		return nil, err
	}
	clipping, err := AnalyzeClipping(s, t)
	if err != nil {
		return nil, err
	}
	blend, err := AnalyzeBlendModes(s, t)
	if err != nil {
		return nil, err
	}
	constraints, err := AnalyzeConstraints(s, t)
	if err != nil {
		return nil, err
	}

	summary := Summarize(SummaryInput{
		Bones:       bones.Metrics,
		Meshes:      meshes.Metrics,
		Clipping:    clipping.Metrics,
		BlendModes:  blend.Metrics,
		Constraints: constraints.Metrics,
		Overview: Overview{
			Slots:      len(s.Slots),
			Animations: len(s.Animations),
			Skins:      len(s.Skins),
		},
	}, t)

	return &AggregateReport{
		Skeleton:    s.Name,
		Overall:     summary.Metrics.Overall,
		Rating:      summary.Metrics.Rating,
		Components:  summary.Metrics.Components,
		Summary:     summary,
		Bones:       bones,
		Meshes:      meshes,
		Clipping:    clipping,
		BlendModes:  blend,
		Constraints: constraints,
	}, nil
}

// Sections returns the report fragments in display order.
func (r *AggregateReport) Sections() []report.Section {
	return []report.Section{
		r.Summary.Report,
		r.Bones.Report,
		r.Meshes.Report,
		r.Clipping.Report,
		r.BlendModes.Report,
		r.Constraints.Report,
	}
}

// Metrics flattens the numeric summary into stable dotted keys.
func (r *AggregateReport) Metrics() map[string]float64 {
	b := r.Bones.Metrics
	m := r.Meshes.Metrics
	c := r.Clipping.Metrics
	bl := r.BlendModes.Metrics
	k := r.Constraints.Metrics
	o := r.Summary.Metrics.Overview
	return map[string]float64{
		"overall":                      r.Overall,
		"bones.score":                  b.Score,
		"bones.total":                  float64(b.TotalBones),
		"bones.maxDepth":               float64(b.MaxDepth),
		"mesh.score":                   m.Score,
		"mesh.count":                   float64(m.TotalMeshCount),
		"mesh.vertices":                float64(m.TotalVertices),
		"mesh.deformed":                float64(m.DeformedMeshCount),
		"mesh.weighted":                float64(m.WeightedMeshCount),
		"mesh.highVertex":              float64(m.HighVertexMeshes),
		"mesh.complex":                 float64(m.ComplexMeshes),
		"clipping.score":               c.Score,
		"clipping.masks":               float64(c.MaskCount),
		"clipping.vertices":            float64(c.TotalVertices),
		"clipping.complex":             float64(c.ComplexMasks),
		"blend.score":                  bl.Score,
		"blend.nonNormal":              float64(bl.NonNormalCount),
		"blend.additive":               float64(bl.AdditiveCount),
		"blend.multiply":               float64(bl.MultiplyCount),
		"constraints.score":            k.Score,
		"constraints.total":            float64(k.TotalConstraints),
		"constraints.ik.impact":        k.IK.Impact,
		"constraints.transform.impact": k.Transform.Impact,
		"constraints.path.impact":      k.Path.Impact,
		"constraints.physics.impact":   k.Physics.Impact,
		"animations":                   float64(o.Animations),
		"skins":                        float64(o.Skins),
	}
}
