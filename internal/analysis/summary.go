package analysis

import (
	"fmt"
	"sort"

	"spineperf/internal/report"
	"spineperf/internal/score"
)

// Overview holds the skeleton-wide counts not owned by any analyzer.
type Overview struct {
	Slots      int `json:"slots"`
	Animations int `json:"animations"`
	Skins      int `json:"skins"`
}

// SummaryInput is everything the summary generator combines.
type SummaryInput struct {
	Bones       BoneMetrics
	Meshes      MeshMetrics
	Clipping    ClippingMetrics
	BlendModes  BlendModeMetrics
	Constraints ConstraintMetrics
	Overview    Overview
}

// Recommendation is one ranked optimization hint.
type Recommendation struct {
	Rule     string          `json:"rule"`
	Text     string          `json:"text"`
	Severity report.Severity `json:"severity"`
}

// SummaryMetrics is the aggregate result.
type SummaryMetrics struct {
	Components      score.ComponentScores `json:"components"`
	WeightedSum     float64               `json:"weightedSum"`
	Overall         float64               `json:"overall"`
	Rating          string                `json:"rating"`
	Overview        Overview              `json:"overview"`
	Recommendations []Recommendation      `json:"recommendations"`
}

type rule struct {
	id       string
	severity report.Severity
	hit      func(in SummaryInput, l score.Limits) bool
	text     func(in SummaryInput, t score.Tuning) string
}

// rules are evaluated in order; ranking is by severity, then this order.
var rules = []rule{
	{"total-vertices", report.SeverityHigh,
		func(in SummaryInput, l score.Limits) bool { return in.Meshes.TotalVertices > l.TotalVertices },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Reduce total mesh vertices (%d). Simplify meshes that do not need fine deformation.", in.Meshes.TotalVertices)
		}},
	{"deformed-meshes", report.SeverityHigh,
		func(in SummaryInput, l score.Limits) bool { return in.Meshes.DeformedMeshCount > l.DeformedMeshes },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Reduce deform timelines: %d meshes are deformed. Prefer bone-driven animation where possible.", in.Meshes.DeformedMeshCount)
		}},
	{"clipping-masks", report.SeverityHigh,
		func(in SummaryInput, l score.Limits) bool { return in.Clipping.MaskCount > l.ClippingMasks },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Limit clipping masks (%d). Each mask clips every following triangle on the CPU.", in.Clipping.MaskCount)
		}},
	{"physics-constraints", report.SeverityHigh,
		func(in SummaryInput, l score.Limits) bool { return in.Constraints.Physics.Count > l.PhysicsConstraints },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Limit physics constraints (%d). Physics is simulated every frame.", in.Constraints.Physics.Count)
		}},
	{"bone-depth", report.SeverityMedium,
		func(in SummaryInput, l score.Limits) bool { return in.Bones.MaxDepth > l.MaxDepth },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Flatten the bone hierarchy (depth %d). Deep chains serialize world transform updates.", in.Bones.MaxDepth)
		}},
	{"total-bones", report.SeverityMedium,
		func(in SummaryInput, l score.Limits) bool { return in.Bones.TotalBones > l.TotalBones },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Reduce bone count (%d). Remove helper bones that are not animated.", in.Bones.TotalBones)
		}},
	{"weighted-meshes", report.SeverityMedium,
		func(in SummaryInput, l score.Limits) bool { return in.Meshes.WeightedMeshCount > l.WeightedMeshes },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Reduce weighted meshes (%d). Fewer bone influences per vertex lower skinning cost.", in.Meshes.WeightedMeshCount)
		}},
	{"complex-masks", report.SeverityMedium,
		func(in SummaryInput, l score.Limits) bool { return in.Clipping.ComplexMasks > l.ComplexMasks },
		func(in SummaryInput, t score.Tuning) string {
			return fmt.Sprintf("Simplify %d complex clipping masks to %d vertices or fewer.", in.Clipping.ComplexMasks, t.ComplexMaskVertices)
		}},
	{"non-normal-blends", report.SeverityMedium,
		func(in SummaryInput, l score.Limits) bool { return in.BlendModes.NonNormalCount > l.NonNormalBlends },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Reduce non-normal blend modes (%d). Group slots with the same blend mode in draw order.", in.BlendModes.NonNormalCount)
		}},
	{"additive-blends", report.SeverityMedium,
		func(in SummaryInput, l score.Limits) bool { return in.BlendModes.AdditiveCount > l.AdditiveBlends },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Reduce additive slots (%d). Additive blending causes overdraw.", in.BlendModes.AdditiveCount)
		}},
	{"ik-impact", report.SeverityMedium,
		func(in SummaryInput, l score.Limits) bool { return in.Constraints.IK.Impact > l.IKImpact },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Simplify IK setup (impact %.1f). Shorten chains or merge constraints.", in.Constraints.IK.Impact)
		}},
	{"path-impact", report.SeverityMedium,
		func(in SummaryInput, l score.Limits) bool { return in.Constraints.Path.Impact > l.PathImpact },
		func(in SummaryInput, _ score.Tuning) string {
			return fmt.Sprintf("Simplify path constraints (impact %.1f). Prefer Tangent rotate mode and fewer bones.", in.Constraints.Path.Impact)
		}},
}

// Recommend evaluates the recommendation rules and ranks the hits.
func Recommend(in SummaryInput, t score.Tuning) []Recommendation {
	var out []Recommendation
	for _, r := range rules {
		if r.hit(in, t.Limits) {
			out = append(out, Recommendation{Rule: r.id, Text: r.text(in, t), Severity: r.severity})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity > out[j].Severity
	})
	return out
}

// Summarize combines the component scores into the overall score and
// renders the summary section.
func Summarize(in SummaryInput, t score.Tuning) Result[SummaryMetrics] {
	m := SummaryMetrics{
		Components: score.ComponentScores{
			Bone:       in.Bones.Score,
			Mesh:       in.Meshes.Score,
			Clipping:   in.Clipping.Score,
			BlendMode:  in.BlendModes.Score,
			Constraint: in.Constraints.Score,
		},
		Overview: in.Overview,
	}
	m.WeightedSum = t.WeightedSum(m.Components)
	m.Overall = t.OverallScore(m.Components)
	m.Rating = t.Rate(m.Overall).String()
	m.Recommendations = Recommend(in, t)

	return Result[SummaryMetrics]{Report: summarySection(in, m, t), Metrics: m}
}

func summarySection(in SummaryInput, m SummaryMetrics, t score.Tuning) report.Section {
	meter := report.NewMeter("Overall Performance Score", m.Overall, t)
	sec := report.Section{Heading: "Performance Summary", Meter: &meter}
	sec.Note(t.Rate(m.Overall).Interpretation() + ".")

	comp := report.Table{Caption: "Component Scores", Columns: []string{"Component", "Score", "Weight", "Meter"}}
	w := t.Weights
	for _, c := range []struct {
		name   string
		score  float64
		weight float64
	}{
		{"Bone Structure", m.Components.Bone, w.Bone},
		{"Mesh Complexity", m.Components.Mesh, w.Mesh},
		{"Clipping Masks", m.Components.Clipping, w.Clipping},
		{"Blend Modes", m.Components.BlendMode, w.BlendMode},
		{"Constraints", m.Components.Constraint, w.Constraint},
	} {
		cm := report.NewMeter(c.name, c.score, t)
		sev := report.SeverityNone
		switch cm.Rating {
		case score.Poor, score.VeryPoor:
			sev = report.SeverityHigh
		case score.Moderate:
			sev = report.SeverityMedium
		}
		comp.AddRow(sev, c.name, f1(c.score), f1(c.weight*100)+"%", f1(cm.Percent)+"% "+cm.Tier)
	}
	sec.Tables = append(sec.Tables, comp)

	sec.Tables = append(sec.Tables, statsTable("Skeleton Statistics",
		"Bones", itoa(in.Bones.TotalBones),
		"Max bone depth", itoa(in.Bones.MaxDepth),
		"Slots", itoa(in.Overview.Slots),
		"Meshes", itoa(in.Meshes.TotalMeshCount),
		"Mesh vertices", itoa(in.Meshes.TotalVertices),
		"Clipping masks", itoa(in.Clipping.MaskCount),
		"Non-normal blend modes", itoa(in.BlendModes.NonNormalCount),
		"IK constraints", itoa(in.Constraints.IK.Count),
		"Transform constraints", itoa(in.Constraints.Transform.Count),
		"Path constraints", itoa(in.Constraints.Path.Count),
		"Physics constraints", itoa(in.Constraints.Physics.Count),
		"Animations", itoa(in.Overview.Animations),
		"Skins", itoa(in.Overview.Skins),
	))

	sec.Tables = append(sec.Tables, legend(t))

	if len(m.Recommendations) == 0 {
		sec.Items = append(sec.Items, report.Item{Text: "No optimization needed. The skeleton is well within all thresholds."})
	}
	for _, r := range m.Recommendations {
		sec.Items = append(sec.Items, report.Item{Text: r.Text, Severity: r.Severity})
	}
	return sec
}

// legend is the fixed five-tier score interpretation table.
func legend(t score.Tuning) report.Table {
	tbl := report.Table{Caption: "Score Interpretation", Columns: []string{"Range", "Rating", "Meaning"}}
	upper := 100.0
	for _, r := range score.Ratings {
		lo := t.Floor(r)
		rng := fmt.Sprintf("%g-%g", lo, upper)
		if r != score.Excellent {
			rng = fmt.Sprintf("%g-<%g", lo, upper)
		}
		tbl.AddRow(report.SeverityNone, rng, r.String(), r.Interpretation())
		upper = lo
	}
	return tbl
}
