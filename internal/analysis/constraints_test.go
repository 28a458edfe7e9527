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

func TestPhysicsImpactCapped(t *testing.T) {
	c := &skeleton.PhysicsConstraint{
		Name: "cape", Bone: 0,
		X: 1, Y: 1, Rotate: 1, ScaleX: 1, ShearX: 1,
		Strength: 100, Damping: 0, Wind: 5, Gravity: 0,
		Active: true,
	}
	assert.Equal(t, 40.0, PhysicsComplexity(c))

	s := &skeleton.Snapshot{Bones: flatBones(1), Physics: []skeleton.PhysicsConstraint{*c}}
	r, err := AnalyzeConstraints(s, score.Default())
	require.NoError(t, err)
	m := r.Metrics
	assert.Equal(t, 40.0, m.PhysicsComplexitySum)
	assert.Equal(t, 100.0, m.Physics.Impact)
	assert.Equal(t, 40.0, m.WeightedImpact)
	assert.Equal(t, 80.0, m.Score)
	assert.True(t, m.PhysicsRows[0].Complex)
	assert.Equal(t, "wind", r.Report.Tables[1].Rows[0].Cells[5])
}

func TestConstraintImpactFormulas(t *testing.T) {
	assert.Equal(t, 0.0, IKImpact(0, 0, 0))
	assert.InDelta(t, 20+math.Log2(3)*10, IKImpact(1, 2, 2), 1e-9)
	assert.InDelta(t, 20+20+math.Pow(3, 1.3)*2, IKImpact(1, 3, 3), 1e-9)
	assert.InDelta(t, 15+8+15, TransformImpact(1, 1, 3), 1e-9)
	assert.InDelta(t, 20+20+4*7, PathImpact(1, 3, 4), 1e-9)
	assert.Equal(t, 100.0, PathImpact(10, 100, 20))
	assert.Equal(t, 0.0, PhysicsImpact(0, 0))
}

func TestPathModeComplexity(t *testing.T) {
	for _, tc := range []struct {
		rotate  skeleton.RotateMode
		spacing skeleton.SpacingMode
		samples int
		want    int
	}{
		{skeleton.RotateTangent, skeleton.SpacingLength, 0, 2},
		{skeleton.RotateChain, skeleton.SpacingFixed, 20, 3},
		{skeleton.RotateChainScale, skeleton.SpacingProportional, 21, 7},
		{skeleton.RotateTangent, skeleton.SpacingPercent, 40, 4},
	} {
		c := &skeleton.PathConstraint{RotateMode: tc.rotate, SpacingMode: tc.spacing, WorldSamples: tc.samples}
		assert.Equal(t, tc.want, PathModeComplexity(c), "%s/%s/%d", tc.rotate, tc.spacing, tc.samples)
	}
}

func TestConstraintsFullSnapshot(t *testing.T) {
	r, err := AnalyzeConstraints(fullSnapshot(), score.Default())
	require.NoError(t, err)
	m := r.Metrics

	assert.Equal(t, 4, m.TotalConstraints)
	assert.Equal(t, KindStats{Count: 1, ActiveCount: 1, TotalBones: 2, Impact: IKImpact(1, 2, 2)}, m.IK)
	assert.Equal(t, 3, m.TransformPropertySum)
	assert.Equal(t, 3, m.PathModeComplexitySum)
	assert.Equal(t, "rail", m.PathRows[0].Target)
	assert.Equal(t, "chain3", m.IKRows[0].Target)
	assert.Equal(t, "chain1, chain2", m.IKRows[0].Bones)
	assert.False(t, m.TransformRows[0].Complex)
	assert.False(t, m.PathRows[0].Complex)

	tu := score.Default()
	assert.InDelta(t, tu.WeightedImpact(m.Impacts), m.WeightedImpact, 1e-12)
	assert.Equal(t, tu.ConstraintScore(m.Impacts), m.Score)

	// impact table + one table per kind present
	assert.Len(t, r.Report.Tables, 5)
}

// Inactive constraints still cost: they are counted in every statistic
// and impact exactly like active ones.
func TestInactiveConstraintsCounted(t *testing.T) {
	active := fullSnapshot()
	inactive := fullSnapshot()
	inactive.IK[0].Active = false
	inactive.Path[0].Active = false

	a, err := AnalyzeConstraints(active, score.Default())
	require.NoError(t, err)
	b, err := AnalyzeConstraints(inactive, score.Default())
	require.NoError(t, err)

	assert.Equal(t, a.Metrics.Score, b.Metrics.Score)
	assert.Equal(t, a.Metrics.IK.Count, b.Metrics.IK.Count)
	assert.Equal(t, 0, b.Metrics.IK.ActiveCount)
	assert.Equal(t, 0, b.Metrics.Physics.ActiveCount)
	assert.Equal(t, 1, b.Metrics.Physics.Count)
}

func TestConstraintFlags(t *testing.T) {
	s := &skeleton.Snapshot{
		Bones: chainBones(6),
		Slots: []skeleton.Slot{slot("p", &skeleton.PathAttachment{Name: "p", WorldVerticesLength: 12})},
		IK:    []skeleton.IKConstraint{{Name: "arm", Bones: []int{1, 2, 3}, Target: 5}},
		Transform: []skeleton.TransformConstraint{
			{Name: "all", Bones: []int{4}, Target: 0, MixRotate: 1, MixX: 1, MixY: 1, MixScaleX: 0.5},
		},
		Path: []skeleton.PathConstraint{{Name: "spline", Bones: []int{1}, Target: 0, RotateMode: skeleton.RotateChainScale}},
		Physics: []skeleton.PhysicsConstraint{
			{Name: "tail", Bone: 5, X: 1, Y: 1},
		},
	}
	r, err := AnalyzeConstraints(s, score.Default())
	require.NoError(t, err)
	m := r.Metrics
	assert.True(t, m.IKRows[0].Complex)
	assert.True(t, m.TransformRows[0].Complex)
	assert.True(t, m.PathRows[0].Complex)
	assert.False(t, m.PhysicsRows[0].Complex)
	assert.Equal(t, 3, m.MaxIKChainLength)

	ik := r.Report.Tables[1]
	assert.Equal(t, "IK Constraints", ik.Caption)
	assert.Equal(t, report.SeverityHigh, ik.Rows[0].Severity)
}

func TestConstraintBadReferences(t *testing.T) {
	s := &skeleton.Snapshot{Bones: flatBones(2), IK: []skeleton.IKConstraint{{Name: "leg", Bones: []int{0}, Target: 9}}}
	_, err := AnalyzeConstraints(s, score.Default())
	assert.Equal(t, BoneIndexOutOfRange, CodeOf(err))

	s = &skeleton.Snapshot{Bones: flatBones(2), Path: []skeleton.PathConstraint{{Name: "rail", Bones: []int{0}, Target: 0}}}
	_, err = AnalyzeConstraints(s, score.Default())
	assert.Equal(t, SlotIndexOutOfRange, CodeOf(err))
}

func TestNoConstraints(t *testing.T) {
	r, err := AnalyzeConstraints(&skeleton.Snapshot{}, score.Default())
	require.NoError(t, err)
	assert.Equal(t, 100.0, r.Metrics.Score)
	assert.Equal(t, []string{"No constraints found."}, r.Report.Notes)
}

func TestNegativePhysicsStrengthStaysInBounds(t *testing.T) {
	c := skeleton.PhysicsConstraint{Name: "spring", Bone: 0, Rotate: 1, Strength: -500, Damping: 0, Active: true}
	assert.Less(t, PhysicsComplexity(&c), 0.0)

	s := &skeleton.Snapshot{Bones: flatBones(1), Physics: []skeleton.PhysicsConstraint{c}}
	r, err := AnalyzeConstraints(s, score.Default())
	require.NoError(t, err)
	m := r.Metrics
	assert.Equal(t, 0.0, m.Physics.Impact)
	assert.GreaterOrEqual(t, m.Score, 0.0)
	assert.LessOrEqual(t, m.Score, 100.0)
	assert.Equal(t, 100.0, m.Score)
}

func TestImpactsNeverNegative(t *testing.T) {
	assert.Equal(t, 0.0, PhysicsImpact(1, -1e6))
	assert.Equal(t, 100.0, PhysicsImpact(1, 1e6))
}
