package score

import "math"

// ComponentScores are the five sub-scores that make up the overall score.
type ComponentScores struct {
	Bone       float64 `json:"bone"`
	Mesh       float64 `json:"mesh"`
	Clipping   float64 `json:"clipping"`
	BlendMode  float64 `json:"blendMode"`
	Constraint float64 `json:"constraint"`
}

// ConstraintImpacts are the per-kind constraint costs, each within [0, 100].
type ConstraintImpacts struct {
	IK        float64 `json:"ik"`
	Transform float64 `json:"transform"`
	Path      float64 `json:"path"`
	Physics   float64 `json:"physics"`
}

// ratioPenalty is log2(count/ideal + 1). A zero count costs nothing.
func ratioPenalty(count, ideal float64) float64 {
	if count <= 0 {
		return 0
	}
	return math.Log2(count/ideal + 1)
}

func floor0(v float64) float64 {
	return math.Max(0, v)
}

func clamp100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// MeshScore scores mesh usage.
func (t Tuning) MeshScore(totalMeshCount, totalVertices, deformedMeshCount, weightedMeshCount int) float64 {
	penalty := ratioPenalty(float64(totalMeshCount), t.IdealMeshCount)*15 +
		ratioPenalty(float64(totalVertices), t.IdealVertexCount)*10 +
		float64(deformedMeshCount)*t.MeshDeformedFactor +
		float64(weightedMeshCount)*t.MeshWeightedFactor
	return floor0(100 - penalty)
}

// ClippingScore scores clipping mask usage.
func (t Tuning) ClippingScore(maskCount, vertexCount, complexMaskCount int) float64 {
	penalty := ratioPenalty(float64(maskCount), t.IdealClippingCount)*20 +
		math.Log2(float64(vertexCount)+1)*5 +
		float64(complexMaskCount)*10
	return floor0(100 - penalty)
}

// IsComplexMask reports whether a clipping polygon counts as complex.
func (t Tuning) IsComplexMask(vertexCount int) bool {
	return vertexCount > t.ComplexMaskVertices
}

// BlendModeScore scores non-normal blend mode usage.
func (t Tuning) BlendModeScore(nonNormalCount, additiveCount int) float64 {
	penalty := ratioPenalty(float64(nonNormalCount), t.IdealBlendModeCount)*20 +
		float64(additiveCount)*2
	return floor0(100 - penalty)
}

// BoneScore scores hierarchy size and depth.
func (t Tuning) BoneScore(totalBones, maxDepth int) float64 {
	penalty := ratioPenalty(float64(totalBones), t.IdealBoneCount)*15 +
		float64(maxDepth)*t.BoneDepthFactor
	return floor0(100 - penalty)
}

// WeightedImpact combines the constraint impacts with the constraint weights.
func (t Tuning) WeightedImpact(i ConstraintImpacts) float64 {
	w := t.ConstraintWeights
	return i.IK*w.IK + i.Transform*w.Transform + i.Path*w.Path + i.Physics*w.Physics
}

// ConstraintScore scores the combined constraint impact.
func (t Tuning) ConstraintScore(i ConstraintImpacts) float64 {
	return clamp100(100 - t.WeightedImpact(i)*0.5)
}

// WeightedSum is the unrounded weighted sum of the component scores.
func (t Tuning) WeightedSum(c ComponentScores) float64 {
	w := t.Weights
	return c.Bone*w.Bone + c.Mesh*w.Mesh + c.Clipping*w.Clipping +
		c.BlendMode*w.BlendMode + c.Constraint*w.Constraint
}

// OverallScore rounds the weighted sum and clamps it to [OverallFloor, 100].
func (t Tuning) OverallScore(c ComponentScores) float64 {
	s := math.Round(t.WeightedSum(c))
	return math.Min(100, math.Max(t.OverallFloor, s))
}
