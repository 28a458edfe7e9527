// Package score converts raw skeleton counts into 0–100 sub-scores and
// combines them into one overall score. Every function is pure; all
// reference constants live in a Tuning value.
package score

import (
	"errors"
	"fmt"
	"math"
)

// Weights are the top-level component weights of the overall score.
type Weights struct {
	Bone       float64 `json:"bone" toml:"bone" yaml:"bone" mapstructure:"bone"`
	Mesh       float64 `json:"mesh" toml:"mesh" yaml:"mesh" mapstructure:"mesh"`
	Clipping   float64 `json:"clipping" toml:"clipping" yaml:"clipping" mapstructure:"clipping"`
	BlendMode  float64 `json:"blend_mode" toml:"blend_mode" yaml:"blend_mode" mapstructure:"blend_mode"`
	Constraint float64 `json:"constraint" toml:"constraint" yaml:"constraint" mapstructure:"constraint"`
}

// ConstraintWeights combine the four constraint impacts.
type ConstraintWeights struct {
	IK        float64 `json:"ik" toml:"ik" yaml:"ik" mapstructure:"ik"`
	Transform float64 `json:"transform" toml:"transform" yaml:"transform" mapstructure:"transform"`
	Path      float64 `json:"path" toml:"path" yaml:"path" mapstructure:"path"`
	Physics   float64 `json:"physics" toml:"physics" yaml:"physics" mapstructure:"physics"`
}

// Thresholds are the lower bounds of the rating tiers.
type Thresholds struct {
	Excellent float64 `json:"excellent" toml:"excellent" yaml:"excellent" mapstructure:"excellent"`
	Good      float64 `json:"good" toml:"good" yaml:"good" mapstructure:"good"`
	Moderate  float64 `json:"moderate" toml:"moderate" yaml:"moderate" mapstructure:"moderate"`
	Poor      float64 `json:"poor" toml:"poor" yaml:"poor" mapstructure:"poor"`
}

// Limits are the thresholds of the optimization recommendations.
type Limits struct {
	MaxDepth           int     `json:"max_depth" toml:"max_depth" yaml:"max_depth" mapstructure:"max_depth"`
	TotalBones         int     `json:"total_bones" toml:"total_bones" yaml:"total_bones" mapstructure:"total_bones"`
	TotalVertices      int     `json:"total_vertices" toml:"total_vertices" yaml:"total_vertices" mapstructure:"total_vertices"`
	DeformedMeshes     int     `json:"deformed_meshes" toml:"deformed_meshes" yaml:"deformed_meshes" mapstructure:"deformed_meshes"`
	WeightedMeshes     int     `json:"weighted_meshes" toml:"weighted_meshes" yaml:"weighted_meshes" mapstructure:"weighted_meshes"`
	ClippingMasks      int     `json:"clipping_masks" toml:"clipping_masks" yaml:"clipping_masks" mapstructure:"clipping_masks"`
	ComplexMasks       int     `json:"complex_masks" toml:"complex_masks" yaml:"complex_masks" mapstructure:"complex_masks"`
	NonNormalBlends    int     `json:"non_normal_blends" toml:"non_normal_blends" yaml:"non_normal_blends" mapstructure:"non_normal_blends"`
	AdditiveBlends     int     `json:"additive_blends" toml:"additive_blends" yaml:"additive_blends" mapstructure:"additive_blends"`
	PhysicsConstraints int     `json:"physics_constraints" toml:"physics_constraints" yaml:"physics_constraints" mapstructure:"physics_constraints"`
	IKImpact           float64 `json:"ik_impact" toml:"ik_impact" yaml:"ik_impact" mapstructure:"ik_impact"`
	PathImpact         float64 `json:"path_impact" toml:"path_impact" yaml:"path_impact" mapstructure:"path_impact"`
}

// Tuning is the configuration table behind every formula. Copy it to
// override single values; it holds no references.
type Tuning struct {
	IdealBoneCount      float64 `json:"ideal_bone_count" toml:"ideal_bone_count" yaml:"ideal_bone_count" mapstructure:"ideal_bone_count"`
	IdealMeshCount      float64 `json:"ideal_mesh_count" toml:"ideal_mesh_count" yaml:"ideal_mesh_count" mapstructure:"ideal_mesh_count"`
	IdealVertexCount    float64 `json:"ideal_vertex_count" toml:"ideal_vertex_count" yaml:"ideal_vertex_count" mapstructure:"ideal_vertex_count"`
	IdealClippingCount  float64 `json:"ideal_clipping_count" toml:"ideal_clipping_count" yaml:"ideal_clipping_count" mapstructure:"ideal_clipping_count"`
	IdealBlendModeCount float64 `json:"ideal_blend_mode_count" toml:"ideal_blend_mode_count" yaml:"ideal_blend_mode_count" mapstructure:"ideal_blend_mode_count"`

	BoneDepthFactor    float64 `json:"bone_depth_factor" toml:"bone_depth_factor" yaml:"bone_depth_factor" mapstructure:"bone_depth_factor"`
	MeshDeformedFactor float64 `json:"mesh_deformed_factor" toml:"mesh_deformed_factor" yaml:"mesh_deformed_factor" mapstructure:"mesh_deformed_factor"`
	MeshWeightedFactor float64 `json:"mesh_weighted_factor" toml:"mesh_weighted_factor" yaml:"mesh_weighted_factor" mapstructure:"mesh_weighted_factor"`

	// ComplexMaskVertices is the vertex count above which a clipping mask is complex.
	ComplexMaskVertices int `json:"complex_mask_vertices" toml:"complex_mask_vertices" yaml:"complex_mask_vertices" mapstructure:"complex_mask_vertices"`

	Weights           Weights           `json:"weights" toml:"weights" yaml:"weights" mapstructure:"weights"`
	ConstraintWeights ConstraintWeights `json:"constraint_weights" toml:"constraint_weights" yaml:"constraint_weights" mapstructure:"constraint_weights"`

	// OverallFloor is the lowest overall score an asset can get.
	OverallFloor float64    `json:"overall_floor" toml:"overall_floor" yaml:"overall_floor" mapstructure:"overall_floor"`
	Ratings      Thresholds `json:"ratings" toml:"ratings" yaml:"ratings" mapstructure:"ratings"`

	Limits Limits `json:"limits" toml:"limits" yaml:"limits" mapstructure:"limits"`
}

// Default returns the stock tuning table.
func Default() Tuning {
	return Tuning{
		IdealBoneCount:      30,
		IdealMeshCount:      15,
		IdealVertexCount:    300,
		IdealClippingCount:  2,
		IdealBlendModeCount: 2,
		BoneDepthFactor:     1.5,
		MeshDeformedFactor:  1.5,
		MeshWeightedFactor:  2,
		ComplexMaskVertices: 4,
		Weights: Weights{
			Bone:       0.15,
			Mesh:       0.25,
			Clipping:   0.20,
			BlendMode:  0.15,
			Constraint: 0.25,
		},
		ConstraintWeights: ConstraintWeights{
			IK:        0.20,
			Transform: 0.15,
			Path:      0.25,
			Physics:   0.40,
		},
		OverallFloor: 40,
		Ratings: Thresholds{
			Excellent: 85,
			Good:      70,
			Moderate:  55,
			Poor:      40,
		},
		Limits: Limits{
			MaxDepth:           5,
			TotalBones:         50,
			TotalVertices:      500,
			DeformedMeshes:     5,
			WeightedMeshes:     5,
			ClippingMasks:      2,
			ComplexMasks:       0,
			NonNormalBlends:    2,
			AdditiveBlends:     5,
			PhysicsConstraints: 1,
			IKImpact:           50,
			PathImpact:         50,
		},
	}
}

// Validate reports tables that would make the formulas meaningless.
func (t Tuning) Validate() error {
	var errs []error
	ideals := map[string]float64{
		"ideal_bone_count":       t.IdealBoneCount,
		"ideal_mesh_count":       t.IdealMeshCount,
		"ideal_vertex_count":     t.IdealVertexCount,
		"ideal_clipping_count":   t.IdealClippingCount,
		"ideal_blend_mode_count": t.IdealBlendModeCount,
	}
	for _, name := range []string{"ideal_bone_count", "ideal_mesh_count", "ideal_vertex_count", "ideal_clipping_count", "ideal_blend_mode_count"} {
		if v := ideals[name]; !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("score: %s must be > 0, got %v", name, v))
		}
	}
	factors := []struct {
		name string
		v    float64
	}{
		{"bone_depth_factor", t.BoneDepthFactor},
		{"mesh_deformed_factor", t.MeshDeformedFactor},
		{"mesh_weighted_factor", t.MeshWeightedFactor},
	}
	for _, f := range factors {
		if !nonNegative(f.v) {
			errs = append(errs, fmt.Errorf("score: %s must be a finite value >= 0, got %v", f.name, f.v))
		}
	}
	w := t.Weights
	for _, v := range []float64{w.Bone, w.Mesh, w.Clipping, w.BlendMode, w.Constraint} {
		if !nonNegative(v) {
			errs = append(errs, fmt.Errorf("score: component weights must be finite and >= 0"))
			break
		}
	}
	cw := t.ConstraintWeights
	for _, v := range []float64{cw.IK, cw.Transform, cw.Path, cw.Physics} {
		if !nonNegative(v) {
			errs = append(errs, fmt.Errorf("score: constraint weights must be finite and >= 0"))
			break
		}
	}
	if t.ComplexMaskVertices < 0 {
		errs = append(errs, fmt.Errorf("score: complex_mask_vertices must be >= 0"))
	}
	if !(t.OverallFloor >= 0 && t.OverallFloor <= 100) {
		errs = append(errs, fmt.Errorf("score: overall_floor must be within [0, 100]"))
	}
	r := t.Ratings
	if !(r.Excellent > r.Good && r.Good > r.Moderate && r.Moderate > r.Poor) || math.IsInf(r.Excellent, 0) || math.IsInf(r.Poor, 0) {
		errs = append(errs, fmt.Errorf("score: rating thresholds must be strictly descending"))
	}
	return errors.Join(errs...)
}

// nonNegative reports whether v is finite and >= 0. NaN fails.
func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
