package skeleton

import (
	"spineperf/internal/mathutil"
)

// Roots returns the indices of bones without a parent, in declaration order.
func (s *Snapshot) Roots() []int {
	var roots []int
	for i, b := range s.Bones {
		if b.Parent < 0 {
			roots = append(roots, i)
		}
	}
	return roots
}

// BuildWorldMatrices computes the setup-pose world transform for each bone.
// Returns a slice of 3×3 matrices indexed by bone index.
// Bones are expected parent-first; a parent declared after its child is
// treated as a root.
func BuildWorldMatrices(bones []Bone) []mathutil.Mat3 {
	worlds := make([]mathutil.Mat3, len(bones))
	for i := range worlds {
		worlds[i] = mathutil.Mat3Identity()
	}

	for i, bone := range bones {
		sx, sy := bone.ScaleX, bone.ScaleY
		if sx == 0 && sy == 0 {
			sx, sy = 1, 1
		}
		local := mathutil.Affine(bone.X, bone.Y, bone.Rotation, sx, sy)

		// Chain with parent
		if bone.Parent >= 0 && bone.Parent < i {
			worlds[i] = mathutil.Mat3Mul(worlds[bone.Parent], local)
		} else {
			worlds[i] = local
		}
	}

	return worlds
}

// WorldPositions returns the setup-pose world origin of every bone.
func (s *Snapshot) WorldPositions() [][2]float64 {
	worlds := BuildWorldMatrices(s.Bones)
	out := make([][2]float64, len(worlds))
	for i, w := range worlds {
		x, y := w.Translation()
		out[i] = [2]float64{x, y}
	}
	return out
}
