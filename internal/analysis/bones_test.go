package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spineperf/internal/score"
	"spineperf/internal/skeleton"
)

func TestBonesAtIdealCount(t *testing.T) {
	r, err := AnalyzeBones(&skeleton.Snapshot{Bones: flatBones(30)}, score.Default())
	require.NoError(t, err)
	assert.Equal(t, 30, r.Metrics.TotalBones)
	assert.Equal(t, 1, r.Metrics.MaxDepth)
	assert.Equal(t, 30, r.Metrics.RootCount)
	assert.InDelta(t, 83.5, r.Metrics.Score, 1e-12)
}

func TestBonesSingleRootDepth(t *testing.T) {
	r, err := AnalyzeBones(&skeleton.Snapshot{Bones: flatBones(1)}, score.Default())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Metrics.MaxDepth)
}

func TestBonesEmpty(t *testing.T) {
	r, err := AnalyzeBones(&skeleton.Snapshot{}, score.Default())
	require.NoError(t, err)
	assert.Equal(t, 0, r.Metrics.MaxDepth)
	assert.Equal(t, 100.0, r.Metrics.Score)
}

func TestBoneTreeOrder(t *testing.T) {
	s := &skeleton.Snapshot{Bones: []skeleton.Bone{
		{Name: "root", Parent: -1, Children: []int{2, 1}},
		{Name: "left", Parent: 0, X: -10, Y: 5},
		{Name: "right", Parent: 0, X: 10, Y: 5, Children: []int{3}},
		{Name: "hand", Parent: 2, X: 3},
	}}
	r, err := AnalyzeBones(s, score.Default())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Metrics.MaxDepth)
	assert.Equal(t, 2, r.Metrics.LeafCount)

	require.Len(t, r.Report.Tree, 1)
	root := r.Report.Tree[0]
	require.Len(t, root.Children, 2)
	assert.Equal(t, "right", root.Children[0].Label)
	assert.Equal(t, "left", root.Children[1].Label)
	assert.Equal(t, -10.0, root.Children[1].X)
	assert.Equal(t, "hand", root.Children[0].Children[0].Label)
}

func TestBonesCycle(t *testing.T) {
	s := &skeleton.Snapshot{Bones: []skeleton.Bone{
		{Name: "a", Parent: 1, Children: []int{1}},
		{Name: "b", Parent: 0, Children: []int{0}},
	}}
	_, err := AnalyzeBones(s, score.Default())
	require.Error(t, err)
	assert.Equal(t, InvalidHierarchy, CodeOf(err))
}

func TestBonesBadChildIndex(t *testing.T) {
	s := &skeleton.Snapshot{Bones: []skeleton.Bone{{Name: "a", Parent: -1, Children: []int{7}}}}
	_, err := AnalyzeBones(s, score.Default())
	assert.Equal(t, BoneIndexOutOfRange, CodeOf(err))
}

func TestBonesDepthMonotonic(t *testing.T) {
	prev := 101.0
	for n := 1; n <= 12; n++ {
		r, err := AnalyzeBones(&skeleton.Snapshot{Bones: chainBones(n)}, score.Default())
		require.NoError(t, err)
		assert.Equal(t, n, r.Metrics.MaxDepth)
		assert.Less(t, r.Metrics.Score, prev)
		prev = r.Metrics.Score
	}
}
