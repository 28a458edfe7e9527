package analysis

import (
	"spineperf/internal/report"
	"spineperf/internal/score"
	"spineperf/internal/skeleton"
)

// BoneMetrics summarizes the bone hierarchy.
type BoneMetrics struct {
	TotalBones int     `json:"totalBones"`
	RootCount  int     `json:"rootCount"`
	LeafCount  int     `json:"leafCount"`
	MaxDepth   int     `json:"maxDepth"`
	Score      float64 `json:"score"`
}

// AnalyzeBones walks the bone forest from its roots. A lone root has depth 1.
func AnalyzeBones(s *skeleton.Snapshot, t score.Tuning) (Result[BoneMetrics], error) {
	m := BoneMetrics{TotalBones: len(s.Bones)}

	w := &boneWalker{s: s, visited: make([]bool, len(s.Bones))}
	var tree []report.TreeNode
	for _, root := range s.Roots() {
		node, depth, err := w.walk(root)
		if err != nil {
			return Result[BoneMetrics]{}, wrap("bones", err)
		}
		tree = append(tree, node)
		m.RootCount++
		if depth > m.MaxDepth {
			m.MaxDepth = depth
		}
	}
	if w.seen != len(s.Bones) {
		return Result[BoneMetrics]{}, wrap("bones", newError(InvalidHierarchy,
			"%d of %d bones are unreachable from a root", len(s.Bones)-w.seen, len(s.Bones)))
	}
	m.LeafCount = w.leaves

	m.Score = t.BoneScore(m.TotalBones, m.MaxDepth)

	meter := report.NewMeter("Bone Structure Score", m.Score, t)
	sec := report.Section{Heading: "Skeleton Structure", Meter: &meter}
	sec.Tables = append(sec.Tables, statsTable("Summary",
		"Total bones", itoa(m.TotalBones),
		"Root bones", itoa(m.RootCount),
		"Leaf bones", itoa(m.LeafCount),
		"Max depth", itoa(m.MaxDepth),
	))
	sec.Tree = tree
	if m.TotalBones == 0 {
		sec.Note("Skeleton has no bones.")
	}

	return Result[BoneMetrics]{Report: sec, Metrics: m}, nil
}

type boneWalker struct {
	s       *skeleton.Snapshot
	visited []bool
	seen    int
	leaves  int
}

// walk returns the subtree rooted at i and its depth.
func (w *boneWalker) walk(i int) (report.TreeNode, int, error) {
	if i < 0 || i >= len(w.s.Bones) {
		return report.TreeNode{}, 0, newError(BoneIndexOutOfRange, "child bone index %d out of range", i)
	}
	if w.visited[i] {
		return report.TreeNode{}, 0, newError(InvalidHierarchy, "bone %q is reachable twice", w.s.Bones[i].Name)
	}
	w.visited[i] = true
	w.seen++

	b := w.s.Bones[i]
	node := report.TreeNode{Label: b.Name, X: b.X, Y: b.Y}
	if len(b.Children) == 0 {
		w.leaves++
	}
	maxChild := 0
	for _, c := range b.Children {
		child, depth, err := w.walk(c)
		if err != nil {
			return report.TreeNode{}, 0, err
		}
		node.Children = append(node.Children, child)
		if depth > maxChild {
			maxChild = depth
		}
	}
	return node, maxChild + 1, nil
}
