package analysis

import (
	"math"
	"strings"

	"spineperf/internal/report"
	"spineperf/internal/score"
	"spineperf/internal/skeleton"
)

// IKInfo is one IK constraint row.
type IKInfo struct {
	Name         string  `json:"name"`
	Target       string  `json:"target"`
	Bones        string  `json:"bones"`
	ChainLength  int     `json:"chainLength"`
	Mix          float64 `json:"mix"`
	BendPositive bool    `json:"bendPositive"`
	Active       bool    `json:"active"`
	Complex      bool    `json:"complex"`
}

// TransformInfo is one transform constraint row.
type TransformInfo struct {
	Name       string `json:"name"`
	Target     string `json:"target"`
	BoneCount  int    `json:"boneCount"`
	Properties int    `json:"properties"`
	Active     bool   `json:"active"`
	Complex    bool   `json:"complex"`
}

// PathInfo is one path constraint row.
type PathInfo struct {
	Name           string `json:"name"`
	Target         string `json:"target"`
	BoneCount      int    `json:"boneCount"`
	RotateMode     string `json:"rotateMode"`
	SpacingMode    string `json:"spacingMode"`
	WorldSamples   int    `json:"worldSamples"`
	ModeComplexity int    `json:"modeComplexity"`
	Active         bool   `json:"active"`
	Complex        bool   `json:"complex"`
}

// PhysicsInfo is one physics constraint row.
type PhysicsInfo struct {
	Name       string  `json:"name"`
	Bone       string  `json:"bone"`
	Properties int     `json:"properties"`
	Strength   float64 `json:"strength"`
	Damping    float64 `json:"damping"`
	Wind       float64 `json:"wind"`
	Gravity    float64 `json:"gravity"`
	Complexity float64 `json:"complexity"`
	Active     bool    `json:"active"`
	Complex    bool    `json:"complex"`
}

// KindStats are the statistics shared by every constraint kind.
type KindStats struct {
	Count       int     `json:"count"`
	ActiveCount int     `json:"activeCount"`
	TotalBones  int     `json:"totalBones"`
	Impact      float64 `json:"impact"`
}

// ConstraintMetrics summarizes all four constraint kinds. Inactive
// constraints are counted in every statistic and impact.
type ConstraintMetrics struct {
	IK        KindStats `json:"ik"`
	Transform KindStats `json:"transform"`
	Path      KindStats `json:"path"`
	Physics   KindStats `json:"physics"`

	MaxIKChainLength      int     `json:"maxIkChainLength"`
	TransformPropertySum  int     `json:"transformPropertySum"`
	PathModeComplexitySum int     `json:"pathModeComplexitySum"`
	PhysicsComplexitySum  float64 `json:"physicsComplexitySum"`

	IKRows        []IKInfo        `json:"ikRows"`
	TransformRows []TransformInfo `json:"transformRows"`
	PathRows      []PathInfo      `json:"pathRows"`
	PhysicsRows   []PhysicsInfo   `json:"physicsRows"`

	TotalConstraints int                     `json:"totalConstraints"`
	Impacts          score.ConstraintImpacts `json:"impacts"`
	WeightedImpact   float64                 `json:"weightedImpact"`
	Score            float64                 `json:"score"`
}

// capImpact clamps an impact to [0, 100]. Negative strength or mass in
// the source data would otherwise produce a negative impact.
func capImpact(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func log2p1(n float64) float64 {
	return math.Log2(n + 1)
}

// IKImpact estimates the cost of the IK constraints.
func IKImpact(count, totalBones, maxChainLength int) float64 {
	v := log2p1(float64(count))*20 + log2p1(float64(totalBones))*10
	if maxChainLength > 2 {
		v += math.Pow(float64(maxChainLength), 1.3) * 2
	}
	return capImpact(v)
}

// TransformImpact estimates the cost of the transform constraints.
func TransformImpact(count, totalBones, propertySum int) float64 {
	return capImpact(log2p1(float64(count))*15 + log2p1(float64(totalBones))*8 + float64(propertySum)*5)
}

// PathImpact estimates the cost of the path constraints.
func PathImpact(count, totalBones, modeComplexitySum int) float64 {
	return capImpact(log2p1(float64(count))*20 + log2p1(float64(totalBones))*10 + float64(modeComplexitySum)*7)
}

// PhysicsImpact estimates the cost of the physics constraints.
func PhysicsImpact(count int, complexitySum float64) float64 {
	return capImpact(log2p1(float64(count))*30 + complexitySum*5)
}

// PathModeComplexity scores rotate mode, spacing mode and sample count.
func PathModeComplexity(c *skeleton.PathConstraint) int {
	n := 0
	switch c.RotateMode {
	case skeleton.RotateTangent:
		n++
	case skeleton.RotateChain:
		n += 2
	case skeleton.RotateChainScale:
		n += 3
	}
	if c.SpacingMode == skeleton.SpacingProportional {
		n += 2
	} else {
		n++
	}
	if c.WorldSamples > 20 {
		n += 2
	}
	return n
}

// PhysicsComplexity is affectedProperties × (1 + iterationFactor + forceComplexity).
func PhysicsComplexity(c *skeleton.PhysicsConstraint) float64 {
	iteration := math.Max(1, 3-c.Damping) * c.Strength / 50
	force := 0.0
	if c.Wind != 0 {
		force++
	}
	if c.Gravity != 0 {
		force++
	}
	return float64(c.AffectedProperties()) * (1 + iteration + force)
}

// AnalyzeConstraints computes one impact per constraint kind and combines
// them into the constraint score.
func AnalyzeConstraints(s *skeleton.Snapshot, t score.Tuning) (Result[ConstraintMetrics], error) {
	var m ConstraintMetrics

	for _, c := range s.Constraints() {
		var err error
		switch c := c.(type) {
		case *skeleton.IKConstraint:
			err = m.addIK(s, c)
		case *skeleton.TransformConstraint:
			err = m.addTransform(s, c)
		case *skeleton.PathConstraint:
			err = m.addPath(s, c)
		case *skeleton.PhysicsConstraint:
			err = m.addPhysics(s, c)
		default:
			err = newError(UnknownVariant, "constraint %q has unknown type %T", c.ConstraintName(), c)
		}
		if err != nil {
			return Result[ConstraintMetrics]{}, wrap("constraints", err)
		}
	}

	m.TotalConstraints = m.IK.Count + m.Transform.Count + m.Path.Count + m.Physics.Count
	m.IK.Impact = IKImpact(m.IK.Count, m.IK.TotalBones, m.MaxIKChainLength)
	m.Transform.Impact = TransformImpact(m.Transform.Count, m.Transform.TotalBones, m.TransformPropertySum)
	m.Path.Impact = PathImpact(m.Path.Count, m.Path.TotalBones, m.PathModeComplexitySum)
	m.Physics.Impact = PhysicsImpact(m.Physics.Count, m.PhysicsComplexitySum)
	m.Impacts = score.ConstraintImpacts{
		IK:        m.IK.Impact,
		Transform: m.Transform.Impact,
		Path:      m.Path.Impact,
		Physics:   m.Physics.Impact,
	}
	m.WeightedImpact = t.WeightedImpact(m.Impacts)
	m.Score = t.ConstraintScore(m.Impacts)

	return Result[ConstraintMetrics]{Report: constraintSection(m, t), Metrics: m}, nil
}

func (k *KindStats) add(active bool, bones int) {
	k.Count++
	k.TotalBones += bones
	if active {
		k.ActiveCount++
	}
}

func (m *ConstraintMetrics) addIK(s *skeleton.Snapshot, c *skeleton.IKConstraint) error {
	owner := "ik constraint " + c.Name
	target, err := boneName(s, c.Target, owner)
	if err != nil {
		return err
	}
	bones, err := boneNames(s, c.Bones, owner)
	if err != nil {
		return err
	}
	m.IK.add(c.IsActive(), len(c.Bones))
	if len(c.Bones) > m.MaxIKChainLength {
		m.MaxIKChainLength = len(c.Bones)
	}
	m.IKRows = append(m.IKRows, IKInfo{
		Name:         c.Name,
		Target:       target,
		Bones:        bones,
		ChainLength:  len(c.Bones),
		Mix:          c.Mix,
		BendPositive: c.BendPositive,
		Active:       c.IsActive(),
		Complex:      len(c.Bones) > 2,
	})
	return nil
}

func (m *ConstraintMetrics) addTransform(s *skeleton.Snapshot, c *skeleton.TransformConstraint) error {
	target, err := boneName(s, c.Target, "transform constraint "+c.Name)
	if err != nil {
		return err
	}
	if _, err := boneNames(s, c.Bones, "transform constraint "+c.Name); err != nil {
		return err
	}
	props := c.MixedProperties()
	m.Transform.add(c.IsActive(), len(c.Bones))
	m.TransformPropertySum += props
	m.TransformRows = append(m.TransformRows, TransformInfo{
		Name:       c.Name,
		Target:     target,
		BoneCount:  len(c.Bones),
		Properties: props,
		Active:     c.IsActive(),
		Complex:    props > 3,
	})
	return nil
}

func (m *ConstraintMetrics) addPath(s *skeleton.Snapshot, c *skeleton.PathConstraint) error {
	if c.Target < 0 || c.Target >= len(s.Slots) {
		return newError(SlotIndexOutOfRange, "path constraint %q targets slot index %d, skeleton has %d slots", c.Name, c.Target, len(s.Slots))
	}
	if _, err := boneNames(s, c.Bones, "path constraint "+c.Name); err != nil {
		return err
	}
	mode := PathModeComplexity(c)
	m.Path.add(c.IsActive(), len(c.Bones))
	m.PathModeComplexitySum += mode
	m.PathRows = append(m.PathRows, PathInfo{
		Name:           c.Name,
		Target:         s.Slots[c.Target].Name,
		BoneCount:      len(c.Bones),
		RotateMode:     c.RotateMode.String(),
		SpacingMode:    c.SpacingMode.String(),
		WorldSamples:   c.WorldSamples,
		ModeComplexity: mode,
		Active:         c.IsActive(),
		Complex:        c.RotateMode == skeleton.RotateChainScale || len(c.Bones) > 3,
	})
	return nil
}

func (m *ConstraintMetrics) addPhysics(s *skeleton.Snapshot, c *skeleton.PhysicsConstraint) error {
	bone, err := boneName(s, c.Bone, "physics constraint "+c.Name)
	if err != nil {
		return err
	}
	cx := PhysicsComplexity(c)
	props := c.AffectedProperties()
	m.Physics.add(c.IsActive(), 1)
	m.PhysicsComplexitySum += cx
	m.PhysicsRows = append(m.PhysicsRows, PhysicsInfo{
		Name:       c.Name,
		Bone:       bone,
		Properties: props,
		Strength:   c.Strength,
		Damping:    c.Damping,
		Wind:       c.Wind,
		Gravity:    c.Gravity,
		Complexity: cx,
		Active:     c.IsActive(),
		Complex:    props > 2,
	})
	return nil
}

func complexSeverity(flagged bool) report.Severity {
	if flagged {
		return report.SeverityHigh
	}
	return report.SeverityNone
}

func constraintSection(m ConstraintMetrics, t score.Tuning) report.Section {
	meter := report.NewMeter("Constraint Score", m.Score, t)
	sec := report.Section{Heading: "Constraint Analysis", Meter: &meter}

	impacts := report.Table{Caption: "Constraint Impact", Columns: []string{"Kind", "Count", "Active", "Bones", "Impact", "Weight"}}
	w := t.ConstraintWeights
	for _, k := range []struct {
		name   string
		stats  KindStats
		weight float64
	}{
		{"IK", m.IK, w.IK},
		{"Transform", m.Transform, w.Transform},
		{"Path", m.Path, w.Path},
		{"Physics", m.Physics, w.Physics},
	} {
		sev := report.SeverityNone
		if k.stats.Impact > 50 {
			sev = report.SeverityHigh
		} else if k.stats.Impact > 25 {
			sev = report.SeverityMedium
		}
		impacts.AddRow(sev, k.name, itoa(k.stats.Count), itoa(k.stats.ActiveCount), itoa(k.stats.TotalBones),
			f1(k.stats.Impact), f1(k.weight*100)+"%")
	}
	sec.Tables = append(sec.Tables, impacts)

	if m.TotalConstraints == 0 {
		sec.Note("No constraints found.")
		return sec
	}

	if len(m.IKRows) > 0 {
		tbl := report.Table{Caption: "IK Constraints", Columns: []string{"Name", "Target", "Bones", "Chain Length", "Mix", "Bend", "Active"}}
		for _, r := range m.IKRows {
			bend := "Negative"
			if r.BendPositive {
				bend = "Positive"
			}
			tbl.AddRow(complexSeverity(r.Complex), r.Name, r.Target, r.Bones, itoa(r.ChainLength), f2(r.Mix), bend, yesNo(r.Active))
		}
		sec.Tables = append(sec.Tables, tbl)
	}
	if len(m.TransformRows) > 0 {
		tbl := report.Table{Caption: "Transform Constraints", Columns: []string{"Name", "Target", "Bones", "Properties", "Active"}}
		for _, r := range m.TransformRows {
			tbl.AddRow(complexSeverity(r.Complex), r.Name, r.Target, itoa(r.BoneCount), itoa(r.Properties), yesNo(r.Active))
		}
		sec.Tables = append(sec.Tables, tbl)
	}
	if len(m.PathRows) > 0 {
		tbl := report.Table{Caption: "Path Constraints", Columns: []string{"Name", "Target Slot", "Bones", "Rotate Mode", "Spacing Mode", "Samples", "Active"}}
		for _, r := range m.PathRows {
			tbl.AddRow(complexSeverity(r.Complex), r.Name, r.Target, itoa(r.BoneCount), r.RotateMode, r.SpacingMode, itoa(r.WorldSamples), yesNo(r.Active))
		}
		sec.Tables = append(sec.Tables, tbl)
	}
	if len(m.PhysicsRows) > 0 {
		tbl := report.Table{Caption: "Physics Constraints", Columns: []string{"Name", "Bone", "Properties", "Strength", "Damping", "Forces", "Active"}}
		for _, r := range m.PhysicsRows {
			var forces []string
			if r.Wind != 0 {
				forces = append(forces, "wind")
			}
			if r.Gravity != 0 {
				forces = append(forces, "gravity")
			}
			f := "none"
			if len(forces) > 0 {
				f = strings.Join(forces, ", ")
			}
			tbl.AddRow(complexSeverity(r.Complex), r.Name, r.Bone, itoa(r.Properties), f1(r.Strength), f2(r.Damping), f, yesNo(r.Active))
		}
		sec.Tables = append(sec.Tables, tbl)
	}
	sec.Note("Inactive constraints are included in every count and impact.")
	return sec
}
