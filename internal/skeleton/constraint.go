package skeleton

// RotateMode controls how a path constraint rotates its bones.
type RotateMode int

const (
	RotateTangent RotateMode = iota
	RotateChain
	RotateChainScale
)

func (m RotateMode) String() string {
	switch m {
	case RotateChain:
		return "Chain"
	case RotateChainScale:
		return "ChainScale"
	}
	return "Tangent"
}

// SpacingMode controls how a path constraint spaces its bones.
type SpacingMode int

const (
	SpacingLength SpacingMode = iota
	SpacingFixed
	SpacingPercent
	SpacingProportional
)

func (m SpacingMode) String() string {
	switch m {
	case SpacingFixed:
		return "Fixed"
	case SpacingPercent:
		return "Percent"
	case SpacingProportional:
		return "Proportional"
	}
	return "Length"
}

// Constraint is implemented by the four constraint kinds only.
type Constraint interface {
	ConstraintName() string
	AffectedBones() []int
	IsActive() bool
	constraint()
}

type IKConstraint struct {
	Name         string
	Bones        []int
	Target       int
	Mix          float64
	Softness     float64
	BendPositive bool
	Compress     bool
	Stretch      bool
	Active       bool
}

type TransformConstraint struct {
	Name      string
	Bones     []int
	Target    int
	MixRotate float64
	MixX      float64
	MixY      float64
	MixScaleX float64
	MixScaleY float64
	MixShearY float64
	Local     bool
	Relative  bool
	Active    bool
}

type PathConstraint struct {
	Name         string
	Bones        []int
	Target       int // slot index
	RotateMode   RotateMode
	SpacingMode  SpacingMode
	MixRotate    float64
	MixX         float64
	MixY         float64
	Position     float64
	Spacing      float64
	WorldSamples int
	Active       bool
}

// PhysicsConstraint simulates one bone. The property fields are mix
// amounts; a value > 0 means the property is simulated.
type PhysicsConstraint struct {
	Name     string
	Bone     int
	X        float64
	Y        float64
	Rotate   float64
	ScaleX   float64
	ShearX   float64
	Inertia  float64
	Strength float64
	Damping  float64
	Mass     float64
	Wind     float64
	Gravity  float64
	Mix      float64
	Active   bool
}

func (c *IKConstraint) ConstraintName() string        { return c.Name }
func (c *TransformConstraint) ConstraintName() string { return c.Name }
func (c *PathConstraint) ConstraintName() string      { return c.Name }
func (c *PhysicsConstraint) ConstraintName() string   { return c.Name }

func (c *IKConstraint) AffectedBones() []int        { return c.Bones }
func (c *TransformConstraint) AffectedBones() []int { return c.Bones }
func (c *PathConstraint) AffectedBones() []int      { return c.Bones }
func (c *PhysicsConstraint) AffectedBones() []int   { return []int{c.Bone} }

func (c *IKConstraint) IsActive() bool        { return c.Active }
func (c *TransformConstraint) IsActive() bool { return c.Active }
func (c *PathConstraint) IsActive() bool      { return c.Active }
func (c *PhysicsConstraint) IsActive() bool   { return c.Active }

func (*IKConstraint) constraint()        {}
func (*TransformConstraint) constraint() {}
func (*PathConstraint) constraint()      {}
func (*PhysicsConstraint) constraint()   {}

// AffectedProperties counts the simulated properties (x, y, rotate,
// scaleX, shearX).
func (c *PhysicsConstraint) AffectedProperties() int {
	n := 0
	for _, v := range []float64{c.X, c.Y, c.Rotate, c.ScaleX, c.ShearX} {
		if v > 0 {
			n++
		}
	}
	return n
}

// MixedProperties counts the mix ratios (rotate, x, y, scaleX, scaleY,
// shearY) that are > 0.
func (c *TransformConstraint) MixedProperties() int {
	n := 0
	for _, v := range []float64{c.MixRotate, c.MixX, c.MixY, c.MixScaleX, c.MixScaleY, c.MixShearY} {
		if v > 0 {
			n++
		}
	}
	return n
}

// Constraints returns every constraint of the snapshot, IK first, then
// transform, path and physics, each in declaration order.
func (s *Snapshot) Constraints() []Constraint {
	out := make([]Constraint, 0, s.ConstraintCount())
	for i := range s.IK {
		out = append(out, &s.IK[i])
	}
	for i := range s.Transform {
		out = append(out, &s.Transform[i])
	}
	for i := range s.Path {
		out = append(out, &s.Path[i])
	}
	for i := range s.Physics {
		out = append(out, &s.Physics[i])
	}
	return out
}
