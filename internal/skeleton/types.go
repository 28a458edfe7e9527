// Package skeleton holds the read-only Skeleton Snapshot consumed by the
// analyzers. All cross references (bone parent, slot bone, constraint bones)
// are indices into the snapshot's flat collections.
package skeleton

// Snapshot is one fully loaded skeleton. It is never mutated after loading.
type Snapshot struct {
	Name       string
	Bones      []Bone
	Slots      []Slot
	Skins      []Skin
	Animations []Animation

	IK        []IKConstraint
	Transform []TransformConstraint
	Path      []PathConstraint
	Physics   []PhysicsConstraint
}

// Bone holds setup-pose data for one bone in the hierarchy.
type Bone struct {
	Name     string
	Parent   int   // -1 for roots
	Children []int // declaration order
	X, Y     float64
	Rotation float64 // degrees
	ScaleX   float64
	ScaleY   float64
}

// Slot is a named attachment point on a bone.
type Slot struct {
	Name       string
	Bone       int
	Blend      BlendMode
	Attachment Attachment // nil when the slot shows nothing
}

// Skin is only needed by name.
type Skin struct {
	Name string
}

// Animation holds the timelines of one named animation.
type Animation struct {
	Name      string
	Duration  float64 // seconds
	Timelines []Timeline
}

// BoneName returns the bone name for an index, or "" when out of range.
func (s *Snapshot) BoneName(i int) string {
	if i < 0 || i >= len(s.Bones) {
		return ""
	}
	return s.Bones[i].Name
}

// SlotName returns the slot name for an index, or "" when out of range.
func (s *Snapshot) SlotName(i int) string {
	if i < 0 || i >= len(s.Slots) {
		return ""
	}
	return s.Slots[i].Name
}

// ConstraintCount returns the total number of constraints of all kinds.
func (s *Snapshot) ConstraintCount() int {
	return len(s.IK) + len(s.Transform) + len(s.Path) + len(s.Physics)
}
