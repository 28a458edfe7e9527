package skeleton

// TimelineKind names the animated property of a PropertyTimeline.
type TimelineKind string

const (
	TimelineRotate     TimelineKind = "rotate"
	TimelineTranslate  TimelineKind = "translate"
	TimelineScale      TimelineKind = "scale"
	TimelineShear      TimelineKind = "shear"
	TimelineAttachment TimelineKind = "attachment"
	TimelineColor      TimelineKind = "color"
	TimelineDrawOrder  TimelineKind = "drawOrder"
	TimelineEvent      TimelineKind = "event"
	TimelineIK         TimelineKind = "ik"
	TimelineTransform  TimelineKind = "transform"
	TimelinePath       TimelineKind = "path"
	TimelinePhysics    TimelineKind = "physics"
	TimelineSequence   TimelineKind = "sequence"
	TimelineInherit    TimelineKind = "inherit"
)

// Timeline is one animated channel. Variants: *DeformTimeline and
// *PropertyTimeline.
type Timeline interface {
	FrameCount() int
	timeline()
}

// DeformTimeline carries per-frame vertex offsets for one slot attachment.
type DeformTimeline struct {
	SlotIndex  int
	Attachment Attachment
	Frames     [][]float64
}

// PropertyTimeline is any non-deform timeline. Target is the bone, slot or
// constraint index it drives, or -1 for skeleton-wide timelines.
type PropertyTimeline struct {
	Kind   TimelineKind
	Target int
	Frames int
}

func (t *DeformTimeline) FrameCount() int   { return len(t.Frames) }
func (t *PropertyTimeline) FrameCount() int { return t.Frames }

func (*DeformTimeline) timeline()   {}
func (*PropertyTimeline) timeline() {}
