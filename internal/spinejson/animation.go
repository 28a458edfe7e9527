package spinejson

import (
	"encoding/json"
	"fmt"
	"strings"

	"spineperf/internal/skeleton"
)

var boneTimelines = map[string]skeleton.TimelineKind{
	"rotate":     skeleton.TimelineRotate,
	"translate":  skeleton.TimelineTranslate,
	"translatex": skeleton.TimelineTranslate,
	"translatey": skeleton.TimelineTranslate,
	"scale":      skeleton.TimelineScale,
	"scalex":     skeleton.TimelineScale,
	"scaley":     skeleton.TimelineScale,
	"shear":      skeleton.TimelineShear,
	"shearx":     skeleton.TimelineShear,
	"sheary":     skeleton.TimelineShear,
	"inherit":    skeleton.TimelineInherit,
}

var slotTimelines = map[string]skeleton.TimelineKind{
	"attachment": skeleton.TimelineAttachment,
	"rgba":       skeleton.TimelineColor,
	"rgb":        skeleton.TimelineColor,
	"alpha":      skeleton.TimelineColor,
	"rgba2":      skeleton.TimelineColor,
	"rgb2":       skeleton.TimelineColor,
	"color":      skeleton.TimelineColor,
	"twocolor":   skeleton.TimelineColor,
}

type animBuilder struct {
	b    *builder
	anim skeleton.Animation
}

func (b *builder) readAnimations() error {
	for _, m := range b.f.Animations {
		var ad animationData
		if err := json.Unmarshal(m.Value, &ad); err != nil {
			return fmt.Errorf("animation %s: %w", m.Key, err)
		}
		ab := &animBuilder{b: b, anim: skeleton.Animation{Name: m.Key}}
		if err := ab.read(ad); err != nil {
			return fmt.Errorf("animation %s: %w", m.Key, err)
		}
		b.s.Animations = append(b.s.Animations, ab.anim)
	}
	return nil
}

func (a *animBuilder) add(tl skeleton.Timeline, times ...float64) {
	a.anim.Timelines = append(a.anim.Timelines, tl)
	for _, t := range times {
		if t > a.anim.Duration {
			a.anim.Duration = t
		}
	}
}

func (a *animBuilder) property(kind skeleton.TimelineKind, target int, keys []key) {
	times := make([]float64, len(keys))
	for i, k := range keys {
		times[i] = k.Time
	}
	a.add(&skeleton.PropertyTimeline{Kind: kind, Target: target, Frames: len(keys)}, times...)
}

// read follows the Spine runtime's timeline order.
func (a *animBuilder) read(ad animationData) error {
	b := a.b

	for _, sm := range ad.Slots {
		si, err := b.slot(sm.Key, "slots timeline")
		if err != nil {
			return err
		}
		if err := a.typed(sm, slotTimelines, si, "slot"); err != nil {
			return err
		}
	}

	for _, bm := range ad.Bones {
		bi, err := b.bone(bm.Key, "bones timeline")
		if err != nil {
			return err
		}
		if err := a.typed(bm, boneTimelines, bi, "bone"); err != nil {
			return err
		}
	}

	err := each(ad.IK, func(name string, keys []key) error {
		i := indexOf(b.s.IK, name, func(c skeleton.IKConstraint) string { return c.Name })
		if i < 0 {
			return fmt.Errorf("ik timeline: unknown ik constraint %q", name)
		}
		a.property(skeleton.TimelineIK, i, keys)
		return nil
	})
	if err != nil {
		return err
	}

	err = each(ad.Transform, func(name string, keys []key) error {
		i := indexOf(b.s.Transform, name, func(c skeleton.TransformConstraint) string { return c.Name })
		if i < 0 {
			return fmt.Errorf("transform timeline: unknown transform constraint %q", name)
		}
		a.property(skeleton.TimelineTransform, i, keys)
		return nil
	})
	if err != nil {
		return err
	}

	err = each(ad.Path, func(name string, props object) error {
		i := indexOf(b.s.Path, name, func(c skeleton.PathConstraint) string { return c.Name })
		if i < 0 {
			return fmt.Errorf("path timeline: unknown path constraint %q", name)
		}
		return each(props, func(_ string, keys []key) error {
			a.property(skeleton.TimelinePath, i, keys)
			return nil
		})
	})
	if err != nil {
		return err
	}

	err = each(ad.Physics, func(name string, props object) error {
		i := -1
		if name != "" {
			i = indexOf(b.s.Physics, name, func(c skeleton.PhysicsConstraint) string { return c.Name })
			if i < 0 {
				return fmt.Errorf("physics timeline: unknown physics constraint %q", name)
			}
		}
		return each(props, func(_ string, keys []key) error {
			a.property(skeleton.TimelinePhysics, i, keys)
			return nil
		})
	})
	if err != nil {
		return err
	}

	if err := a.attachmentTimelines(ad.Attachments); err != nil {
		return err
	}
	if err := a.legacyDeform(ad.Deform); err != nil {
		return err
	}

	if ad.DrawOrder != nil {
		a.property(skeleton.TimelineDrawOrder, -1, ad.DrawOrder)
	}
	if ad.Events != nil {
		a.property(skeleton.TimelineEvent, -1, ad.Events)
	}
	return nil
}

// typed reads an object of named timelines for one bone or slot.
func (a *animBuilder) typed(m member, kinds map[string]skeleton.TimelineKind, target int, what string) error {
	var timelines object
	if err := json.Unmarshal(m.Value, &timelines); err != nil {
		return fmt.Errorf("%s %s: %w", what, m.Key, err)
	}
	return each(timelines, func(name string, keys []key) error {
		kind, ok := kinds[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("%s %s: unknown timeline type %q", what, m.Key, name)
		}
		a.property(kind, target, keys)
		return nil
	})
}

// attachmentTimelines reads the skin -> slot -> attachment -> {deform,
// sequence} form used since Spine 4.1.
func (a *animBuilder) attachmentTimelines(o object) error {
	return a.perAttachment(o, func(slot int, att skeleton.Attachment, raw json.RawMessage) error {
		var kinds struct {
			Deform   []deformKey `json:"deform"`
			Sequence []key       `json:"sequence"`
		}
		if err := json.Unmarshal(raw, &kinds); err != nil {
			return err
		}
		if kinds.Deform != nil {
			a.deform(slot, att, kinds.Deform)
		}
		if kinds.Sequence != nil {
			a.property(skeleton.TimelineSequence, slot, kinds.Sequence)
		}
		return nil
	})
}

// legacyDeform reads the skin -> slot -> attachment -> keys form.
func (a *animBuilder) legacyDeform(o object) error {
	return a.perAttachment(o, func(slot int, att skeleton.Attachment, raw json.RawMessage) error {
		var keys []deformKey
		if err := json.Unmarshal(raw, &keys); err != nil {
			return err
		}
		a.deform(slot, att, keys)
		return nil
	})
}

func (a *animBuilder) perAttachment(o object, fn func(slot int, att skeleton.Attachment, raw json.RawMessage) error) error {
	b := a.b
	for _, skin := range o {
		bySlot, ok := b.attachments[skin.Key]
		if !ok {
			return fmt.Errorf("deform: unknown skin %q", skin.Key)
		}
		var slots object
		if err := json.Unmarshal(skin.Value, &slots); err != nil {
			return fmt.Errorf("deform skin %s: %w", skin.Key, err)
		}
		for _, sm := range slots {
			si, err := b.slot(sm.Key, "deform skin "+skin.Key)
			if err != nil {
				return err
			}
			var atts object
			if err := json.Unmarshal(sm.Value, &atts); err != nil {
				return fmt.Errorf("deform slot %s: %w", sm.Key, err)
			}
			for _, am := range atts {
				att, ok := bySlot[si][am.Key]
				if !ok {
					return fmt.Errorf("deform: attachment %q not found in skin %s slot %s", am.Key, skin.Key, sm.Key)
				}
				if err := fn(si, att, am.Value); err != nil {
					return fmt.Errorf("deform %s/%s/%s: %w", skin.Key, sm.Key, am.Key, err)
				}
			}
		}
	}
	return nil
}

func (a *animBuilder) deform(slot int, att skeleton.Attachment, keys []deformKey) {
	frames := make([][]float64, len(keys))
	times := make([]float64, len(keys))
	for i, k := range keys {
		frames[i] = k.Vertices
		times[i] = k.Time
	}
	a.add(&skeleton.DeformTimeline{SlotIndex: slot, Attachment: att, Frames: frames}, times...)
}

func indexOf[T any](items []T, name string, nameOf func(T) string) int {
	for i, it := range items {
		if nameOf(it) == name {
			return i
		}
	}
	return -1
}
