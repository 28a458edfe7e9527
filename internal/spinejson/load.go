// Package spinejson loads Spine JSON skeleton files into skeleton snapshots.
package spinejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"spineperf/internal/skeleton"
)

// DefaultSkin is the skin whose attachments make up the setup pose.
const DefaultSkin = "default"

// Load reads a Spine JSON file. The snapshot is named after the file.
func Load(path string) (*skeleton.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spinejson: read %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("spinejson: parse %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes Spine JSON skeleton data.
func Parse(data []byte, name string) (*skeleton.Snapshot, error) {
	s, err := parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("spinejson: %w", err)
	}
	return s, nil
}

type builder struct {
	f     fileData
	s     *skeleton.Snapshot
	bones map[string]int
	slots map[string]int

	skins []skinData
	// skin -> slot index -> attachment key
	attachments map[string]map[int]map[string]skeleton.Attachment
	linked      []pendingLink
}

type pendingLink struct {
	skin string
	slot int
	att  *skeleton.LinkedMeshAttachment
	from string
}

func parse(data []byte, name string) (*skeleton.Snapshot, error) {
	b := &builder{
		s:           &skeleton.Snapshot{Name: name},
		bones:       make(map[string]int),
		slots:       make(map[string]int),
		attachments: make(map[string]map[int]map[string]skeleton.Attachment),
	}
	if err := json.Unmarshal(data, &b.f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	steps := []func() error{
		b.readBones,
		b.readSlots,
		b.readSkins,
		b.resolveLinkedMeshes,
		b.setupAttachments,
		b.readConstraints,
		b.readAnimations,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return b.s, nil
}

func (b *builder) bone(name, owner string) (int, error) {
	i, ok := b.bones[name]
	if !ok {
		return 0, fmt.Errorf("%s: unknown bone %q", owner, name)
	}
	return i, nil
}

func (b *builder) boneList(names []string, owner string) ([]int, error) {
	out := make([]int, 0, len(names))
	for _, n := range names {
		i, err := b.bone(n, owner)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

func (b *builder) slot(name, owner string) (int, error) {
	i, ok := b.slots[name]
	if !ok {
		return 0, fmt.Errorf("%s: unknown slot %q", owner, name)
	}
	return i, nil
}

func (b *builder) readBones() error {
	for i, bd := range b.f.Bones {
		if bd.Name == "" {
			return fmt.Errorf("bone %d has no name", i)
		}
		if _, dup := b.bones[bd.Name]; dup {
			return fmt.Errorf("duplicate bone %q", bd.Name)
		}
		bone := skeleton.Bone{
			Name:     bd.Name,
			Parent:   -1,
			X:        bd.X,
			Y:        bd.Y,
			Rotation: bd.Rotation,
			ScaleX:   or(bd.ScaleX, 1),
			ScaleY:   or(bd.ScaleY, 1),
		}
		if bd.Parent != "" {
			// parents are declared before their children
			p, err := b.bone(bd.Parent, "bone "+bd.Name)
			if err != nil {
				return err
			}
			bone.Parent = p
			b.s.Bones[p].Children = append(b.s.Bones[p].Children, i)
		}
		b.bones[bd.Name] = i
		b.s.Bones = append(b.s.Bones, bone)
	}
	return nil
}

func (b *builder) readSlots() error {
	for i, sd := range b.f.Slots {
		if _, dup := b.slots[sd.Name]; dup {
			return fmt.Errorf("duplicate slot %q", sd.Name)
		}
		bone, err := b.bone(sd.Bone, "slot "+sd.Name)
		if err != nil {
			return err
		}
		blend, err := skeleton.ParseBlendMode(sd.Blend)
		if err != nil {
			return fmt.Errorf("slot %s: %w", sd.Name, err)
		}
		b.slots[sd.Name] = i
		b.s.Slots = append(b.s.Slots, skeleton.Slot{Name: sd.Name, Bone: bone, Blend: blend})
	}
	return nil
}

// readSkins accepts the array form and the pre-3.8 object form.
func (b *builder) readSkins() error {
	raw := bytes.TrimSpace(b.f.Skins)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '[':
		if err := json.Unmarshal(raw, &b.skins); err != nil {
			return fmt.Errorf("skins: %w", err)
		}
	default:
		var legacy object
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return fmt.Errorf("skins: %w", err)
		}
		for _, m := range legacy {
			sk := skinData{Name: m.Key}
			if err := json.Unmarshal(m.Value, &sk.Attachments); err != nil {
				return fmt.Errorf("skin %s: %w", m.Key, err)
			}
			b.skins = append(b.skins, sk)
		}
	}

	for _, sk := range b.skins {
		b.s.Skins = append(b.s.Skins, skeleton.Skin{Name: sk.Name})
		bySlot := make(map[int]map[string]skeleton.Attachment)
		b.attachments[sk.Name] = bySlot
		for _, sm := range sk.Attachments {
			si, err := b.slot(sm.Key, "skin "+sk.Name)
			if err != nil {
				return err
			}
			var atts object
			if err := json.Unmarshal(sm.Value, &atts); err != nil {
				return fmt.Errorf("skin %s slot %s: %w", sk.Name, sm.Key, err)
			}
			bySlot[si] = make(map[string]skeleton.Attachment, len(atts))
			err = each(atts, func(k string, ad attachmentData) error {
				a, err := b.attachment(sk.Name, si, k, ad)
				if err != nil {
					return fmt.Errorf("skin %s slot %s attachment %s: %w", sk.Name, sm.Key, k, err)
				}
				bySlot[si][k] = a
				return nil
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// setupAttachments binds each slot's setup attachment from the default skin.
// A name the default skin does not define leaves the slot empty.
func (b *builder) setupAttachments() error {
	def := b.attachments[DefaultSkin]
	for i, sd := range b.f.Slots {
		if sd.Attachment == "" {
			continue
		}
		if a, ok := def[i][sd.Attachment]; ok {
			b.s.Slots[i].Attachment = a
		}
	}
	return nil
}

func (b *builder) defaultSkin() *skinData {
	for i := range b.skins {
		if b.skins[i].Name == DefaultSkin {
			return &b.skins[i]
		}
	}
	return nil
}

// active reports whether a constraint runs in the setup pose: either it is
// not skin-required, or the default skin lists it.
func active(skinRequired bool, name string, listed []string) bool {
	return !skinRequired || slices.Contains(listed, name)
}

func (b *builder) readConstraints() error {
	var def skinData
	if d := b.defaultSkin(); d != nil {
		def = *d
	}

	for _, c := range b.f.IK {
		owner := "ik constraint " + c.Name
		bones, err := b.boneList(c.Bones, owner)
		if err != nil {
			return err
		}
		target, err := b.bone(c.Target, owner)
		if err != nil {
			return err
		}
		bend := true
		if c.BendPositive != nil {
			bend = *c.BendPositive
		}
		b.s.IK = append(b.s.IK, skeleton.IKConstraint{
			Name:         c.Name,
			Bones:        bones,
			Target:       target,
			Mix:          or(c.Mix, 1),
			Softness:     c.Softness,
			BendPositive: bend,
			Compress:     c.Compress,
			Stretch:      c.Stretch,
			Active:       active(c.Skin, c.Name, def.IK),
		})
	}

	for _, c := range b.f.Transform {
		owner := "transform constraint " + c.Name
		bones, err := b.boneList(c.Bones, owner)
		if err != nil {
			return err
		}
		target, err := b.bone(c.Target, owner)
		if err != nil {
			return err
		}
		mixX := or(first(c.MixX, c.TranslateMix), 1)
		mixScaleX := or(first(c.MixScaleX, c.ScaleMix), 1)
		b.s.Transform = append(b.s.Transform, skeleton.TransformConstraint{
			Name:      c.Name,
			Bones:     bones,
			Target:    target,
			MixRotate: or(first(c.MixRotate, c.RotateMix), 1),
			MixX:      mixX,
			MixY:      or(first(c.MixY, c.TranslateMix), mixX),
			MixScaleX: mixScaleX,
			MixScaleY: or(first(c.MixScaleY, c.ScaleMix), mixScaleX),
			MixShearY: or(first(c.MixShearY, c.ShearMix), 1),
			Local:     c.Local,
			Relative:  c.Relative,
			Active:    active(c.Skin, c.Name, def.Transform),
		})
	}

	for _, c := range b.f.Path {
		owner := "path constraint " + c.Name
		bones, err := b.boneList(c.Bones, owner)
		if err != nil {
			return err
		}
		target, err := b.slot(c.Target, owner)
		if err != nil {
			return err
		}
		rotate, err := parseRotateMode(c.RotateMode)
		if err != nil {
			return fmt.Errorf("%s: %w", owner, err)
		}
		spacing, err := parseSpacingMode(c.SpacingMode)
		if err != nil {
			return fmt.Errorf("%s: %w", owner, err)
		}
		samples := 0
		if p, ok := b.s.Slots[target].Attachment.(*skeleton.PathAttachment); ok {
			samples = p.WorldVerticesLength / 2
		}
		mixX := or(first(c.MixX, c.TranslateMix), 1)
		b.s.Path = append(b.s.Path, skeleton.PathConstraint{
			Name:         c.Name,
			Bones:        bones,
			Target:       target,
			RotateMode:   rotate,
			SpacingMode:  spacing,
			MixRotate:    or(first(c.MixRotate, c.RotateMix), 1),
			MixX:         mixX,
			MixY:         or(first(c.MixY, c.TranslateMix), mixX),
			Position:     c.Position,
			Spacing:      c.Spacing,
			WorldSamples: samples,
			Active:       active(c.Skin, c.Name, def.Path),
		})
	}

	for _, c := range b.f.Physics {
		bone, err := b.bone(c.Bone, "physics constraint "+c.Name)
		if err != nil {
			return err
		}
		b.s.Physics = append(b.s.Physics, skeleton.PhysicsConstraint{
			Name:     c.Name,
			Bone:     bone,
			X:        c.X,
			Y:        c.Y,
			Rotate:   c.Rotate,
			ScaleX:   c.ScaleX,
			ShearX:   c.ShearX,
			Inertia:  or(c.Inertia, 0.5),
			Strength: or(c.Strength, 100),
			Damping:  or(c.Damping, 0.85),
			Mass:     or(c.Mass, 1),
			Wind:     c.Wind,
			Gravity:  c.Gravity,
			Mix:      or(c.Mix, 1),
			Active:   active(c.Skin, c.Name, def.Physics),
		})
	}
	return nil
}

func parseRotateMode(s string) (skeleton.RotateMode, error) {
	switch strings.ToLower(s) {
	case "", "tangent":
		return skeleton.RotateTangent, nil
	case "chain":
		return skeleton.RotateChain, nil
	case "chainscale":
		return skeleton.RotateChainScale, nil
	}
	return 0, fmt.Errorf("unknown rotate mode %q", s)
}

func parseSpacingMode(s string) (skeleton.SpacingMode, error) {
	switch strings.ToLower(s) {
	case "", "length":
		return skeleton.SpacingLength, nil
	case "fixed":
		return skeleton.SpacingFixed, nil
	case "percent":
		return skeleton.SpacingPercent, nil
	case "proportional":
		return skeleton.SpacingProportional, nil
	}
	return 0, fmt.Errorf("unknown spacing mode %q", s)
}
