package analysis

import (
	"fmt"

	"spineperf/internal/skeleton"
)

// flatBones returns n root bones.
func flatBones(n int) []skeleton.Bone {
	bones := make([]skeleton.Bone, n)
	for i := range bones {
		bones[i] = skeleton.Bone{Name: fmt.Sprintf("bone%d", i), Parent: -1, ScaleX: 1, ScaleY: 1}
	}
	return bones
}

// chainBones returns a single chain of n bones, each the child of the previous.
func chainBones(n int) []skeleton.Bone {
	bones := make([]skeleton.Bone, n)
	for i := range bones {
		bones[i] = skeleton.Bone{Name: fmt.Sprintf("chain%d", i), Parent: i - 1, ScaleX: 1, ScaleY: 1}
		if i+1 < n {
			bones[i].Children = []int{i + 1}
		}
	}
	return bones
}

func mesh(name string, vertices int, weighted bool) *skeleton.MeshAttachment {
	m := &skeleton.MeshAttachment{Name: name, VerticesLength: vertices * 2}
	if weighted {
		m.Bones = []int{0}
	}
	return m
}

func slot(name string, a skeleton.Attachment) skeleton.Slot {
	return skeleton.Slot{Name: name, Bone: 0, Attachment: a}
}

func deform(slotIndex int, a skeleton.Attachment) *skeleton.DeformTimeline {
	return &skeleton.DeformTimeline{SlotIndex: slotIndex, Attachment: a, Frames: [][]float64{{0, 0}, {1, 1}}}
}

// fullSnapshot exercises every analyzer.
func fullSnapshot() *skeleton.Snapshot {
	body := mesh("body", 120, true)
	s := &skeleton.Snapshot{
		Name:  "hero",
		Bones: chainBones(4),
		Slots: []skeleton.Slot{
			slot("body", body),
			slot("arm", mesh("arm", 30, false)),
			slot("mask", &skeleton.ClippingAttachment{Name: "mask", WorldVerticesLength: 12, EndSlot: -1}),
			{Name: "glow", Bone: 1, Blend: skeleton.BlendAdditive, Attachment: &skeleton.RegionAttachment{Name: "glow"}},
			{Name: "shadow", Bone: 2, Blend: skeleton.BlendMultiply},
			slot("rail", &skeleton.PathAttachment{Name: "rail", WorldVerticesLength: 24}),
		},
		Skins: []skeleton.Skin{{Name: "default"}},
		Animations: []skeleton.Animation{
			{Name: "idle", Duration: 1, Timelines: []skeleton.Timeline{
				deform(0, body),
				&skeleton.PropertyTimeline{Kind: skeleton.TimelineRotate, Target: 1, Frames: 3},
			}},
		},
		IK: []skeleton.IKConstraint{
			{Name: "leg", Bones: []int{1, 2}, Target: 3, Mix: 1, BendPositive: true, Active: true},
		},
		Transform: []skeleton.TransformConstraint{
			{Name: "follow", Bones: []int{2}, Target: 0, MixRotate: 1, MixX: 1, MixY: 1, Active: true},
		},
		Path: []skeleton.PathConstraint{
			{Name: "rail", Bones: []int{1, 2, 3}, Target: 5, RotateMode: skeleton.RotateChain, SpacingMode: skeleton.SpacingLength, WorldSamples: 12, Active: true},
		},
		Physics: []skeleton.PhysicsConstraint{
			{Name: "hair", Bone: 3, Rotate: 1, Strength: 100, Damping: 1, Active: false},
		},
	}
	return s
}
