package spinejson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spineperf/internal/skeleton"
)

func loadHero(t *testing.T) *skeleton.Snapshot {
	t.Helper()
	s, err := Load(filepath.Join("testdata", "hero.json"))
	require.NoError(t, err)
	return s
}

func TestLoadBones(t *testing.T) {
	s := loadHero(t)
	assert.Equal(t, "hero", s.Name)
	require.Len(t, s.Bones, 7)

	assert.Equal(t, -1, s.Bones[0].Parent)
	assert.Equal(t, []int{1}, s.Bones[0].Children)
	assert.Equal(t, []int{2, 4}, s.Bones[1].Children)
	assert.Equal(t, 2, s.Bones[3].Parent)
	assert.Equal(t, 0.5, s.Bones[3].ScaleX)
	assert.Equal(t, 1.0, s.Bones[3].ScaleY)
	assert.Equal(t, 90.0, s.Bones[2].Rotation)
}

func TestLoadSlotsAndAttachments(t *testing.T) {
	s := loadHero(t)
	require.Len(t, s.Slots, 9)

	body, ok := s.Slots[0].Attachment.(*skeleton.MeshAttachment)
	require.True(t, ok)
	assert.Equal(t, 3, body.VertexCount())
	assert.Equal(t, []int{1, 2, 3}, body.Bones)

	assert.Nil(t, s.Slots[1].Attachment, "no setup attachment")

	face, ok := s.Slots[2].Attachment.(*skeleton.RegionAttachment)
	require.True(t, ok)
	assert.Equal(t, "face", face.Name)

	clip, ok := s.Slots[3].Attachment.(*skeleton.ClippingAttachment)
	require.True(t, ok)
	assert.Equal(t, 4, clip.VertexCount())
	assert.Equal(t, 4, clip.EndSlot)

	assert.Equal(t, skeleton.BlendAdditive, s.Slots[4].Blend)
	assert.Equal(t, "fx/glow", s.Slots[4].Attachment.AttachmentName())
	assert.Equal(t, skeleton.BlendMultiply, s.Slots[5].Blend)

	path, ok := s.Slots[6].Attachment.(*skeleton.PathAttachment)
	require.True(t, ok)
	assert.True(t, path.Closed)
	assert.Equal(t, 12, path.WorldVerticesLength)

	assert.IsType(t, &skeleton.BoundingBoxAttachment{}, s.Slots[7].Attachment)
	point, ok := s.Slots[8].Attachment.(*skeleton.PointAttachment)
	require.True(t, ok)
	assert.Equal(t, 12.0, point.X)

	assert.Equal(t, []skeleton.Skin{{Name: "default"}, {Name: "armored"}}, s.Skins)
}

func TestLoadConstraints(t *testing.T) {
	s := loadHero(t)

	require.Len(t, s.IK, 1)
	ik := s.IK[0]
	assert.Equal(t, []int{4, 5}, ik.Bones)
	assert.Equal(t, 0, ik.Target)
	assert.Equal(t, 1.0, ik.Mix)
	assert.False(t, ik.BendPositive)
	assert.True(t, ik.Active, "skin-required but listed by the default skin")

	require.Len(t, s.Transform, 1)
	tc := s.Transform[0]
	assert.Equal(t, 0.5, tc.MixRotate)
	assert.Equal(t, 1.0, tc.MixX)
	assert.Equal(t, 1.0, tc.MixY)
	assert.Equal(t, 0.0, tc.MixScaleX)
	assert.Equal(t, 0.0, tc.MixScaleY, "scaleY defaults to scaleX")
	assert.Equal(t, 3, tc.MixedProperties())
	assert.True(t, tc.Active)

	require.Len(t, s.Path, 1)
	pc := s.Path[0]
	assert.Equal(t, 6, pc.Target)
	assert.Equal(t, skeleton.RotateChainScale, pc.RotateMode)
	assert.Equal(t, skeleton.SpacingPercent, pc.SpacingMode)
	assert.Equal(t, 0.25, pc.MixY, "mixY defaults to mixX")
	assert.Equal(t, 6, pc.WorldSamples)

	require.Len(t, s.Physics, 1)
	pc2 := s.Physics[0]
	assert.Equal(t, 6, pc2.Bone)
	assert.Equal(t, 100.0, pc2.Strength)
	assert.Equal(t, 0.85, pc2.Damping)
	assert.Equal(t, 1, pc2.AffectedProperties())
	assert.False(t, pc2.Active, "skin-required and not listed")
}

func TestLoadLinkedMeshes(t *testing.T) {
	s := loadHero(t)

	// setup slot body-alt is empty, but the wave animation deforms the
	// parent of its linked mesh.
	wave := s.Animations[1]
	dt, ok := wave.Timelines[4].(*skeleton.DeformTimeline)
	require.True(t, ok)
	assert.Equal(t, 1, dt.SlotIndex)
	twin, ok := dt.Attachment.(*skeleton.MeshAttachment)
	require.True(t, ok)
	assert.Equal(t, "body-twin", twin.Name)
	assert.Empty(t, twin.Bones, "unweighted")
	assert.Equal(t, 4, twin.VertexCount())
}

func TestLoadAnimations(t *testing.T) {
	s := loadHero(t)
	require.Len(t, s.Animations, 2)

	walk := s.Animations[0]
	assert.Equal(t, "walk", walk.Name)
	assert.Equal(t, 1.25, walk.Duration)
	require.Len(t, walk.Timelines, 5)

	color := walk.Timelines[0].(*skeleton.PropertyTimeline)
	assert.Equal(t, skeleton.PropertyTimeline{Kind: skeleton.TimelineColor, Target: 2, Frames: 2}, *color)
	rotate := walk.Timelines[1].(*skeleton.PropertyTimeline)
	assert.Equal(t, skeleton.PropertyTimeline{Kind: skeleton.TimelineRotate, Target: 4, Frames: 3}, *rotate)
	assert.Equal(t, skeleton.TimelineTranslate, walk.Timelines[2].(*skeleton.PropertyTimeline).Kind)
	assert.Equal(t, skeleton.TimelineIK, walk.Timelines[3].(*skeleton.PropertyTimeline).Kind)

	deform := walk.Timelines[4].(*skeleton.DeformTimeline)
	assert.Equal(t, 0, deform.SlotIndex)
	assert.Same(t, s.Slots[0].Attachment, deform.Attachment)
	assert.Equal(t, 2, deform.FrameCount())

	wave := s.Animations[1]
	assert.Equal(t, 1.5, wave.Duration)
	var kinds []string
	for _, tl := range wave.Timelines {
		switch tl := tl.(type) {
		case *skeleton.DeformTimeline:
			kinds = append(kinds, "deform")
		case *skeleton.PropertyTimeline:
			kinds = append(kinds, string(tl.Kind))
		}
	}
	assert.Equal(t, []string{"path", "path", "physics", "physics", "deform", "sequence", "drawOrder", "event"}, kinds)
	assert.Equal(t, -1, wave.Timelines[2].(*skeleton.PropertyTimeline).Target)
	assert.Equal(t, 1, wave.Timelines[5].(*skeleton.PropertyTimeline).Target)
}

func TestLegacySkinObject(t *testing.T) {
	data := []byte(`{
		"bones": [{"name": "root"}],
		"slots": [{"name": "a", "bone": "root", "attachment": "m"}],
		"skins": {"default": {"a": {"m": {"type": "mesh", "uvs": [0,0,1,1], "vertices": [0,0,1,1]}}}}
	}`)
	s, err := Parse(data, "legacy")
	require.NoError(t, err)
	m, ok := s.Slots[0].Attachment.(*skeleton.MeshAttachment)
	require.True(t, ok)
	assert.Equal(t, 2, m.VertexCount())
	assert.Empty(t, s.Animations)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
		want string
	}{
		{"malformed", `{"bones": [`, "spinejson: decode"},
		{"unknown parent", `{"bones": [{"name": "a", "parent": "b"}]}`, `bone a: unknown bone "b"`},
		{"duplicate bone", `{"bones": [{"name": "a"}, {"name": "a"}]}`, `duplicate bone "a"`},
		{"unknown slot bone", `{"bones": [{"name": "a"}], "slots": [{"name": "s", "bone": "x"}]}`, `slot s: unknown bone "x"`},
		{"bad blend", `{"bones": [{"name": "a"}], "slots": [{"name": "s", "bone": "a", "blend": "overlay"}]}`, `unknown blend mode "overlay"`},
		{"ik target", `{"bones": [{"name": "a"}], "ik": [{"name": "k", "bones": ["a"], "target": "z"}]}`, `ik constraint k: unknown bone "z"`},
		{"path target", `{"bones": [{"name": "a"}], "path": [{"name": "p", "bones": ["a"], "target": "nope"}]}`, `path constraint p: unknown slot "nope"`},
		{"attachment type", `{"bones": [{"name": "a"}], "slots": [{"name": "s", "bone": "a"}], "skins": [{"name": "default", "attachments": {"s": {"x": {"type": "sprite"}}}}]}`, `unknown attachment type "sprite"`},
		{"weight bone", `{"bones": [{"name": "a"}], "slots": [{"name": "s", "bone": "a"}], "skins": [{"name": "default", "attachments": {"s": {"m": {"type": "mesh", "uvs": [0,0], "vertices": [1, 7, 0, 0, 1]}}}}]}`, "bone index 7"},
		{"linked parent", `{"bones": [{"name": "a"}], "slots": [{"name": "s", "bone": "a"}], "skins": [{"name": "default", "attachments": {"s": {"l": {"type": "linkedmesh", "parent": "gone"}}}}]}`, `parent mesh "gone" not found`},
		{"bone timeline", `{"bones": [{"name": "a"}], "animations": {"x": {"bones": {"a": {"wobble": []}}}}}`, `animation x: bone a: unknown timeline type "wobble"`},
		{"deform attachment", `{"bones": [{"name": "a"}], "slots": [{"name": "s", "bone": "a"}], "skins": [{"name": "default"}], "animations": {"x": {"deform": {"default": {"s": {"m": []}}}}}}`, `attachment "m" not found`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), "bad")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "spinejson: read")
}
