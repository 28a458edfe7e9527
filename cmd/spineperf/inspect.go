package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spineperf/internal/skeleton"
	"spineperf/internal/spinejson"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <skeleton.json>",
	Short: "Dump the bones, slots, constraints and animations of a skeleton",
	Long: `Print the raw inventory of a skeleton without scoring it: bones with
local and setup-pose world positions, slots with their attachments,
constraints and animations.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := spinejson.Load(args[0])
	if err != nil {
		return err
	}
	inspect(cmd.OutOrStdout(), s)
	return nil
}

func inspect(w io.Writer, s *skeleton.Snapshot) {
	fmt.Fprintf(w, "Skeleton %q: bones=%d, slots=%d, skins=%d, constraints=%d, animations=%d\n",
		s.Name, len(s.Bones), len(s.Slots), len(s.Skins), s.ConstraintCount(), len(s.Animations))

	world := s.WorldPositions()
	for i, b := range s.Bones {
		fmt.Fprintf(w, "  Bone[%d] %s: parent=%d, local=(%.2f, %.2f) rot=%.2f scale=(%.2f, %.2f), world=(%.2f, %.2f)\n",
			i, b.Name, b.Parent, b.X, b.Y, b.Rotation, b.ScaleX, b.ScaleY, world[i][0], world[i][1])
	}

	for i, sl := range s.Slots {
		fmt.Fprintf(w, "  Slot[%d] %s: bone=%s, blend=%s, attachment=%s\n",
			i, sl.Name, s.BoneName(sl.Bone), sl.Blend, describeAttachment(sl.Attachment))
	}

	for _, c := range s.Constraints() {
		fmt.Fprintf(w, "  %s\n", describeConstraint(s, c))
	}

	for _, a := range s.Animations {
		deforms := 0
		for _, tl := range a.Timelines {
			if _, ok := tl.(*skeleton.DeformTimeline); ok {
				deforms++
			}
		}
		fmt.Fprintf(w, "  Animation %s: duration=%.2fs, timelines=%d, deform=%d\n",
			a.Name, a.Duration, len(a.Timelines), deforms)
	}
}

func describeAttachment(a skeleton.Attachment) string {
	switch a := a.(type) {
	case nil:
		return "none"
	case *skeleton.RegionAttachment:
		return fmt.Sprintf("region %q", a.Name)
	case *skeleton.MeshAttachment:
		weighted := ""
		if a.IsWeighted() {
			weighted = fmt.Sprintf(", weighted by %d bones", len(a.Bones))
		}
		return fmt.Sprintf("mesh %q (verts=%d%s)", a.Name, a.VertexCount(), weighted)
	case *skeleton.LinkedMeshAttachment:
		if a.Mesh == nil {
			return fmt.Sprintf("linkedmesh %q -> %q (unresolved)", a.Name, a.ParentMesh)
		}
		return fmt.Sprintf("linkedmesh %q -> %q (verts=%d)", a.Name, a.ParentMesh, a.Geometry().VertexCount())
	case *skeleton.ClippingAttachment:
		return fmt.Sprintf("clipping %q (verts=%d, end=%d)", a.Name, a.VertexCount(), a.EndSlot)
	case *skeleton.BoundingBoxAttachment:
		return fmt.Sprintf("boundingbox %q (verts=%d)", a.Name, a.WorldVerticesLength/2)
	case *skeleton.PathAttachment:
		return fmt.Sprintf("path %q (verts=%d, closed=%t)", a.Name, a.WorldVerticesLength/2, a.Closed)
	case *skeleton.PointAttachment:
		return fmt.Sprintf("point %q (%.2f, %.2f)", a.Name, a.X, a.Y)
	}
	return fmt.Sprintf("unknown %T", a)
}

func describeConstraint(s *skeleton.Snapshot, c skeleton.Constraint) string {
	bones := make([]string, 0, len(c.AffectedBones()))
	for _, b := range c.AffectedBones() {
		bones = append(bones, s.BoneName(b))
	}
	active := ""
	if !c.IsActive() {
		active = " (inactive)"
	}

	switch c := c.(type) {
	case *skeleton.IKConstraint:
		return fmt.Sprintf("IK %s%s: bones=%v, target=%s, mix=%.2f", c.Name, active, bones, s.BoneName(c.Target), c.Mix)
	case *skeleton.TransformConstraint:
		return fmt.Sprintf("Transform %s%s: bones=%v, target=%s, mixed=%d, local=%t, relative=%t",
			c.Name, active, bones, s.BoneName(c.Target), c.MixedProperties(), c.Local, c.Relative)
	case *skeleton.PathConstraint:
		return fmt.Sprintf("Path %s%s: bones=%v, slot=%s, rotate=%s, spacing=%s, samples=%d",
			c.Name, active, bones, s.SlotName(c.Target), c.RotateMode, c.SpacingMode, c.WorldSamples)
	case *skeleton.PhysicsConstraint:
		return fmt.Sprintf("Physics %s%s: bone=%s, properties=%d, inertia=%.2f, strength=%.1f, damping=%.2f",
			c.Name, active, s.BoneName(c.Bone), c.AffectedProperties(), c.Inertia, c.Strength, c.Damping)
	}
	return fmt.Sprintf("unknown constraint %T", c)
}
