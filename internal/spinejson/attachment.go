package spinejson

import (
	"errors"
	"fmt"
	"strings"

	"spineperf/internal/skeleton"
)

// attachment builds one skin attachment. key is the skin placeholder name;
// the attachment's own name defaults to it.
func (b *builder) attachment(skin string, slot int, key string, ad attachmentData) (skeleton.Attachment, error) {
	name := ad.Name
	if name == "" {
		name = key
	}

	switch strings.ToLower(ad.Type) {
	case "", "region":
		return &skeleton.RegionAttachment{Name: name}, nil

	case "mesh":
		vertexCount := len(ad.UVs) / 2
		m := &skeleton.MeshAttachment{Name: name, VerticesLength: vertexCount * 2}
		if len(ad.Vertices) != len(ad.UVs) {
			bones, err := b.weights(ad.Vertices, vertexCount)
			if err != nil {
				return nil, err
			}
			m.Bones = bones
		}
		return m, nil

	case "linkedmesh":
		if ad.Parent == "" {
			return nil, errors.New("linked mesh has no parent")
		}
		lm := &skeleton.LinkedMeshAttachment{Name: name, ParentMesh: ad.Parent}
		from := ad.Skin
		if from == "" {
			from = skin
		}
		b.linked = append(b.linked, pendingLink{skin: from, slot: slot, att: lm, from: skin})
		return lm, nil

	case "clipping":
		end := -1
		if ad.End != "" {
			i, err := b.slot(ad.End, "clipping end")
			if err != nil {
				return nil, err
			}
			end = i
		}
		return &skeleton.ClippingAttachment{Name: name, WorldVerticesLength: ad.VertexCount * 2, EndSlot: end}, nil

	case "boundingbox":
		return &skeleton.BoundingBoxAttachment{Name: name, WorldVerticesLength: ad.VertexCount * 2}, nil

	case "path":
		return &skeleton.PathAttachment{Name: name, WorldVerticesLength: ad.VertexCount * 2, Closed: ad.Closed}, nil

	case "point":
		return &skeleton.PointAttachment{Name: name, X: ad.X, Y: ad.Y}, nil
	}
	return nil, fmt.Errorf("unknown attachment type %q", ad.Type)
}

// weights walks weighted vertex data (count, then bone/x/y/weight per
// influence) and returns the influencing bones in first-use order.
func (b *builder) weights(vertices []float64, vertexCount int) ([]int, error) {
	var bones []int
	seen := make(map[int]bool)
	i := 0
	for v := 0; v < vertexCount; v++ {
		if i >= len(vertices) {
			return nil, fmt.Errorf("weighted vertices truncated at vertex %d", v)
		}
		n := int(vertices[i])
		i++
		for range n {
			if i+3 >= len(vertices) {
				return nil, fmt.Errorf("weighted vertices truncated at vertex %d", v)
			}
			bi := int(vertices[i])
			if bi < 0 || bi >= len(b.s.Bones) {
				return nil, fmt.Errorf("vertex %d weighted to bone index %d, skeleton has %d bones", v, bi, len(b.s.Bones))
			}
			if !seen[bi] {
				seen[bi] = true
				bones = append(bones, bi)
			}
			i += 4
		}
	}
	return bones, nil
}

// resolveLinkedMeshes points every linked mesh at its parent geometry.
func (b *builder) resolveLinkedMeshes() error {
	for _, l := range b.linked {
		parent, ok := b.attachments[l.skin][l.slot][l.att.ParentMesh]
		if !ok {
			return fmt.Errorf("skin %s: linked mesh %s: parent mesh %q not found in skin %s",
				l.from, l.att.Name, l.att.ParentMesh, l.skin)
		}
		switch p := parent.(type) {
		case *skeleton.MeshAttachment:
			l.att.Mesh = p
		case *skeleton.LinkedMeshAttachment:
			// chains resolve once the parent's own link is known
			if p.Mesh == nil {
				return fmt.Errorf("skin %s: linked mesh %s: parent %q is an unresolved linked mesh", l.from, l.att.Name, l.att.ParentMesh)
			}
			l.att.Mesh = p.Mesh
		default:
			return fmt.Errorf("skin %s: linked mesh %s: parent %q is not a mesh", l.from, l.att.Name, l.att.ParentMesh)
		}
	}
	return nil
}
