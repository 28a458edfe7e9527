package skeleton

// Attachment is the visible content bound to a slot. The set of variants is
// closed: only the types in this file implement it.
type Attachment interface {
	AttachmentName() string
	attachment()
}

type RegionAttachment struct {
	Name string
}

// MeshAttachment is a deformable mesh. VerticesLength counts floats
// (two per vertex); Bones is non-empty for weighted meshes.
type MeshAttachment struct {
	Name           string
	VerticesLength int
	Bones          []int
	ParentMesh     string
}

// LinkedMeshAttachment shares geometry with its parent mesh.
type LinkedMeshAttachment struct {
	Name       string
	ParentMesh string
	Mesh       *MeshAttachment
}

// ClippingAttachment is a clipping polygon.
type ClippingAttachment struct {
	Name                string
	WorldVerticesLength int
	EndSlot             int // -1 when clipping runs to the end of the draw order
}

type BoundingBoxAttachment struct {
	Name                string
	WorldVerticesLength int
}

type PathAttachment struct {
	Name                string
	WorldVerticesLength int
	Closed              bool
}

type PointAttachment struct {
	Name string
	X, Y float64
}

func (a *RegionAttachment) AttachmentName() string      { return a.Name }
func (a *MeshAttachment) AttachmentName() string        { return a.Name }
func (a *LinkedMeshAttachment) AttachmentName() string  { return a.Name }
func (a *ClippingAttachment) AttachmentName() string    { return a.Name }
func (a *BoundingBoxAttachment) AttachmentName() string { return a.Name }
func (a *PathAttachment) AttachmentName() string        { return a.Name }
func (a *PointAttachment) AttachmentName() string       { return a.Name }

func (*RegionAttachment) attachment()      {}
func (*MeshAttachment) attachment()        {}
func (*LinkedMeshAttachment) attachment()  {}
func (*ClippingAttachment) attachment()    {}
func (*BoundingBoxAttachment) attachment() {}
func (*PathAttachment) attachment()        {}
func (*PointAttachment) attachment()       {}

// VertexCount returns the number of mesh vertices.
func (a *MeshAttachment) VertexCount() int { return a.VerticesLength / 2 }

// IsWeighted reports whether the mesh is driven by bone weights.
func (a *MeshAttachment) IsWeighted() bool { return len(a.Bones) > 0 }

// VertexCount returns the polygon vertex count of the clipping mask.
func (a *ClippingAttachment) VertexCount() int { return a.WorldVerticesLength / 2 }

// Geometry returns the mesh the linked mesh draws with. When the parent is
// unresolved an empty mesh is returned.
func (a *LinkedMeshAttachment) Geometry() *MeshAttachment {
	if a.Mesh == nil {
		return &MeshAttachment{Name: a.Name, ParentMesh: a.ParentMesh}
	}
	return a.Mesh
}
