package spinejson

import "encoding/json"

// Raw shapes of a Spine skeleton file. Pointer fields carry a non-zero
// Spine default that applies when the key is absent.

type fileData struct {
	Skeleton   skeletonData    `json:"skeleton"`
	Bones      []boneData      `json:"bones"`
	Slots      []slotData      `json:"slots"`
	IK         []ikData        `json:"ik"`
	Transform  []transformData `json:"transform"`
	Path       []pathData      `json:"path"`
	Physics    []physicsData   `json:"physics"`
	Skins      json.RawMessage `json:"skins"`
	Animations object          `json:"animations"`
}

type skeletonData struct {
	Hash   string  `json:"hash"`
	Spine  string  `json:"spine"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type boneData struct {
	Name     string   `json:"name"`
	Parent   string   `json:"parent"`
	Length   float64  `json:"length"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Rotation float64  `json:"rotation"`
	ScaleX   *float64 `json:"scaleX"`
	ScaleY   *float64 `json:"scaleY"`
}

type slotData struct {
	Name       string `json:"name"`
	Bone       string `json:"bone"`
	Attachment string `json:"attachment"`
	Blend      string `json:"blend"`
}

type ikData struct {
	Name         string   `json:"name"`
	Bones        []string `json:"bones"`
	Target       string   `json:"target"`
	Mix          *float64 `json:"mix"`
	Softness     float64  `json:"softness"`
	BendPositive *bool    `json:"bendPositive"`
	Compress     bool     `json:"compress"`
	Stretch      bool     `json:"stretch"`
	Skin         bool     `json:"skin"`
}

type transformData struct {
	Name      string   `json:"name"`
	Bones     []string `json:"bones"`
	Target    string   `json:"target"`
	MixRotate *float64 `json:"mixRotate"`
	MixX      *float64 `json:"mixX"`
	MixY      *float64 `json:"mixY"`
	MixScaleX *float64 `json:"mixScaleX"`
	MixScaleY *float64 `json:"mixScaleY"`
	MixShearY *float64 `json:"mixShearY"`
	Local     bool     `json:"local"`
	Relative  bool     `json:"relative"`
	Skin      bool     `json:"skin"`

	// 3.x names
	RotateMix    *float64 `json:"rotateMix"`
	TranslateMix *float64 `json:"translateMix"`
	ScaleMix     *float64 `json:"scaleMix"`
	ShearMix     *float64 `json:"shearMix"`
}

type pathData struct {
	Name        string   `json:"name"`
	Bones       []string `json:"bones"`
	Target      string   `json:"target"`
	RotateMode  string   `json:"rotateMode"`
	SpacingMode string   `json:"spacingMode"`
	Position    float64  `json:"position"`
	Spacing     float64  `json:"spacing"`
	MixRotate   *float64 `json:"mixRotate"`
	MixX        *float64 `json:"mixX"`
	MixY        *float64 `json:"mixY"`
	Skin        bool     `json:"skin"`

	RotateMix    *float64 `json:"rotateMix"`
	TranslateMix *float64 `json:"translateMix"`
}

type physicsData struct {
	Name     string   `json:"name"`
	Bone     string   `json:"bone"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Rotate   float64  `json:"rotate"`
	ScaleX   float64  `json:"scaleX"`
	ShearX   float64  `json:"shearX"`
	Inertia  *float64 `json:"inertia"`
	Strength *float64 `json:"strength"`
	Damping  *float64 `json:"damping"`
	Mass     *float64 `json:"mass"`
	Wind     float64  `json:"wind"`
	Gravity  float64  `json:"gravity"`
	Mix      *float64 `json:"mix"`
	Skin     bool     `json:"skin"`
}

type skinData struct {
	Name        string   `json:"name"`
	IK          []string `json:"ik"`
	Transform   []string `json:"transform"`
	Path        []string `json:"path"`
	Physics     []string `json:"physics"`
	Attachments object   `json:"attachments"`
}

type attachmentData struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Vertices    []float64 `json:"vertices"`
	UVs         []float64 `json:"uvs"`
	VertexCount int       `json:"vertexCount"`
	Closed      bool      `json:"closed"`
	End         string    `json:"end"`
	Parent      string    `json:"parent"`
	Skin        string    `json:"skin"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
}

type animationData struct {
	Slots       object `json:"slots"`
	Bones       object `json:"bones"`
	IK          object `json:"ik"`
	Transform   object `json:"transform"`
	Path        object `json:"path"`
	Physics     object `json:"physics"`
	Attachments object `json:"attachments"`
	Deform      object `json:"deform"`
	DrawOrder   []key  `json:"drawOrder"`
	Events      []key  `json:"events"`
}

// key is the part of any keyframe the loader needs.
type key struct {
	Time float64 `json:"time"`
}

type deformKey struct {
	Time     float64   `json:"time"`
	Offset   int       `json:"offset"`
	Vertices []float64 `json:"vertices"`
}

func or(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func first(ps ...*float64) *float64 {
	for _, p := range ps {
		if p != nil {
			return p
		}
	}
	return nil
}
