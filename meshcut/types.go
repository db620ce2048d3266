package meshcut

import (
	"strings"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// An AttributeSet records which optional vertex attributes are present.
//
// The set is uniform across a mesh: either every vertex carries an attribute
// or none of them do.
type AttributeSet uint32

const (
	Normals AttributeSet = 1 << iota
	UVs
	Tangents

	AllAttributes = Normals | UVs | Tangents
)

// Has checks if every attribute in attr is present in a.
func (a AttributeSet) Has(attr AttributeSet) bool {
	return a&attr == attr
}

func (a AttributeSet) String() string {
	var names []string
	if a.Has(Normals) {
		names = append(names, "normals")
	}
	if a.Has(UVs) {
		names = append(names, "uvs")
	}
	if a.Has(Tangents) {
		names = append(names, "tangents")
	}
	if len(names) == 0 {
		return "positions"
	}
	return "positions+" + strings.Join(names, "+")
}

// A Tangent is a tangent direction plus a handedness sign W, which is
// either 1 or -1.
type Tangent struct {
	Dir model3d.Coord3D
	W   float64
}

// A Vertex is a position with optional attributes.
//
// Attributes that are not part of the mesh's AttributeSet are left as zero
// values.
type Vertex struct {
	Position model3d.Coord3D
	Normal   model3d.Coord3D
	UV       model2d.Coord
	Tangent  Tangent
}

// mask zeros out the attributes which are not in attrs.
func (v Vertex) mask(attrs AttributeSet) Vertex {
	if !attrs.Has(Normals) {
		v.Normal = model3d.Coord3D{}
	}
	if !attrs.Has(UVs) {
		v.UV = model2d.Coord{}
	}
	if !attrs.Has(Tangents) {
		v.Tangent = Tangent{}
	}
	return v
}

// A Triangle is an ordered triple of vertices.
// The order determines the facing direction through the right-hand rule.
type Triangle [3]Vertex

// FaceNormal computes the unnormalized normal (B-A)x(C-A).
func (t *Triangle) FaceNormal() model3d.Coord3D {
	return faceNormal(t[0].Position, t[1].Position, t[2].Position)
}

// Area computes the area of the triangle.
func (t *Triangle) Area() float64 {
	return t.FaceNormal().Norm() / 2
}

// Model3D converts the triangle to a model3d triangle, dropping attributes.
func (t *Triangle) Model3D() *model3d.Triangle {
	return &model3d.Triangle{t[0].Position, t[1].Position, t[2].Position}
}

func faceNormal(a, b, c model3d.Coord3D) model3d.Coord3D {
	return b.Sub(a).Cross(c.Sub(a))
}
