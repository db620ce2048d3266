package meshcut

import (
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// A Hull is the set of triangles on one side of a cut.
type Hull struct {
	Attributes AttributeSet
	Triangles  []Triangle
}

// Len returns the number of triangles.
func (h *Hull) Len() int {
	return len(h.Triangles)
}

// Area computes the total area of the triangles.
func (h *Hull) Area() float64 {
	var res float64
	for i := range h.Triangles {
		res += h.Triangles[i].Area()
	}
	return res
}

// Positions returns the vertex positions, three per triangle.
func (h *Hull) Positions() []model3d.Coord3D {
	res := make([]model3d.Coord3D, 0, len(h.Triangles)*3)
	for _, t := range h.Triangles {
		for _, v := range t {
			res = append(res, v.Position)
		}
	}
	return res
}

// Normals returns the vertex normals parallel to Positions(), or nil if the
// hull has no normals.
func (h *Hull) Normals() []model3d.Coord3D {
	if !h.Attributes.Has(Normals) {
		return nil
	}
	res := make([]model3d.Coord3D, 0, len(h.Triangles)*3)
	for _, t := range h.Triangles {
		for _, v := range t {
			res = append(res, v.Normal)
		}
	}
	return res
}

// UVs returns the texture coordinates parallel to Positions(), or nil if the
// hull has no texture coordinates.
func (h *Hull) UVs() []model2d.Coord {
	if !h.Attributes.Has(UVs) {
		return nil
	}
	res := make([]model2d.Coord, 0, len(h.Triangles)*3)
	for _, t := range h.Triangles {
		for _, v := range t {
			res = append(res, v.UV)
		}
	}
	return res
}

// Tangents returns the vertex tangents parallel to Positions(), or nil if the
// hull has no tangents.
func (h *Hull) Tangents() []Tangent {
	if !h.Attributes.Has(Tangents) {
		return nil
	}
	res := make([]Tangent, 0, len(h.Triangles)*3)
	for _, t := range h.Triangles {
		for _, v := range t {
			res = append(res, v.Tangent)
		}
	}
	return res
}

// WithCap creates a new hull containing h's triangles followed by the cap
// triangles, with cap attributes reduced to h's attribute set.
func (h *Hull) WithCap(capTris []Triangle) *Hull {
	res := &Hull{
		Attributes: h.Attributes,
		Triangles:  make([]Triangle, 0, len(h.Triangles)+len(capTris)),
	}
	res.Triangles = append(res.Triangles, h.Triangles...)
	for _, t := range capTris {
		for i, v := range t {
			t[i] = v.mask(h.Attributes)
		}
		res.Triangles = append(res.Triangles, t)
	}
	return res
}

// Mesh converts the hull to a model3d mesh, dropping vertex attributes.
func (h *Hull) Mesh() *model3d.Mesh {
	tris := make([]*model3d.Triangle, len(h.Triangles))
	essentials.ConcurrentMap(0, len(tris), func(i int) {
		tris[i] = h.Triangles[i].Model3D()
	})
	return model3d.NewMeshTriangles(tris)
}

// SubMesh converts the hull to an indexed sub-mesh, merging identical
// vertices. The result can be sliced again.
func (h *Hull) SubMesh() *SubMesh {
	return NewSubMeshTriangles(h.Attributes, h.Triangles)
}
