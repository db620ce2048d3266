package meshcut

import (
	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// A SubMesh is an indexed triangle mesh with parallel attribute arrays.
//
// Normals, UVs, and Tangents must have the same length as Positions when
// the corresponding flag is set in Attributes, and are ignored otherwise.
// Indices contains three vertex indices per triangle.
type SubMesh struct {
	Attributes AttributeSet

	Positions []model3d.Coord3D
	Normals   []model3d.Coord3D
	UVs       []model2d.Coord
	Tangents  []Tangent

	Indices []int
}

// NewSubMeshModel3D creates an unwelded sub-mesh from a model3d mesh, using
// each triangle's face normal as its vertex normals.
func NewSubMeshModel3D(m *model3d.Mesh) *SubMesh {
	tris := m.TriangleSlice()
	res := &SubMesh{
		Attributes: Normals,
		Positions:  make([]model3d.Coord3D, len(tris)*3),
		Normals:    make([]model3d.Coord3D, len(tris)*3),
		Indices:    make([]int, len(tris)*3),
	}
	essentials.ConcurrentMap(0, len(tris), func(i int) {
		t := tris[i]
		normal := t.Normal()
		for j, c := range t {
			res.Positions[i*3+j] = c
			res.Normals[i*3+j] = normal
			res.Indices[i*3+j] = i*3 + j
		}
	})
	return res
}

// NewSubMeshTriangles creates an indexed sub-mesh from a list of triangles,
// welding vertices that are exactly equal in every present attribute.
func NewSubMeshTriangles(attrs AttributeSet, tris []Triangle) *SubMesh {
	res := &SubMesh{
		Attributes: attrs,
		Indices:    make([]int, 0, len(tris)*3),
	}
	ids := map[Vertex]int{}
	for _, t := range tris {
		for _, v := range t {
			v = v.mask(attrs)
			id, ok := ids[v]
			if !ok {
				id = len(res.Positions)
				ids[v] = id
				res.appendVertex(v)
			}
			res.Indices = append(res.Indices, id)
		}
	}
	return res
}

func (s *SubMesh) appendVertex(v Vertex) {
	s.Positions = append(s.Positions, v.Position)
	if s.Attributes.Has(Normals) {
		s.Normals = append(s.Normals, v.Normal)
	}
	if s.Attributes.Has(UVs) {
		s.UVs = append(s.UVs, v.UV)
	}
	if s.Attributes.Has(Tangents) {
		s.Tangents = append(s.Tangents, v.Tangent)
	}
}

// NumTriangles returns the number of triangles in the mesh.
func (s *SubMesh) NumTriangles() int {
	return len(s.Indices) / 3
}

// Vertex gets the vertex at index i.
func (s *SubMesh) Vertex(i int) Vertex {
	v := Vertex{Position: s.Positions[i]}
	if s.Attributes.Has(Normals) {
		v.Normal = s.Normals[i]
	}
	if s.Attributes.Has(UVs) {
		v.UV = s.UVs[i]
	}
	if s.Attributes.Has(Tangents) {
		v.Tangent = s.Tangents[i]
	}
	return v
}

// Triangle gets the i-th triangle.
func (s *SubMesh) Triangle(i int) Triangle {
	idx := s.Indices[i*3 : i*3+3]
	return Triangle{s.Vertex(idx[0]), s.Vertex(idx[1]), s.Vertex(idx[2])}
}

// Bounds computes the bounding box of the positions.
func (s *SubMesh) Bounds() (min, max model3d.Coord3D) {
	if len(s.Positions) == 0 {
		return
	}
	min, max = s.Positions[0], s.Positions[0]
	for _, p := range s.Positions[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	return
}

// Validate checks that the attribute arrays and indices are consistent.
func (s *SubMesh) Validate() error {
	n := len(s.Positions)
	if s.Attributes&^AllAttributes != 0 {
		return errors.Errorf("unknown attribute flags: %#x", uint32(s.Attributes))
	}
	if s.Attributes.Has(Normals) && len(s.Normals) != n {
		return errors.Errorf("expected %d normals but got %d", n, len(s.Normals))
	}
	if s.Attributes.Has(UVs) && len(s.UVs) != n {
		return errors.Errorf("expected %d uvs but got %d", n, len(s.UVs))
	}
	if s.Attributes.Has(Tangents) && len(s.Tangents) != n {
		return errors.Errorf("expected %d tangents but got %d", n, len(s.Tangents))
	}
	if len(s.Indices)%3 != 0 {
		return errors.Errorf("index count %d is not a multiple of 3", len(s.Indices))
	}
	for i, idx := range s.Indices {
		if idx < 0 || idx >= n {
			return errors.Errorf("index %d out of range at position %d", idx, i)
		}
	}
	return nil
}
