package meshcut

import (
	"fmt"
	"math"

	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/constraints"
)

type splitPattern uint8

const (
	// patternNone is used for side combinations which never reach the
	// splitter, since the classifier does not mark them intersecting.
	patternNone splitPattern = iota

	// patternTwoAbove has two vertices above and one below.
	patternTwoAbove

	// patternTwoBelow has one vertex above and two below.
	patternTwoBelow

	// patternOnPlane has one vertex above, one below, and one on the plane.
	patternOnPlane
)

// A splitCase assigns vertex roles for one combination of vertex sides.
//
// For patternTwoAbove and patternTwoBelow, Perm lists the minority vertex
// followed by the two majority vertices in cyclic order. For patternOnPlane,
// Perm lists the on-plane, above, and below vertices.
type splitCase struct {
	Pattern splitPattern
	Perm    [3]int
}

// splitTable maps sideKey() of a triangle's vertex sides to its splitCase.
var splitTable [27]splitCase

func init() {
	for key := range splitTable {
		splitTable[key] = newSplitCase(decodeSideKey(key))
	}
}

func sideKey(sides [3]Side) int {
	return int(sides[0]+1) + 3*int(sides[1]+1) + 9*int(sides[2]+1)
}

func decodeSideKey(key int) [3]Side {
	var res [3]Side
	for i := range res {
		res[i] = Side(key%3) - 1
		key /= 3
	}
	return res
}

func newSplitCase(sides [3]Side) splitCase {
	var counts [3]int
	for _, s := range sides {
		counts[s+1]++
	}
	numBelow, numOn, numAbove := counts[0], counts[1], counts[2]
	find := func(s Side) int {
		for i, x := range sides {
			if x == s {
				return i
			}
		}
		panic("side not found")
	}
	cyclic := func(i int) [3]int {
		return [3]int{i, (i + 1) % 3, (i + 2) % 3}
	}
	switch {
	case numAbove == 2 && numBelow == 1:
		return splitCase{Pattern: patternTwoAbove, Perm: cyclic(find(Below))}
	case numAbove == 1 && numBelow == 2:
		return splitCase{Pattern: patternTwoBelow, Perm: cyclic(find(Above))}
	case numAbove == 1 && numBelow == 1 && numOn == 1:
		return splitCase{
			Pattern: patternOnPlane,
			Perm:    [3]int{find(On), find(Above), find(Below)},
		}
	default:
		return splitCase{Pattern: patternNone, Perm: [3]int{0, 1, 2}}
	}
}

// splitter implements the second stage of the slicing pipeline, turning each
// intersecting triangle into pieces on both sides of the plane.
type splitter struct {
	Mesh  *SubMesh
	Plane Plane
	Eps   float64
	Lerp  vertexLerp

	Work   []int
	Upper  *arena[Triangle]
	Lower  *arena[Triangle]
	Points *arena[model3d.Coord3D]
}

func (s *splitter) Split(j int) {
	t := s.Mesh.Triangle(s.Work[j])
	upper, lower, p1, p2 := splitTriangle(&t, s.Plane, s.Eps, s.Lerp)
	if upper == nil && lower == nil {
		panic(fmt.Sprintf("triangle %d in work list does not straddle the plane", s.Work[j]))
	}
	appendAll(s.Upper, upper)
	appendAll(s.Lower, lower)
	idx := s.Points.Reserve(2)
	s.Points.items[idx] = p1
	s.Points.items[idx+1] = p2
}

func appendAll(a *arena[Triangle], tris []Triangle) {
	idx := a.Reserve(len(tris))
	copy(a.items[idx:], tris)
}

// splitTriangle cuts an intersecting triangle.
//
// The resulting triangles are wound to face the same way as t. The two
// returned points lie on the plane and are used to build the cap.
// If t does not straddle the plane, all results are empty.
func splitTriangle(
	t *Triangle,
	plane Plane,
	eps float64,
	lerp vertexLerp,
) (upper, lower []Triangle, p1, p2 model3d.Coord3D) {
	var dists [3]float64
	var sides [3]Side
	for i, v := range t {
		dists[i] = plane.SignedDistance(v.Position)
		sides[i] = sideOf(dists[i], eps)
	}
	sc := splitTable[sideKey(sides)]
	i0, i1, i2 := sc.Perm[0], sc.Perm[1], sc.Perm[2]
	v0, v1, v2 := &t[i0], &t[i1], &t[i2]
	cut := func(src, dst int) Vertex {
		return lerp(&t[src], &t[dst], cutParameter(dists[src], dists[dst]))
	}

	switch sc.Pattern {
	case patternTwoAbove:
		p := cut(i0, i1)
		q := cut(i0, i2)
		upper = []Triangle{{*v1, *v2, q}, {*v1, q, p}}
		lower = []Triangle{{*v0, p, q}}
		p1, p2 = p.Position, q.Position
	case patternTwoBelow:
		p := cut(i0, i1)
		q := cut(i0, i2)
		upper = []Triangle{{*v0, p, q}}
		lower = []Triangle{{*v1, *v2, q}, {*v1, q, p}}
		p1, p2 = p.Position, q.Position
	case patternOnPlane:
		p := cut(i1, i2)
		upper = []Triangle{{*v0, *v1, p}}
		lower = []Triangle{{*v0, p, *v2}}
		p1, p2 = v0.Position, p.Position
	default:
		return
	}

	normal := t.FaceNormal()
	for i := range upper {
		correctWinding(&upper[i], normal)
	}
	for i := range lower {
		correctWinding(&lower[i], normal)
	}
	return
}

// correctWinding swaps the last two vertices of t if it faces away from
// normal.
func correctWinding(t *Triangle, normal model3d.Coord3D) {
	if t.FaceNormal().Dot(normal) < 0 {
		t[1], t[2] = t[2], t[1]
	}
}

// cutParameter finds where the signed distance crosses zero along an edge
// from a source vertex to a destination vertex.
func cutParameter(srcDist, dstDist float64) float64 {
	return finiteOr(srcDist/(srcDist-dstDist), 0.5)
}

func finiteOr[F constraints.Float](x, fallback F) F {
	if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
		return fallback
	}
	return x
}

// A vertexLerp interpolates between two vertices at parameter t.
type vertexLerp func(src, dst *Vertex, t float64) Vertex

type attributeLerp func(out, src, dst *Vertex, t float64)

// newVertexLerp creates a vertexLerp which only touches the attributes in
// attrs, so that absent attributes cost nothing per vertex.
func newVertexLerp(attrs AttributeSet) vertexLerp {
	var steps []attributeLerp
	if attrs.Has(Normals) {
		steps = append(steps, lerpNormal)
	}
	if attrs.Has(UVs) {
		steps = append(steps, lerpUV)
	}
	if attrs.Has(Tangents) {
		steps = append(steps, lerpTangent)
	}
	if len(steps) == 0 {
		return func(src, dst *Vertex, t float64) Vertex {
			return Vertex{Position: lerpCoord(src.Position, dst.Position, t)}
		}
	}
	return func(src, dst *Vertex, t float64) Vertex {
		res := Vertex{Position: lerpCoord(src.Position, dst.Position, t)}
		for _, step := range steps {
			step(&res, src, dst, t)
		}
		return res
	}
}

func lerpNormal(out, src, dst *Vertex, t float64) {
	out.Normal = safeNormalize(lerpCoord(src.Normal, dst.Normal, t))
}

func lerpUV(out, src, dst *Vertex, t float64) {
	out.UV = src.UV.Scale(1 - t).Add(dst.UV.Scale(t))
}

func lerpTangent(out, src, dst *Vertex, t float64) {
	out.Tangent.Dir = safeNormalize(lerpCoord(src.Tangent.Dir, dst.Tangent.Dir, t))

	// Handedness is a sign, so take it from the nearest endpoint.
	if t < 0.5 {
		out.Tangent.W = src.Tangent.W
	} else {
		out.Tangent.W = dst.Tangent.W
	}
}

func lerpCoord(a, b model3d.Coord3D, t float64) model3d.Coord3D {
	return a.Add(b.Sub(a).Scale(t))
}

// safeNormalize normalizes c, leaving zero or non-finite vectors untouched.
func safeNormalize(c model3d.Coord3D) model3d.Coord3D {
	norm := c.Norm()
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return c
	}
	return c.Scale(1 / norm)
}
