package meshcut

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/exp/slices"
)

// DefaultCapTolerance is the default distance within which intersection
// points are merged when building a cap.
const DefaultCapTolerance = 1e-5

// A Cap is a triangulated polygon in the cutting plane which closes the hulls
// of a cut.
type Cap struct {
	// Outline is the boundary of the cap, counter-clockwise when viewed from
	// above the plane.
	Outline []model3d.Coord3D

	// Upper faces down, closing the upper hull.
	Upper []Triangle

	// Lower faces up, closing the lower hull.
	Lower []Triangle
}

// BuildCap triangulates the convex hull of intersection points in the plane.
//
// Points within tolerance of each other are merged first. If tolerance is 0,
// DefaultCapTolerance is used. Texture coordinates span [0, 1] over the
// bounding box of the outline in the plane's basis (see Plane.Basis), and
// tangents point along the first basis vector.
//
// If the points do not span a polygon, the cap has no triangles.
func BuildCap(points []model3d.Coord3D, p Plane, tolerance float64) *Cap {
	if tolerance == 0 {
		tolerance = DefaultCapTolerance
	}
	res := &Cap{}
	unique := dedupPoints(points, tolerance)
	if len(unique) < 3 {
		return res
	}

	u, v := p.Basis()
	origin := p.Origin()
	planar := make([]model2d.Coord, len(unique))
	for i, c := range unique {
		d := c.Sub(origin)
		planar[i] = model2d.XY(d.Dot(u), d.Dot(v))
	}
	outline := convexHull2D(planar)
	if len(outline) < 3 {
		return res
	}

	min, max := planar[outline[0]], planar[outline[0]]
	for _, i := range outline[1:] {
		min = min.Min(planar[i])
		max = max.Max(planar[i])
	}
	size := max.Sub(min)
	texCoord := func(c model2d.Coord) model2d.Coord {
		var res model2d.Coord
		if size.X > 0 {
			res.X = (c.X - min.X) / size.X
		}
		if size.Y > 0 {
			res.Y = (c.Y - min.Y) / size.Y
		}
		return res
	}

	upVerts := make([]Vertex, len(outline))
	downVerts := make([]Vertex, len(outline))
	for j, i := range outline {
		res.Outline = append(res.Outline, unique[i])
		uv := texCoord(planar[i])
		upVerts[j] = Vertex{
			Position: unique[i],
			Normal:   p.Normal,
			UV:       uv,
			Tangent:  Tangent{Dir: u, W: 1},
		}
		downVerts[j] = Vertex{
			Position: unique[i],
			Normal:   p.Normal.Scale(-1),
			UV:       uv,
			Tangent:  Tangent{Dir: u, W: -1},
		}
	}
	for i := 1; i+1 < len(outline); i++ {
		res.Lower = append(res.Lower, Triangle{upVerts[0], upVerts[i], upVerts[i+1]})
		res.Upper = append(res.Upper, Triangle{downVerts[0], downVerts[i+1], downVerts[i]})
	}
	return res
}

// Area computes the area of one side of the cap.
func (c *Cap) Area() float64 {
	var res float64
	for i := range c.Lower {
		res += c.Lower[i].Area()
	}
	return res
}

// dedupPoints merges points within tol of an earlier point, keeping the
// first occurrence.
func dedupPoints(points []model3d.Coord3D, tol float64) []model3d.Coord3D {
	type cell [3]int64
	cellOf := func(c model3d.Coord3D) cell {
		return cell{
			int64(math.Floor(c.X / tol)),
			int64(math.Floor(c.Y / tol)),
			int64(math.Floor(c.Z / tol)),
		}
	}
	grid := map[cell][]int{}
	var res []model3d.Coord3D

PointLoop:
	for _, c := range points {
		key := cellOf(c)
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, i := range grid[cell{key[0] + dx, key[1] + dy, key[2] + dz}] {
						if res[i].Dist(c) <= tol {
							continue PointLoop
						}
					}
				}
			}
		}
		grid[key] = append(grid[key], len(res))
		res = append(res, c)
	}
	return res
}

// convexHull2D computes the convex hull of points with the monotone chain
// algorithm, returning indices in counter-clockwise order. Collinear points
// are dropped.
func convexHull2D(points []model2d.Coord) []int {
	sorted := make([]int, len(points))
	for i := range sorted {
		sorted[i] = i
	}
	slices.SortFunc(sorted, func(a, b int) bool {
		pa, pb := points[a], points[b]
		if pa.X != pb.X {
			return pa.X < pb.X
		}
		return pa.Y < pb.Y
	})
	if len(sorted) < 3 {
		return sorted
	}

	turn := func(o, a, b int) float64 {
		oa := points[a].Sub(points[o])
		ob := points[b].Sub(points[o])
		return oa.X*ob.Y - oa.Y*ob.X
	}
	chain := func(order []int) []int {
		var res []int
		for _, i := range order {
			for len(res) >= 2 && turn(res[len(res)-2], res[len(res)-1], i) <= 0 {
				res = res[:len(res)-1]
			}
			res = append(res, i)
		}
		return res
	}

	lower := chain(sorted)
	reversed := make([]int, len(sorted))
	for i, x := range sorted {
		reversed[len(sorted)-1-i] = x
	}
	upper := chain(reversed)

	res := make([]int, 0, len(lower)+len(upper)-2)
	res = append(res, lower[:len(lower)-1]...)
	res = append(res, upper[:len(upper)-1]...)
	return res
}
