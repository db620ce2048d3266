package meshcut

// Classification describes where a triangle lies relative to a plane.
type Classification int

const (
	AllAbove Classification = iota
	AllBelow
	Intersecting
)

func (c Classification) String() string {
	switch c {
	case AllAbove:
		return "all-above"
	case AllBelow:
		return "all-below"
	default:
		return "intersecting"
	}
}

// ClassifySides computes a triangle's classification from its vertex sides.
//
// A vertex on the plane is compatible with both sides, so only a triangle
// with at least one vertex strictly above and one strictly below is
// intersecting. A triangle with no vertex below is AllAbove, even if every
// vertex is on the plane.
func ClassifySides(sides [3]Side) Classification {
	var above, below bool
	for _, s := range sides {
		if s == Above {
			above = true
		} else if s == Below {
			below = true
		}
	}
	if !below {
		return AllAbove
	} else if !above {
		return AllBelow
	}
	return Intersecting
}

// ClassifyTriangle classifies t against p with tolerance eps.
func ClassifyTriangle(p Plane, t *Triangle, eps float64) Classification {
	var sides [3]Side
	for i, v := range t {
		sides[i] = p.Side(v.Position, eps)
	}
	return ClassifySides(sides)
}

// classifier implements the first stage of the slicing pipeline.
//
// Each triangle is classified independently. Triangles on one side are copied
// into the matching hull, and intersecting triangles are compacted into a
// work list for the splitter.
type classifier struct {
	Mesh  *SubMesh
	Plane Plane
	Eps   float64

	Upper *arena[Triangle]
	Lower *arena[Triangle]
	Work  *arena[int]
}

func (c *classifier) Classify(i int) {
	idx := c.Mesh.Indices[i*3 : i*3+3]
	var sides [3]Side
	for j, vIdx := range idx {
		sides[j] = c.Plane.Side(c.Mesh.Positions[vIdx], c.Eps)
	}
	switch ClassifySides(sides) {
	case AllAbove:
		c.Upper.Append(c.Mesh.Triangle(i))
	case AllBelow:
		c.Lower.Append(c.Mesh.Triangle(i))
	default:
		c.Work.Append(i)
	}
}
