package meshcut

import (
	"math/rand"
	"testing"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

func TestClassifyTriangleScenarios(t *testing.T) {
	plane := NewPlane(model3d.Z(1), 0)
	tri := func(d1, d2, d3 float64) *Triangle {
		return &Triangle{
			{Position: model3d.XYZ(0, 0, d1)},
			{Position: model3d.XYZ(1, 0, d2)},
			{Position: model3d.XYZ(0, 1, d3)},
		}
	}
	cases := []struct {
		Dists    [3]float64
		Expected Classification
	}{
		{[3]float64{1, 1, 1}, AllAbove},
		{[3]float64{-1, -1, -1}, AllBelow},
		{[3]float64{2, 2, -1}, Intersecting},
		{[3]float64{2, -1, -1}, Intersecting},
		{[3]float64{0, 1, -1}, Intersecting},
		{[3]float64{0, 0, 1}, AllAbove},
		{[3]float64{0, 0, -1}, AllBelow},
		{[3]float64{0, 0, 0}, AllAbove},
		{[3]float64{0, 1, 1}, AllAbove},
		{[3]float64{1e-7, -1e-7, 1}, AllAbove},
		{[3]float64{1e-7, -1e-7, -1}, AllBelow},
	}
	for _, c := range cases {
		actual := ClassifyTriangle(plane, tri(c.Dists[0], c.Dists[1], c.Dists[2]), DefaultEpsilon)
		if actual != c.Expected {
			t.Errorf("distances %v: expected %s but got %s", c.Dists, c.Expected, actual)
		}
	}
}

func TestClassifySidesTotal(t *testing.T) {
	for key := 0; key < 27; key++ {
		sides := decodeSideKey(key)
		c := ClassifySides(sides)
		var above, below bool
		for _, s := range sides {
			above = above || s == Above
			below = below || s == Below
		}
		switch c {
		case AllAbove:
			if below {
				t.Errorf("%v has a vertex below but is %s", sides, c)
			}
		case AllBelow:
			if above || !below {
				t.Errorf("%v should not be %s", sides, c)
			}
		case Intersecting:
			if !above || !below {
				t.Errorf("%v does not straddle the plane but is %s", sides, c)
			}
		default:
			t.Errorf("%v has unknown classification %d", sides, c)
		}
	}
}

func TestClassifierAppendsOnce(t *testing.T) {
	rand.Seed(0)
	mesh := randomSubMesh(2000)
	plane := NewPlane(model3d.XYZ(1, 2, 3), 0.1)
	n := mesh.NumTriangles()
	c := &classifier{
		Mesh:  mesh,
		Plane: plane,
		Eps:   DefaultEpsilon,
		Upper: newArena[Triangle](n),
		Lower: newArena[Triangle](n),
		Work:  newArena[int](n),
	}
	backend := &ParallelBackend{GrainSize: 7}
	if err := backend.Dispatch(n, c.Classify); err != nil {
		t.Fatal(err)
	}
	if total := c.Upper.Len() + c.Lower.Len() + c.Work.Len(); total != n {
		t.Fatalf("expected %d outputs but got %d", n, total)
	}
	seen := make([]bool, n)
	for _, i := range c.Work.Slice() {
		if seen[i] {
			t.Fatalf("triangle %d appended twice", i)
		}
		seen[i] = true
		tri := mesh.Triangle(i)
		if ClassifyTriangle(plane, &tri, DefaultEpsilon) != Intersecting {
			t.Fatalf("triangle %d should not be in the work list", i)
		}
	}
}

// randomSubMesh creates an unwelded mesh of random triangles with all
// attributes.
func randomSubMesh(numTris int) *SubMesh {
	res := &SubMesh{Attributes: AllAttributes}
	for i := 0; i < numTris*3; i++ {
		res.Positions = append(res.Positions, model3d.NewCoord3DRandNorm())
		res.Normals = append(res.Normals, model3d.NewCoord3DRandUnit())
		res.UVs = append(res.UVs, model2d.XY(rand.Float64(), rand.Float64()))
		w := 1.0
		if rand.Intn(2) == 0 {
			w = -1
		}
		res.Tangents = append(res.Tangents, Tangent{Dir: model3d.NewCoord3DRandUnit(), W: w})
		res.Indices = append(res.Indices, i)
	}
	return res
}
