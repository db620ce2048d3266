package meshcut

import (
	"math/rand"
	"testing"

	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestHullSubMesh(t *testing.T) {
	mesh := icosphereSubMesh()
	res, err := Slice(mesh, NewPlane(model3d.XYZ(0.3, 0.1, 1), 0.1))
	if err != nil {
		t.Fatal(err)
	}
	sub := res.Lower.SubMesh()
	if err := sub.Validate(); err != nil {
		t.Fatal(err)
	}
	if sub.NumTriangles() != res.Lower.Len() {
		t.Fatalf("expected %d triangles but got %d", res.Lower.Len(), sub.NumTriangles())
	}
	if len(sub.Positions) >= 3*sub.NumTriangles() {
		t.Error("shared vertices should be welded")
	}
	for i := 0; i < sub.NumTriangles(); i++ {
		if sub.Triangle(i) != res.Lower.Triangles[i] {
			t.Fatalf("triangle %d does not match", i)
		}
	}

	// Cutting a hull again by a parallel plane keeps the area.
	res2, err := Slice(sub, NewPlane(model3d.XYZ(0.3, 0.1, 1), -0.3))
	if err != nil {
		t.Fatal(err)
	}
	if !res2.Intersected {
		t.Fatal("second plane should intersect the lower hull")
	}
	area := res2.Upper.Area() + res2.Lower.Area()
	if !scalar.EqualWithinAbs(area, res.Lower.Area(), 1e-8) {
		t.Errorf("expected area %f but got %f", res.Lower.Area(), area)
	}
}

func TestHullMesh(t *testing.T) {
	res, err := Slice(icosphereSubMesh(), NewPlane(model3d.Y(1), 0.4))
	if err != nil {
		t.Fatal(err)
	}
	for _, h := range []*Hull{res.Upper, res.Lower} {
		tris := h.Mesh().TriangleSlice()
		if len(tris) != h.Len() {
			t.Errorf("expected %d triangles but got %d", h.Len(), len(tris))
		}
		var area float64
		for _, tri := range tris {
			area += tri.Area()
		}
		if !scalar.EqualWithinAbs(area, h.Area(), 1e-8) {
			t.Errorf("expected area %f but got %f", h.Area(), area)
		}
	}
}

func TestHullAccessors(t *testing.T) {
	rand.Seed(2)
	mesh := randomSubMesh(50)
	for _, attrs := range []AttributeSet{0, Normals, UVs | Tangents, AllAttributes} {
		sub := &SubMesh{
			Attributes: attrs,
			Positions:  mesh.Positions,
			Indices:    mesh.Indices,
		}
		if attrs.Has(Normals) {
			sub.Normals = mesh.Normals
		}
		if attrs.Has(UVs) {
			sub.UVs = mesh.UVs
		}
		if attrs.Has(Tangents) {
			sub.Tangents = mesh.Tangents
		}
		res, err := Slice(sub, NewPlane(model3d.X(1), 0))
		if err != nil {
			t.Fatal(err)
		}
		h := res.Upper
		if len(h.Positions()) != 3*h.Len() {
			t.Fatalf("%s: unexpected position count", attrs)
		}
		if (h.Normals() != nil) != attrs.Has(Normals) ||
			(h.UVs() != nil) != attrs.Has(UVs) ||
			(h.Tangents() != nil) != attrs.Has(Tangents) {
			t.Errorf("%s: accessors disagree with attributes", attrs)
		}
		for i, v := range h.Positions() {
			if v != h.Triangles[i/3][i%3].Position {
				t.Fatalf("%s: position %d out of order", attrs, i)
			}
		}
	}
}

func TestAttributeSetString(t *testing.T) {
	cases := map[AttributeSet]string{
		0:             "positions",
		Normals:       "positions+normals",
		UVs | Normals: "positions+normals+uvs",
		AllAttributes: "positions+normals+uvs+tangents",
	}
	for attrs, expected := range cases {
		if actual := attrs.String(); actual != expected {
			t.Errorf("expected %s but got %s", expected, actual)
		}
	}
}
