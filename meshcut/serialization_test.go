package meshcut

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

func TestReadWriteHull(t *testing.T) {
	// Note: all values in this hull are equivalent in float32 and float64.
	hull := &Hull{
		Attributes: AllAttributes,
		Triangles: []Triangle{
			{
				{
					Position: model3d.XYZ(-0.5, 0.75, 0.0),
					Normal:   model3d.Z(1),
					UV:       model2d.XY(0.25, 0.5),
					Tangent:  Tangent{Dir: model3d.X(1), W: 1},
				},
				{
					Position: model3d.XYZ(2.0, 3.0, 4.0),
					Normal:   model3d.Y(-1),
					UV:       model2d.XY(1, 0.125),
					Tangent:  Tangent{Dir: model3d.Z(1), W: -1},
				},
				{
					Position: model3d.XYZ(0.5, 0.25, -0.125),
					Normal:   model3d.X(1),
					UV:       model2d.XY(0, 0),
					Tangent:  Tangent{Dir: model3d.Y(1), W: 1},
				},
			},
		},
	}
	var b bytes.Buffer
	if err := WriteHull(&b, hull); err != nil {
		t.Fatal(err)
	}
	if result, err := ReadHull(&b); err != nil {
		t.Fatal(err)
	} else {
		if !reflect.DeepEqual(result, hull) {
			t.Fatalf("%v != %v", hull, result)
		}
	}

	// Attributes outside the set are not stored.
	hull.Attributes = UVs
	b.Reset()
	if err := WriteHull(&b, hull); err != nil {
		t.Fatal(err)
	}
	if expected := 8 + 4*3*5; b.Len() != expected {
		t.Fatalf("expected %d bytes but got %d", expected, b.Len())
	}
	result, err := ReadHull(&b)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range result.Triangles[0] {
		if v != hull.Triangles[0][i].mask(UVs) {
			t.Errorf("vertex %d: unexpected value %v", i, v)
		}
	}
}

func TestReadHullCorrupt(t *testing.T) {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, []uint32{16, 1})
	if _, err := ReadHull(&b); err == nil {
		t.Error("expected error for unknown attributes")
	}

	b.Reset()
	binary.Write(&b, binary.LittleEndian, []uint32{0, maxSerializedCount + 1})
	if _, err := ReadHull(&b); err == nil {
		t.Error("expected error for huge count")
	}

	// A count within the limit but without records must fail on the read
	// rather than allocating for every claimed triangle.
	for _, attrs := range []uint32{0, uint32(AllAttributes)} {
		b.Reset()
		binary.Write(&b, binary.LittleEndian, []uint32{attrs, maxSerializedCount})
		if _, err := ReadHull(&b); err == nil {
			t.Error("expected error for missing records")
		}
	}

	b.Reset()
	binary.Write(&b, binary.LittleEndian, []uint32{0, 2})
	binary.Write(&b, binary.LittleEndian, make([]float32, 9))
	if _, err := ReadHull(&b); err == nil {
		t.Error("expected error for truncated data")
	}
}

func TestReadWritePoints(t *testing.T) {
	points := []model3d.Coord3D{
		model3d.XYZ(1, 2, 3),
		model3d.XYZ(-0.5, 0.25, 0),
	}
	var b bytes.Buffer
	if err := WritePoints(&b, points); err != nil {
		t.Fatal(err)
	}
	if result, err := ReadPoints(&b); err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(result, points) {
		t.Fatalf("%v != %v", points, result)
	}
}

func TestReadPointsCorrupt(t *testing.T) {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, uint32(maxSerializedCount+1))
	if _, err := ReadPoints(&b); err == nil {
		t.Error("expected error for huge count")
	}

	b.Reset()
	binary.Write(&b, binary.LittleEndian, uint32(maxSerializedCount))
	if _, err := ReadPoints(&b); err == nil {
		t.Error("expected error for missing points")
	}

	b.Reset()
	binary.Write(&b, binary.LittleEndian, uint32(2))
	binary.Write(&b, binary.LittleEndian, []float32{1, 2, 3, 4})
	if _, err := ReadPoints(&b); err == nil {
		t.Error("expected error for truncated points")
	}
}

func TestLoadSave(t *testing.T) {
	res, err := Slice(icosphereSubMesh(), NewPlane(model3d.Z(1), 0))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "upper.bin")
	if err := Save(path, res.Upper, WriteHull); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path, ReadHull)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != res.Upper.Len() || loaded.Attributes != res.Upper.Attributes {
		t.Fatalf("unexpected hull: %d triangles with %s", loaded.Len(), loaded.Attributes)
	}
	for i, tri := range loaded.Triangles {
		for j, v := range tri {
			if v.Position.Dist(res.Upper.Triangles[i][j].Position) > 1e-6 {
				t.Fatalf("triangle %d vertex %d: %v is too far from %v", i, j, v.Position,
					res.Upper.Triangles[i][j].Position)
			}
		}
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.bin"), ReadHull); err == nil {
		t.Error("expected error for missing file")
	}
}
