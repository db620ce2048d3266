package meshcut

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// maxSerializedCount bounds counts read from a stream, to avoid huge
// allocations on corrupt input.
const maxSerializedCount = 1 << 28

// maxPreallocCount bounds the capacity reserved before records are read, so
// that a header alone cannot cause a large allocation.
const maxPreallocCount = 1 << 16

// WriteHull serializes h in a 32-bit precision binary format.
//
// Only the attributes present in h.Attributes are written.
func WriteHull(w io.Writer, h *Hull) error {
	header := []uint32{uint32(h.Attributes), uint32(len(h.Triangles))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return errors.Wrap(err, "write hull")
	}
	record := make([]float32, 0, 3*vertexRecordSize(h.Attributes))
	for _, t := range h.Triangles {
		record = record[:0]
		for _, v := range t {
			record = appendVertexRecord(record, h.Attributes, v)
		}
		if err := binary.Write(w, binary.LittleEndian, record); err != nil {
			return errors.Wrap(err, "write hull")
		}
	}
	return nil
}

// ReadHull reads the output written by WriteHull.
func ReadHull(r io.Reader) (*Hull, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "read hull")
	}
	attrs := AttributeSet(header[0])
	if attrs&^AllAttributes != 0 {
		return nil, errors.Errorf("read hull: unknown attribute flags: %#x", header[0])
	}
	if header[1] > maxSerializedCount {
		return nil, errors.Errorf("read hull: triangle count too large: %d", header[1])
	}
	count := int(header[1])
	res := &Hull{
		Attributes: attrs,
		Triangles:  make([]Triangle, 0, essentials.MinInt(count, maxPreallocCount)),
	}
	record := make([]float32, 3*vertexRecordSize(attrs))
	for i := 0; i < count; i++ {
		if err := binary.Read(r, binary.LittleEndian, record); err != nil {
			return nil, errors.Wrap(err, "read hull")
		}
		var t Triangle
		rest := record
		for j := range t {
			t[j], rest = parseVertexRecord(rest, attrs)
		}
		res.Triangles = append(res.Triangles, t)
	}
	return res, nil
}

// WritePoints serializes intersection points in a 32-bit precision binary
// format.
func WritePoints(w io.Writer, points []model3d.Coord3D) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(points))); err != nil {
		return errors.Wrap(err, "write points")
	}
	data := make([]float32, 0, len(points)*3)
	for _, p := range points {
		data = append(data, float32(p.X), float32(p.Y), float32(p.Z))
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return errors.Wrap(err, "write points")
	}
	return nil
}

// ReadPoints reads the output written by WritePoints.
func ReadPoints(r io.Reader) ([]model3d.Coord3D, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(err, "read points")
	}
	if count > maxSerializedCount {
		return nil, errors.Errorf("read points: count too large: %d", count)
	}
	res := make([]model3d.Coord3D, 0, essentials.MinInt(int(count), maxPreallocCount))
	var data [3]float32
	for i := 0; i < int(count); i++ {
		if err := binary.Read(r, binary.LittleEndian, data[:]); err != nil {
			return nil, errors.Wrap(err, "read points")
		}
		res = append(res, float32Coord3D(data[:]))
	}
	return res, nil
}

func vertexRecordSize(attrs AttributeSet) int {
	size := 3
	if attrs.Has(Normals) {
		size += 3
	}
	if attrs.Has(UVs) {
		size += 2
	}
	if attrs.Has(Tangents) {
		size += 4
	}
	return size
}

func appendVertexRecord(record []float32, attrs AttributeSet, v Vertex) []float32 {
	record = appendCoord3D(record, v.Position)
	if attrs.Has(Normals) {
		record = appendCoord3D(record, v.Normal)
	}
	if attrs.Has(UVs) {
		record = append(record, float32(v.UV.X), float32(v.UV.Y))
	}
	if attrs.Has(Tangents) {
		record = appendCoord3D(record, v.Tangent.Dir)
		record = append(record, float32(v.Tangent.W))
	}
	return record
}

func parseVertexRecord(record []float32, attrs AttributeSet) (Vertex, []float32) {
	var v Vertex
	v.Position = float32Coord3D(record)
	record = record[3:]
	if attrs.Has(Normals) {
		v.Normal = float32Coord3D(record)
		record = record[3:]
	}
	if attrs.Has(UVs) {
		v.UV = model2d.XY(float64(record[0]), float64(record[1]))
		record = record[2:]
	}
	if attrs.Has(Tangents) {
		v.Tangent = Tangent{Dir: float32Coord3D(record), W: float64(record[3])}
		record = record[4:]
	}
	return v, record
}

func appendCoord3D(record []float32, c model3d.Coord3D) []float32 {
	return append(record, float32(c.X), float32(c.Y), float32(c.Z))
}

func float32Coord3D(data []float32) model3d.Coord3D {
	return model3d.XYZ(float64(data[0]), float64(data[1]), float64(data[2]))
}
