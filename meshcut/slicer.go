// Package meshcut cuts triangle meshes in two along a plane.
package meshcut

import (
	"log/slog"
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"
)

// DefaultEpsilon is the default tolerance for treating a vertex as lying on
// the cutting plane.
const DefaultEpsilon = 1e-6

// A Slicer cuts sub-meshes along planes.
//
// The zero value is ready to use.
type Slicer struct {
	// Epsilon is the distance within which a vertex counts as being on the
	// plane. If 0, DefaultEpsilon is used. It may not be negative.
	Epsilon float64

	// Backend runs the two stages of the pipeline.
	// If nil, a ParallelBackend with default settings is used.
	Backend Backend

	// DisableFallback, if true, causes ErrBackendUnavailable to be returned
	// rather than retrying the slice on a SequentialBackend.
	DisableFallback bool

	// SkipBoundsCheck, if true, always runs the pipeline even when the
	// mesh's bounding box is entirely on one side of the plane.
	SkipBoundsCheck bool
}

// Result is the output of slicing one sub-mesh.
type Result struct {
	// Upper contains the triangles above the plane, and Lower those below.
	Upper *Hull
	Lower *Hull

	// Points contains two points on the plane for every intersecting
	// triangle, in no particular order and with duplicates.
	Points []model3d.Coord3D

	// Intersected is false if no triangle straddled the plane, in which case
	// the whole mesh lies on one side.
	Intersected bool

	// NumIntersecting is the number of source triangles which were split.
	NumIntersecting int

	// Backend is the name of the backend which produced the result.
	Backend string
}

// Slice cuts m along p with a default Slicer.
func Slice(m *SubMesh, p Plane) (*Result, error) {
	var s Slicer
	return s.Slice(m, p)
}

// Slice cuts m along p.
//
// The mesh is not modified. An error is returned if the mesh or epsilon is
// invalid, or if the backend is unavailable and fallback is disabled.
func (s *Slicer) Slice(m *SubMesh, p Plane) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "slice mesh")
	}
	eps := s.Epsilon
	if eps < 0 || math.IsNaN(eps) {
		return nil, errors.Errorf("slice mesh: invalid epsilon: %f", eps)
	} else if eps == 0 {
		eps = DefaultEpsilon
	}

	if !s.SkipBoundsCheck && len(m.Positions) > 0 {
		min, max := m.Bounds()
		if side := p.boundsSide(min, max, eps); side != On {
			Logger().Debug("plane misses mesh bounds", slog.String("side", side.String()))
			return wholeResult(m, side), nil
		}
	}

	backend := s.Backend
	if backend == nil {
		backend = &ParallelBackend{}
	}
	res, err := runPipeline(backend, m, p, eps)
	if err != nil && errors.Is(err, ErrBackendUnavailable) && !s.DisableFallback {
		Logger().Warn(
			"falling back to sequential slicing",
			slog.String("backend", backend.Name()),
			slog.String("error", err.Error()),
		)
		res, err = runPipeline(SequentialBackend{}, m, p, eps)
	}
	if err != nil {
		return nil, errors.Wrap(err, "slice mesh")
	}
	return res, nil
}

func runPipeline(b Backend, m *SubMesh, p Plane, eps float64) (*Result, error) {
	n := m.NumTriangles()
	c := &classifier{
		Mesh:  m,
		Plane: p,
		Eps:   eps,
		Upper: newArena[Triangle](n),
		Lower: newArena[Triangle](n),
		Work:  newArena[int](n),
	}
	if err := b.Dispatch(n, c.Classify); err != nil {
		return nil, errors.Wrap(err, "classify triangles")
	}

	// The compacted count is the only value carried between the stages.
	k := c.Work.Len()
	Logger().Debug(
		"classified triangles",
		slog.String("backend", b.Name()),
		slog.Int("upper", c.Upper.Len()),
		slog.Int("lower", c.Lower.Len()),
		slog.Int("intersecting", k),
	)

	c.Upper.Grow(2*k - (n - c.Upper.Len()))
	c.Lower.Grow(2*k - (n - c.Lower.Len()))
	s := &splitter{
		Mesh:   m,
		Plane:  p,
		Eps:    eps,
		Lerp:   newVertexLerp(m.Attributes),
		Work:   c.Work.Slice(),
		Upper:  c.Upper,
		Lower:  c.Lower,
		Points: newArena[model3d.Coord3D](2 * k),
	}
	if err := b.Dispatch(k, s.Split); err != nil {
		return nil, errors.Wrap(err, "split triangles")
	}

	return &Result{
		Upper:           &Hull{Attributes: m.Attributes, Triangles: s.Upper.Slice()},
		Lower:           &Hull{Attributes: m.Attributes, Triangles: s.Lower.Slice()},
		Points:          s.Points.Slice(),
		Intersected:     k > 0,
		NumIntersecting: k,
		Backend:         b.Name(),
	}, nil
}

func wholeResult(m *SubMesh, side Side) *Result {
	tris := make([]Triangle, m.NumTriangles())
	for i := range tris {
		tris[i] = m.Triangle(i)
	}
	whole := &Hull{Attributes: m.Attributes, Triangles: tris}
	empty := &Hull{Attributes: m.Attributes}
	res := &Result{Upper: whole, Lower: empty}
	if side == Below {
		res.Upper, res.Lower = empty, whole
	}
	return res
}
