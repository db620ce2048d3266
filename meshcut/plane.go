package meshcut

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/unixpickle/model3d/model3d"
)

// Side is the position of a point relative to a Plane.
type Side int8

const (
	Below Side = -1
	On    Side = 0
	Above Side = 1
)

func (s Side) String() string {
	switch s {
	case Below:
		return "below"
	case Above:
		return "above"
	default:
		return "on"
	}
}

// A Plane is the set of points p where Normal.Dot(p) == Offset.
//
// Normal should have unit length. Points with a positive signed distance are
// above the plane.
type Plane struct {
	Normal model3d.Coord3D
	Offset float64
}

// NewPlane creates a plane from a (possibly unnormalized) normal and offset.
// The offset is rescaled along with the normal so that the plane stays in
// place.
func NewPlane(normal model3d.Coord3D, offset float64) Plane {
	norm := normal.Norm()
	if norm == 0 {
		panic("plane normal must be non-zero")
	}
	return Plane{
		Normal: normal.Scale(1 / norm),
		Offset: offset / norm,
	}
}

// NewPlanePoint creates a plane with the given normal passing through point.
func NewPlanePoint(normal, point model3d.Coord3D) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Offset: n.Dot(point)}
}

// NewPlanePoints creates a plane through three points, facing according to
// the right-hand rule.
func NewPlanePoints(p1, p2, p3 model3d.Coord3D) Plane {
	return NewPlanePoint(faceNormal(p1, p2, p3), p1)
}

// SignedDistance computes n.p - d.
func (p Plane) SignedDistance(c model3d.Coord3D) float64 {
	return p.Normal.Dot(c) - p.Offset
}

// Side classifies c, treating distances within eps as On.
func (p Plane) Side(c model3d.Coord3D, eps float64) Side {
	return sideOf(p.SignedDistance(c), eps)
}

func sideOf(dist, eps float64) Side {
	if dist > eps {
		return Above
	} else if dist < -eps {
		return Below
	}
	return On
}

// Flip returns the same plane facing the opposite way.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Scale(-1), Offset: -p.Offset}
}

// Origin returns the point of the plane closest to the origin.
func (p Plane) Origin() model3d.Coord3D {
	return p.Normal.Scale(p.Offset)
}

// Basis returns two unit vectors spanning the plane, such that u.Cross(v)
// equals the normal.
func (p Plane) Basis() (u, v model3d.Coord3D) {
	n := p.Normal
	axis := model3d.X(1)
	if math.Abs(n.X) > 0.9 {
		axis = model3d.Y(1)
	}
	u = axis.Sub(n.Scale(n.Dot(axis))).Normalize()
	v = n.Cross(u)
	return
}

// Transform maps the plane through an affine transformation.
//
// This can be used to bring a world-space plane into the local space of a
// mesh by passing the inverse of the mesh's model matrix.
func (p Plane) Transform(m mgl64.Mat4) Plane {
	origin := p.Origin()
	o := m.Mul4x1(mgl64.Vec4{origin.X, origin.Y, origin.Z, 1})
	point := model3d.XYZ(o[0], o[1], o[2])
	if w := o[3]; w != 0 && w != 1 {
		point = point.Scale(1 / w)
	}
	n := m.Inv().Transpose().Mul4x1(mgl64.Vec4{p.Normal.X, p.Normal.Y, p.Normal.Z, 0})
	return NewPlanePoint(model3d.XYZ(n[0], n[1], n[2]), point)
}

// boundsSide checks if an axis-aligned box lies strictly on one side of the
// plane. If the box touches or straddles the plane, On is returned.
func (p Plane) boundsSide(min, max model3d.Coord3D, eps float64) Side {
	var above, below bool
	for i := 0; i < 8; i++ {
		corner := min
		if i&1 != 0 {
			corner.X = max.X
		}
		if i&2 != 0 {
			corner.Y = max.Y
		}
		if i&4 != 0 {
			corner.Z = max.Z
		}
		switch p.Side(corner, eps) {
		case Above:
			above = true
		case Below:
			below = true
		default:
			return On
		}
	}
	if above && !below {
		return Above
	} else if below && !above {
		return Below
	}
	return On
}
