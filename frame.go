package dwgfix

import "math"

// arbitraryAxisThreshold is the 1/64 cutoff the DXF arbitrary axis
// algorithm uses to decide which world axis seeds the OCS X axis.
const arbitraryAxisThreshold = 1.0 / 64.0

// Frame is the orthonormal basis of an entity's object coordinate system
// (OCS). AxisX and AxisY span the entity's plane; Normal completes the
// right-handed triple. A 2D plane coordinate (x, y) at elevation e maps to
// world space as x*AxisX + y*AxisY + e*Normal.
//
// The basis is derived from the normal alone, using the DXF arbitrary axis
// algorithm, so two entities with the same normal always agree on what
// their plane coordinates mean.
type Frame struct {
	AxisX, AxisY, Normal Vec3
}

// NewFrame derives the OCS basis for the given normal via the arbitrary
// axis algorithm: if the normal is close to the world Z axis (|Nx| and
// |Ny| both below 1/64), AxisX = WorldY x N, otherwise AxisX = WorldZ x N;
// AxisY = N x AxisX. The normal is normalized first.
func NewFrame(normal Vec3) Frame {
	n := normal.Normalize()

	var seed Vec3
	if math.Abs(n.X) < arbitraryAxisThreshold && math.Abs(n.Y) < arbitraryAxisThreshold {
		seed = Vec3{X: 0, Y: 1, Z: 0}
	} else {
		seed = Vec3{X: 0, Y: 0, Z: 1}
	}

	ax := seed.Cross(n).Normalize()
	ay := n.Cross(ax).Normalize()
	return Frame{AxisX: ax, AxisY: ay, Normal: n}
}

// ToWorld resolves a plane coordinate at the given elevation into world
// space.
func (f Frame) ToWorld(p Point, elevation float64) Vec3 {
	return f.AxisX.Mul(p.X).
		Add(f.AxisY.Mul(p.Y)).
		Add(f.Normal.Mul(elevation))
}

// ToPlane projects a world-space position into the frame's plane
// coordinates, discarding the out-of-plane component.
func (f Frame) ToPlane(w Vec3) Point {
	return Point{X: f.AxisX.Dot(w), Y: f.AxisY.Dot(w)}
}

// FlatDeterminant is the determinant of the 2D linear map that takes plane
// coordinates to the world X/Y components of their resolved positions
// (resolve against the frame, then drop Z). Its sign tells whether that
// map preserves or reverses handedness; for an OCS frame it equals the Z
// component of the normal.
func (f Frame) FlatDeterminant() float64 {
	return f.AxisX.X*f.AxisY.Y - f.AxisX.Y*f.AxisY.X
}
