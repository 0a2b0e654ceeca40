package dwgfix

import (
	"fmt"
	"math"
)

// Polyline is a planar polyline: an ordered run of 2D vertices in the
// entity's own plane, with an optional circular-arc bulge per vertex.
//
// Vertices are plane coordinates, not world coordinates; the plane is the
// one orthogonal to Normal, at distance Elevation along it, with the 2D
// axes given by the arbitrary axis algorithm (see Frame). Bulges align
// with Vertices by index: a non-zero Bulges[i] makes the segment from
// vertex i to vertex i+1 a circular arc with included angle 4*atan(b),
// positive counter-clockwise as seen looking down +Normal. The segment
// after the last vertex exists only when Closed is true.
type Polyline struct {
	Normal    Vec3
	Vertices  []Point
	Bulges    []float64
	Elevation float64
	Closed    bool
	Layer     string
}

// Kind returns KindPolyline.
func (pl *Polyline) Kind() Kind { return KindPolyline }

// Clone returns a deep copy of the polyline, including its vertex and
// bulge slices.
func (pl *Polyline) Clone() Entity {
	c := *pl
	c.Vertices = append([]Point(nil), pl.Vertices...)
	c.Bulges = append([]float64(nil), pl.Bulges...)
	return &c
}

// normalTolerance bounds how far a stored normal may drift from unit
// length before the entity is considered malformed.
const normalTolerance = 1e-9

// Validate reports whether the polyline is well-formed: one bulge per
// vertex and a unit normal.
func (pl *Polyline) Validate() error {
	if len(pl.Vertices) != len(pl.Bulges) {
		return fmt.Errorf("%w: %d vertices but %d bulges",
			ErrMalformedEntity, len(pl.Vertices), len(pl.Bulges))
	}
	if !pl.Normal.IsUnit(normalTolerance) {
		return fmt.Errorf("%w: non-unit normal %+v", ErrMalformedEntity, pl.Normal)
	}
	return nil
}

// Frame returns the polyline's OCS basis, derived from its normal.
func (pl *Polyline) Frame() Frame {
	return NewFrame(pl.Normal)
}

// segments returns the number of drawable segments.
func (pl *Polyline) segments() int {
	n := len(pl.Vertices)
	if n < 2 {
		return 0
	}
	if pl.Closed {
		return n
	}
	return n - 1
}

// arc describes the circle a bulged segment lies on, in plane coordinates.
type arc struct {
	center Point
	radius float64
	start  float64 // start angle, radians
	sweep  float64 // included angle, signed
}

// segmentArc recovers the arc for segment i (from vertex i to the next
// vertex). Only valid for non-zero bulges and distinct endpoints.
//
// The center sits on the chord's perpendicular bisector at distance
// (chord/2)/tan(sweep/2) from the midpoint, on the left of the chord for
// positive bulges. The degenerate tan at sweep == pi (a half circle,
// bulge +/-1) falls out naturally as a zero offset.
func (pl *Polyline) segmentArc(i int) arc {
	p1 := pl.Vertices[i]
	p2 := pl.Vertices[(i+1)%len(pl.Vertices)]
	b := pl.Bulges[i]

	sweep := 4 * math.Atan(b)
	chord := p2.Sub(p1)
	d := chord.Length()

	m := p1.Lerp(p2, 0.5)
	offset := d / (2 * math.Tan(sweep/2))
	c := m.Add(chord.Normalize().Perp().Mul(offset))

	v := p1.Sub(c)
	return arc{
		center: c,
		radius: v.Length(),
		start:  math.Atan2(v.Y, v.X),
		sweep:  sweep,
	}
}

// maxArcStep is the widest angle one tessellated chord may span.
const maxArcStep = math.Pi / 16

// Outline tessellates the polyline into plane-coordinate points, with
// every arc segment subdivided so no chord spans more than maxArcStep of
// arc. Straight segments contribute only their endpoints. For a closed
// polyline the first point is not repeated at the end.
func (pl *Polyline) Outline() []Point {
	segs := pl.segments()
	if segs == 0 {
		return append([]Point(nil), pl.Vertices...)
	}

	pts := make([]Point, 0, len(pl.Vertices)*2)
	for i := 0; i < segs; i++ {
		p1 := pl.Vertices[i]
		p2 := pl.Vertices[(i+1)%len(pl.Vertices)]
		pts = append(pts, p1)

		b := pl.Bulges[i]
		if b == 0 || p1.Distance(p2) == 0 {
			continue
		}

		a := pl.segmentArc(i)
		steps := int(math.Ceil(math.Abs(a.sweep) / maxArcStep))
		for k := 1; k < steps; k++ {
			angle := a.start + a.sweep*float64(k)/float64(steps)
			pts = append(pts, Point{
				X: a.center.X + a.radius*math.Cos(angle),
				Y: a.center.Y + a.radius*math.Sin(angle),
			})
		}
	}
	if !pl.Closed {
		pts = append(pts, pl.Vertices[len(pl.Vertices)-1])
	}
	return pts
}

// WorldOutline tessellates the polyline and resolves every point into
// world space through the polyline's own frame. This is the curve as a
// viewer sees it, independent of which plane the coordinates are stored
// in; two polylines with equal WorldOutlines render identically.
func (pl *Polyline) WorldOutline() []Vec3 {
	f := pl.Frame()
	flat := pl.Outline()
	out := make([]Vec3, len(flat))
	for i, p := range flat {
		out[i] = f.ToWorld(p, pl.Elevation)
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the tessellated outline
// in plane coordinates. ok is false for an empty polyline.
func (pl *Polyline) Bounds() (min, max Point, ok bool) {
	pts := pl.Outline()
	if len(pts) == 0 {
		return Point{}, Point{}, false
	}
	min, max = pts[0], pts[0]
	for _, p := range pts[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max, true
}
