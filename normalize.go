package dwgfix

import (
	"errors"
	"fmt"
)

// ErrMalformedEntity is returned for entities that violate their own
// structural invariants, such as a polyline whose vertex and bulge counts
// disagree. The entity is left untouched.
var ErrMalformedEntity = errors.New("dwgfix: malformed entity")

// ErrDegenerateNormal is returned when a polyline's normal lies in the
// world XY plane (Nz == 0). Flattening such an entity would project it
// onto a line, so it is left untouched.
var ErrDegenerateNormal = errors.New("dwgfix: normal is edge-on to the world plane")

// FlattenNormal re-expresses the polyline directly in the world XY plane.
//
// If the normal already equals WorldZ exactly, the polyline is untouched
// and the count is 0. Otherwise every vertex is resolved into world space
// against the current normal, its world X and Y become the new plane
// coordinates (the out-of-plane component is dropped), the normal becomes
// WorldZ, and the count is 1. Elevation is never modified.
//
// The map from old plane coordinates to new ones is linear with
// determinant Nz. When Nz is negative the map mirrors the plane, which
// reverses the traversal handedness of every arc, so each bulge's sign is
// flipped; curvature magnitude is invariant under a mirror, so magnitudes
// are kept. When Nz is positive handedness is preserved and bulges keep
// their signs. For the common inverted case, normal (0, 0, -1), this
// negates every bulge.
//
// The rewrite is all-or-nothing: a polyline that fails validation, or
// whose normal is edge-on (Nz == 0, see ErrDegenerateNormal), is left
// exactly as it was.
func FlattenNormal(pl *Polyline) (int, error) {
	if pl.Normal == WorldZ {
		return 0, nil
	}
	if err := pl.Validate(); err != nil {
		return 0, err
	}

	f := pl.Frame()
	if f.Normal.Z == 0 {
		return 0, fmt.Errorf("%w: %+v", ErrDegenerateNormal, pl.Normal)
	}
	mirrored := f.Normal.Z < 0

	vertices := make([]Point, len(pl.Vertices))
	bulges := make([]float64, len(pl.Bulges))
	for i, v := range pl.Vertices {
		w := f.ToWorld(v, pl.Elevation)
		vertices[i] = Point{X: w.X, Y: w.Y}
		if mirrored {
			bulges[i] = -pl.Bulges[i]
		} else {
			bulges[i] = pl.Bulges[i]
		}
	}

	pl.Vertices = vertices
	pl.Bulges = bulges
	pl.Normal = WorldZ
	return 1, nil
}

// FlattenNormals applies FlattenNormal to every polyline in the selection
// and returns the number of entities actually modified.
//
// Non-polyline entities are skipped silently. Entities that fail to
// flatten (malformed, degenerate normal, or unknown handle) are skipped
// with a warning and do not abort the batch. An empty selection yields 0.
func FlattenNormals(tx *Tx, sel Selection) (int, error) {
	fixed := 0
	for _, h := range sel {
		e, err := tx.OpenWrite(h)
		if err != nil {
			if errors.Is(err, ErrTxDone) {
				return fixed, err
			}
			Logger().Warn("dwgfix: skipping entity", "handle", h, "err", err)
			continue
		}
		pl, ok := e.(*Polyline)
		if !ok {
			continue
		}
		n, err := FlattenNormal(pl)
		if err != nil {
			Logger().Warn("dwgfix: cannot flatten polyline", "handle", h, "err", err)
			continue
		}
		fixed += n
	}
	return fixed, nil
}
