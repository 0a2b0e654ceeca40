// Package dwgfix provides cleanup passes for planar CAD drawings.
//
// # Overview
//
// dwgfix repairs common defects left behind by drawing editors: polylines
// whose object coordinate system (OCS) normal points away from the world
// up-axis, text styles that differ only in name casing, and style table
// entries nothing references anymore. The central pass is the orientation
// normalizer, which re-expresses a polyline directly in the world XY plane
// without changing its rendered shape.
//
// # Quick Start
//
//	import "github.com/dwgtools/dwgfix"
//
//	doc := dwgfix.NewDocument()
//	doc.Insert(&dwgfix.Polyline{
//	    Normal:   dwgfix.V3(0, 0, -1),
//	    Vertices: []dwgfix.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
//	    Bulges:   []float64{0, 1, 0, -1},
//	    Closed:   true,
//	})
//
//	tx := doc.Begin()
//	fixed, err := dwgfix.FlattenNormals(tx, doc.Select(dwgfix.KindPolyline))
//	if err != nil {
//	    tx.Discard()
//	    return err
//	}
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//	fmt.Printf("Fixed %d inverted polyline normals\n", fixed)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Document, Tx, Polyline, Text, Style, the cleanup passes
//   - dxf: ingest of DXF streams into a Document
//   - render: CPU rasterizer for previews and visual regression checks
//
// # Coordinate System
//
// Polyline vertices are 2D coordinates in the entity's own plane, the
// plane orthogonal to its normal. The mapping between that plane and
// world space follows the DXF arbitrary axis algorithm; see Frame.
// A bulge value b at vertex i encodes a circular arc to vertex i+1 with
// included angle 4*atan(b), positive meaning counter-clockwise as seen
// looking down the entity's normal.
package dwgfix

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
