// Package dxf loads DXF streams into a dwgfix document.
//
// Only POLYLINE entities are imported; everything else (splines, text,
// dimensions) is counted and skipped. DXF stores each vertex with its own
// bulge, which maps one-to-one onto the dwgfix polyline model.
package dxf

import (
	"fmt"
	"io"

	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"

	"github.com/dwgtools/dwgfix"
)

// Load parses a DXF stream and returns a document holding its polylines.
// Entities of unsupported kinds are skipped with a debug log line.
//
// The parser does not surface an extrusion direction, so imported
// polylines carry the canonical normal; callers reproducing host drawings
// with tilted or inverted planes set Normal on the result themselves.
func Load(r io.Reader) (*dwgfix.Document, error) {
	src, err := document.DxfDocumentFromStream(r)
	if err != nil {
		return nil, fmt.Errorf("dxf: parsing stream: %w", err)
	}

	doc := dwgfix.NewDocument()
	skipped := 0
	for _, e := range src.Entities.Entities {
		switch v := e.(type) {
		case *entities.Polyline:
			doc.Insert(FromPolyline(v))
		default:
			skipped++
		}
	}
	if skipped > 0 {
		dwgfix.Logger().Debug("dxf: skipped unsupported entities", "count", skipped)
	}
	return doc, nil
}

// FromPolyline converts a parsed DXF polyline into the dwgfix model.
//
// Vertex locations supply the plane coordinates and, through the first
// vertex's Z, the elevation. A polyline whose last vertex coincides with
// its first is treated as closed and the duplicate vertex is dropped.
func FromPolyline(src *entities.Polyline) *dwgfix.Polyline {
	pl := &dwgfix.Polyline{
		Normal:   dwgfix.WorldZ,
		Vertices: make([]dwgfix.Point, 0, len(src.Vertices)),
		Bulges:   make([]float64, 0, len(src.Vertices)),
	}
	for i, v := range src.Vertices {
		if i == 0 {
			pl.Elevation = v.Location.Z
		}
		pl.Vertices = append(pl.Vertices, dwgfix.Point{X: v.Location.X, Y: v.Location.Y})
		pl.Bulges = append(pl.Bulges, v.Bulge)
	}

	n := len(pl.Vertices)
	if n > 2 && pl.Vertices[0] == pl.Vertices[n-1] {
		pl.Vertices = pl.Vertices[:n-1]
		pl.Bulges = pl.Bulges[:n-1]
		pl.Closed = true
	}
	return pl
}
