package render

import (
	"errors"
	"image"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/vector"

	"github.com/dwgtools/dwgfix"
)

// ErrNothingToRender is returned when the document holds no polyline
// geometry with non-zero extent.
var ErrNothingToRender = errors.New("render: document has no drawable geometry")

// viewport maps world XY coordinates to pixel coordinates: uniform scale,
// Y flipped so world up is image up.
type viewport struct {
	scale      float64
	minX, maxY float64
	padding    float64
}

func (v viewport) apply(p dwgfix.Point) (float32, float32) {
	x := (p.X-v.minX)*v.scale + v.padding
	y := (v.maxY-p.Y)*v.scale + v.padding
	return float32(x), float32(y)
}

// outline is one polyline's tessellated world-XY silhouette.
type outline struct {
	pts    []dwgfix.Point
	closed bool
}

// collect gathers the world-space silhouettes of every well-formed
// polyline in the document. Malformed polylines are skipped with a
// warning, matching the batch passes.
func collect(doc *dwgfix.Document) []outline {
	var outs []outline
	for _, h := range doc.Select(dwgfix.KindPolyline) {
		pl, ok := doc.Get(h).(*dwgfix.Polyline)
		if !ok {
			continue
		}
		if err := pl.Validate(); err != nil {
			dwgfix.Logger().Warn("render: skipping polyline", "handle", h, "err", err)
			continue
		}
		world := pl.WorldOutline()
		if len(world) < 2 {
			continue
		}
		pts := make([]dwgfix.Point, len(world))
		for i, w := range world {
			pts[i] = dwgfix.Point{X: w.X, Y: w.Y}
		}
		outs = append(outs, outline{pts: pts, closed: pl.Closed})
	}
	return outs
}

// Image rasterizes the document's polylines into a width x height alpha
// mask. The drawing is scaled uniformly to fit, with the configured
// padding, and centered is not attempted: the bounding box is pinned to
// the padded origin.
func Image(doc *dwgfix.Document, width, height int, opts ...Option) (*image.Alpha, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	outs := collect(doc)
	if len(outs) == 0 {
		return nil, ErrNothingToRender
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, out := range outs {
		for _, p := range out.pts {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	dx, dy := maxX-minX, maxY-minY
	if dx == 0 && dy == 0 {
		return nil, ErrNothingToRender
	}

	innerW := float64(width - 2*o.padding)
	innerH := float64(height - 2*o.padding)
	if innerW <= 0 || innerH <= 0 {
		return nil, errors.New("render: image too small for padding")
	}
	scale := math.Inf(1)
	if dx > 0 {
		scale = innerW / dx
	}
	if dy > 0 {
		scale = math.Min(scale, innerH/dy)
	}
	vp := viewport{scale: scale, minX: minX, maxY: maxY, padding: float64(o.padding)}

	z := vector.NewRasterizer(width, height)
	for _, out := range outs {
		if out.closed {
			fillContour(z, vp, out.pts)
		} else {
			strokePolyline(z, vp, out.pts, o.strokeWidth)
		}
	}

	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst, nil
}

// fillContour adds a closed contour to the rasterizer.
func fillContour(z *vector.Rasterizer, vp viewport, pts []dwgfix.Point) {
	x, y := vp.apply(pts[0])
	z.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = vp.apply(p)
		z.LineTo(x, y)
	}
	z.ClosePath()
}

// strokePolyline draws each segment of an open polyline as a thin quad.
// Joints are left unmitred; at preview pen widths the gaps are invisible.
func strokePolyline(z *vector.Rasterizer, vp viewport, pts []dwgfix.Point, width float64) {
	half := width / 2
	for i := 0; i+1 < len(pts); i++ {
		ax, ay := vp.apply(pts[i])
		bx, by := vp.apply(pts[i+1])

		dx, dy := float64(bx-ax), float64(by-ay)
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		// Unit perpendicular in pixel space.
		px := float32(-dy / length * half)
		py := float32(dx / length * half)

		z.MoveTo(ax+px, ay+py)
		z.LineTo(bx+px, by+py)
		z.LineTo(bx-px, by-py)
		z.LineTo(ax-px, ay-py)
		z.ClosePath()
	}
}

// SavePNG rasterizes the document and writes it to path as a PNG.
func SavePNG(path string, doc *dwgfix.Document, width, height int, opts ...Option) error {
	img, err := Image(doc, width, height, opts...)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
