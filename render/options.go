package render

// Option configures a rasterization.
//
// Example:
//
//	img := render.Image(doc, 512, 512, render.WithPadding(24))
type Option func(*options)

// options holds optional configuration for a rasterization.
type options struct {
	padding     int
	strokeWidth float64
}

// defaultOptions returns the default rasterization options.
func defaultOptions() options {
	return options{
		padding:     16,
		strokeWidth: 1.5,
	}
}

// WithPadding sets the margin, in pixels, kept between the drawing's
// bounding box and the image border.
func WithPadding(px int) Option {
	return func(o *options) {
		if px >= 0 {
			o.padding = px
		}
	}
}

// WithStrokeWidth sets the pen width, in pixels, used for open polylines.
func WithStrokeWidth(px float64) Option {
	return func(o *options) {
		if px > 0 {
			o.strokeWidth = px
		}
	}
}
