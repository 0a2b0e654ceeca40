// Package render rasterizes a dwgfix document to an image.
//
// It exists for previews and for visual regression checks: the cleanup
// passes promise to leave rendered geometry unchanged, and comparing two
// rasterizations is the executable form of that promise. Closed polylines
// are filled, open ones are stroked with a thin pen. Rendering is CPU
// only, via golang.org/x/image/vector.
package render
