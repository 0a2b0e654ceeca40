// Command dwgfix runs the drawing cleanup passes over a DXF file or a
// built-in demo drawing and reports what it fixed.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/pterm/pterm"

	"github.com/dwgtools/dwgfix"
	"github.com/dwgtools/dwgfix/dxf"
	"github.com/dwgtools/dwgfix/render"
)

func main() {
	var (
		input   = flag.String("in", "", "DXF file to clean (empty: built-in demo drawing)")
		styles  = flag.Bool("styles", false, "normalize text style names")
		purge   = flag.Bool("purge", false, "purge unreferenced text styles")
		preview = flag.String("preview", "", "write a PNG preview of the cleaned drawing")
		verbose = flag.Bool("v", false, "log diagnostics to stderr")
	)
	flag.Parse()

	if *verbose {
		dwgfix.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	doc, err := loadDocument(*input)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	report := dwgfix.Audit(doc)
	pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"entities", "malformed polylines", "inverted normals", "unreferenced styles"},
		{
			fmt.Sprint(report.Entities),
			fmt.Sprint(report.MalformedPolylines),
			fmt.Sprint(report.InvertedNormals),
			fmt.Sprint(len(report.UnreferencedStyles)),
		},
	}).Render()

	tx := doc.Begin()
	fixed, err := dwgfix.FlattenNormals(tx, doc.Select(dwgfix.KindPolyline))
	if err != nil {
		tx.Discard()
		pterm.Error.Println(err)
		os.Exit(1)
	}

	renamed := 0
	if *styles {
		renamed, err = dwgfix.NormalizeStyles(tx, doc.Select(dwgfix.KindStyle, dwgfix.KindText))
		if err != nil {
			tx.Discard()
			pterm.Error.Println(err)
			os.Exit(1)
		}
	}

	purged := 0
	if *purge {
		purged, err = dwgfix.Purge(tx, report)
		if err != nil {
			tx.Discard()
			pterm.Error.Println(err)
			os.Exit(1)
		}
	}

	if err := tx.Commit(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	pterm.Info.Printf("Fixed %d inverted polyline normals\n", fixed)
	if *styles {
		pterm.Info.Printf("Normalized %d style records and references\n", renamed)
	}
	if *purge {
		pterm.Info.Printf("Purged %d unreferenced styles\n", purged)
	}

	if *preview != "" {
		if err := render.SavePNG(*preview, doc, 800, 600); err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		pterm.Info.Printf("Preview written to %s\n", *preview)
	}
}

func loadDocument(path string) (*dwgfix.Document, error) {
	if path == "" {
		return demoDocument(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dxf.Load(f)
}

// demoDocument builds a small drawing exhibiting every defect the passes
// fix: an inverted rounded square, an inverted open arc run, duplicate
// text styles and one style nothing uses.
func demoDocument() *dwgfix.Document {
	doc := dwgfix.NewDocument()

	// Rounded unit square drawn in an inverted plane.
	doc.Insert(&dwgfix.Polyline{
		Normal:   dwgfix.V3(0, 0, -1),
		Vertices: []dwgfix.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
		Bulges:   []float64{0, 0.4142, 0, 0.4142},
		Closed:   true,
		Layer:    "walls",
	})

	// Open run of two arcs, also inverted.
	doc.Insert(&dwgfix.Polyline{
		Normal:   dwgfix.V3(0, 0, -1),
		Vertices: []dwgfix.Point{{X: 6, Y: 0}, {X: 8, Y: 2}, {X: 10, Y: 0}},
		Bulges:   []float64{1, -1, 0},
		Layer:    "walls",
	})

	// One healthy polyline that must be left alone.
	doc.Insert(&dwgfix.Polyline{
		Normal:   dwgfix.WorldZ,
		Vertices: []dwgfix.Point{{X: 0, Y: -2}, {X: 10, Y: -2}},
		Bulges:   []float64{0, 0},
		Layer:    "grid",
	})

	doc.Insert(&dwgfix.Style{Name: "Standard", Font: "simplex.shx", WidthFactor: 1})
	doc.Insert(&dwgfix.Style{Name: "STANDARD", Font: "simplex.shx", WidthFactor: 1})
	doc.Insert(&dwgfix.Style{Name: "OldTitle", Font: "romans.shx", WidthFactor: 0.8})
	doc.Insert(&dwgfix.Text{Anchor: dwgfix.Pt(1, 5), Style: "Standard", Height: 0.25, Body: "plan"})

	return doc
}
