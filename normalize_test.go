package dwgfix

import (
	"errors"
	"math"
	"testing"
)

func invertedSquare() *Polyline {
	return &Polyline{
		Normal:   V3(0, 0, -1),
		Vertices: []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Bulges:   []float64{0, 1, 0, -1},
		Closed:   true,
	}
}

func TestFlattenNormalCanonicalIsNoOp(t *testing.T) {
	pl := &Polyline{
		Normal:   WorldZ,
		Vertices: []Point{{0, 0}, {1, 0}, {1, 1}},
		Bulges:   []float64{0, 0.5, 0},
	}
	before := pl.Clone().(*Polyline)

	n, err := FlattenNormal(pl)
	if err != nil {
		t.Fatalf("FlattenNormal() error = %v", err)
	}
	if n != 0 {
		t.Errorf("FlattenNormal() = %d, want 0", n)
	}
	for i := range pl.Vertices {
		if pl.Vertices[i] != before.Vertices[i] || pl.Bulges[i] != before.Bulges[i] {
			t.Fatalf("no-op call mutated vertex %d", i)
		}
	}
}

func TestFlattenNormalInvertedSquare(t *testing.T) {
	pl := invertedSquare()

	n, err := FlattenNormal(pl)
	if err != nil {
		t.Fatalf("FlattenNormal() error = %v", err)
	}
	if n != 1 {
		t.Errorf("FlattenNormal() = %d, want 1", n)
	}
	if pl.Normal != WorldZ {
		t.Errorf("normal = %+v, want WorldZ", pl.Normal)
	}

	// Under the arbitrary axis algorithm the (0,0,-1) frame mirrors the
	// X axis, so stored X coordinates negate and every bulge flips sign.
	wantVertices := []Point{{0, 0}, {-1, 0}, {-1, 1}, {0, 1}}
	wantBulges := []float64{0, -1, 0, 1}
	for i := range wantVertices {
		if !pl.Vertices[i].Approx(wantVertices[i], eps) {
			t.Errorf("vertex %d = %+v, want %+v", i, pl.Vertices[i], wantVertices[i])
		}
		if pl.Bulges[i] != wantBulges[i] {
			t.Errorf("bulge %d = %v, want %v", i, pl.Bulges[i], wantBulges[i])
		}
	}
}

func TestFlattenNormalPreservesWorldShape(t *testing.T) {
	pl := invertedSquare()
	before := pl.WorldOutline()

	if _, err := FlattenNormal(pl); err != nil {
		t.Fatalf("FlattenNormal() error = %v", err)
	}
	after := pl.WorldOutline()

	if len(before) != len(after) {
		t.Fatalf("outline length changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if !before[i].Approx(after[i], 1e-9) {
			t.Errorf("world point %d moved: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestFlattenNormalDoubleApply(t *testing.T) {
	pl := invertedSquare()
	if _, err := FlattenNormal(pl); err != nil {
		t.Fatalf("first FlattenNormal() error = %v", err)
	}
	snapshot := pl.Clone().(*Polyline)

	n, err := FlattenNormal(pl)
	if err != nil {
		t.Fatalf("second FlattenNormal() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second FlattenNormal() = %d, want 0", n)
	}
	for i := range pl.Vertices {
		if pl.Vertices[i] != snapshot.Vertices[i] || pl.Bulges[i] != snapshot.Bulges[i] {
			t.Fatalf("second call mutated vertex %d", i)
		}
	}
}

func TestFlattenNormalBulgeSigns(t *testing.T) {
	cases := []struct {
		name    string
		normal  Vec3
		flipped bool
	}{
		{"inverted", V3(0, 0, -1), true},
		{"tilted down", V3(0.6, 0, -0.8), true},
		{"tilted up", V3(0.6, 0, 0.8), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pl := &Polyline{
				Normal:   tc.normal,
				Vertices: []Point{{0, 0}, {1, 0}, {2, 1}},
				Bulges:   []float64{0.25, -0.75, 0},
			}
			before := append([]float64(nil), pl.Bulges...)

			if _, err := FlattenNormal(pl); err != nil {
				t.Fatalf("FlattenNormal() error = %v", err)
			}
			for i, b := range pl.Bulges {
				if math.Abs(b) != math.Abs(before[i]) {
					t.Errorf("bulge %d magnitude changed: %v -> %v", i, before[i], b)
				}
				want := before[i]
				if tc.flipped {
					want = -want
				}
				if b != want {
					t.Errorf("bulge %d = %v, want %v", i, b, want)
				}
			}
		})
	}
}

func TestFlattenNormalTiltedKeepsWorldVertices(t *testing.T) {
	pl := &Polyline{
		Normal:    V3(1.0/3, 2.0/3, 2.0/3),
		Vertices:  []Point{{0, 0}, {3, 0}, {3, 4}},
		Bulges:    []float64{0, 0, 0},
		Elevation: 2,
	}
	f := pl.Frame()
	var want []Vec3
	for _, v := range pl.Vertices {
		want = append(want, f.ToWorld(v, pl.Elevation))
	}

	if _, err := FlattenNormal(pl); err != nil {
		t.Fatalf("FlattenNormal() error = %v", err)
	}
	for i, v := range pl.Vertices {
		if math.Abs(v.X-want[i].X) > 1e-9 || math.Abs(v.Y-want[i].Y) > 1e-9 {
			t.Errorf("vertex %d = %+v, want world X/Y %+v", i, v, want[i])
		}
	}
	if pl.Elevation != 2 {
		t.Errorf("elevation = %v, want 2 (never modified)", pl.Elevation)
	}
}

func TestFlattenNormalMalformed(t *testing.T) {
	pl := &Polyline{
		Normal:   V3(0, 0, -1),
		Vertices: []Point{{0, 0}, {1, 0}},
		Bulges:   []float64{0},
	}
	n, err := FlattenNormal(pl)
	if !errors.Is(err, ErrMalformedEntity) {
		t.Fatalf("FlattenNormal() error = %v, want ErrMalformedEntity", err)
	}
	if n != 0 {
		t.Errorf("FlattenNormal() = %d, want 0", n)
	}
	if pl.Normal != V3(0, 0, -1) || pl.Vertices[1] != (Point{1, 0}) {
		t.Error("failed flatten mutated the entity")
	}
}

func TestFlattenNormalNonUnit(t *testing.T) {
	pl := &Polyline{
		Normal:   V3(0, 0, -2),
		Vertices: []Point{{0, 0}, {1, 0}},
		Bulges:   []float64{0, 0},
	}
	n, err := FlattenNormal(pl)
	if !errors.Is(err, ErrMalformedEntity) {
		t.Fatalf("FlattenNormal() error = %v, want ErrMalformedEntity", err)
	}
	if n != 0 || pl.Normal != V3(0, 0, -2) {
		t.Error("non-unit flatten mutated the entity")
	}
}

func TestFlattenNormalDegenerate(t *testing.T) {
	pl := &Polyline{
		Normal:   V3(1, 0, 0),
		Vertices: []Point{{0, 0}, {1, 0}},
		Bulges:   []float64{0, 0},
	}
	if _, err := FlattenNormal(pl); !errors.Is(err, ErrDegenerateNormal) {
		t.Fatalf("FlattenNormal() error = %v, want ErrDegenerateNormal", err)
	}
	if pl.Normal != V3(1, 0, 0) {
		t.Error("degenerate flatten mutated the entity")
	}
}

func TestFlattenNormalsBatchCount(t *testing.T) {
	doc := NewDocument()
	doc.Insert(invertedSquare())
	doc.Insert(&Polyline{
		Normal:   WorldZ,
		Vertices: []Point{{5, 5}, {6, 5}},
		Bulges:   []float64{0, 0},
	})
	doc.Insert(&Polyline{
		Normal:   V3(0, 0, -1),
		Vertices: []Point{{0, 5}, {1, 5}},
		Bulges:   []float64{0, 0},
	})
	doc.Insert(&Polyline{ // malformed, must be skipped
		Normal:   V3(0, 0, -1),
		Vertices: []Point{{0, 0}, {1, 1}},
		Bulges:   []float64{0},
	})
	doc.Insert(&Text{Style: "Standard", Body: "note"})

	tx := doc.Begin()
	fixed, err := FlattenNormals(tx, doc.Select())
	if err != nil {
		t.Fatalf("FlattenNormals() error = %v", err)
	}
	if fixed != 2 {
		t.Errorf("FlattenNormals() = %d, want 2", fixed)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
}

func TestFlattenNormalsEmptySelection(t *testing.T) {
	doc := NewDocument()
	tx := doc.Begin()
	fixed, err := FlattenNormals(tx, nil)
	if err != nil {
		t.Fatalf("FlattenNormals() error = %v", err)
	}
	if fixed != 0 {
		t.Errorf("FlattenNormals() = %d, want 0", fixed)
	}
	tx.Discard()
}

func TestFlattenNormalsDiscardLeavesDocument(t *testing.T) {
	doc := NewDocument()
	h := doc.Insert(invertedSquare())

	tx := doc.Begin()
	if _, err := FlattenNormals(tx, doc.Select(KindPolyline)); err != nil {
		t.Fatalf("FlattenNormals() error = %v", err)
	}
	tx.Discard()

	pl := doc.Get(h).(*Polyline)
	if pl.Normal != V3(0, 0, -1) {
		t.Errorf("discarded tx leaked: normal = %+v", pl.Normal)
	}
}
