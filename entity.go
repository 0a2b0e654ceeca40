package dwgfix

import "fmt"

// Handle identifies an entity within a Document. Handles are assigned by
// the document on insert and are never reused.
type Handle uint64

// Kind is the closed set of entity kinds the cleanup passes recognize.
// Discrimination is always by Kind, never by type-name strings.
type Kind uint8

const (
	// KindPolyline is a planar polyline with optional arc segments.
	KindPolyline Kind = iota + 1
	// KindText is a single-line text entity referencing a Style by name.
	KindText
	// KindStyle is a text style table record.
	KindStyle
)

// String returns the kind's name for logs and reports.
func (k Kind) String() string {
	switch k {
	case KindPolyline:
		return "polyline"
	case KindText:
		return "text"
	case KindStyle:
		return "style"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entity is implemented by every drawing object a Document can own.
// Entities are plain values: constructible without a document, mutated
// in place only through a Tx.
type Entity interface {
	// Kind reports which variant of the closed entity set this is.
	Kind() Kind

	// Clone returns a deep copy. Transactions clone entities before
	// mutating them so a discarded Tx leaves the document untouched.
	Clone() Entity

	// Validate reports whether the entity is well-formed. Cleanup passes
	// validate before mutating and skip entities that fail.
	Validate() error
}

// Text is a single-line text entity.
type Text struct {
	// Anchor is the insertion point in the world XY plane.
	Anchor Point
	// Style names the Style record that formats this text.
	Style string
	// Height is the cap height in drawing units.
	Height float64
	// Body is the rendered string.
	Body string
	// Layer is the drawing layer the text lives on.
	Layer string
}

// Kind returns KindText.
func (t *Text) Kind() Kind { return KindText }

// Clone returns a deep copy of the text entity.
func (t *Text) Clone() Entity {
	c := *t
	return &c
}

// Validate reports whether the text entity is well-formed.
func (t *Text) Validate() error {
	if t.Height < 0 {
		return fmt.Errorf("%w: negative text height %v", ErrMalformedEntity, t.Height)
	}
	return nil
}

// Style is a text style table record.
type Style struct {
	// Name is the style's table key. Lookups from Text entities are by
	// canonical name; see NormalizeStyles.
	Name string
	// Font is the typeface file the style resolves to.
	Font string
	// FixedHeight is the forced text height, or 0 for per-entity heights.
	FixedHeight float64
	// WidthFactor stretches glyphs horizontally; 1 is unscaled.
	WidthFactor float64
	// Oblique is the slant angle in degrees.
	Oblique float64
}

// Kind returns KindStyle.
func (s *Style) Kind() Kind { return KindStyle }

// Clone returns a deep copy of the style record.
func (s *Style) Clone() Entity {
	c := *s
	return &c
}

// Validate reports whether the style record is well-formed.
func (s *Style) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: style with empty name", ErrMalformedEntity)
	}
	return nil
}
