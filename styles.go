package dwgfix

import (
	"errors"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var styleFolder = cases.Fold()

// CanonicalStyleName returns the lookup key for a style name: Unicode
// case folding followed by NFC normalization, so "Standard", "STANDARD"
// and a decomposed "Standard" all collide on the same key.
func CanonicalStyleName(name string) string {
	return norm.NFC.String(styleFolder.String(name))
}

// NormalizeStyles canonicalizes text style names across the selection.
//
// Every Style in the selection is renamed to its canonical name. When two
// styles collide on the same canonical name the first one in selection
// order survives and the rest are deleted; Text entities in the selection
// that referenced any colliding spelling are repointed at the survivor.
// The return value counts entities modified (renamed, deleted or
// repointed).
func NormalizeStyles(tx *Tx, sel Selection) (int, error) {
	modified := 0

	// First pass: resolve each canonical name to its surviving style.
	survivors := make(map[string]Handle)
	for _, h := range sel {
		e, err := tx.OpenWrite(h)
		if err != nil {
			if errors.Is(err, ErrTxDone) {
				return modified, err
			}
			Logger().Warn("dwgfix: skipping entity", "handle", h, "err", err)
			continue
		}
		st, ok := e.(*Style)
		if !ok {
			continue
		}
		if err := st.Validate(); err != nil {
			Logger().Warn("dwgfix: skipping style", "handle", h, "err", err)
			continue
		}

		canon := CanonicalStyleName(st.Name)
		if _, taken := survivors[canon]; taken {
			if err := tx.Delete(h); err != nil {
				return modified, err
			}
			modified++
			continue
		}
		survivors[canon] = h
		if st.Name != canon {
			st.Name = canon
			modified++
		}
	}

	// Second pass: repoint text entities at the surviving styles.
	for _, h := range sel {
		e, err := tx.OpenWrite(h)
		if err != nil {
			continue
		}
		t, ok := e.(*Text)
		if !ok {
			continue
		}
		canon := CanonicalStyleName(t.Style)
		if _, known := survivors[canon]; known && t.Style != canon {
			t.Style = canon
			modified++
		}
	}

	return modified, nil
}

// Report summarizes an Audit pass. Counts only; Audit never mutates.
type Report struct {
	// Entities is the total number of entities examined.
	Entities int
	// MalformedPolylines counts polylines failing Validate.
	MalformedPolylines int
	// InvertedNormals counts well-formed polylines whose normal is not
	// the canonical up-axis, i.e. what FlattenNormals would fix.
	InvertedNormals int
	// UnreferencedStyles lists style records no Text entity points at,
	// by canonical name comparison.
	UnreferencedStyles []Handle
}

// Audit scans the document and reports defects without mutating anything.
func Audit(doc *Document) Report {
	rep := Report{Entities: doc.Len()}

	referenced := make(map[string]bool)
	for _, h := range doc.Select(KindText) {
		if t, ok := doc.Get(h).(*Text); ok {
			referenced[CanonicalStyleName(t.Style)] = true
		}
	}

	for _, h := range doc.Select() {
		switch e := doc.Get(h).(type) {
		case *Polyline:
			if e.Validate() != nil {
				rep.MalformedPolylines++
			} else if e.Normal != WorldZ {
				rep.InvertedNormals++
			}
		case *Style:
			if !referenced[CanonicalStyleName(e.Name)] {
				rep.UnreferencedStyles = append(rep.UnreferencedStyles, h)
			}
		}
	}
	return rep
}

// Purge deletes the unreferenced styles found by an Audit and returns the
// number of entities deleted.
func Purge(tx *Tx, rep Report) (int, error) {
	purged := 0
	for _, h := range rep.UnreferencedStyles {
		if err := tx.Delete(h); err != nil {
			if errors.Is(err, ErrTxDone) {
				return purged, err
			}
			Logger().Warn("dwgfix: cannot purge style", "handle", h, "err", err)
			continue
		}
		purged++
	}
	return purged, nil
}
