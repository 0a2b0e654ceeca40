package dwgfix

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownEntity is returned when a transaction is asked to open a
// handle the document does not own.
var ErrUnknownEntity = errors.New("dwgfix: unknown entity handle")

// ErrTxDone is returned when a committed or discarded transaction is
// used again.
var ErrTxDone = errors.New("dwgfix: transaction already finished")

// Document owns a set of entities by handle. It stands in for the host
// application's drawing database: the cleanup passes never touch a
// document directly, only through a Tx.
//
// A Document is not safe for concurrent mutation; the caller owning a Tx
// is assumed to have exclusive write access for its duration, as a host
// transaction would guarantee.
type Document struct {
	entities map[Handle]Entity
	order    []Handle
	next     Handle
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		entities: make(map[Handle]Entity),
		next:     1,
	}
}

// Insert adds an entity to the document and returns its handle.
// The document takes ownership of the value.
func (d *Document) Insert(e Entity) Handle {
	h := d.next
	d.next++
	d.entities[h] = e
	d.order = append(d.order, h)
	return h
}

// Get returns the entity for a handle, or nil if the handle is unknown.
// The returned value must be treated as read-only; mutate through a Tx.
func (d *Document) Get(h Handle) Entity {
	return d.entities[h]
}

// Len returns the number of entities in the document.
func (d *Document) Len() int {
	return len(d.entities)
}

// Selection is an ordered collection of entity handles, the unit of work
// the batch passes operate on. Order follows document insertion order.
type Selection []Handle

// Select returns the handles of all entities matching any of the given
// kinds, in insertion order. With no kinds it selects everything.
// This is the library-side stand-in for the host's selection service.
func (d *Document) Select(kinds ...Kind) Selection {
	var sel Selection
	for _, h := range d.order {
		e, ok := d.entities[h]
		if !ok {
			continue
		}
		if len(kinds) == 0 {
			sel = append(sel, h)
			continue
		}
		for _, k := range kinds {
			if e.Kind() == k {
				sel = append(sel, h)
				break
			}
		}
	}
	return sel
}

// Tx stages mutations against a document and applies them atomically on
// Commit. Opening an entity for write hands back a private clone; the
// document never observes a half-mutated entity, and Discard leaves it
// byte-for-byte untouched.
type Tx struct {
	doc     *Document
	staged  map[Handle]Entity
	deleted map[Handle]bool
	done    bool
}

// Begin starts a transaction against the document.
func (d *Document) Begin() *Tx {
	return &Tx{
		doc:     d,
		staged:  make(map[Handle]Entity),
		deleted: make(map[Handle]bool),
	}
}

// OpenWrite returns a writable copy of the entity behind h. Repeated
// opens within one transaction return the same copy, so passes compose.
func (tx *Tx) OpenWrite(h Handle) (Entity, error) {
	if tx.done {
		return nil, ErrTxDone
	}
	if tx.deleted[h] {
		return nil, fmt.Errorf("%w: %d (deleted in this tx)", ErrUnknownEntity, h)
	}
	if e, ok := tx.staged[h]; ok {
		return e, nil
	}
	orig, ok := tx.doc.entities[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntity, h)
	}
	e := orig.Clone()
	tx.staged[h] = e
	return e, nil
}

// Delete marks the entity behind h for removal at Commit. A handle
// already deleted in this transaction is treated as unknown, matching
// OpenWrite, so two passes sharing a Tx cannot delete (and count) the
// same entity twice.
func (tx *Tx) Delete(h Handle) error {
	if tx.done {
		return ErrTxDone
	}
	if tx.deleted[h] {
		return fmt.Errorf("%w: %d (deleted in this tx)", ErrUnknownEntity, h)
	}
	if _, ok := tx.doc.entities[h]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, h)
	}
	delete(tx.staged, h)
	tx.deleted[h] = true
	return nil
}

// Commit applies every staged mutation and deletion to the document.
// After Commit the transaction is finished and must not be reused.
func (tx *Tx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	tx.done = true

	for h, e := range tx.staged {
		tx.doc.entities[h] = e
	}
	if len(tx.deleted) > 0 {
		for h := range tx.deleted {
			delete(tx.doc.entities, h)
		}
		kept := tx.doc.order[:0]
		for _, h := range tx.doc.order {
			if !tx.deleted[h] {
				kept = append(kept, h)
			}
		}
		tx.doc.order = kept
	}

	Logger().Debug("dwgfix: tx committed",
		"staged", len(tx.staged), "deleted", len(tx.deleted))
	return nil
}

// Discard drops every staged mutation. The document is unchanged.
func (tx *Tx) Discard() {
	if tx.done {
		return
	}
	tx.done = true
	tx.staged = nil
	tx.deleted = nil
}

// Handles returns every live handle in the document, sorted. Intended for
// tests and reports.
func (d *Document) Handles() []Handle {
	hs := make([]Handle, 0, len(d.entities))
	for h := range d.entities {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}
