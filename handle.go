package midx

import "fmt"

// handleKind distinguishes the three concrete representations a Handle may
// take on: a direct node pointer, a translation-array ordinal, or the
// primary key (requiring a lookup to materialize).
type handleKind uint8

const (
	handlePointer handleKind = iota
	handleOrdinal
	handleKey
)

// Handle is the opaque, non-owning identity of a record. Its concrete
// representation is chosen by the Policy and never leaks into
// client code beyond the guarantee that it identifies the same logical
// record for as long as the policy says it remains valid:
//
//   - Stable-node and Key-lookup: valid until the record is physically
//     erased (tombstoned records stay valid and readable).
//   - Update-pointer: valid until the record relocates out from under a
//     handle the caller is still holding (the engine keeps every *stored*
//     handle, i.e. every secondary entry, patched across relocations; a
//     handle the caller is holding externally across a mutating call is not
//     re-patched, matching the node-pointer invalidation rules of the
//     container family it models).
//   - Translation-array: valid across relocations for the engine's own
//     lifetime of the record, because the ordinal never changes.
//
// The zero Handle is invalid; Valid reports whether dereferencing it is safe.
type Handle[K comparable, P any] struct {
	kind handleKind
	rec  *record[K, P]
	ord  int
	key  K
}

func pointerHandle[K comparable, P any](rec *record[K, P]) Handle[K, P] {
	return Handle[K, P]{kind: handlePointer, rec: rec}
}

func ordinalHandle[K comparable, P any](ord int, rec *record[K, P]) Handle[K, P] {
	return Handle[K, P]{kind: handleOrdinal, ord: ord, rec: rec}
}

func keyHandle[K comparable, P any](key K, rec *record[K, P]) Handle[K, P] {
	return Handle[K, P]{kind: handleKey, key: key, rec: rec}
}

// Valid reports whether h refers to a record at all (an end/not-found result
// carries the zero Handle).
func (h Handle[K, P]) Valid() bool {
	return h.rec != nil
}

func (h Handle[K, P]) requireValid() {
	if h.rec == nil {
		panic(fmt.Errorf("midx: use of invalid handle"))
	}
}

// Key returns the record's primary key.
func (h Handle[K, P]) Key() K {
	h.requireValid()
	return h.rec.key
}

// Payload returns a copy of the record's current payload. Dereferencing a
// dead (tombstoned) record is read-only and always permitted; dereferencing
// a handle whose record has been physically removed is a programmer error.
func (h Handle[K, P]) Payload() P {
	h.requireValid()
	return h.rec.payload
}

// IsDead reports whether the record is tombstoned (dead but still
// physically present).
func (h Handle[K, P]) IsDead() bool {
	h.requireValid()
	return h.rec.dead
}

// sameRecord reports whether two handles refer to the same underlying
// record, independent of representation. Used by the pointer-storing
// policies' matchSecondary.
func (h Handle[K, P]) sameRecord(o Handle[K, P]) bool {
	return h.rec == o.rec
}
